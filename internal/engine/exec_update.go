package engine

import (
	"minidb/internal/dberr"
	"minidb/internal/planner"
)

// executeUpdate collects the qualifying row-ids first, then rewrites each
// row. Table.Update moves the index entries of changed indexed columns.
func (e *DBEngine) executeUpdate(p *planner.UpdatePlan) (*Result, error) {
	const op = "UPDATE"
	t, ok := e.catalog.Table(p.Table)
	if !ok {
		return nil, dberr.Wrap(dberr.KindExec, op, dberr.ErrTableNotFound, "table %q", p.Table)
	}

	ids, err := matchingRowIDs(op, t, p.Access)
	if err != nil {
		return nil, err
	}

	tx := e.begin(op, t)
	for _, id := range ids {
		row, _ := t.Get(id)
		if err := tx.update(id, applyAssignments(row, p.Assignments)); err != nil {
			tx.rollback()
			return nil, dberr.Wrap(dberr.KindExec, op, err, "row %d", id)
		}
	}
	if err := tx.commit(); err != nil {
		return nil, err
	}
	return rowsAffected(len(ids)), nil
}
