package engine

import (
	"minidb/internal/dberr"
	"minidb/internal/planner"
)

func (e *DBEngine) executeDelete(p *planner.DeletePlan) (*Result, error) {
	const op = "DELETE"
	t, ok := e.catalog.Table(p.Table)
	if !ok {
		return nil, dberr.Wrap(dberr.KindExec, op, dberr.ErrTableNotFound, "table %q", p.Table)
	}

	ids, err := matchingRowIDs(op, t, p.Access)
	if err != nil {
		return nil, err
	}

	tx := e.begin(op, t)
	deleted := 0
	for _, id := range ids {
		if tx.delete(id) {
			deleted++
		}
	}
	if err := tx.commit(); err != nil {
		return nil, err
	}
	return rowsAffected(deleted), nil
}
