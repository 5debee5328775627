package engine

import (
	"minidb/internal/dberr"
	"minidb/internal/planner"
)

func (e *DBEngine) executeInsert(p *planner.InsertPlan) (*Result, error) {
	const op = "INSERT"
	t, ok := e.catalog.Table(p.Table)
	if !ok {
		return nil, dberr.Wrap(dberr.KindExec, op, dberr.ErrTableNotFound, "table %q", p.Table)
	}

	row, err := buildInsertRow(t.Schema(), p)
	if err != nil {
		return nil, err
	}

	tx := e.begin(op, t)
	if _, err := tx.insert(row); err != nil {
		return nil, dberr.Wrap(dberr.KindExec, op, err, "")
	}
	if err := tx.commit(); err != nil {
		return nil, err
	}
	return rowsAffected(1), nil
}
