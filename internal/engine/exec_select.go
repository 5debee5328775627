package engine

import (
	"minidb/internal/dberr"
	"minidb/internal/planner"
	"minidb/internal/sql"
	"minidb/internal/storage"
)

// executeSelect walks the chosen access path and projects each row.
func (e *DBEngine) executeSelect(p *planner.SelectPlan) (*Result, error) {
	const op = "SELECT"
	t, ok := e.catalog.Table(p.Table)
	if !ok {
		return nil, dberr.Wrap(dberr.KindExec, op, dberr.ErrTableNotFound, "table %q", p.Table)
	}

	res := &Result{Kind: ResultRowSet, Columns: p.Columns, Rows: []sql.Row{}}
	err := forEachMatch(op, t, p.Access, func(_ storage.RowID, row sql.Row) bool {
		res.Rows = append(res.Rows, projectRow(row, p.Projection))
		return true
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
