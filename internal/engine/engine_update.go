package engine

import (
	"minidb/internal/dberr"
	"minidb/internal/planner"
	"minidb/internal/sql"
)

// applyAssignments returns a copy of row with the assignments applied in
// statement order. Values were coerced to the column types by the planner.
func applyAssignments(row sql.Row, sets []planner.SetColumn) sql.Row {
	out := row.Clone()
	for _, a := range sets {
		out[a.Pos] = a.Value
	}
	return out
}

// buildInsertRow binds the VALUES list to schema positions and coerces each
// value to its column type. Every check happens before anything is written.
func buildInsertRow(schema sql.Schema, p *planner.InsertPlan) (sql.Row, error) {
	const op = "INSERT"
	if len(p.Values) != len(schema) {
		return nil, dberr.Wrap(dberr.KindExec, op, dberr.ErrArity,
			"table %q has %d columns but %d values were given", p.Table, len(schema), len(p.Values))
	}

	row := make(sql.Row, len(schema))
	for i, v := range p.Values {
		pos := i
		if p.Positions != nil {
			pos = p.Positions[i]
		}
		col := schema[pos]
		cv, err := sql.Coerce(v, col.Type)
		if err != nil {
			return nil, dberr.Wrap(dberr.KindExec, op, dberr.ErrTypeMismatch,
				"column %q is %s but value %s is %s", col.Name, col.Type, v.Quoted(), v.Type)
		}
		row[pos] = cv
	}
	return row, nil
}
