package engine

import (
	"minidb/internal/dberr"
	"minidb/internal/planner"
	"minidb/internal/sql"
	"minidb/internal/storage"
)

// forEachMatch calls fn for every row selected by acc, in row-id order for a
// full scan and in index order (key, then row-id) for index access. fn
// returning false stops the walk. The table must not be mutated from fn.
func forEachMatch(op string, t *storage.Table, acc planner.Access, fn func(storage.RowID, sql.Row) bool) error {
	switch acc.Kind {
	case planner.FullScan:
		var ferr error
		for id, row := range t.Scan() {
			if acc.Filter != nil {
				ok, err := acc.Filter.Matches(row)
				if err != nil {
					ferr = dberr.Wrap(dberr.KindExec, op, dberr.ErrTypeMismatch, "%v", err)
					break
				}
				if !ok {
					continue
				}
			}
			if !fn(id, row) {
				break
			}
		}
		return ferr

	case planner.IndexLookup, planner.IndexRangeScan:
		idx, ok := t.Index(acc.Column)
		if !ok {
			return dberr.New(dberr.KindExec, op, "no index on %s.%s", t.Name(), acc.Column)
		}
		seq, err := idx.Range(acc.Op, acc.Key)
		if err != nil {
			return dberr.Wrap(dberr.KindExec, op, err, "index scan")
		}
		for id := range seq {
			row, live := t.Get(id)
			if !live {
				return dberr.New(dberr.KindExec, op, "index %s.%s points at missing row %d", t.Name(), acc.Column, id)
			}
			if !fn(id, row) {
				break
			}
		}
		return nil

	default:
		return dberr.New(dberr.KindExec, op, "unknown access kind %v", acc.Kind)
	}
}

// matchingRowIDs materializes the qualifying row-ids so the caller can
// mutate the table afterwards.
func matchingRowIDs(op string, t *storage.Table, acc planner.Access) ([]storage.RowID, error) {
	var ids []storage.RowID
	err := forEachMatch(op, t, acc, func(id storage.RowID, _ sql.Row) bool {
		ids = append(ids, id)
		return true
	})
	return ids, err
}

// projectRow returns only the requested columns (in that order).
func projectRow(row sql.Row, positions []int) sql.Row {
	out := make(sql.Row, len(positions))
	for i, pos := range positions {
		out[i] = row[pos]
	}
	return out
}
