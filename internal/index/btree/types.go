package btree

import (
	"cmp"

	"minidb/internal/sql"
)

// RowID identifies a row within its table. Row-ids are assigned in
// increasing order and never reused after a delete.
type RowID int64

// entry is one (key, row-id) pair. Entries are ordered by key and then by
// row-id, so equal keys iterate in ascending row-id order.
type entry struct {
	key   sql.Value
	rowID RowID
}

func lessEntry(a, b entry) bool {
	if c := compareKeys(a.key, b.key); c != 0 {
		return c < 0
	}
	return a.rowID < b.rowID
}

// compareKeys orders keys of one type via sql.Compare. Keys of different
// types never share an index; ordering them by type keeps the tree total.
func compareKeys(a, b sql.Value) int {
	c, err := sql.Compare(a, b)
	if err != nil {
		return cmp.Compare(a.Type, b.Type)
	}
	return c
}
