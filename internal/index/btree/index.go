package btree

import (
	"errors"
	"fmt"
	"iter"

	gbtree "github.com/google/btree"

	"minidb/internal/sql"
)

// degree of the underlying B-tree nodes.
const degree = 16

var (
	// ErrIndexExists is returned when a column already has an index.
	ErrIndexExists = errors.New("btree: index already exists")
	// ErrUnsupportedOp is returned by Range for operators an index cannot serve.
	ErrUnsupportedOp = errors.New("btree: operator not supported by index")
)

// Meta carries basic information about an index.
type Meta struct {
	TableName string // e.g. "users"
	Column    string // e.g. "id"
}

// Index is an ordered multimap from one column's values to row-ids.
//
// It is not safe for concurrent use, and it must not be mutated while one
// of its iterators is being consumed.
type Index struct {
	meta    Meta
	keyType sql.DataType
	tree    *gbtree.BTreeG[entry]
}

// New creates an empty index over keys of the given type.
func New(meta Meta, keyType sql.DataType) *Index {
	return &Index{
		meta:    meta,
		keyType: keyType,
		tree:    gbtree.NewG(degree, lessEntry),
	}
}

func (ix *Index) Meta() Meta            { return ix.meta }
func (ix *Index) KeyType() sql.DataType { return ix.keyType }
func (ix *Index) Len() int              { return ix.tree.Len() }
func (ix *Index) String() string        { return ix.meta.TableName + "." + ix.meta.Column }

func (ix *Index) checkType(key sql.Value) error {
	if key.Type != ix.keyType {
		return fmt.Errorf("index %s: key of type %s, want %s", ix, key.Type, ix.keyType)
	}
	return nil
}

// Insert adds a mapping key -> rid. Inserting an existing pair is a no-op.
func (ix *Index) Insert(key sql.Value, rid RowID) error {
	if err := ix.checkType(key); err != nil {
		return err
	}
	ix.tree.ReplaceOrInsert(entry{key: key, rowID: rid})
	return nil
}

// Delete removes the single mapping key -> rid and reports whether it was
// present. Other row-ids sharing the key are kept.
func (ix *Index) Delete(key sql.Value, rid RowID) bool {
	_, ok := ix.tree.Delete(entry{key: key, rowID: rid})
	return ok
}

// Search returns the row-ids stored under key in ascending order, or nil.
func (ix *Index) Search(key sql.Value) []RowID {
	var out []RowID
	ix.tree.AscendGreaterOrEqual(entry{key: key, rowID: minRowID}, func(e entry) bool {
		if compareKeys(e.key, key) != 0 {
			return false
		}
		out = append(out, e.rowID)
		return true
	})
	return out
}

const minRowID RowID = -1 << 63

// Range returns a lazy ascending sequence of the row-ids whose key k
// satisfies "k op bound". op may be =, <, <=, > or >=.
func (ix *Index) Range(op sql.CompareOp, bound sql.Value) (iter.Seq[RowID], error) {
	if err := ix.checkType(bound); err != nil {
		return nil, err
	}

	switch op {
	case sql.OpEq, sql.OpGe, sql.OpGt:
		// Position at the first entry with key >= bound, skip equal keys for >
		// and stop at the first greater key for =.
		return func(yield func(RowID) bool) {
			ix.tree.AscendGreaterOrEqual(entry{key: bound, rowID: minRowID}, func(e entry) bool {
				c := compareKeys(e.key, bound)
				switch {
				case op == sql.OpEq && c != 0:
					return false
				case op == sql.OpGt && c == 0:
					return true
				}
				return yield(e.rowID)
			})
		}, nil

	case sql.OpLt, sql.OpLe:
		return func(yield func(RowID) bool) {
			ix.tree.Ascend(func(e entry) bool {
				if !op.Holds(compareKeys(e.key, bound)) {
					return false
				}
				return yield(e.rowID)
			})
		}, nil

	default:
		return nil, fmt.Errorf("index %s: %w: %s", ix, ErrUnsupportedOp, op)
	}
}

// All iterates every (key, row-id) pair in index order.
func (ix *Index) All() iter.Seq2[sql.Value, RowID] {
	return func(yield func(sql.Value, RowID) bool) {
		ix.tree.Ascend(func(e entry) bool {
			return yield(e.key, e.rowID)
		})
	}
}

// Clear drops every entry.
func (ix *Index) Clear() {
	ix.tree.Clear(false)
}
