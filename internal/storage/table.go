package storage

import (
	"fmt"
	"iter"
	"math"

	gbtree "github.com/google/btree"

	"minidb/internal/dberr"
	"minidb/internal/index/btree"
	"minidb/internal/sql"
)

// RowID identifies a row within its table.
type RowID = btree.RowID

type rowItem struct {
	id  RowID
	row sql.Row
}

func lessRowItem(a, b rowItem) bool { return a.id < b.id }

// Table is the in-memory heap of one table: its schema, its live rows keyed
// by row-id, and the indexes derived from those rows.
//
// Every mutating method keeps the indexes in step with the rows, so a caller
// never has to touch an index directly. Table is not safe for concurrent use.
type Table struct {
	name    string
	schema  sql.Schema
	rows    *gbtree.BTreeG[rowItem]
	nextID  RowID
	indexes *btree.Manager
}

// NewTable creates an empty table. The schema must be valid.
func NewTable(name string, schema sql.Schema) (*Table, error) {
	if name == "" {
		return nil, fmt.Errorf("empty table name")
	}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("table %q: %w", name, err)
	}
	return &Table{
		name:    name,
		schema:  schema.Clone(),
		rows:    gbtree.NewG(16, lessRowItem),
		indexes: btree.NewManager(name),
	}, nil
}

func (t *Table) Name() string { return t.name }

// Schema returns a copy of the table's columns.
func (t *Table) Schema() sql.Schema { return t.schema.Clone() }

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int { return t.schema.Index(name) }

// Len is the number of live rows.
func (t *Table) Len() int { return t.rows.Len() }

// NextRowID is the row-id the next Insert will assign.
func (t *Table) NextRowID() RowID { return t.nextID }

// checkRow verifies arity and exact column types. Coercion is the caller's job.
func (t *Table) checkRow(row sql.Row) error {
	if len(row) != len(t.schema) {
		return fmt.Errorf("table %q: %w: expected %d values, got %d", t.name, dberr.ErrArity, len(t.schema), len(row))
	}
	for i, col := range t.schema {
		if row[i].Type != col.Type {
			return fmt.Errorf("column %q: %w: expected %s, got %s", col.Name, dberr.ErrTypeMismatch, col.Type, row[i].Type)
		}
	}
	return nil
}

// Insert appends a row under a fresh row-id and indexes it.
func (t *Table) Insert(row sql.Row) (RowID, error) {
	if err := t.checkRow(row); err != nil {
		return 0, err
	}
	id := t.nextID
	t.nextID++
	t.put(id, row.Clone())
	return id, nil
}

// Restore re-inserts a row under a row-id it held before, for undoing a
// delete. The id must not be live.
func (t *Table) Restore(id RowID, row sql.Row) error {
	if err := t.checkRow(row); err != nil {
		return err
	}
	if _, live := t.rows.Get(rowItem{id: id}); live {
		return fmt.Errorf("table %q: row %d is live", t.name, id)
	}
	if id >= t.nextID {
		t.nextID = id + 1
	}
	t.put(id, row.Clone())
	return nil
}

func (t *Table) put(id RowID, row sql.Row) {
	t.rows.ReplaceOrInsert(rowItem{id: id, row: row})
	for _, col := range t.indexes.Columns() {
		idx, _ := t.indexes.Get(col)
		// Types were checked against the schema, so Insert cannot fail.
		_ = idx.Insert(row[t.schema.Index(col)], id)
	}
}

// Get returns the live row with the given id. The row must not be modified.
func (t *Table) Get(id RowID) (sql.Row, bool) {
	it, ok := t.rows.Get(rowItem{id: id})
	return it.row, ok
}

// Update replaces row id with newRow and moves its index entries for every
// indexed column whose value changed. It returns the previous row.
func (t *Table) Update(id RowID, newRow sql.Row) (sql.Row, error) {
	if err := t.checkRow(newRow); err != nil {
		return nil, err
	}
	it, ok := t.rows.Get(rowItem{id: id})
	if !ok {
		return nil, fmt.Errorf("table %q: row %d does not exist", t.name, id)
	}
	old := it.row
	newRow = newRow.Clone()

	for _, col := range t.indexes.Columns() {
		pos := t.schema.Index(col)
		if sameKey(old[pos], newRow[pos]) {
			continue
		}
		idx, _ := t.indexes.Get(col)
		idx.Delete(old[pos], id)
		_ = idx.Insert(newRow[pos], id)
	}
	t.rows.ReplaceOrInsert(rowItem{id: id, row: newRow})
	return old, nil
}

// Delete removes row id and its entries in every index. It returns the
// removed row.
func (t *Table) Delete(id RowID) (sql.Row, bool) {
	it, ok := t.rows.Delete(rowItem{id: id})
	if !ok {
		return nil, false
	}
	for _, col := range t.indexes.Columns() {
		idx, _ := t.indexes.Get(col)
		idx.Delete(it.row[t.schema.Index(col)], id)
	}
	return it.row, true
}

// Scan iterates live rows in ascending row-id order. The table must not be
// mutated while the sequence is being consumed.
func (t *Table) Scan() iter.Seq2[RowID, sql.Row] {
	return func(yield func(RowID, sql.Row) bool) {
		t.rows.Ascend(func(it rowItem) bool {
			return yield(it.id, it.row)
		})
	}
}

// CreateIndex builds an index on column with one pass over the live rows.
func (t *Table) CreateIndex(column string) (*btree.Index, error) {
	pos := t.schema.Index(column)
	if pos < 0 {
		return nil, fmt.Errorf("table %q: %w: %q", t.name, dberr.ErrColumnNotFound, column)
	}
	idx, err := t.indexes.Create(column, t.schema[pos].Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dberr.ErrIndexExists, err)
	}
	for id, row := range t.Scan() {
		_ = idx.Insert(row[pos], id)
	}
	return idx, nil
}

// DropIndex removes the index on column, if any.
func (t *Table) DropIndex(column string) bool { return t.indexes.Drop(column) }

// Index returns the index on column, if any.
func (t *Table) Index(column string) (*btree.Index, bool) { return t.indexes.Get(column) }

// HasIndex reports whether column is indexed.
func (t *Table) HasIndex(column string) bool {
	_, ok := t.indexes.Get(column)
	return ok
}

// IndexedColumns returns the indexed column names in schema order.
func (t *Table) IndexedColumns() []string {
	var out []string
	for _, c := range t.schema {
		if t.HasIndex(c.Name) {
			out = append(out, c.Name)
		}
	}
	return out
}

// sameKey reports whether a and b are bit-for-bit the same value, so that
// -0.0 and 0.0 are told apart.
func sameKey(a, b sql.Value) bool {
	if a.Type == sql.TypeFloat && b.Type == sql.TypeFloat {
		return math.Float64bits(a.F64) == math.Float64bits(b.F64)
	}
	return a == b
}
