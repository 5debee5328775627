package storage

import (
	"errors"
	"math"
	"slices"
	"testing"

	"minidb/internal/dberr"
	"minidb/internal/sql"
)

func newUsers(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable("users", sql.Schema{
		{Name: "id", Type: sql.TypeInt},
		{Name: "name", Type: sql.TypeText},
	})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	return tbl
}

func row(id int64, name string) sql.Row {
	return sql.Row{sql.IntValue(id), sql.TextValue(name)}
}

// checkIndexConsistent verifies that the index on col holds exactly one
// entry per live row, keyed by that row's current value.
func checkIndexConsistent(t *testing.T, tbl *Table, col string) {
	t.Helper()
	idx, ok := tbl.Index(col)
	if !ok {
		t.Fatalf("no index on %s", col)
	}
	pos := tbl.ColumnIndex(col)

	if idx.Len() != tbl.Len() {
		t.Fatalf("index %s has %d entries for %d rows", col, idx.Len(), tbl.Len())
	}
	for key, rid := range idx.All() {
		r, live := tbl.Get(rid)
		if !live {
			t.Fatalf("index %s points at dead row %d", col, rid)
		}
		if r[pos] != key {
			t.Fatalf("index %s: row %d has %v, index says %v", col, rid, r[pos], key)
		}
	}
}

func TestTable_InsertAssignsIncreasingRowIDs(t *testing.T) {
	tbl := newUsers(t)

	for i, name := range []string{"A", "B", "C"} {
		id, err := tbl.Insert(row(int64(i+1), name))
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if id != RowID(i) {
			t.Fatalf("expected row-id %d, got %d", i, id)
		}
	}

	// Deleting the last row must not make its id reusable.
	if _, ok := tbl.Delete(2); !ok {
		t.Fatalf("Delete failed")
	}
	id, _ := tbl.Insert(row(4, "D"))
	if id != 3 {
		t.Fatalf("expected row-id 3 after delete, got %d", id)
	}

	var ids []RowID
	for id := range tbl.Scan() {
		ids = append(ids, id)
	}
	if !slices.Equal(ids, []RowID{0, 1, 3}) {
		t.Fatalf("unexpected scan order: %v", ids)
	}
}

func TestTable_InsertValidatesRow(t *testing.T) {
	tbl := newUsers(t)

	if _, err := tbl.Insert(sql.Row{sql.IntValue(1)}); !errors.Is(err, dberr.ErrArity) {
		t.Fatalf("expected ErrArity, got %v", err)
	}
	if _, err := tbl.Insert(sql.Row{sql.TextValue("1"), sql.TextValue("x")}); !errors.Is(err, dberr.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
	if tbl.Len() != 0 || tbl.NextRowID() != 0 {
		t.Fatalf("rejected rows must not consume row-ids")
	}
}

func TestTable_IndexFollowsMutations(t *testing.T) {
	tbl := newUsers(t)
	_, _ = tbl.Insert(row(1, "A"))
	_, _ = tbl.Insert(row(2, "B"))

	if _, err := tbl.CreateIndex("name"); err != nil {
		t.Fatalf("CreateIndex failed: %v", err)
	}
	checkIndexConsistent(t, tbl, "name")

	_, _ = tbl.Insert(row(3, "A"))
	checkIndexConsistent(t, tbl, "name")

	old, err := tbl.Update(0, row(1, "Z"))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if old[1] != sql.TextValue("A") {
		t.Fatalf("Update returned wrong old row: %v", old)
	}
	checkIndexConsistent(t, tbl, "name")

	idx, _ := tbl.Index("name")
	if got := idx.Search(sql.TextValue("A")); !slices.Equal(got, []RowID{2}) {
		t.Fatalf("expected only row 2 under A, got %v", got)
	}

	removed, _ := tbl.Delete(1)
	checkIndexConsistent(t, tbl, "name")

	// Restore puts the row and its index entry back.
	if err := tbl.Restore(1, removed); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	checkIndexConsistent(t, tbl, "name")
	if err := tbl.Restore(1, removed); err == nil {
		t.Fatalf("Restore of a live row should fail")
	}
}

func TestTable_UpdateMovesIndexKeyBetweenSignedZeros(t *testing.T) {
	tbl, err := NewTable("m", sql.Schema{{Name: "v", Type: sql.TypeFloat}})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	id, _ := tbl.Insert(sql.Row{sql.FloatValue(0)})
	if _, err := tbl.CreateIndex("v"); err != nil {
		t.Fatalf("CreateIndex failed: %v", err)
	}

	negZero := math.Copysign(0, -1)
	if _, err := tbl.Update(id, sql.Row{sql.FloatValue(negZero)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	idx, _ := tbl.Index("v")
	if idx.Len() != 1 {
		t.Fatalf("expected 1 index entry, got %d", idx.Len())
	}
	for key := range idx.All() {
		if !math.Signbit(key.F64) {
			t.Fatalf("index key %v kept the old sign", key)
		}
	}
}

func TestTable_CreateIndexErrors(t *testing.T) {
	tbl := newUsers(t)

	if _, err := tbl.CreateIndex("nope"); !errors.Is(err, dberr.ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound, got %v", err)
	}
	if _, err := tbl.CreateIndex("id"); err != nil {
		t.Fatalf("CreateIndex failed: %v", err)
	}
	if _, err := tbl.CreateIndex("id"); !errors.Is(err, dberr.ErrIndexExists) {
		t.Fatalf("expected ErrIndexExists, got %v", err)
	}

	_, _ = tbl.CreateIndex("name")
	if got := tbl.IndexedColumns(); !slices.Equal(got, []string{"id", "name"}) {
		t.Fatalf("IndexedColumns should follow schema order, got %v", got)
	}
}

func TestNewTable_RejectsBadSchema(t *testing.T) {
	if _, err := NewTable("t", sql.Schema{}); err == nil {
		t.Fatalf("expected error for empty schema")
	}
	if _, err := NewTable("t", sql.Schema{{Name: "a", Type: sql.TypeInt}, {Name: "a", Type: sql.TypeText}}); err == nil {
		t.Fatalf("expected error for duplicate column")
	}
}

func TestCatalog(t *testing.T) {
	c := NewCatalog()

	if _, err := c.Create("b", sql.Schema{{Name: "x", Type: sql.TypeInt}}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := c.Create("a", sql.Schema{{Name: "y", Type: sql.TypeText}}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := c.Create("a", sql.Schema{{Name: "y", Type: sql.TypeText}}); !errors.Is(err, dberr.ErrTableExists) {
		t.Fatalf("expected ErrTableExists, got %v", err)
	}
	if got := c.Names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("unexpected names: %v", got)
	}

	schema, ok := c.TableSchema("b")
	if !ok || len(schema) != 1 || schema[0].Name != "x" {
		t.Fatalf("unexpected schema: %v %v", schema, ok)
	}
	// The returned schema is a copy.
	schema[0].Name = "changed"
	if s, _ := c.TableSchema("b"); s[0].Name != "x" {
		t.Fatalf("catalog schema was mutated through TableSchema")
	}

	b, _ := c.Table("b")
	_, _ = b.CreateIndex("x")
	if !c.HasIndex("b", "x") || c.HasIndex("a", "y") || c.HasIndex("zz", "x") {
		t.Fatalf("HasIndex is wrong")
	}

	c.Remove("a")
	if _, ok := c.Table("a"); ok || c.Len() != 1 {
		t.Fatalf("Remove did not forget the table")
	}
}
