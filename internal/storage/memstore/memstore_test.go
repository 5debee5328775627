package memstore

import (
	"errors"
	"testing"

	"minidb/internal/sql"
	"minidb/internal/storage"
)

// TestMemstoreSaveAndLoad verifies that a saved table comes back as an
// independent copy with its rows and index definitions.
func TestMemstoreSaveAndLoad(t *testing.T) {
	store := New()

	// 1. Build a table with two rows and an index
	tbl, err := storage.NewTable("users", sql.Schema{
		{Name: "id", Type: sql.TypeInt},
		{Name: "name", Type: sql.TypeText},
	})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	_, _ = tbl.Insert(sql.Row{sql.IntValue(1), sql.TextValue("Alice")})
	_, _ = tbl.Insert(sql.Row{sql.IntValue(2), sql.TextValue("Bob")})
	if _, err := tbl.CreateIndex("id"); err != nil {
		t.Fatalf("CreateIndex failed: %v", err)
	}

	// 2. Save it, then mutate the live table
	if err := store.Save(tbl); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	tbl.Delete(0)

	// 3. Load it back
	tables, failed, err := store.LoadAll()
	if err != nil || len(failed) != 0 {
		t.Fatalf("LoadAll failed: %v %v", err, failed)
	}
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}

	got := tables[0]
	if got.Len() != 2 {
		t.Fatalf("snapshot was affected by later mutation: %d rows", got.Len())
	}
	idx, ok := got.Index("id")
	if !ok {
		t.Fatalf("index not restored")
	}
	if rids := idx.Search(sql.IntValue(2)); len(rids) != 1 || rids[0] != 1 {
		t.Fatalf("unexpected index lookup: %v", rids)
	}
	if store.Saves("users") != 1 {
		t.Fatalf("expected 1 save, got %d", store.Saves("users"))
	}
}

func TestMemstoreFailNextSave(t *testing.T) {
	store := New()
	tbl, _ := storage.NewTable("t", sql.Schema{{Name: "id", Type: sql.TypeInt}})
	_, _ = tbl.Insert(sql.Row{sql.IntValue(1)})
	_ = store.Save(tbl)

	boom := errors.New("disk full")
	store.FailNextSave("t", boom)
	_, _ = tbl.Insert(sql.Row{sql.IntValue(2)})

	if err := store.Save(tbl); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	rows, _ := store.Rows("t")
	if len(rows) != 1 {
		t.Fatalf("failed save must not change the snapshot, got %d rows", len(rows))
	}

	// Only the next save fails.
	if err := store.Save(tbl); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if rows, _ := store.Rows("t"); len(rows) != 2 {
		t.Fatalf("expected 2 rows after retry, got %d", len(rows))
	}
}
