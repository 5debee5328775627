package btree

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"minidb/internal/sql"
)

func collect(t *testing.T, ix *Index, op sql.CompareOp, bound sql.Value) []RowID {
	t.Helper()
	seq, err := ix.Range(op, bound)
	if err != nil {
		t.Fatalf("Range(%s %v) failed: %v", op, bound, err)
	}
	return slices.Collect(seq)
}

func TestInsertAndSearch(t *testing.T) {
	idx := New(Meta{TableName: "t", Column: "id"}, sql.TypeInt)

	if err := idx.Insert(sql.IntValue(42), 10); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got := idx.Search(sql.IntValue(42))
	if len(got) != 1 || got[0] != 10 {
		t.Fatalf("expected [10], got %v", got)
	}
	if got := idx.Search(sql.IntValue(7)); got != nil {
		t.Fatalf("expected no row-ids for missing key, got %v", got)
	}
}

func TestInsertOrderAndDuplicates(t *testing.T) {
	idx := New(Meta{TableName: "t", Column: "id"}, sql.TypeInt)

	// Insert out of order + duplicates
	_ = idx.Insert(sql.IntValue(50), 3)
	_ = idx.Insert(sql.IntValue(10), 2)
	_ = idx.Insert(sql.IntValue(50), 1)
	_ = idx.Insert(sql.IntValue(50), 1) // same pair again

	if idx.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", idx.Len())
	}

	// Duplicates come back in row-id order.
	if got := idx.Search(sql.IntValue(50)); !slices.Equal(got, []RowID{1, 3}) {
		t.Fatalf("expected [1 3], got %v", got)
	}

	var keys []int64
	for k := range idx.All() {
		keys = append(keys, k.I64)
	}
	if !slices.Equal(keys, []int64{10, 50, 50}) {
		t.Fatalf("unexpected iteration order: %v", keys)
	}
}

func TestDeleteRemovesOnlyOnePair(t *testing.T) {
	idx := New(Meta{TableName: "t", Column: "name"}, sql.TypeText)
	_ = idx.Insert(sql.TextValue("a"), 1)
	_ = idx.Insert(sql.TextValue("a"), 2)

	if !idx.Delete(sql.TextValue("a"), 1) {
		t.Fatalf("Delete of existing pair reported false")
	}
	if idx.Delete(sql.TextValue("a"), 1) {
		t.Fatalf("second Delete of same pair reported true")
	}
	if got := idx.Search(sql.TextValue("a")); !slices.Equal(got, []RowID{2}) {
		t.Fatalf("expected [2], got %v", got)
	}
}

func TestRangeOperators(t *testing.T) {
	idx := New(Meta{TableName: "t", Column: "id"}, sql.TypeInt)
	// keys 1..5, key 3 twice
	pairs := []struct {
		k   int64
		rid RowID
	}{{3, 0}, {1, 1}, {5, 2}, {3, 3}, {2, 4}, {4, 5}}
	for _, p := range pairs {
		if err := idx.Insert(sql.IntValue(p.k), p.rid); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	tests := []struct {
		op   sql.CompareOp
		want []RowID
	}{
		{sql.OpEq, []RowID{0, 3}},
		{sql.OpLt, []RowID{1, 4}},
		{sql.OpLe, []RowID{1, 4, 0, 3}},
		{sql.OpGt, []RowID{5, 2}},
		{sql.OpGe, []RowID{0, 3, 5, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got := collect(t, idx, tt.op, sql.IntValue(3))
			if !slices.Equal(got, tt.want) {
				t.Fatalf("id %s 3: expected %v, got %v", tt.op, tt.want, got)
			}
		})
	}

	if _, err := idx.Range(sql.OpNe, sql.IntValue(3)); !errors.Is(err, ErrUnsupportedOp) {
		t.Fatalf("expected ErrUnsupportedOp for !=, got %v", err)
	}
	if _, err := idx.Range(sql.OpEq, sql.TextValue("3")); err == nil {
		t.Fatalf("expected type error for TEXT bound on INT index")
	}
}

func TestRangeIsLazy(t *testing.T) {
	idx := New(Meta{TableName: "t", Column: "id"}, sql.TypeInt)
	for i := range 1000 {
		_ = idx.Insert(sql.IntValue(int64(i)), RowID(i))
	}

	seq, err := idx.Range(sql.OpGe, sql.IntValue(10))
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	var got []RowID
	for rid := range seq {
		got = append(got, rid)
		if len(got) == 3 {
			break
		}
	}
	if !slices.Equal(got, []RowID{10, 11, 12}) {
		t.Fatalf("unexpected prefix: %v", got)
	}
}

// TestRangeMatchesLinearFilter checks every operator against a brute-force
// filter over random data, including after deletes.
func TestRangeMatchesLinearFilter(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	idx := New(Meta{TableName: "t", Column: "score"}, sql.TypeFloat)
	live := map[RowID]float64{}

	for rid := RowID(0); rid < 400; rid++ {
		k := float64(rng.IntN(40)) / 4
		live[rid] = k
		_ = idx.Insert(sql.FloatValue(k), rid)
	}
	for rid := RowID(0); rid < 400; rid += 3 {
		idx.Delete(sql.FloatValue(live[rid]), rid)
		delete(live, rid)
	}

	for _, op := range []sql.CompareOp{sql.OpEq, sql.OpLt, sql.OpLe, sql.OpGt, sql.OpGe} {
		for _, b := range []float64{-1, 0, 2.5, 4.75, 9.75, 20} {
			got := collect(t, idx, op, sql.FloatValue(b))
			slices.Sort(got)

			var want []RowID
			for rid, k := range live {
				c, _ := sql.Compare(sql.FloatValue(k), sql.FloatValue(b))
				if op.Holds(c) {
					want = append(want, rid)
				}
			}
			slices.Sort(want)

			if !slices.Equal(got, want) {
				t.Fatalf("score %s %v: index returned %d rows, filter %d", op, b, len(got), len(want))
			}
		}
	}
}

func TestManager(t *testing.T) {
	m := NewManager("users")

	idx, err := m.Create("name", sql.TypeText)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if idx.Meta() != (Meta{TableName: "users", Column: "name"}) {
		t.Fatalf("unexpected meta: %+v", idx.Meta())
	}
	if _, err := m.Create("name", sql.TypeText); !errors.Is(err, ErrIndexExists) {
		t.Fatalf("expected ErrIndexExists, got %v", err)
	}
	_, _ = m.Create("id", sql.TypeInt)

	if got := m.Columns(); !slices.Equal(got, []string{"id", "name"}) {
		t.Fatalf("unexpected columns: %v", got)
	}
	if got, ok := m.Get("name"); !ok || got != idx {
		t.Fatalf("Get returned %v, %v", got, ok)
	}
	if !m.Drop("name") || m.Drop("name") || m.Len() != 1 {
		t.Fatalf("Drop bookkeeping is off: len=%d", m.Len())
	}
}
