package btree

import (
	"fmt"
	"slices"

	"minidb/internal/sql"
)

// Manager keeps the indexes of one table, at most one per column.
type Manager struct {
	table string
	open  map[string]*Index // key: column name
}

// NewManager creates an empty registry for table.
func NewManager(table string) *Manager {
	return &Manager{
		table: table,
		open:  make(map[string]*Index),
	}
}

// Create registers a new empty index on column. It fails with
// ErrIndexExists if the column is already indexed.
func (m *Manager) Create(column string, keyType sql.DataType) (*Index, error) {
	if _, ok := m.open[column]; ok {
		return nil, fmt.Errorf("%s.%s: %w", m.table, column, ErrIndexExists)
	}
	idx := New(Meta{TableName: m.table, Column: column}, keyType)
	m.open[column] = idx
	return idx, nil
}

// Get returns the index on column, if any.
func (m *Manager) Get(column string) (*Index, bool) {
	idx, ok := m.open[column]
	return idx, ok
}

// Drop removes the index on column and reports whether one existed.
func (m *Manager) Drop(column string) bool {
	if _, ok := m.open[column]; !ok {
		return false
	}
	delete(m.open, column)
	return true
}

// Columns returns the indexed column names in sorted order.
func (m *Manager) Columns() []string {
	out := make([]string, 0, len(m.open))
	for col := range m.open {
		out = append(out, col)
	}
	slices.Sort(out)
	return out
}

// Len is the number of indexes.
func (m *Manager) Len() int { return len(m.open) }
