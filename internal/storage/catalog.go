package storage

import (
	"fmt"
	"slices"

	"minidb/internal/dberr"
	"minidb/internal/sql"
)

// Catalog maps table names to tables. It is owned by one engine; there is
// no package-level catalog.
type Catalog struct {
	tables map[string]*Table
}

func NewCatalog() *Catalog {
	return &Catalog{tables: make(map[string]*Table)}
}

// Create adds a new empty table.
func (c *Catalog) Create(name string, schema sql.Schema) (*Table, error) {
	if _, exists := c.tables[name]; exists {
		return nil, fmt.Errorf("table %q: %w", name, dberr.ErrTableExists)
	}
	t, err := NewTable(name, schema)
	if err != nil {
		return nil, err
	}
	c.tables[name] = t
	return t, nil
}

// Add registers an already built table, e.g. one restored from disk.
func (c *Catalog) Add(t *Table) error {
	if _, exists := c.tables[t.Name()]; exists {
		return fmt.Errorf("table %q: %w", t.Name(), dberr.ErrTableExists)
	}
	c.tables[t.Name()] = t
	return nil
}

// Remove forgets a table. It is only used to undo a CREATE TABLE.
func (c *Catalog) Remove(name string) {
	delete(c.tables, name)
}

func (c *Catalog) Table(name string) (*Table, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// Names returns all table names, sorted.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.tables))
	for name := range c.tables {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func (c *Catalog) Len() int { return len(c.tables) }

// TableSchema returns a copy of a table's schema.
func (c *Catalog) TableSchema(name string) (sql.Schema, bool) {
	t, ok := c.tables[name]
	if !ok {
		return nil, false
	}
	return t.Schema(), true
}

// HasIndex reports whether table.column is indexed.
func (c *Catalog) HasIndex(table, column string) bool {
	t, ok := c.tables[table]
	return ok && t.HasIndex(column)
}
