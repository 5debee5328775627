// Package storage holds the in-memory table heap and the catalog, plus the
// Persister contract implemented by filestore (disk) and memstore (memory).
package storage

// Persister saves and restores whole tables.
//
// Different implementations are possible:
//   - in-memory (for tests)
//   - plain text files on disk
type Persister interface {
	// Save persists the table's schema, live rows and index definitions.
	// It must be atomic per table: after a failed Save the previously
	// persisted image is still intact.
	Save(t *Table) error

	// LoadAll restores every persisted table. A table that fails to load is
	// reported in failed, keyed by table name, and does not prevent the
	// others from loading. err is reserved for failures of the store itself.
	LoadAll() (tables []*Table, failed map[string]error, err error)
}
