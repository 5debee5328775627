// Package memstore is an in-memory storage.Persister. It keeps a snapshot
// copy of every saved table so tests can restart an engine without disk.
package memstore

import (
	"fmt"
	"slices"
	"sync"

	"minidb/internal/sql"
	"minidb/internal/storage"
)

// snapshot is a deep copy of a table as of its last Save.
type snapshot struct {
	schema  sql.Schema
	rows    []sql.Row
	indexed []string
}

// Store keeps saved tables in memory.
type Store struct {
	mu       sync.RWMutex
	tables   map[string]snapshot
	saves    map[string]int
	failures map[string]error
}

var _ storage.Persister = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		tables:   make(map[string]snapshot),
		saves:    make(map[string]int),
		failures: make(map[string]error),
	}
}

// Save stores a deep copy of the table.
func (s *Store) Save(t *storage.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.failures[t.Name()]; ok {
		delete(s.failures, t.Name())
		return err
	}

	snap := snapshot{
		schema:  t.Schema(),
		indexed: t.IndexedColumns(),
	}
	for _, row := range t.Scan() {
		snap.rows = append(snap.rows, row.Clone())
	}
	s.tables[t.Name()] = snap
	s.saves[t.Name()]++
	return nil
}

// LoadAll rebuilds a fresh Table from every snapshot, in name order.
func (s *Store) LoadAll() ([]*storage.Table, map[string]error, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	slices.Sort(names)

	var (
		out    []*storage.Table
		failed map[string]error
	)
	for _, name := range names {
		t, err := s.tables[name].restore(name)
		if err != nil {
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[name] = err
			continue
		}
		out = append(out, t)
	}
	return out, failed, nil
}

func (snap snapshot) restore(name string) (*storage.Table, error) {
	t, err := storage.NewTable(name, snap.schema)
	if err != nil {
		return nil, err
	}
	for _, row := range snap.rows {
		if _, err := t.Insert(row); err != nil {
			return nil, fmt.Errorf("memstore: restore %q: %w", name, err)
		}
	}
	for _, col := range snap.indexed {
		if _, err := t.CreateIndex(col); err != nil {
			return nil, fmt.Errorf("memstore: restore %q: %w", name, err)
		}
	}
	return t, nil
}

// Saves reports how many times the named table was saved successfully.
func (s *Store) Saves(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves[name]
}

// Rows returns a copy of the rows last saved for name.
func (s *Store) Rows(name string) ([]sql.Row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.tables[name]
	if !ok {
		return nil, false
	}
	out := make([]sql.Row, len(snap.rows))
	for i, r := range snap.rows {
		out[i] = r.Clone()
	}
	return out, true
}

// FailNextSave makes the next Save of name return err without storing
// anything.
func (s *Store) FailNextSave(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[name] = err
}
