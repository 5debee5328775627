package engine

import (
	"log/slog"
	"maps"
	"sync"

	"github.com/google/uuid"

	"minidb/internal/dberr"
	"minidb/internal/logging"
	"minidb/internal/planner"
	"minidb/internal/sql"
	"minidb/internal/storage"
)

// DBEngine is the main database engine struct. It owns the catalog, plans
// and executes statements, and flushes every mutated table through its
// Persister before returning.
//
// Statements are executed one at a time; concurrent callers are serialized.
type DBEngine struct {
	mu sync.Mutex

	id      string
	log     *slog.Logger
	store   storage.Persister
	catalog *storage.Catalog
	planner *planner.Planner

	started    bool
	loadErrors map[string]error
}

// New creates an engine over store. Call Start before executing statements.
func New(store storage.Persister, logger *slog.Logger) *DBEngine {
	id := uuid.NewString()
	cat := storage.NewCatalog()
	return &DBEngine{
		id:      id,
		log:     logging.WithEngine(logging.WithComponent(logger, "engine"), id),
		store:   store,
		catalog: cat,
		planner: planner.New(cat),
	}
}

// ID is the random instance id attached to this engine's log records.
func (e *DBEngine) ID() string { return e.id }

// Start loads every persisted table into the catalog. A table that fails to
// load is logged and reported by LoadErrors; the rest still load.
func (e *DBEngine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return dberr.New(dberr.KindExec, "start", "engine already started")
	}

	tables, failed, err := e.store.LoadAll()
	if err != nil {
		return err
	}
	for _, t := range tables {
		if err := e.catalog.Add(t); err != nil {
			failed = addFailure(failed, t.Name(), err)
			continue
		}
		logging.WithTable(e.log, t.Name()).Info("table loaded",
			"rows", t.Len(), "indexes", t.IndexedColumns())
	}
	for name, err := range failed {
		logging.WithTable(e.log, name).Warn("table not loaded", "err", err)
	}

	e.loadErrors = failed
	e.started = true
	return nil
}

func addFailure(m map[string]error, name string, err error) map[string]error {
	if m == nil {
		m = make(map[string]error)
	}
	m[name] = err
	return m
}

// LoadErrors returns the tables that failed to load at Start, by name.
func (e *DBEngine) LoadErrors() map[string]error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return maps.Clone(e.loadErrors)
}

// ListTables returns the names of all tables, sorted.
func (e *DBEngine) ListTables() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.Names()
}

// TableSchema returns the column definitions for a table.
func (e *DBEngine) TableSchema(name string) (sql.Schema, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	schema, ok := e.catalog.TableSchema(name)
	if !ok {
		return nil, dberr.Wrap(dberr.KindExec, "schema", dberr.ErrTableNotFound, "table %q", name)
	}
	return schema, nil
}
