package engine

import (
	"log/slog"

	"minidb/internal/storage"
	"minidb/internal/storage/filestore"
)

// DefaultDataDir is where table files live unless configured otherwise.
const DefaultDataDir = "data"

// Config configures Open.
type Config struct {
	// DataDir holds the <table>.tbl and <table>.idx files.
	DataDir string

	// Logger receives engine and storage logs. Nil discards them.
	Logger *slog.Logger

	// Store overrides the file store, e.g. with a memstore in tests.
	Store storage.Persister
}

func (c Config) withDefaults() Config {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	return c
}

// Open builds the configured store, creates an engine on it and loads every
// persisted table.
func Open(cfg Config) (*DBEngine, error) {
	cfg = cfg.withDefaults()

	store := cfg.Store
	if store == nil {
		fs, err := filestore.New(cfg.DataDir, cfg.Logger)
		if err != nil {
			return nil, err
		}
		store = fs
	}

	e := New(store, cfg.Logger)
	if err := e.Start(); err != nil {
		return nil, err
	}
	return e, nil
}
