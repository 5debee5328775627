// Package filestore persists tables as plain text files, one <name>.tbl per
// table plus an optional <name>.idx listing its indexed columns.
package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"minidb/internal/dberr"
	"minidb/internal/logging"
	"minidb/internal/storage"
)

const tempMarker = ".tmp-"

// Store is a storage.Persister backed by a directory.
type Store struct {
	dir string
	log *slog.Logger

	mu sync.Mutex
	// files remembers what was last written to (or read from) each path, so
	// an unchanged image is never rewritten while the file on disk is still
	// the one we know.
	files map[string]fileState
}

type fileState struct {
	sum     [32]byte
	size    int64
	modTime time.Time
}

// current reports whether path still has the size and mtime recorded in st.
func (st fileState) current(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Size() == st.size && fi.ModTime().Equal(st.modTime)
}

var _ storage.Persister = (*Store)(nil)

// New creates a Store rooted at dir, creating the directory if needed.
// Temp files left behind by an interrupted save are removed.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, dberr.Wrap(dberr.KindStorage, "open", err, "create data dir")
	}
	s := &Store{
		dir:     dir,
		log:     logging.WithComponent(logger, "filestore"),
		files:   make(map[string]fileState),
	}

	leftovers, _ := filepath.Glob(filepath.Join(dir, "*"+tempMarker+"*"))
	for _, p := range leftovers {
		if err := os.Remove(p); err == nil {
			s.log.Debug("removed stale temp file", "path", p)
		}
	}
	return s, nil
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string { return s.dir }

func (s *Store) tablePath(name string) string { return filepath.Join(s.dir, name+tableExt) }
func (s *Store) indexPath(name string) string { return filepath.Join(s.dir, name+indexExt) }

// ListTables returns the names of all *.tbl files in the directory, sorted.
func (s *Store) ListTables() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, dberr.Wrap(dberr.KindStorage, "list tables", err, "read %s", s.dir)
	}

	var tables []string
	for _, ent := range entries {
		name := ent.Name()
		if ent.Type().IsRegular() && strings.HasSuffix(name, tableExt) {
			tables = append(tables, strings.TrimSuffix(name, tableExt))
		}
	}
	return tables, nil
}

// Save writes the table file and the index file. Each file is replaced
// atomically and only when its content changed.
func (s *Store) Save(t *storage.Table) error {
	name := t.Name()
	log := logging.WithTable(s.log, name)

	wrote, err := s.writeIfChanged(s.tablePath(name), encodeTable(t))
	if err != nil {
		return dberr.Wrap(dberr.KindStorage, "save", err, "table %q", name)
	}
	if !wrote {
		log.Debug("table file unchanged, flush skipped")
	}

	if idx := encodeIndexes(t.IndexedColumns()); idx != nil {
		_, err = s.writeIfChanged(s.indexPath(name), idx)
	} else {
		err = s.remove(s.indexPath(name))
	}
	if err != nil {
		return dberr.Wrap(dberr.KindStorage, "save", err, "indexes of table %q", name)
	}
	return nil
}

func (s *Store) writeIfChanged(path string, data []byte) (bool, error) {
	sum := blake3.Sum256(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.files[path]; ok && prev.sum == sum {
		if prev.current(path) {
			return false, nil
		}
		s.log.Warn("file changed on disk, rewriting", "path", path)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return false, err
	}
	s.rememberLocked(path, sum)
	s.log.Debug("file written", "path", path, "bytes", len(data))
	return true, nil
}

func (s *Store) remove(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.files, path)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) remember(path string, data []byte) {
	s.mu.Lock()
	s.rememberLocked(path, blake3.Sum256(data))
	s.mu.Unlock()
}

func (s *Store) rememberLocked(path string, sum [32]byte) {
	fi, err := os.Stat(path)
	if err != nil {
		delete(s.files, path)
		return
	}
	s.files[path] = fileState{sum: sum, size: fi.Size(), modTime: fi.ModTime()}
}

// writeFileAtomic writes data to a temp file in the same directory and
// renames it over path.
func writeFileAtomic(path string, data []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+tempMarker+"*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads one table and rebuilds the indexes listed in its index file.
// Row-ids are reassigned from zero in file order.
func (s *Store) Load(name string) (*storage.Table, error) {
	path := s.tablePath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, dberr.Wrap(dberr.KindStorage, "load", err, "table %q", name)
	}
	t, err := decodeTable(name, data)
	if err != nil {
		return nil, dberr.Wrap(dberr.KindStorage, "load", err, "malformed table file %s", filepath.Base(path))
	}

	idxPath := s.indexPath(name)
	idxData, err := os.ReadFile(idxPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, dberr.Wrap(dberr.KindStorage, "load", err, "indexes of table %q", name)
	default:
		for _, col := range decodeIndexes(idxData) {
			if _, err := t.CreateIndex(col); err != nil {
				return nil, dberr.Wrap(dberr.KindStorage, "load", err, "malformed index file %s", filepath.Base(idxPath))
			}
		}
		s.remember(idxPath, idxData)
	}

	s.remember(path, data)
	return t, nil
}

// LoadAll decodes every table file concurrently. Tables that fail are
// returned in failed and logged; they never block the rest.
func (s *Store) LoadAll() ([]*storage.Table, map[string]error, error) {
	names, err := s.ListTables()
	if err != nil {
		return nil, nil, err
	}

	loaded := make([]*storage.Table, len(names))
	errs := make([]error, len(names))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		g.Go(func() error {
			loaded[i], errs[i] = s.Load(name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("filestore: load all: %w", err)
	}

	var (
		tables []*storage.Table
		failed map[string]error
	)
	for i, name := range names {
		if errs[i] != nil {
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[name] = errs[i]
			logging.WithTable(s.log, name).Warn("table failed to load", "err", errs[i])
			continue
		}
		tables = append(tables, loaded[i])
	}
	return tables, failed, nil
}
