package engine

import (
	"errors"

	"minidb/internal/dberr"
	"minidb/internal/logging"
	"minidb/internal/sql"
)

// executeCreateTable registers the table and flushes its (empty) file.
func (e *DBEngine) executeCreateTable(s *sql.CreateTableStmt) (*Result, error) {
	const op = "CREATE TABLE"
	if loadErr, ok := e.loadErrors[s.TableName]; ok {
		return nil, dberr.Wrap(dberr.KindExec, op, dberr.ErrTableExists,
			"table %q exists on disk but failed to load (%v)", s.TableName, loadErr)
	}
	t, err := e.catalog.Create(s.TableName, sql.Schema(s.Columns))
	if err != nil {
		if errors.Is(err, dberr.ErrTableExists) {
			return nil, dberr.Wrap(dberr.KindExec, op, dberr.ErrTableExists, "table %q", s.TableName)
		}
		return nil, dberr.Wrap(dberr.KindExec, op, err, "")
	}

	tx := e.begin(op, t)
	tx.onRollback(func() { e.catalog.Remove(s.TableName) })
	if err := tx.commit(); err != nil {
		return nil, err
	}

	logging.WithTable(e.log, s.TableName).Debug("table created", "columns", len(s.Columns))
	return rowsAffected(0), nil
}

// executeCreateIndex builds the index with one scan over the table and
// flushes the index definitions.
func (e *DBEngine) executeCreateIndex(s *sql.CreateIndexStmt) (*Result, error) {
	const op = "CREATE INDEX"
	t, ok := e.catalog.Table(s.TableName)
	if !ok {
		return nil, dberr.Wrap(dberr.KindExec, op, dberr.ErrTableNotFound, "table %q", s.TableName)
	}

	idx, err := t.CreateIndex(s.ColumnName)
	switch {
	case errors.Is(err, dberr.ErrIndexExists):
		return nil, dberr.Wrap(dberr.KindExec, op, dberr.ErrIndexExists, "column %s.%s", s.TableName, s.ColumnName)
	case errors.Is(err, dberr.ErrColumnNotFound):
		return nil, dberr.Wrap(dberr.KindExec, op, dberr.ErrColumnNotFound, "column %s.%s", s.TableName, s.ColumnName)
	case err != nil:
		return nil, dberr.Wrap(dberr.KindExec, op, err, "")
	}

	tx := e.begin(op, t)
	tx.onRollback(func() { t.DropIndex(s.ColumnName) })
	if err := tx.commit(); err != nil {
		return nil, err
	}

	logging.WithIndex(e.log, s.TableName, s.ColumnName).Debug("index built",
		"name", s.IndexName, "entries", idx.Len())
	return rowsAffected(0), nil
}
