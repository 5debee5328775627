package engine

import (
	"minidb/internal/dberr"
	"minidb/internal/logging"
	"minidb/internal/sql"
	"minidb/internal/storage"
)

// stmtTx records the in-memory effects of one statement on one table so they
// can be undone if the flush fails. Nothing is written until commit.
type stmtTx struct {
	e     *DBEngine
	op    string
	table *storage.Table
	undo  []func()
}

func (e *DBEngine) begin(op string, t *storage.Table) *stmtTx {
	return &stmtTx{e: e, op: op, table: t}
}

// onRollback registers an undo step that is not a row change, e.g.
// forgetting a table created by this statement.
func (tx *stmtTx) onRollback(fn func()) {
	tx.undo = append(tx.undo, fn)
}

func (tx *stmtTx) insert(row sql.Row) (storage.RowID, error) {
	id, err := tx.table.Insert(row)
	if err != nil {
		return 0, err
	}
	tx.onRollback(func() { tx.table.Delete(id) })
	return id, nil
}

func (tx *stmtTx) update(id storage.RowID, row sql.Row) error {
	old, err := tx.table.Update(id, row)
	if err != nil {
		return err
	}
	tx.onRollback(func() { _, _ = tx.table.Update(id, old) })
	return nil
}

func (tx *stmtTx) delete(id storage.RowID) bool {
	old, ok := tx.table.Delete(id)
	if ok {
		tx.onRollback(func() { _ = tx.table.Restore(id, old) })
	}
	return ok
}

// commit flushes the table. If the flush fails every recorded change is
// undone, so memory and indexes match what is still on disk.
func (tx *stmtTx) commit() error {
	err := tx.e.store.Save(tx.table)
	if err == nil {
		return nil
	}
	tx.rollback()
	logging.WithTable(tx.e.log, tx.table.Name()).Error("flush failed, statement rolled back",
		"op", tx.op, "changes", len(tx.undo), "err", err)
	if dberr.Is(err, dberr.KindStorage) {
		return err
	}
	return dberr.Wrap(dberr.KindStorage, tx.op, err, "flush table %q", tx.table.Name())
}

// rollback undoes the recorded changes in reverse order.
func (tx *stmtTx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
}
