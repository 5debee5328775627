package engine

import "minidb/internal/sql"

// ResultKind tells which fields of a Result are meaningful.
type ResultKind int

const (
	// ResultRowsAffected is returned by CREATE, INSERT, UPDATE and DELETE.
	ResultRowsAffected ResultKind = iota
	// ResultRowSet is returned by SELECT.
	ResultRowSet
)

// Result is the outcome of one statement.
type Result struct {
	Kind ResultKind

	RowsAffected int

	Columns []string
	Rows    []sql.Row
}

func rowsAffected(n int) *Result {
	return &Result{Kind: ResultRowsAffected, RowsAffected: n}
}
