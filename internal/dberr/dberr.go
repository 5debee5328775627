// Package dberr defines the error envelope shared by every layer of the
// engine. Each error carries the Kind of the layer that produced it, so the
// caller of Execute can tell a syntax problem from an I/O failure without
// string matching.
package dberr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error by the pipeline stage that raised it.
type Kind int

const (
	// KindLex is a malformed token (unterminated string, bad number, stray character).
	KindLex Kind = iota + 1
	// KindParse is a grammar violation.
	KindParse
	// KindPlan is an unresolvable name or a literal/column type mismatch.
	KindPlan
	// KindExec is a constraint violation found while executing.
	KindExec
	// KindStorage is an I/O failure or a malformed table file.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "lex error"
	case KindParse:
		return "parse error"
	case KindPlan:
		return "plan error"
	case KindExec:
		return "exec error"
	case KindStorage:
		return "storage error"
	default:
		return "error"
	}
}

// Sentinel causes. Wrap them so callers can use errors.Is.
var (
	ErrTableExists    = errors.New("table already exists")
	ErrTableNotFound  = errors.New("table does not exist")
	ErrColumnNotFound = errors.New("column does not exist")
	ErrIndexExists    = errors.New("index already exists")
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrArity          = errors.New("value count mismatch")
)

// Error is the structured error returned by every layer.
type Error struct {
	Kind Kind

	// Op names the operation in progress, e.g. "INSERT" or "load".
	Op string

	// Line and Column locate lex/parse errors in the statement text (1-based).
	// Zero means no position.
	Line   int
	Column int

	Msg string
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d, column %d", e.Line, e.Column)
	}
	b.WriteString(": ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Msg)
	if e.Err != nil {
		if e.Msg != "" {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind with a formatted message.
func New(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an error of the given kind around cause.
func Wrap(kind Kind, op string, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// At builds a positioned error, used by the lexer and parser.
func At(kind Kind, line, column int, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Column: column, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
