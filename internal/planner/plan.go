// Package planner turns DML statements into execution plans. Its only
// optimisation is choosing between an index and a full scan.
package planner

import (
	"fmt"
	"strings"

	"minidb/internal/sql"
)

// AccessKind is the strategy used to find the rows a statement touches.
type AccessKind int

const (
	// FullScan visits every row in row-id order, applying Filter if set.
	FullScan AccessKind = iota
	// IndexLookup reads the row-ids stored under one key.
	IndexLookup
	// IndexRangeScan walks the index from or up to a bound.
	IndexRangeScan
)

func (k AccessKind) String() string {
	switch k {
	case FullScan:
		return "FullScan"
	case IndexLookup:
		return "IndexLookup"
	case IndexRangeScan:
		return "IndexRangeScan"
	default:
		return fmt.Sprintf("AccessKind(%d)", int(k))
	}
}

// Filter is a per-row predicate evaluated during a full scan.
type Filter struct {
	Column string
	Pos    int // position of Column in the table schema
	Op     sql.CompareOp
	Value  sql.Value
}

// Matches evaluates the filter against a full table row.
func (f *Filter) Matches(row sql.Row) (bool, error) {
	c, err := sql.Compare(row[f.Pos], f.Value)
	if err != nil {
		return false, fmt.Errorf("column %q: %w", f.Column, err)
	}
	return f.Op.Holds(c), nil
}

func (f *Filter) String() string {
	return fmt.Sprintf("%s %s %s", f.Column, f.Op, f.Value.Quoted())
}

// Access describes how rows are located.
//
// For IndexLookup, Op is = and Key is the looked-up value. For
// IndexRangeScan, Op is one of < <= > >= and Key is the bound: a lower bound
// for > and >=, an upper bound for < and <=.
type Access struct {
	Kind   AccessKind
	Column string
	Op     sql.CompareOp
	Key    sql.Value
	Filter *Filter
}

// Inclusive reports whether a range bound itself qualifies.
func (a Access) Inclusive() bool { return a.Op == sql.OpLe || a.Op == sql.OpGe }

// LowerBound reports whether Key bounds the range from below.
func (a Access) LowerBound() bool { return a.Op == sql.OpGt || a.Op == sql.OpGe }

func (a Access) String() string {
	switch a.Kind {
	case IndexLookup, IndexRangeScan:
		return fmt.Sprintf("%s(%s %s %s)", a.Kind, a.Column, a.Op, a.Key.Quoted())
	default:
		if a.Filter == nil {
			return a.Kind.String()
		}
		return fmt.Sprintf("%s(%s)", a.Kind, a.Filter)
	}
}

// Plan is an executable form of one DML statement.
type Plan interface {
	fmt.Stringer
	TableName() string
}

// SelectPlan reads rows and projects columns.
type SelectPlan struct {
	Table      string
	Access     Access
	Columns    []string // output column names
	Projection []int    // schema position of each output column
}

// InsertPlan adds one row. Positions maps each value to its schema
// position; it is nil when values bind positionally.
type InsertPlan struct {
	Table     string
	Positions []int
	Values    []sql.Value
}

// SetColumn is one resolved assignment of an UPDATE.
type SetColumn struct {
	Column string
	Pos    int
	Value  sql.Value
}

// UpdatePlan rewrites the qualifying rows.
type UpdatePlan struct {
	Table       string
	Access      Access
	Assignments []SetColumn
}

// DeletePlan removes the qualifying rows.
type DeletePlan struct {
	Table  string
	Access Access
}

func (p *SelectPlan) TableName() string { return p.Table }
func (p *InsertPlan) TableName() string { return p.Table }
func (p *UpdatePlan) TableName() string { return p.Table }
func (p *DeletePlan) TableName() string { return p.Table }

func (p *SelectPlan) String() string {
	return fmt.Sprintf("Select %s from %s via %s", strings.Join(p.Columns, ", "), p.Table, p.Access)
}

func (p *InsertPlan) String() string {
	return fmt.Sprintf("Insert %d values into %s", len(p.Values), p.Table)
}

func (p *UpdatePlan) String() string {
	sets := make([]string, len(p.Assignments))
	for i, a := range p.Assignments {
		sets[i] = a.Column + " = " + a.Value.Quoted()
	}
	return fmt.Sprintf("Update %s set %s via %s", p.Table, strings.Join(sets, ", "), p.Access)
}

func (p *DeletePlan) String() string {
	return fmt.Sprintf("Delete from %s via %s", p.Table, p.Access)
}
