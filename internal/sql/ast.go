package sql

// Statement is the common interface for all SQL statements.
type Statement interface {
	stmtNode()
}

// CreateTableStmt represents a parsed CREATE TABLE statement.
type CreateTableStmt struct {
	TableName string
	Columns   []Column
}

// CreateIndexStmt represents CREATE INDEX [name] ON table (column).
type CreateIndexStmt struct {
	IndexName  string // optional, informational only
	TableName  string
	ColumnName string
}

// InsertStmt represents INSERT INTO table [(cols)] VALUES (...).
// Columns is empty when the statement binds values positionally.
type InsertStmt struct {
	TableName string
	Columns   []string
	Values    []Value
}

// SelectStmt represents SELECT ... FROM table [WHERE ...].
// An empty Columns list means SELECT *.
type SelectStmt struct {
	TableName string
	Columns   []string
	Where     *WhereExpr
}

// UpdateStmt represents UPDATE table SET a = v, ... [WHERE ...].
type UpdateStmt struct {
	TableName   string
	Assignments []Assignment
	Where       *WhereExpr
}

// DeleteStmt represents DELETE FROM table [WHERE ...].
type DeleteStmt struct {
	TableName string
	Where     *WhereExpr
}

// Assignment is one "column = literal" pair of a SET list.
type Assignment struct {
	Column string
	Value  Value
}

// WhereExpr is the single "column op literal" predicate the dialect allows.
type WhereExpr struct {
	Column string
	Op     CompareOp
	Value  Value
}

func (*CreateTableStmt) stmtNode() {}
func (*CreateIndexStmt) stmtNode() {}
func (*InsertStmt) stmtNode()      {}
func (*SelectStmt) stmtNode()      {}
func (*UpdateStmt) stmtNode()      {}
func (*DeleteStmt) stmtNode()      {}

// CompareOp is a comparison operator in a WHERE clause.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// parseCompareOp maps operator text to a CompareOp. "<>" is an alias of "!=".
func parseCompareOp(s string) (CompareOp, bool) {
	switch s {
	case "=":
		return OpEq, true
	case "!=", "<>":
		return OpNe, true
	case "<":
		return OpLt, true
	case "<=":
		return OpLe, true
	case ">":
		return OpGt, true
	case ">=":
		return OpGe, true
	default:
		return 0, false
	}
}

// Holds reports whether a three-way comparison result c satisfies op.
func (op CompareOp) Holds(c int) bool {
	switch op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	default:
		return false
	}
}

// IsRange reports whether op is one of < <= > >=.
func (op CompareOp) IsRange() bool {
	return op == OpLt || op == OpLe || op == OpGt || op == OpGe
}

// Matches evaluates the predicate against a column value.
func (w *WhereExpr) Matches(v Value) (bool, error) {
	c, err := Compare(v, w.Value)
	if err != nil {
		return false, err
	}
	return w.Op.Holds(c), nil
}
