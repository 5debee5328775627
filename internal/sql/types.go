package sql

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// DataType represents the logical type of a value in a column.
type DataType int

const (
	TypeInt DataType = iota
	TypeFloat
	TypeText
)

func (t DataType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeFloat:
		return "FLOAT"
	case TypeText:
		return "TEXT"
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// ParseDataType maps a type name (case-insensitive, with common aliases)
// to a DataType.
func ParseDataType(name string) (DataType, bool) {
	switch strings.ToUpper(name) {
	case "INT", "INTEGER":
		return TypeInt, true
	case "FLOAT", "REAL", "DOUBLE":
		return TypeFloat, true
	case "TEXT", "STRING", "VARCHAR":
		return TypeText, true
	default:
		return 0, false
	}
}

// Value represents a single cell in a table (one column in one row).
// Only the field matching Type should be read; other fields remain at their
// zero values to keep the struct compact and easy to inspect while debugging.
type Value struct {
	Type DataType

	I64 int64   // for TypeInt
	F64 float64 // for TypeFloat
	S   string  // for TypeText
}

func IntValue(v int64) Value     { return Value{Type: TypeInt, I64: v} }
func FloatValue(v float64) Value { return Value{Type: TypeFloat, F64: v} }
func TextValue(v string) Value   { return Value{Type: TypeText, S: v} }

// String renders the value the way a user would type it, without quotes.
func (v Value) String() string {
	switch v.Type {
	case TypeInt:
		return strconv.FormatInt(v.I64, 10)
	case TypeFloat:
		return FormatFloat(v.F64)
	case TypeText:
		return v.S
	default:
		return "?"
	}
}

// FormatFloat renders f in decimal form that always carries a fractional part
// (5 -> "5.0") and parses back to the same float64.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") { // NaN / Inf have no fraction to add
		s += ".0"
	}
	return s
}

// Compare orders two values of the same type. Comparing values of different
// types is an error; there is no implicit cross-type ordering.
func Compare(a, b Value) (int, error) {
	if a.Type != b.Type {
		return 0, fmt.Errorf("cannot compare %s with %s", a.Type, b.Type)
	}
	switch a.Type {
	case TypeInt:
		return cmp.Compare(a.I64, b.I64), nil
	case TypeFloat:
		return cmp.Compare(a.F64, b.F64), nil
	case TypeText:
		return strings.Compare(a.S, b.S), nil
	default:
		return 0, fmt.Errorf("cannot compare values of type %s", a.Type)
	}
}

// Coerce converts v to column type t. The only widening allowed is
// INT -> FLOAT; everything else must already match.
func Coerce(v Value, t DataType) (Value, error) {
	switch {
	case v.Type == t:
		return v, nil
	case v.Type == TypeInt && t == TypeFloat:
		return FloatValue(float64(v.I64)), nil
	default:
		return Value{}, fmt.Errorf("cannot use %s value %s as %s", v.Type, v.Quoted(), t)
	}
}

// Quoted renders the value as a SQL literal.
func (v Value) Quoted() string {
	if v.Type == TypeText {
		return "'" + strings.ReplaceAll(v.S, "'", "''") + "'"
	}
	return v.String()
}

// Row represents one record in a table: a slice of Values, one per column.
type Row []Value

// Clone returns a copy of the row that shares no backing array.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Column describes metadata for a single column in a table.
type Column struct {
	Name string
	Type DataType
}

// Schema is the ordered column list of a table.
type Schema []Column

// Index returns the position of the named column, or -1.
func (s Schema) Index(name string) int {
	for i, c := range s {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Names returns the column names in declaration order.
func (s Schema) Names() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.Name
	}
	return out
}

// Validate checks that the schema has at least one column and that every
// name is non-empty and unique.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("table must have at least one column")
	}
	seen := make(map[string]struct{}, len(s))
	for _, c := range s {
		if c.Name == "" {
			return fmt.Errorf("empty column name")
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

// Clone returns a copy of the schema.
func (s Schema) Clone() Schema {
	out := make(Schema, len(s))
	copy(out, s)
	return out
}
