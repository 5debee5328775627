package filestore

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"minidb/internal/sql"
	"minidb/internal/storage"
)

// Table file layout (UTF-8 text, one record per line):
//
//	id:INT,name:TEXT,score:FLOAT     schema line
//	1|Alice|9.5                       one line per live row, in row-id order
//
// Text values escape '\', '|', LF and CR with a backslash. Floats always
// carry a fractional part. Row-ids are not stored.
//
// Index file layout: one indexed column name per line, in schema order.
const (
	tableExt = ".tbl"
	indexExt = ".idx"

	fieldSep  = '|'
	columnSep = ","
	typeSep   = ":"
)

// encodeTable renders the schema line followed by every live row.
func encodeTable(t *storage.Table) []byte {
	var b bytes.Buffer
	b.WriteString(encodeSchema(t.Schema()))
	b.WriteByte('\n')
	for _, row := range t.Scan() {
		for i, v := range row {
			if i > 0 {
				b.WriteByte(fieldSep)
			}
			b.WriteString(encodeValue(v))
		}
		b.WriteByte('\n')
	}
	return b.Bytes()
}

func encodeSchema(schema sql.Schema) string {
	parts := make([]string, len(schema))
	for i, c := range schema {
		parts[i] = c.Name + typeSep + c.Type.String()
	}
	return strings.Join(parts, columnSep)
}

func encodeValue(v sql.Value) string {
	switch v.Type {
	case sql.TypeInt:
		return strconv.FormatInt(v.I64, 10)
	case sql.TypeFloat:
		return sql.FormatFloat(v.F64)
	default:
		return escapeText(v.S)
	}
}

var textEscaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`, "\n", `\n`, "\r", `\r`)

func escapeText(s string) string { return textEscaper.Replace(s) }

// decodeTable parses a table file back into a Table. Row-ids are assigned
// from zero in file order.
func decodeTable(name string, data []byte) (*storage.Table, error) {
	text := string(data)
	if text == "" {
		return nil, fmt.Errorf("missing schema line")
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")

	schema, err := decodeSchema(strings.TrimSuffix(lines[0], "\r"))
	if err != nil {
		return nil, fmt.Errorf("line 1: %w", err)
	}
	t, err := storage.NewTable(name, schema)
	if err != nil {
		return nil, fmt.Errorf("line 1: %w", err)
	}

	// An empty line is a row only when it can encode one: a single TEXT
	// column holding "". Otherwise blank lines are skipped.
	blankIsRow := len(schema) == 1 && schema[0].Type == sql.TypeText

	for n, line := range lines[1:] {
		lineNo := n + 2
		line = strings.TrimSuffix(line, "\r")
		if line == "" && !blankIsRow {
			continue
		}
		row, err := decodeRow(line, schema)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if _, err := t.Insert(row); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return t, nil
}

func decodeSchema(line string) (sql.Schema, error) {
	if strings.TrimSpace(line) == "" {
		return nil, fmt.Errorf("empty schema line")
	}
	var schema sql.Schema
	for _, part := range strings.Split(line, columnSep) {
		name, typ, ok := strings.Cut(part, typeSep)
		if !ok {
			return nil, fmt.Errorf("malformed column definition %q", part)
		}
		name = strings.TrimSpace(name)
		dt, ok := sql.ParseDataType(strings.TrimSpace(typ))
		if !ok {
			return nil, fmt.Errorf("column %q: unknown type %q", name, typ)
		}
		schema = append(schema, sql.Column{Name: name, Type: dt})
	}
	return schema, nil
}

func decodeRow(line string, schema sql.Schema) (sql.Row, error) {
	fields, err := splitFields(line)
	if err != nil {
		return nil, err
	}
	if len(fields) != len(schema) {
		return nil, fmt.Errorf("expected %d fields, got %d", len(schema), len(fields))
	}
	row := make(sql.Row, len(fields))
	for i, f := range fields {
		if row[i], err = decodeValue(f, schema[i].Type); err != nil {
			return nil, fmt.Errorf("column %q: %w", schema[i].Name, err)
		}
	}
	return row, nil
}

func decodeValue(field string, t sql.DataType) (sql.Value, error) {
	switch t {
	case sql.TypeInt:
		n, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return sql.Value{}, fmt.Errorf("invalid INT %q", field)
		}
		return sql.IntValue(n), nil
	case sql.TypeFloat:
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return sql.Value{}, fmt.Errorf("invalid FLOAT %q", field)
		}
		return sql.FloatValue(f), nil
	default:
		return sql.TextValue(field), nil
	}
}

// splitFields splits a row line on unescaped '|' and decodes the escapes.
func splitFields(line string) ([]string, error) {
	var (
		fields []string
		cur    strings.Builder
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch c {
		case fieldSep:
			fields = append(fields, cur.String())
			cur.Reset()
		case '\\':
			if i+1 == len(line) {
				return nil, fmt.Errorf("dangling escape at end of line")
			}
			i++
			switch line[i] {
			case '\\':
				cur.WriteByte('\\')
			case '|':
				cur.WriteByte('|')
			case 'n':
				cur.WriteByte('\n')
			case 'r':
				cur.WriteByte('\r')
			default:
				return nil, fmt.Errorf("unknown escape \\%c", line[i])
			}
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String()), nil
}

// encodeIndexes renders the index file, or nil when nothing is indexed.
func encodeIndexes(columns []string) []byte {
	if len(columns) == 0 {
		return nil
	}
	return []byte(strings.Join(columns, "\n") + "\n")
}

func decodeIndexes(data []byte) []string {
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
