package planner

import (
	"minidb/internal/dberr"
	"minidb/internal/sql"
)

// Catalog is the read-only view of table metadata the planner needs.
type Catalog interface {
	TableSchema(name string) (sql.Schema, bool)
	HasIndex(table, column string) bool
}

// Planner builds plans against a catalog. Planning has no side effects and
// is deterministic for a given catalog state.
type Planner struct {
	cat Catalog
}

func New(cat Catalog) *Planner {
	return &Planner{cat: cat}
}

// Plan builds the execution plan for a DML statement. CREATE statements are
// executed directly and have no plan.
func (p *Planner) Plan(stmt sql.Statement) (Plan, error) {
	switch s := stmt.(type) {
	case *sql.SelectStmt:
		return p.planSelect(s)
	case *sql.InsertStmt:
		return p.planInsert(s)
	case *sql.UpdateStmt:
		return p.planUpdate(s)
	case *sql.DeleteStmt:
		return p.planDelete(s)
	default:
		return nil, dberr.New(dberr.KindPlan, "", "statement %T has no plan", stmt)
	}
}

func (p *Planner) schema(op, table string) (sql.Schema, error) {
	schema, ok := p.cat.TableSchema(table)
	if !ok {
		return nil, dberr.Wrap(dberr.KindPlan, op, dberr.ErrTableNotFound, "table %q", table)
	}
	return schema, nil
}

func column(op, table string, schema sql.Schema, name string) (int, error) {
	pos := schema.Index(name)
	if pos < 0 {
		return -1, dberr.Wrap(dberr.KindPlan, op, dberr.ErrColumnNotFound, "column %q in table %q", name, table)
	}
	return pos, nil
}

// literalFor checks that v can be stored in or compared with column pos,
// widening INT literals for FLOAT columns.
func literalFor(op string, schema sql.Schema, pos int, v sql.Value) (sql.Value, error) {
	col := schema[pos]
	out, err := sql.Coerce(v, col.Type)
	if err != nil {
		return sql.Value{}, dberr.Wrap(dberr.KindPlan, op, dberr.ErrTypeMismatch,
			"column %q is %s but literal %s is %s", col.Name, col.Type, v.Quoted(), v.Type)
	}
	return out, nil
}

// access picks the access path for an optional predicate.
func (p *Planner) access(op, table string, schema sql.Schema, where *sql.WhereExpr) (Access, error) {
	if where == nil {
		return Access{Kind: FullScan}, nil
	}
	pos, err := column(op, table, schema, where.Column)
	if err != nil {
		return Access{}, err
	}
	val, err := literalFor(op, schema, pos, where.Value)
	if err != nil {
		return Access{}, err
	}

	if p.cat.HasIndex(table, where.Column) {
		switch {
		case where.Op == sql.OpEq:
			return Access{Kind: IndexLookup, Column: where.Column, Op: where.Op, Key: val}, nil
		case where.Op.IsRange():
			return Access{Kind: IndexRangeScan, Column: where.Column, Op: where.Op, Key: val}, nil
		}
	}
	return Access{
		Kind:   FullScan,
		Filter: &Filter{Column: where.Column, Pos: pos, Op: where.Op, Value: val},
	}, nil
}

func (p *Planner) planSelect(s *sql.SelectStmt) (Plan, error) {
	const op = "SELECT"
	schema, err := p.schema(op, s.TableName)
	if err != nil {
		return nil, err
	}

	plan := &SelectPlan{Table: s.TableName}
	if len(s.Columns) == 0 {
		plan.Columns = schema.Names()
		plan.Projection = make([]int, len(schema))
		for i := range schema {
			plan.Projection[i] = i
		}
	} else {
		for _, name := range s.Columns {
			pos, err := column(op, s.TableName, schema, name)
			if err != nil {
				return nil, err
			}
			plan.Columns = append(plan.Columns, name)
			plan.Projection = append(plan.Projection, pos)
		}
	}

	if plan.Access, err = p.access(op, s.TableName, schema, s.Where); err != nil {
		return nil, err
	}
	return plan, nil
}

// planInsert resolves the table and any explicit column list. Value
// types and positional arity are checked by the executor.
func (p *Planner) planInsert(s *sql.InsertStmt) (Plan, error) {
	const op = "INSERT"
	schema, err := p.schema(op, s.TableName)
	if err != nil {
		return nil, err
	}
	plan := &InsertPlan{Table: s.TableName, Values: s.Values}
	if len(s.Columns) == 0 {
		return plan, nil
	}

	seen := make([]bool, len(schema))
	for _, name := range s.Columns {
		pos, err := column(op, s.TableName, schema, name)
		if err != nil {
			return nil, err
		}
		if seen[pos] {
			return nil, dberr.New(dberr.KindPlan, op, "column %q listed twice", name)
		}
		seen[pos] = true
		plan.Positions = append(plan.Positions, pos)
	}
	for i, ok := range seen {
		if !ok {
			return nil, dberr.New(dberr.KindPlan, op, "no value provided for column %q", schema[i].Name)
		}
	}
	return plan, nil
}

func (p *Planner) planUpdate(s *sql.UpdateStmt) (Plan, error) {
	const op = "UPDATE"
	schema, err := p.schema(op, s.TableName)
	if err != nil {
		return nil, err
	}

	plan := &UpdatePlan{Table: s.TableName}
	seen := make(map[string]bool, len(s.Assignments))
	for _, a := range s.Assignments {
		pos, err := column(op, s.TableName, schema, a.Column)
		if err != nil {
			return nil, err
		}
		if seen[a.Column] {
			return nil, dberr.New(dberr.KindPlan, op, "column %q assigned twice", a.Column)
		}
		seen[a.Column] = true

		val, err := literalFor(op, schema, pos, a.Value)
		if err != nil {
			return nil, err
		}
		plan.Assignments = append(plan.Assignments, SetColumn{Column: a.Column, Pos: pos, Value: val})
	}

	if plan.Access, err = p.access(op, s.TableName, schema, s.Where); err != nil {
		return nil, err
	}
	return plan, nil
}

func (p *Planner) planDelete(s *sql.DeleteStmt) (Plan, error) {
	const op = "DELETE"
	schema, err := p.schema(op, s.TableName)
	if err != nil {
		return nil, err
	}
	acc, err := p.access(op, s.TableName, schema, s.Where)
	if err != nil {
		return nil, err
	}
	return &DeletePlan{Table: s.TableName, Access: acc}, nil
}
