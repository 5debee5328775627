package sql

// parseUpdate parses the remainder of an UPDATE statement.
// Example supported syntax:
//
//	UPDATE users SET name = 'Z', score = 1.5 WHERE id = 3;
func (p *parser) parseUpdate() (Statement, error) {
	name, err := p.ident("table name")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("SET"); err != nil {
		return nil, err
	}

	stmt := &UpdateStmt{TableName: name}
	for {
		col, err := p.ident("column name in SET")
		if err != nil {
			return nil, err
		}
		eq := p.peek()
		if eq.Kind != TokOperator || eq.Text != "=" {
			return nil, p.errorf(eq, "expected '=' after %q, found %s", col, eq)
		}
		p.next()
		val, err := p.literal()
		if err != nil {
			return nil, err
		}
		stmt.Assignments = append(stmt.Assignments, Assignment{Column: col, Value: val})

		if !p.accept(TokComma) {
			break
		}
	}

	if stmt.Where, err = p.optionalWhere(); err != nil {
		return nil, err
	}
	return stmt, nil
}
