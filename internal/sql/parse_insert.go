package sql

// parseInsert parses the remainder of an INSERT statement.
// Example supported syntax:
//
//	INSERT INTO users VALUES (1, 'Alice', 9.5);
//	INSERT INTO users (name, id, score) VALUES ('Bob', 2, 7);
func (p *parser) parseInsert() (Statement, error) {
	if err := p.expectKeyword("INTO"); err != nil {
		return nil, err
	}
	name, err := p.ident("table name")
	if err != nil {
		return nil, err
	}
	stmt := &InsertStmt{TableName: name}

	if p.accept(TokLParen) {
		if stmt.Columns, err = p.identList("column name"); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen, "')' after column list"); err != nil {
			return nil, err
		}
	}

	if err := p.expectKeyword("VALUES"); err != nil {
		return nil, err
	}
	open, err := p.expect(TokLParen, "'(' after VALUES")
	if err != nil {
		return nil, err
	}
	for {
		v, err := p.literal()
		if err != nil {
			return nil, err
		}
		stmt.Values = append(stmt.Values, v)
		if !p.accept(TokComma) {
			break
		}
	}
	if _, err := p.expect(TokRParen, "')' after VALUES list"); err != nil {
		return nil, err
	}

	if len(stmt.Columns) > 0 && len(stmt.Columns) != len(stmt.Values) {
		return nil, p.errorf(open, "INSERT lists %d columns but %d values", len(stmt.Columns), len(stmt.Values))
	}
	return stmt, nil
}
