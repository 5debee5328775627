package sql

// parseCreateIndex parses the remainder of a CREATE INDEX statement.
// Format: CREATE INDEX [index_name] ON table_name (column_name)
func (p *parser) parseCreateIndex() (Statement, error) {
	stmt := &CreateIndexStmt{}

	if p.peek().Kind == TokIdent {
		stmt.IndexName = p.next().Text
	}
	if err := p.expectKeyword("ON"); err != nil {
		return nil, err
	}

	var err error
	if stmt.TableName, err = p.ident("table name"); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLParen, "'(' before indexed column"); err != nil {
		return nil, err
	}
	if stmt.ColumnName, err = p.ident("column name"); err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind == TokComma {
		return nil, p.errorf(tok, "composite indexes are not supported")
	}
	if _, err := p.expect(TokRParen, "')' after indexed column"); err != nil {
		return nil, err
	}
	return stmt, nil
}
