package sql

// parseDelete parses the remainder of a DELETE statement.
// Without a WHERE clause every row is deleted.
func (p *parser) parseDelete() (Statement, error) {
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	name, err := p.ident("table name")
	if err != nil {
		return nil, err
	}
	where, err := p.optionalWhere()
	if err != nil {
		return nil, err
	}
	return &DeleteStmt{TableName: name, Where: where}, nil
}
