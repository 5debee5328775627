package sql

// parseSelect parses the remainder of a SELECT statement.
// Example supported syntax:
//
//	SELECT * FROM users;
//	SELECT id, name FROM users WHERE id >= 10;
func (p *parser) parseSelect() (Statement, error) {
	stmt := &SelectStmt{}

	if !p.accept(TokStar) {
		cols, err := p.identList("column name or '*'")
		if err != nil {
			return nil, err
		}
		stmt.Columns = cols
	}

	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	var err error
	if stmt.TableName, err = p.ident("table name"); err != nil {
		return nil, err
	}
	if stmt.Where, err = p.optionalWhere(); err != nil {
		return nil, err
	}
	return stmt, nil
}
