package sql

// parseCreateTable parses the remainder of a CREATE TABLE statement.
// Example supported syntax:
//
//	CREATE TABLE users (id INT, name TEXT, score FLOAT);
func (p *parser) parseCreateTable() (Statement, error) {
	name, err := p.ident("table name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLParen, "'(' before column definitions"); err != nil {
		return nil, err
	}

	var columns []Column
	for {
		colName, err := p.ident("column name")
		if err != nil {
			return nil, err
		}
		// Type names are plain identifiers, not reserved words.
		typeTok := p.peek()
		if typeTok.Kind != TokIdent {
			return nil, p.errorf(typeTok, "expected type for column %q, found %s", colName, typeTok)
		}
		dt, ok := ParseDataType(typeTok.Text)
		if !ok {
			return nil, p.errorf(typeTok, "unknown column type %q (want INT, TEXT or FLOAT)", typeTok.Text)
		}
		p.next()
		columns = append(columns, Column{Name: colName, Type: dt})

		if !p.accept(TokComma) {
			break
		}
	}

	if _, err := p.expect(TokRParen, "')' after column definitions"); err != nil {
		return nil, err
	}
	return &CreateTableStmt{TableName: name, Columns: columns}, nil
}
