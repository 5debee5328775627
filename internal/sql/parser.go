package sql

import (
	"minidb/internal/dberr"
)

// Parse parses exactly one SQL statement. A single trailing ';' is allowed;
// anything after it is an error.
func Parse(query string) (Statement, error) {
	toks, err := Lex(query)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}

	if p.peek().Kind == TokEOF {
		return nil, p.errorf(p.peek(), "empty statement")
	}
	stmt, err := p.statement()
	if err != nil {
		return nil, err
	}
	p.accept(TokSemicolon)
	if tok := p.peek(); tok.Kind != TokEOF {
		return nil, p.errorf(tok, "unexpected %s after end of statement", tok)
	}
	return stmt, nil
}

// ParseScript parses a ';'-separated sequence of statements. Empty
// statements (";;") are skipped, so an empty script yields no statements.
func ParseScript(text string) ([]Statement, error) {
	toks, err := Lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}

	var out []Statement
	for {
		for p.accept(TokSemicolon) {
		}
		if p.peek().Kind == TokEOF {
			return out, nil
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)

		if tok := p.peek(); tok.Kind != TokSemicolon && tok.Kind != TokEOF {
			return nil, p.errorf(tok, "expected ';' between statements, found %s", tok)
		}
	}
}

// parser is a recursive-descent parser over a lexed token slice. The slice
// always ends with TokEOF, so peek never runs off the end.
type parser struct {
	toks []Token
	pos  int
}

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Kind != TokEOF {
		p.pos++
	}
	return tok
}

// accept consumes the next token if it has the given kind.
func (p *parser) accept(kind TokenKind) bool {
	if p.peek().Kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *parser) atKeyword(kw string) bool {
	tok := p.peek()
	return tok.Kind == TokKeyword && tok.Text == kw
}

func (p *parser) errorf(tok Token, format string, args ...any) error {
	return dberr.At(dberr.KindParse, tok.Line, tok.Column, format, args...)
}

func (p *parser) statement() (Statement, error) {
	tok := p.peek()
	if tok.Kind != TokKeyword {
		return nil, p.errorf(tok, "expected a statement, found %s", tok)
	}
	switch tok.Text {
	case "CREATE":
		p.next()
		switch {
		case p.atKeyword("TABLE"):
			p.next()
			return p.parseCreateTable()
		case p.atKeyword("INDEX"):
			p.next()
			return p.parseCreateIndex()
		default:
			return nil, p.errorf(p.peek(), "expected TABLE or INDEX after CREATE, found %s", p.peek())
		}
	case "INSERT":
		p.next()
		return p.parseInsert()
	case "SELECT":
		p.next()
		return p.parseSelect()
	case "UPDATE":
		p.next()
		return p.parseUpdate()
	case "DELETE":
		p.next()
		return p.parseDelete()
	default:
		return nil, p.errorf(tok, "unsupported statement %s (supported: CREATE TABLE, CREATE INDEX, INSERT, SELECT, UPDATE, DELETE)", tok.Text)
	}
}

func (p *parser) expectKeyword(kw string) error {
	if !p.atKeyword(kw) {
		return p.errorf(p.peek(), "expected %s, found %s", kw, p.peek())
	}
	p.next()
	return nil
}

func (p *parser) expect(kind TokenKind, what string) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return Token{}, p.errorf(tok, "expected %s, found %s", what, tok)
	}
	return p.next(), nil
}

// ident reads an identifier. what names the expected thing in errors.
func (p *parser) ident(what string) (string, error) {
	tok, err := p.expect(TokIdent, what)
	if err != nil {
		return "", err
	}
	return tok.Text, nil
}

// identList reads "ident (',' ident)*".
func (p *parser) identList(what string) ([]string, error) {
	var out []string
	for {
		name, err := p.ident(what)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
		if !p.accept(TokComma) {
			return out, nil
		}
	}
}

// literal reads an integer, float or string literal.
func (p *parser) literal() (Value, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokInt:
		p.next()
		return IntValue(tok.Int), nil
	case TokFloat:
		p.next()
		return FloatValue(tok.Float), nil
	case TokString:
		p.next()
		return TextValue(tok.Text), nil
	default:
		return Value{}, p.errorf(tok, "expected a literal, found %s", tok)
	}
}

// optionalWhere parses "WHERE column op literal" if present.
func (p *parser) optionalWhere() (*WhereExpr, error) {
	if !p.atKeyword("WHERE") {
		return nil, nil
	}
	p.next()

	col, err := p.ident("column name in WHERE")
	if err != nil {
		return nil, err
	}
	opTok, err := p.expect(TokOperator, "comparison operator")
	if err != nil {
		return nil, err
	}
	op, ok := parseCompareOp(opTok.Text)
	if !ok {
		return nil, p.errorf(opTok, "unknown operator %q", opTok.Text)
	}
	val, err := p.literal()
	if err != nil {
		return nil, err
	}
	return &WhereExpr{Column: col, Op: op, Value: val}, nil
}
