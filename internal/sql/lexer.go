package sql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"minidb/internal/dberr"
)

// sqlLexer recognises the raw lexemes of the dialect. Rules are tried in
// order, so the error rules (Unterminated, BadNumber, Invalid) only fire
// when nothing valid matched at that position.
var sqlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `'(?:[^'\\]|\\.|'')*'|"(?:[^"\\]|\\.)*"`},
	{Name: "Unterminated", Pattern: `['"]`},
	{Name: "BadNumber", Pattern: `-?\d+(?:\.\d*)?[\p{L}_][\p{L}\p{N}_]*|-?\d+\.\d*\.[\d.]*`},
	{Name: "Float", Pattern: `-?\d+\.\d*`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*`},
	{Name: "Operator", Pattern: `<=|>=|<>|!=|=|<|>`},
	{Name: "Punct", Pattern: `[(),;*]`},
	{Name: "Invalid", Pattern: `[\s\S]`},
})

var (
	symbols         = sqlLexer.Symbols()
	symWhitespace   = symbols["Whitespace"]
	symString       = symbols["String"]
	symUnterminated = symbols["Unterminated"]
	symBadNumber    = symbols["BadNumber"]
	symFloat        = symbols["Float"]
	symInt          = symbols["Int"]
	symIdent        = symbols["Ident"]
	symOperator     = symbols["Operator"]
	symPunct        = symbols["Punct"]
)

// keywords are matched case-insensitively. Type names are not reserved;
// the parser recognises them by position.
var keywords = map[string]struct{}{
	"CREATE": {}, "TABLE": {}, "INDEX": {}, "ON": {},
	"INSERT": {}, "INTO": {}, "VALUES": {},
	"SELECT": {}, "FROM": {}, "WHERE": {},
	"UPDATE": {}, "SET": {}, "DELETE": {},
}

// TokenKind identifies the class of a Token.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokKeyword
	TokIdent
	TokInt
	TokFloat
	TokString
	TokOperator
	TokLParen
	TokRParen
	TokComma
	TokStar
	TokSemicolon
)

// Token is one lexeme with its decoded payload and source position.
type Token struct {
	Kind TokenKind

	// Text is the upper-cased keyword, the identifier or operator as written,
	// the decoded contents of a string literal, or a number's source text.
	Text string

	Int   int64   // TokInt
	Float float64 // TokFloat

	Line   int
	Column int
}

// String describes the token for error messages.
func (t Token) String() string {
	switch t.Kind {
	case TokEOF:
		return "end of input"
	case TokKeyword:
		return t.Text
	case TokIdent:
		return fmt.Sprintf("identifier %q", t.Text)
	case TokString:
		return fmt.Sprintf("string '%s'", t.Text)
	case TokInt, TokFloat:
		return fmt.Sprintf("number %s", t.Text)
	default:
		return fmt.Sprintf("%q", t.Text)
	}
}

// Lex splits input into tokens. Whitespace is dropped and the result always
// ends with a TokEOF token carrying the end position.
func Lex(input string) ([]Token, error) {
	lx, err := sqlLexer.LexString("", input)
	if err != nil {
		return nil, dberr.New(dberr.KindLex, "", "%v", err)
	}

	var out []Token
	for {
		raw, err := lx.Next()
		if err != nil {
			return nil, dberr.New(dberr.KindLex, "", "%v", err)
		}
		line, col := raw.Pos.Line, raw.Pos.Column
		if raw.EOF() {
			return append(out, Token{Kind: TokEOF, Line: line, Column: col}), nil
		}

		tok := Token{Text: raw.Value, Line: line, Column: col}
		switch raw.Type {
		case symWhitespace:
			continue
		case symString:
			tok.Kind = TokString
			tok.Text = unquote(raw.Value)
		case symUnterminated:
			return nil, dberr.At(dberr.KindLex, line, col, "unterminated string literal")
		case symBadNumber:
			return nil, dberr.At(dberr.KindLex, line, col, "invalid numeric literal %q", raw.Value)
		case symFloat:
			f, err := strconv.ParseFloat(raw.Value, 64)
			if err != nil {
				return nil, dberr.At(dberr.KindLex, line, col, "invalid float literal %q", raw.Value)
			}
			tok.Kind, tok.Float = TokFloat, f
		case symInt:
			n, err := strconv.ParseInt(raw.Value, 10, 64)
			if err != nil {
				return nil, dberr.At(dberr.KindLex, line, col, "invalid integer literal %q", raw.Value)
			}
			tok.Kind, tok.Int = TokInt, n
		case symIdent:
			if upper := strings.ToUpper(raw.Value); isKeyword(upper) {
				tok.Kind, tok.Text = TokKeyword, upper
			} else {
				tok.Kind = TokIdent
			}
		case symOperator:
			tok.Kind = TokOperator
		case symPunct:
			tok.Kind = punctKind(raw.Value)
		default:
			return nil, dberr.At(dberr.KindLex, line, col, "unexpected character %q", raw.Value)
		}
		out = append(out, tok)
	}
}

func isKeyword(upper string) bool {
	_, ok := keywords[upper]
	return ok
}

func punctKind(s string) TokenKind {
	switch s {
	case "(":
		return TokLParen
	case ")":
		return TokRParen
	case ",":
		return TokComma
	case ";":
		return TokSemicolon
	default:
		return TokStar
	}
}

// unquote strips the surrounding quotes and decodes backslash escapes.
// Inside single quotes a doubled '' stands for one quote.
func unquote(lit string) string {
	quote := lit[0]
	body := lit[1 : len(lit)-1]
	if !strings.ContainsAny(body, `\'`) {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			i++
			switch body[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(body[i])
			}
		case c == '\'' && quote == '\'' && i+1 < len(body) && body[i+1] == '\'':
			b.WriteByte('\'')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
