package lexer

import (
	"testing"

	"github.com/jchitel/renlang-sub002/internal/token"
)

func TestNextTokenBasics(t *testing.T) {
	input := `func int add(int a, int b) => a + b
const x = 10
type T = (int, string)
// a comment
/* block
   comment */
if (a >= b) { return 1 } else { return 0 }
`
	want := []token.Kind{
		token.FUNC, token.IDENT, token.IDENT, token.LPAREN, token.IDENT, token.IDENT,
		token.COMMA, token.IDENT, token.IDENT, token.RPAREN, token.ARROW, token.IDENT,
		token.PLUS, token.IDENT,
		token.CONST, token.IDENT, token.ASSIGN, token.INT,
		token.TYPE, token.IDENT, token.ASSIGN, token.LPAREN, token.IDENT, token.COMMA, token.IDENT, token.RPAREN,
		token.IF, token.LPAREN, token.IDENT, token.GE, token.IDENT, token.RPAREN,
		token.LBRACE, token.RETURN, token.INT, token.RBRACE,
		token.ELSE, token.LBRACE, token.RETURN, token.INT, token.RBRACE,
		token.EOF,
	}

	l := New(input)
	for i, k := range want {
		tok := l.NextToken()
		if tok.Kind != k {
			t.Fatalf("token %d: got %s, want %s (literal %q)", i, tok.Kind, k, tok.Literal)
		}
	}
}

func TestNextTokenLiterals(t *testing.T) {
	l := New(`"hi\n" 'x' 3.14 42`)
	tok := l.NextToken()
	if tok.Kind != token.STRING || tok.Literal != "hi\n" {
		t.Fatalf("got %+v", tok)
	}
	tok = l.NextToken()
	if tok.Kind != token.CHAR || tok.Literal != "x" {
		t.Fatalf("got %+v", tok)
	}
	tok = l.NextToken()
	if tok.Kind != token.FLOAT || tok.Literal != "3.14" {
		t.Fatalf("got %+v", tok)
	}
	tok = l.NextToken()
	if tok.Kind != token.INT || tok.Literal != "42" {
		t.Fatalf("got %+v", tok)
	}
}

func TestPositionTracking(t *testing.T) {
	l := New("ab\ncd")
	tok := l.NextToken()
	if tok.Pos.Line != 1 || tok.Pos.Column != 1 {
		t.Fatalf("got pos %+v", tok.Pos)
	}
	tok = l.NextToken()
	if tok.Pos.Line != 2 || tok.Pos.Column != 1 {
		t.Fatalf("got pos %+v", tok.Pos)
	}
}
