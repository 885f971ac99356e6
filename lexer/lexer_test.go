package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akashmaji946/corelang/token"
)

type expectedToken struct {
	kind    token.Kind
	literal string
}

func TestNextToken_Operators(t *testing.T) {
	input := `=+(){},;*/<>!`

	expected := []expectedToken{
		{token.ASSIGN, "="},
		{token.PLUS, "+"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.COMMA, ","},
		{token.SEMICOLON, ";"},
		{token.ASTERISK, "*"},
		{token.SLASH, "/"},
		{token.LT, "<"},
		{token.GT, ">"},
		{token.BANG, "!"},
		{token.EOF, ""},
	}

	lex := New(input)
	for i, want := range expected {
		got := lex.NextToken()
		assert.Equal(t, want.kind, got.Kind, "token %d", i)
		assert.Equal(t, want.literal, got.Literal, "token %d", i)
	}
}

func TestNextToken_TwoCharOperators(t *testing.T) {
	input := `== != = !`
	expected := []expectedToken{
		{token.EQ, "=="},
		{token.NOT_EQ, "!="},
		{token.ASSIGN, "="},
		{token.BANG, "!"},
		{token.EOF, ""},
	}
	lex := New(input)
	for i, want := range expected {
		got := lex.NextToken()
		assert.Equal(t, want.kind, got.Kind, "token %d", i)
		assert.Equal(t, want.literal, got.Literal, "token %d", i)
	}
}

func TestNextToken_Program(t *testing.T) {
	input := `
let five = 5;
let ten = 10;

let add = fn(x, y) {
  x + y;
};

let result = add(five, ten);
!-/*5;
5 < 10 > 5;

if (5 < 10) {
	return true;
} else {
	return false;
}

10 == 10;
10 != 9;
"foobar";
"foo bar";
[1, 2];
{"foo": "bar"};
null;
`

	expected := []expectedToken{
		{token.LET, "let"}, {token.IDENT, "five"}, {token.ASSIGN, "="}, {token.INT, "5"}, {token.SEMICOLON, ";"},
		{token.LET, "let"}, {token.IDENT, "ten"}, {token.ASSIGN, "="}, {token.INT, "10"}, {token.SEMICOLON, ";"},
		{token.LET, "let"}, {token.IDENT, "add"}, {token.ASSIGN, "="}, {token.FUNCTION, "fn"},
		{token.LPAREN, "("}, {token.IDENT, "x"}, {token.COMMA, ","}, {token.IDENT, "y"}, {token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IDENT, "x"}, {token.PLUS, "+"}, {token.IDENT, "y"}, {token.SEMICOLON, ";"},
		{token.RBRACE, "}"}, {token.SEMICOLON, ";"},
		{token.LET, "let"}, {token.IDENT, "result"}, {token.ASSIGN, "="}, {token.IDENT, "add"},
		{token.LPAREN, "("}, {token.IDENT, "five"}, {token.COMMA, ","}, {token.IDENT, "ten"}, {token.RPAREN, ")"}, {token.SEMICOLON, ";"},
		{token.BANG, "!"}, {token.MINUS, "-"}, {token.SLASH, "/"}, {token.ASTERISK, "*"}, {token.INT, "5"}, {token.SEMICOLON, ";"},
		{token.INT, "5"}, {token.LT, "<"}, {token.INT, "10"}, {token.GT, ">"}, {token.INT, "5"}, {token.SEMICOLON, ";"},
		{token.IF, "if"}, {token.LPAREN, "("}, {token.INT, "5"}, {token.LT, "<"}, {token.INT, "10"}, {token.RPAREN, ")"},
		{token.LBRACE, "{"}, {token.RETURN, "return"}, {token.TRUE, "true"}, {token.SEMICOLON, ";"}, {token.RBRACE, "}"},
		{token.ELSE, "else"},
		{token.LBRACE, "{"}, {token.RETURN, "return"}, {token.FALSE, "false"}, {token.SEMICOLON, ";"}, {token.RBRACE, "}"},
		{token.INT, "10"}, {token.EQ, "=="}, {token.INT, "10"}, {token.SEMICOLON, ";"},
		{token.INT, "10"}, {token.NOT_EQ, "!="}, {token.INT, "9"}, {token.SEMICOLON, ";"},
		{token.STRING, "foobar"}, {token.SEMICOLON, ";"},
		{token.STRING, "foo bar"}, {token.SEMICOLON, ";"},
		{token.LBRACKET, "["}, {token.INT, "1"}, {token.COMMA, ","}, {token.INT, "2"}, {token.RBRACKET, "]"}, {token.SEMICOLON, ";"},
		{token.LBRACE, "{"}, {token.STRING, "foo"}, {token.COLON, ":"}, {token.STRING, "bar"}, {token.RBRACE, "}"}, {token.SEMICOLON, ";"},
		{token.NULL, "null"}, {token.SEMICOLON, ";"},
		{token.EOF, ""},
	}

	lex := New(input)
	for i, want := range expected {
		got := lex.NextToken()
		assert.Equal(t, want.kind, got.Kind, "token %d (%q)", i, got.Literal)
		assert.Equal(t, want.literal, got.Literal, "token %d", i)
	}
}

func TestNextToken_SpanIsExactSourceFootprint(t *testing.T) {
	input := `let x = "hi" + 42;`
	lex := New(input)
	for {
		tok := lex.NextToken()
		if tok.Kind == token.EOF {
			break
		}
		if tok.Kind == token.STRING {
			// STRING literal excludes the surrounding quotes, but its span
			// still covers them.
			assert.Equal(t, `"hi"`, tok.Span.Slice(input))
			continue
		}
		assert.Equal(t, tok.Literal, tok.Span.Slice(input))
	}
}

func TestNextToken_IllegalCharacter(t *testing.T) {
	lex := New("@")
	tok := lex.NextToken()
	assert.Equal(t, token.ILLEGAL, tok.Kind)
	assert.Equal(t, "@", tok.Literal)
}
