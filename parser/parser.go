// Package parser implements the Pratt (top-down operator precedence)
// expression parser from spec.md §4.2, grounded on the teacher's
// UnaryFuncs/BinaryFuncs dispatch-table idiom: prefix and infix parse
// functions keyed by token.Kind instead of a hand-written recursive-descent
// cascade per operator.
package parser

import (
	"fmt"
	"strconv"

	"github.com/akashmaji946/corelang/ast"
	"github.com/akashmaji946/corelang/lexer"
	"github.com/akashmaji946/corelang/token"
)

// precedence is the parser's operator-binding ladder (spec.md §4.2):
// Base < Equal < Cmp < Sum < Product < Prefix < Call == Index.
type precedence int

const (
	Base precedence = iota
	Equal
	Cmp
	Sum
	Product
	Prefix
	Call
	Index = Call
)

var precedences = map[token.Kind]precedence{
	token.EQ:       Equal,
	token.NOT_EQ:   Equal,
	token.LT:       Cmp,
	token.GT:       Cmp,
	token.PLUS:     Sum,
	token.MINUS:    Sum,
	token.SLASH:    Product,
	token.ASTERISK: Product,
	token.LPAREN:   Call,
	token.LBRACKET: Index,
}

// Unexpected reports a token that did not match what the grammar required
// at that position.
type Unexpected struct {
	Expected string
	Found    token.Token
}

func (e *Unexpected) Error() string {
	return fmt.Sprintf("expected %s, found %s (%q)", e.Expected, e.Found.Kind, e.Found.Literal)
}

func (e *Unexpected) ErrSpan() token.Span { return e.Found.Span }

// ParseInt reports a numeric literal the lexer accepted but strconv could
// not parse as an int64 (e.g. one wider than 64 bits).
type ParseInt struct {
	Literal string
	At      token.Span
}

func (e *ParseInt) Error() string {
	return fmt.Sprintf("could not parse %q as integer", e.Literal)
}

func (e *ParseInt) ErrSpan() token.Span { return e.At }

type (
	prefixParseFn func(p *Parser) (ast.Expression, error)
	infixParseFn  func(p *Parser, left ast.Expression) (ast.Expression, error)
)

// Parser consumes a lexer.Lexer's tokens and builds an ast.Program.
type Parser struct {
	lex *lexer.Lexer

	cur  token.Token
	peek token.Token

	prefixFns map[token.Kind]prefixParseFn
	infixFns  map[token.Kind]infixParseFn
}

// Parse lexes and parses source in one call, returning every statement that
// parsed along with every error encountered — parsing recovers at
// statement boundaries (spec.md §4.2) rather than aborting on the first
// error, so a caller can report more than one mistake per run.
func Parse(source string) (*ast.Program, []error) {
	p := New(lexer.New(source))
	return p.ParseProgram()
}

// New constructs a Parser over lex, primed with the first two tokens.
func New(lex *lexer.Lexer) *Parser {
	p := &Parser{lex: lex}
	p.prefixFns = map[token.Kind]prefixParseFn{
		token.IDENT:    (*Parser).parseIdentifier,
		token.INT:      (*Parser).parseIntegerLiteral,
		token.STRING:   (*Parser).parseStringLiteral,
		token.TRUE:     (*Parser).parseBoolean,
		token.FALSE:    (*Parser).parseBoolean,
		token.NULL:     (*Parser).parseNull,
		token.BANG:     (*Parser).parsePrefixExpression,
		token.MINUS:    (*Parser).parsePrefixExpression,
		token.LPAREN:   (*Parser).parseGroupedExpression,
		token.IF:       (*Parser).parseIfExpression,
		token.FUNCTION:  (*Parser).parseFunctionLiteral,
		token.LBRACKET: (*Parser).parseArrayLiteral,
		token.LBRACE:   (*Parser).parseMapLiteral,
	}
	p.infixFns = map[token.Kind]infixParseFn{
		token.PLUS:     (*Parser).parseInfixExpression,
		token.MINUS:    (*Parser).parseInfixExpression,
		token.SLASH:    (*Parser).parseInfixExpression,
		token.ASTERISK: (*Parser).parseInfixExpression,
		token.EQ:       (*Parser).parseInfixExpression,
		token.NOT_EQ:   (*Parser).parseInfixExpression,
		token.LT:       (*Parser).parseInfixExpression,
		token.GT:       (*Parser).parseInfixExpression,
		token.LPAREN:   (*Parser).parseCallExpression,
		token.LBRACKET: (*Parser).parseIndexExpression,
	}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek.Kind == k }

func (p *Parser) expect(k token.Kind, what string) (token.Token, error) {
	if !p.curIs(k) {
		return token.Token{}, &Unexpected{Expected: what, Found: p.cur}
	}
	t := p.cur
	p.next()
	return t, nil
}

func (p *Parser) peekPrecedence() precedence {
	if pr, ok := precedences[p.peek.Kind]; ok {
		return pr
	}
	return Base
}

func (p *Parser) curPrecedence() precedence {
	if pr, ok := precedences[p.cur.Kind]; ok {
		return pr
	}
	return Base
}

// ParseProgram parses every statement until EOF, recovering after each
// parse error by skipping forward to the next SEMICOLON (or EOF).
func (p *Parser) ParseProgram() (*ast.Program, []error) {
	prog := &ast.Program{}
	var errs []error

	for !p.curIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			errs = append(errs, err)
			p.recover()
			continue
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, errs
}

// recover skips tokens up to and including the next SEMICOLON, or until
// EOF, so one bad statement doesn't cascade into spurious follow-on errors.
func (p *Parser) recover() {
	for !p.curIs(token.SEMICOLON) && !p.curIs(token.EOF) {
		p.next()
	}
	if p.curIs(token.SEMICOLON) {
		p.next()
	}
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur.Kind {
	case token.LET:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() (ast.Statement, error) {
	letTok := p.cur
	p.next()

	nameTok, err := p.expect(token.IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	name := &ast.Identifier{Token: nameTok, Name: nameTok.Literal}

	if _, err := p.expect(token.ASSIGN, "'='"); err != nil {
		return nil, err
	}

	value, err := p.parseExpression(Base)
	if err != nil {
		return nil, err
	}
	if fn, ok := value.(*ast.FunctionLiteral); ok {
		fn.Name = name.Name
	}

	if p.curIs(token.SEMICOLON) {
		p.next()
	}
	return &ast.LetStatement{LetSpan: letTok.Span, Name: name, Value: value}, nil
}

func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	retTok := p.cur
	p.next()

	value, err := p.parseExpression(Base)
	if err != nil {
		return nil, err
	}

	if p.curIs(token.SEMICOLON) {
		p.next()
	}
	return &ast.ReturnStatement{ReturnSpan: retTok.Span, Value: value}, nil
}

func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	expr, err := p.parseExpression(Base)
	if err != nil {
		return nil, err
	}
	if p.curIs(token.SEMICOLON) {
		p.next()
	}
	return &ast.ExpressionStatement{Expr: expr}, nil
}

func (p *Parser) parseExpression(prec precedence) (ast.Expression, error) {
	prefix, ok := p.prefixFns[p.cur.Kind]
	if !ok {
		return nil, &Unexpected{Expected: "an expression", Found: p.cur}
	}
	left, err := prefix(p)
	if err != nil {
		return nil, err
	}

	for !p.curIs(token.SEMICOLON) && prec < p.curPrecedence() {
		infix, ok := p.infixFns[p.cur.Kind]
		if !ok {
			return left, nil
		}
		left, err = infix(p, left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseIdentifier() (ast.Expression, error) {
	id := &ast.Identifier{Token: p.cur, Name: p.cur.Literal}
	p.next()
	return id, nil
}

func (p *Parser) parseIntegerLiteral() (ast.Expression, error) {
	tok := p.cur
	v, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		return nil, &ParseInt{Literal: tok.Literal, At: tok.Span}
	}
	p.next()
	return &ast.IntegerLiteral{IntSpan: tok.Span, Value: v}, nil
}

func (p *Parser) parseStringLiteral() (ast.Expression, error) {
	tok := p.cur
	p.next()
	return &ast.StringLiteral{StrSpan: tok.Span, Value: tok.Literal}, nil
}

func (p *Parser) parseBoolean() (ast.Expression, error) {
	tok := p.cur
	p.next()
	return &ast.BooleanLiteral{BoolSpan: tok.Span, Value: tok.Kind == token.TRUE}, nil
}

func (p *Parser) parseNull() (ast.Expression, error) {
	tok := p.cur
	p.next()
	return &ast.NullLiteral{NullSpan: tok.Span}, nil
}

func (p *Parser) parsePrefixExpression() (ast.Expression, error) {
	tok := p.cur
	p.next()
	right, err := p.parseExpression(Prefix)
	if err != nil {
		return nil, err
	}
	return &ast.PrefixExpression{OpSpan: tok.Span, Operator: tok.Literal, Right: right}, nil
}

func (p *Parser) parseInfixExpression(left ast.Expression) (ast.Expression, error) {
	tok := p.cur
	prec := p.curPrecedence()
	p.next()
	right, err := p.parseExpression(prec)
	if err != nil {
		return nil, err
	}
	return &ast.InfixExpression{Left: left, OpSpan: tok.Span, Operator: tok.Literal, Right: right}, nil
}

func (p *Parser) parseGroupedExpression() (ast.Expression, error) {
	p.next()
	expr, err := p.parseExpression(Base)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseIfExpression() (ast.Expression, error) {
	ifTok := p.cur
	p.next()

	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(Base)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}

	cons, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}

	ifExpr := &ast.IfExpression{IfSpan: ifTok.Span, Condition: cond, Consequence: cons}

	if p.curIs(token.ELSE) {
		p.next()
		alt, err := p.parseBlockStatement()
		if err != nil {
			return nil, err
		}
		ifExpr.Alternative = alt
	}
	return ifExpr, nil
}

func (p *Parser) parseBlockStatement() (*ast.BlockStatement, error) {
	openTok, err := p.expect(token.LBRACE, "'{'")
	if err != nil {
		return nil, err
	}

	block := &ast.BlockStatement{Open: openTok.Span}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}

	closeTok, err := p.expect(token.RBRACE, "'}'")
	if err != nil {
		return nil, err
	}
	block.Close = closeTok.Span
	return block, nil
}

func (p *Parser) parseFunctionLiteral() (ast.Expression, error) {
	fnTok := p.cur
	p.next()

	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	params, err := p.parseFunctionParameters()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionLiteral{FnSpan: fnTok.Span, Parameters: params, Body: body}, nil
}

func (p *Parser) parseFunctionParameters() ([]*ast.Identifier, error) {
	var params []*ast.Identifier

	if p.curIs(token.RPAREN) {
		p.next()
		return params, nil
	}

	idTok, err := p.expect(token.IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	params = append(params, &ast.Identifier{Token: idTok, Name: idTok.Literal})

	for p.curIs(token.COMMA) {
		p.next()
		idTok, err := p.expect(token.IDENT, "identifier")
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Identifier{Token: idTok, Name: idTok.Literal})
	}

	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseCallExpression(fn ast.Expression) (ast.Expression, error) {
	openTok := p.cur
	p.next()
	args, closeTok, err := p.parseExpressionList(token.RPAREN)
	if err != nil {
		return nil, err
	}
	return &ast.CallExpression{Function: fn, OpenSpan: openTok.Span, Arguments: args, CloseSpan: closeTok.Span}, nil
}

func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	openTok := p.cur
	p.next()
	elems, closeTok, err := p.parseExpressionList(token.RBRACKET)
	if err != nil {
		return nil, err
	}
	return &ast.ArrayLiteral{Open: openTok.Span, Close: closeTok.Span, Elements: elems}, nil
}

// parseExpressionList parses a comma-separated list of expressions up to
// and including the closing token `end` (RPAREN or RBRACKET), shared by
// call arguments and array literals.
func (p *Parser) parseExpressionList(end token.Kind) ([]ast.Expression, token.Token, error) {
	var list []ast.Expression

	if p.curIs(end) {
		closeTok := p.cur
		p.next()
		return list, closeTok, nil
	}

	expr, err := p.parseExpression(Base)
	if err != nil {
		return nil, token.Token{}, err
	}
	list = append(list, expr)

	for p.curIs(token.COMMA) {
		p.next()
		expr, err := p.parseExpression(Base)
		if err != nil {
			return nil, token.Token{}, err
		}
		list = append(list, expr)
	}

	closeTok, err := p.expect(end, "closing "+end.String())
	if err != nil {
		return nil, token.Token{}, err
	}
	return list, closeTok, nil
}

func (p *Parser) parseIndexExpression(left ast.Expression) (ast.Expression, error) {
	p.next()
	idx, err := p.parseExpression(Base)
	if err != nil {
		return nil, err
	}
	closeTok, err := p.expect(token.RBRACKET, "']'")
	if err != nil {
		return nil, err
	}
	return &ast.IndexExpression{Collection: left, Index: idx, CloseSpan: closeTok.Span}, nil
}

func (p *Parser) parseMapLiteral() (ast.Expression, error) {
	openTok := p.cur
	p.next()

	var pairs []ast.HashPair
	for !p.curIs(token.RBRACE) {
		key, err := p.parseExpression(Base)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON, "':'"); err != nil {
			return nil, err
		}
		val, err := p.parseExpression(Base)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, ast.HashPair{Key: key, Value: val})

		if p.curIs(token.RBRACE) {
			break
		}
		if _, err := p.expect(token.COMMA, "',' or '}'"); err != nil {
			return nil, err
		}
	}

	closeTok, err := p.expect(token.RBRACE, "'}'")
	if err != nil {
		return nil, err
	}
	return &ast.MapLiteral{Open: openTok.Span, Close: closeTok.Span, Pairs: pairs}, nil
}
