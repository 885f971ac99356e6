// Package ast defines the abstract syntax tree produced by the parser: a
// closed pair of tagged unions, Statement and Expression, plus the shared
// BlockStatement and Identifier nodes. Every node carries enough span
// information to reconstruct its source range, which both back-ends and the
// diagnostic reporter rely on.
//
// Unlike the teacher's dynamic-dispatch visitor hierarchy (open to new node
// kinds via an Accept/Visitor pair), this AST is a closed set: the grammar
// is fixed by the language, so each node type is a concrete struct and
// dispatch happens with a type switch in the parser, evaluator, and
// compiler. That is the idiomatic Go shape for a closed tree — the same one
// the standard library's own go/ast package uses.
package ast

import "github.com/akashmaji946/corelang/token"

// Node is implemented by every AST node.
type Node interface {
	Span() token.Span
}

// Statement is implemented by every statement node.
type Statement interface {
	Node
	statementNode()
}

// Expression is implemented by every expression node.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root of a parsed source file: an ordered list of
// statements.
type Program struct {
	Statements []Statement
}

// Span covers the whole program (empty span if there are no statements).
func (p *Program) Span() token.Span {
	if len(p.Statements) == 0 {
		return token.Span{}
	}
	return token.Join(p.Statements[0].Span(), p.Statements[len(p.Statements)-1].Span())
}

// Identifier names a variable, function parameter, or let-binding.
type Identifier struct {
	Token token.Token // the IDENT token
	Name  string
}

func (i *Identifier) expressionNode()    {}
func (i *Identifier) Span() token.Span   { return i.Token.Span }
func (i *Identifier) String() string     { return i.Name }

// BlockStatement is a brace-delimited sequence of statements, used by if/
// else branches and function bodies.
type BlockStatement struct {
	Open, Close token.Span
	Statements  []Statement
}

func (b *BlockStatement) Span() token.Span { return token.Join(b.Open, b.Close) }

// ---- Statements ----

// LetStatement binds Value to Name in the current scope.
type LetStatement struct {
	LetSpan token.Span
	Name    *Identifier
	Value   Expression
}

func (l *LetStatement) statementNode() {}
func (l *LetStatement) Span() token.Span {
	return token.Join(l.LetSpan, l.Value.Span())
}

// ReturnStatement wraps Value as the function's result and unwinds the
// enclosing call (or the program, at top level).
type ReturnStatement struct {
	ReturnSpan token.Span
	Value      Expression
}

func (r *ReturnStatement) statementNode() {}
func (r *ReturnStatement) Span() token.Span {
	return token.Join(r.ReturnSpan, r.Value.Span())
}

// ExpressionStatement is an expression evaluated for its value (and, at the
// end of a block or program, used as that block's result), then discarded.
type ExpressionStatement struct {
	Expr Expression
}

func (e *ExpressionStatement) statementNode()  {}
func (e *ExpressionStatement) Span() token.Span { return e.Expr.Span() }

// ---- Expressions ----

// IntegerLiteral is a decimal integer constant.
type IntegerLiteral struct {
	IntSpan token.Span
	Value   int64
}

func (i *IntegerLiteral) expressionNode()  {}
func (i *IntegerLiteral) Span() token.Span { return i.IntSpan }

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	BoolSpan token.Span
	Value    bool
}

func (b *BooleanLiteral) expressionNode()  {}
func (b *BooleanLiteral) Span() token.Span { return b.BoolSpan }

// StringLiteral is a double-quoted string constant; Value excludes the
// quotes.
type StringLiteral struct {
	StrSpan token.Span
	Value   string
}

func (s *StringLiteral) expressionNode()  {}
func (s *StringLiteral) Span() token.Span { return s.StrSpan }

// NullLiteral is the `null` keyword.
type NullLiteral struct {
	NullSpan token.Span
}

func (n *NullLiteral) expressionNode()  {}
func (n *NullLiteral) Span() token.Span { return n.NullSpan }

// PrefixExpression is `!x` or `-x`.
type PrefixExpression struct {
	OpSpan   token.Span
	Operator string
	Right    Expression
}

func (p *PrefixExpression) expressionNode() {}
func (p *PrefixExpression) Span() token.Span {
	return token.Join(p.OpSpan, p.Right.Span())
}

// InfixExpression is `left OP right` for one of + - * / == != < >.
type InfixExpression struct {
	Left     Expression
	OpSpan   token.Span
	Operator string
	Right    Expression
}

func (i *InfixExpression) expressionNode() {}
func (i *InfixExpression) Span() token.Span {
	return token.Join(i.Left.Span(), i.Right.Span())
}

// IfExpression evaluates Condition and executes Consequence if truthy,
// otherwise Alternative (if present; else the expression is Null).
type IfExpression struct {
	IfSpan      token.Span
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement // nil if there is no else branch
}

func (f *IfExpression) expressionNode() {}
func (f *IfExpression) Span() token.Span {
	end := f.Consequence.Span()
	if f.Alternative != nil {
		end = f.Alternative.Span()
	}
	return token.Join(f.IfSpan, end)
}

// FunctionLiteral is `fn(params) { body }`. Name is set by the parser only
// when the literal is the direct right-hand side of a `let`, so the
// evaluator and compiler can support self-referential recursion without a
// separate AST pass.
type FunctionLiteral struct {
	FnSpan     token.Span
	Parameters []*Identifier
	Body       *BlockStatement
	Name       string
}

func (f *FunctionLiteral) expressionNode()  {}
func (f *FunctionLiteral) Span() token.Span { return token.Join(f.FnSpan, f.Body.Span()) }

// CallExpression invokes Function with Arguments.
type CallExpression struct {
	Function   Expression
	OpenSpan   token.Span
	Arguments  []Expression
	CloseSpan  token.Span
}

func (c *CallExpression) expressionNode() {}
func (c *CallExpression) Span() token.Span {
	return token.Join(c.Function.Span(), c.CloseSpan)
}

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	Open, Close token.Span
	Elements    []Expression
}

func (a *ArrayLiteral) expressionNode()  {}
func (a *ArrayLiteral) Span() token.Span { return token.Join(a.Open, a.Close) }

// IndexExpression is `collection[index]`.
type IndexExpression struct {
	Collection Expression
	Index      Expression
	CloseSpan  token.Span
}

func (ix *IndexExpression) expressionNode() {}
func (ix *IndexExpression) Span() token.Span {
	return token.Join(ix.Collection.Span(), ix.CloseSpan)
}

// HashPair is one `key: value` entry of a MapLiteral, in source order.
type HashPair struct {
	Key   Expression
	Value Expression
}

// MapLiteral is `{k1: v1, k2: v2, ...}`.
type MapLiteral struct {
	Open, Close token.Span
	Pairs       []HashPair
}

func (m *MapLiteral) expressionNode()  {}
func (m *MapLiteral) Span() token.Span { return token.Join(m.Open, m.Close) }
