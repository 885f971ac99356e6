package ast

import (
	"bytes"
	"fmt"
	"strings"
)

// String renders p back to a canonical source form (statements separated by
// newlines). It is used to test the parser's precedence handling: parsing
// then printing an expression should reproduce it modulo whitespace and
// canonical parenthesization (see spec.md §8).
func (p *Program) String() string {
	var buf bytes.Buffer
	for _, s := range p.Statements {
		buf.WriteString(stmtString(s))
		buf.WriteString("\n")
	}
	return buf.String()
}

func stmtString(s Statement) string {
	switch n := s.(type) {
	case *LetStatement:
		return fmt.Sprintf("let %s = %s;", n.Name.Name, exprString(n.Value))
	case *ReturnStatement:
		return fmt.Sprintf("return %s;", exprString(n.Value))
	case *ExpressionStatement:
		return exprString(n.Expr)
	default:
		return "<?stmt?>"
	}
}

func blockString(b *BlockStatement) string {
	var buf bytes.Buffer
	buf.WriteString("{ ")
	for _, s := range b.Statements {
		buf.WriteString(stmtString(s))
		buf.WriteString(" ")
	}
	buf.WriteString("}")
	return buf.String()
}

// exprString renders e fully parenthesized so that the resulting text is
// unambiguous regardless of the precedence ladder — this is how the parser
// tests assert on operator precedence without re-implementing the grammar.
func exprString(e Expression) string {
	switch n := e.(type) {
	case *Identifier:
		return n.Name
	case *IntegerLiteral:
		return fmt.Sprintf("%d", n.Value)
	case *BooleanLiteral:
		return fmt.Sprintf("%t", n.Value)
	case *StringLiteral:
		return fmt.Sprintf("%q", n.Value)
	case *NullLiteral:
		return "null"
	case *PrefixExpression:
		return fmt.Sprintf("(%s%s)", n.Operator, exprString(n.Right))
	case *InfixExpression:
		return fmt.Sprintf("(%s %s %s)", exprString(n.Left), n.Operator, exprString(n.Right))
	case *IfExpression:
		var buf bytes.Buffer
		buf.WriteString(fmt.Sprintf("if (%s) %s", exprString(n.Condition), blockString(n.Consequence)))
		if n.Alternative != nil {
			buf.WriteString(" else ")
			buf.WriteString(blockString(n.Alternative))
		}
		return buf.String()
	case *FunctionLiteral:
		params := make([]string, len(n.Parameters))
		for i, p := range n.Parameters {
			params[i] = p.Name
		}
		return fmt.Sprintf("fn(%s) %s", strings.Join(params, ", "), blockString(n.Body))
	case *CallExpression:
		args := make([]string, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = exprString(a)
		}
		return fmt.Sprintf("%s(%s)", exprString(n.Function), strings.Join(args, ", "))
	case *ArrayLiteral:
		elems := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = exprString(el)
		}
		return fmt.Sprintf("[%s]", strings.Join(elems, ", "))
	case *IndexExpression:
		return fmt.Sprintf("(%s[%s])", exprString(n.Collection), exprString(n.Index))
	case *MapLiteral:
		pairs := make([]string, len(n.Pairs))
		for i, pr := range n.Pairs {
			pairs[i] = fmt.Sprintf("%s: %s", exprString(pr.Key), exprString(pr.Value))
		}
		return fmt.Sprintf("{%s}", strings.Join(pairs, ", "))
	default:
		return "<?expr?>"
	}
}

// String renders e via exprString, so every Expression is also a Stringer.
func (i *IntegerLiteral) String() string    { return exprString(i) }
func (b *BooleanLiteral) String() string    { return exprString(b) }
func (s *StringLiteral) String() string     { return exprString(s) }
func (n *NullLiteral) String() string       { return exprString(n) }
func (p *PrefixExpression) String() string  { return exprString(p) }
func (i *InfixExpression) String() string   { return exprString(i) }
func (f *IfExpression) String() string      { return exprString(f) }
func (f *FunctionLiteral) String() string   { return exprString(f) }
func (c *CallExpression) String() string    { return exprString(c) }
func (a *ArrayLiteral) String() string      { return exprString(a) }
func (ix *IndexExpression) String() string  { return exprString(ix) }
func (m *MapLiteral) String() string        { return exprString(m) }
