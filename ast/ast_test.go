package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akashmaji946/corelang/ast"
	"github.com/akashmaji946/corelang/token"
)

func TestProgramStringRendersStatementsFullyParenthesized(t *testing.T) {
	prog := &ast.Program{
		Statements: []ast.Statement{
			&ast.LetStatement{
				Name: &ast.Identifier{Name: "x"},
				Value: &ast.InfixExpression{
					Left:     &ast.IntegerLiteral{Value: 1},
					Operator: "+",
					Right:    &ast.IntegerLiteral{Value: 2},
				},
			},
		},
	}
	assert.Equal(t, "let x = (1 + 2);\n", prog.String())
}

func TestSpanJoinsAcrossStatements(t *testing.T) {
	prog := &ast.Program{
		Statements: []ast.Statement{
			&ast.ExpressionStatement{Expr: &ast.IntegerLiteral{IntSpan: token.Span{Start: 0, End: 1}}},
			&ast.ExpressionStatement{Expr: &ast.IntegerLiteral{IntSpan: token.Span{Start: 5, End: 6}}},
		},
	}
	assert.Equal(t, token.Span{Start: 0, End: 6}, prog.Span())
}

func TestEmptyProgramSpanIsZero(t *testing.T) {
	assert.Equal(t, token.Span{}, (&ast.Program{}).Span())
}

func TestFunctionLiteralStringIncludesParametersAndBody(t *testing.T) {
	fn := &ast.FunctionLiteral{
		Parameters: []*ast.Identifier{{Name: "a"}, {Name: "b"}},
		Body: &ast.BlockStatement{
			Statements: []ast.Statement{
				&ast.ExpressionStatement{Expr: &ast.Identifier{Name: "a"}},
			},
		},
	}
	assert.Equal(t, "fn(a, b) { a }", fn.String())
}

func TestIndexAndCallExpressionString(t *testing.T) {
	call := &ast.CallExpression{
		Function: &ast.Identifier{Name: "push"},
		Arguments: []ast.Expression{
			&ast.Identifier{Name: "a"},
			&ast.IntegerLiteral{Value: 4},
		},
	}
	assert.Equal(t, "push(a, 4)", call.String())

	idx := &ast.IndexExpression{
		Collection: &ast.Identifier{Name: "a"},
		Index:      &ast.IntegerLiteral{Value: 0},
	}
	assert.Equal(t, "(a[0])", idx.String())
}
