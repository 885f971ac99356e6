package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/corelang/ast"
	"github.com/akashmaji946/corelang/parser"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, errs := parser.Parse(src)
	require.Empty(t, errs, "unexpected parse errors: %v", errs)
	return prog
}

func TestLetAndReturnStatements(t *testing.T) {
	prog := parseOK(t, `
		let x = 5;
		let y = 10;
		return x + y;
	`)
	require.Len(t, prog.Statements, 3)
	assert.IsType(t, &ast.LetStatement{}, prog.Statements[0])
	assert.IsType(t, &ast.LetStatement{}, prog.Statements[1])
	assert.IsType(t, &ast.ReturnStatement{}, prog.Statements[2])
}

func TestOperatorPrecedence(t *testing.T) {
	cases := []struct{ input, want string }{
		{"-a * b", "((-a) * b)\n"},
		{"!-a", "(!(-a))\n"},
		{"a + b + c", "((a + b) + c)\n"},
		{"a + b - c", "((a + b) - c)\n"},
		{"a * b * c", "((a * b) * c)\n"},
		{"a + b * c + d / e - f", "(((a + (b * c)) + (d / e)) - f)\n"},
		{"3 + 4; -5 * 5", "(3 + 4)\n((-5) * 5)\n"},
		{"5 > 4 == 3 < 4", "((5 > 4) == (3 < 4))\n"},
		{"5 < 4 != 3 > 4", "((5 < 4) != (3 > 4))\n"},
		{"3 + 4 * 5 == 3 * 1 + 4 * 5", "((3 + (4 * 5)) == ((3 * 1) + (4 * 5)))\n"},
		{"a + (b + c) + d", "((a + (b + c)) + d)\n"},
		{"(5 + 5) * 2", "((5 + 5) * 2)\n"},
		{"a * [1, 2, 3, 4][b * c] * d", "((a * ([1, 2, 3, 4][(b * c)])) * d)\n"},
		{"add(a * b[2], b[1], 2 * [1, 2][1])", "add((a * (b[2])), (b[1]), (2 * ([1, 2][1])))\n"},
	}
	for _, c := range cases {
		prog := parseOK(t, c.input)
		assert.Equal(t, c.want, prog.String(), "input %q", c.input)
	}
}

func TestIfElseExpression(t *testing.T) {
	prog := parseOK(t, `if (x < y) { x } else { y }`)
	require.Len(t, prog.Statements, 1)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	ifExpr, ok := stmt.Expr.(*ast.IfExpression)
	require.True(t, ok)
	require.NotNil(t, ifExpr.Alternative)
}

func TestFunctionLiteralParameters(t *testing.T) {
	prog := parseOK(t, `fn(x, y, z) { x + y; };`)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	fn := stmt.Expr.(*ast.FunctionLiteral)
	require.Len(t, fn.Parameters, 3)
	assert.Equal(t, "x", fn.Parameters[0].Name)
	assert.Equal(t, "y", fn.Parameters[1].Name)
	assert.Equal(t, "z", fn.Parameters[2].Name)
}

func TestLetBoundFunctionLiteralGetsItsOwnName(t *testing.T) {
	prog := parseOK(t, `let fact = fn(n) { n };`)
	let := prog.Statements[0].(*ast.LetStatement)
	fn := let.Value.(*ast.FunctionLiteral)
	assert.Equal(t, "fact", fn.Name)
}

func TestArrayAndMapLiterals(t *testing.T) {
	prog := parseOK(t, `[1, 2 * 2, 3 + 3]`)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	arr := stmt.Expr.(*ast.ArrayLiteral)
	require.Len(t, arr.Elements, 3)

	prog = parseOK(t, `{"one": 1, "two": 2}`)
	stmt = prog.Statements[0].(*ast.ExpressionStatement)
	m := stmt.Expr.(*ast.MapLiteral)
	require.Len(t, m.Pairs, 2)
}

func TestParseErrorRecoverySkipsToNextStatement(t *testing.T) {
	prog, errs := parser.Parse(`let x 5; let y = 10;`)
	require.NotEmpty(t, errs)
	require.Len(t, prog.Statements, 1)
	assert.Equal(t, "y", prog.Statements[0].(*ast.LetStatement).Name.Name)
}

func TestSpanCoversSourceText(t *testing.T) {
	src := `let x = 5;`
	prog := parseOK(t, src)
	let := prog.Statements[0].(*ast.LetStatement)
	assert.Equal(t, "let x = 5", src[let.Span().Start:let.Span().End])
}
