package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/corelang/code"
	"github.com/akashmaji946/corelang/compiler"
	"github.com/akashmaji946/corelang/parser"
)

func compileSrc(t *testing.T, src string) *compiler.Program {
	t.Helper()
	prog, errs := parser.Parse(src)
	require.Empty(t, errs)
	return compiler.Compile(prog)
}

func TestCompileIntegerArithmetic(t *testing.T) {
	p := compileSrc(t, `1 + 2`)
	want := code.Instructions{}
	want = append(want, code.Make(code.OpConstant, 0)...)
	want = append(want, code.Make(code.OpConstant, 1)...)
	want = append(want, code.Make(code.OpAdd)...)
	want = append(want, code.Make(code.OpReturnValue)...)
	assert.Equal(t, want.String(), p.Ops.String())
	require.Len(t, p.Constants, 2)
}

func TestCompileLessThanSwapsOperandsAndUsesGreaterThan(t *testing.T) {
	p := compileSrc(t, `1 < 2`)
	want := code.Instructions{}
	want = append(want, code.Make(code.OpConstant, 0)...) // 2
	want = append(want, code.Make(code.OpConstant, 1)...) // 1
	want = append(want, code.Make(code.OpGreaterThan)...)
	want = append(want, code.Make(code.OpReturnValue)...)
	assert.Equal(t, want.String(), p.Ops.String())
}

func TestCompileIfElse(t *testing.T) {
	p := compileSrc(t, `if (true) { 10 } else { 20 }; 3333;`)
	disasm := p.Ops.String()
	assert.Contains(t, disasm, "OpJumpIfNot")
	assert.Contains(t, disasm, "OpJump")
}

func TestCompileLastExpressionStatementBecomesReturnValue(t *testing.T) {
	p := compileSrc(t, `5`)
	disasm := p.Ops.String()
	assert.Contains(t, disasm, "OpReturnValue")
	assert.NotContains(t, disasm, "OpPop")
}

func TestCompileFunctionLiteralProducesCompiledFunctionConstant(t *testing.T) {
	p := compileSrc(t, `let id = fn(x) { x }; id(5);`)
	require.NotEmpty(t, p.Constants)
	disasm := p.Ops.String()
	assert.Contains(t, disasm, "OpCall")
}

func TestCompileArrayReversesElementOrder(t *testing.T) {
	p := compileSrc(t, `[1, 2, 3]`)
	disasm := p.Ops.String()
	assert.Contains(t, disasm, "OpArray 3")
	require.Len(t, p.Constants, 3)
	assert.Equal(t, "3", p.Constants[0].Inspect())
	assert.Equal(t, "1", p.Constants[2].Inspect())
}
