package evaluator_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/corelang/evaluator"
	"github.com/akashmaji946/corelang/object"
	"github.com/akashmaji946/corelang/parser"
)

func run(t *testing.T, src string) (object.Object, error, *bytes.Buffer) {
	t.Helper()
	prog, errs := parser.Parse(src)
	require.Empty(t, errs)
	var out bytes.Buffer
	ev := evaluator.New(&out)
	env := evaluator.NewEnvironment()
	result, err := ev.EvalProgram(prog, env)
	return result, err, &out
}

func TestIntegerArithmetic(t *testing.T) {
	cases := []struct {
		input string
		want  int64
	}{
		{"5", 5},
		{"5 + 5 + 5 + 5 - 10", 10},
		{"2 * 2 * 2 * 2 * 2", 32},
		{"-50 + 100 + -50", 0},
		{"5 * 2 + 10", 20},
		{"5 + 2 * 10", 25},
		{"20 + 2 * -10", 0},
		{"(5 + 10 * 2 + 15 / 3) * 2 + -10", 50},
	}
	for _, c := range cases {
		result, err, _ := run(t, c.input)
		require.NoError(t, err, c.input)
		assert.Equal(t, c.want, result.(*object.Integer).Value, c.input)
	}
}

func TestBooleanAndComparison(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"1 < 2", true},
		{"1 > 2", false},
		{"1 == 1", true},
		{"1 != 1", false},
		{"true == true", true},
		{"true != false", true},
		{"(1 < 2) == true", true},
	}
	for _, c := range cases {
		result, err, _ := run(t, c.input)
		require.NoError(t, err, c.input)
		assert.Equal(t, c.want, result.(*object.Boolean).Value, c.input)
	}
}

func TestIfElse(t *testing.T) {
	result, err, _ := run(t, `if (true) { 10 } else { 20 }`)
	require.NoError(t, err)
	assert.Equal(t, int64(10), result.(*object.Integer).Value)

	result, err, _ = run(t, `if (false) { 10 }`)
	require.NoError(t, err)
	assert.IsType(t, &object.Null{}, result)
}

func TestReturnStatement(t *testing.T) {
	result, err, _ := run(t, `
		let f = fn(x) {
			if (x > 10) {
				return x;
			}
			return -1;
		};
		f(20);
	`)
	require.NoError(t, err)
	assert.Equal(t, int64(20), result.(*object.Integer).Value)
}

func TestClosuresCaptureEnvironment(t *testing.T) {
	result, err, _ := run(t, `
		let makeAdder = fn(x) { fn(y) { x + y } };
		let addTwo = makeAdder(2);
		addTwo(3);
	`)
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.(*object.Integer).Value)
}

func TestRecursion(t *testing.T) {
	result, err, _ := run(t, `
		let fact = fn(n) { if (n < 2) { 1 } else { n * fact(n - 1) } };
		fact(5);
	`)
	require.NoError(t, err)
	assert.Equal(t, int64(120), result.(*object.Integer).Value)
}

func TestArrayAndIndexing(t *testing.T) {
	result, err, _ := run(t, `[1, 2, 3][1]`)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.(*object.Integer).Value)

	_, err, _ = run(t, `[1, 2, 3][5]`)
	require.Error(t, err)
}

func TestMapIndexingMissingKeyIsNull(t *testing.T) {
	result, err, _ := run(t, `{"a": 1}["b"]`)
	require.NoError(t, err)
	assert.IsType(t, &object.Null{}, result)
}

func TestBuiltins(t *testing.T) {
	result, err, _ := run(t, `len("hello")`)
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.(*object.Integer).Value)

	result, err, _ = run(t, `push([1, 2], 3)`)
	require.NoError(t, err)
	assert.Equal(t, 3, len(result.(*object.Array).Elements))

	result, err, _ = run(t, `first([])`)
	require.NoError(t, err)
	assert.IsType(t, &object.Null{}, result)
}

func TestPrintWritesToInjectedWriter(t *testing.T) {
	_, err, out := run(t, `print("hello", "world")`)
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out.String())
}

func TestErrorsAccumulateAcrossSiblingStatements(t *testing.T) {
	_, err, _ := run(t, `
		1 + true;
		true + 1;
	`)
	require.Error(t, err)
	multi, ok := err.(langerrMulti)
	if ok {
		assert.Len(t, multi.Errors(), 2)
	}
}

// langerrMulti mirrors langerr.Multi's exported surface without importing
// the package twice under a different alias.
type langerrMulti interface {
	Errors() []error
}
