package langerr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akashmaji946/corelang/langerr"
	"github.com/akashmaji946/corelang/token"
)

func TestWrapEmptyReturnsNil(t *testing.T) {
	assert.Nil(t, langerr.Wrap(nil))
}

func TestWrapSingleReturnsLoneError(t *testing.T) {
	e := langerr.DivisionByZeroErr(token.Span{Start: 0, End: 1})
	wrapped := langerr.Wrap([]error{e})
	assert.Same(t, error(e), wrapped)
}

func TestWrapMultipleReturnsMulti(t *testing.T) {
	e1 := langerr.DivisionByZeroErr(token.Span{Start: 0, End: 1})
	e2 := langerr.UndefinedVariableErr(token.Span{Start: 2, End: 3}, "x")
	wrapped := langerr.Wrap([]error{e1, e2})

	multi, ok := wrapped.(langerr.Multi)
	assert.True(t, ok)
	assert.Equal(t, []error{e1, e2}, multi.Errors())
	assert.Equal(t, e1.Error(), multi.Error())
	assert.Equal(t, e1.ErrSpan(), multi.ErrSpan())
}

func TestErrorMessagesAreHumanReadable(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{langerr.InvalidOperandErr(token.Span{}, "-", "string"), "invalid operand for -: string"},
		{langerr.InvalidOperandsErr(token.Span{}, "+", "integer", "boolean"), "invalid operands for +: integer and boolean"},
		{langerr.UndefinedVariableErr(token.Span{}, "foo"), "undefined variable: foo"},
		{langerr.NotAFunctionErr(token.Span{}, "integer"), "not a function: integer"},
		{langerr.WrongNumberOfArgumentsErr(token.Span{}, 2, 1), "wrong number of arguments: expected 2, got 1"},
		{langerr.OutOfBoundsErr(token.Span{}, 5, 3), "index out of bounds: 5 (length 3)"},
		{langerr.DivisionByZeroErr(token.Span{}), "division by zero"},
		{langerr.TooLongForLenErr(token.Span{}, "array"), "argument to `len` too long to report: array"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.err.Error())
	}
}

func TestErrorErrSpanReturnsAt(t *testing.T) {
	span := token.Span{Start: 4, End: 9}
	err := langerr.NotACollectionErr(span, "integer")
	assert.Equal(t, span, err.ErrSpan())
}
