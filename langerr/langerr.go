// Package langerr defines the runtime error taxonomy shared by the
// tree-walking evaluator and the virtual machine (spec.md §7: "Eval / VM
// (shared)"). Both back-ends build their errors from the constructors
// below, so a given Kind carries the same message format in either. The
// reports can still differ: the evaluator collects sibling errors into a
// Multi while the VM stops at the first, and the VM reports a failed `<`
// as `>` with the operand kinds swapped, since it compiles `<` that way.
package langerr

import (
	"fmt"

	"github.com/akashmaji946/corelang/token"
)

// Kind identifies one of the closed set of runtime error conditions.
type Kind int

const (
	InvalidOperand Kind = iota
	InvalidOperands
	UndefinedVariable
	NotAFunction
	WrongNumberOfArguments
	NotACollection
	NotAnIndex
	OutOfBounds
	InvalidKey
	DivisionByZero
	BadTypeForLen
	TooLongForLen
	NotAnArray
	StackUnderflow
	StackOverflow
)

// Error is a runtime (evaluator or VM) error: a Kind, a rendered message,
// and the span of source responsible for it.
type Error struct {
	Kind    Kind
	Message string
	At      token.Span
}

func (e *Error) Error() string { return e.Message }

// ErrSpan implements reporter.Spanned.
func (e *Error) ErrSpan() token.Span { return e.At }

func newf(kind Kind, at token.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), At: at}
}

func InvalidOperandErr(at token.Span, operator, kind string) *Error {
	return newf(InvalidOperand, at, "invalid operand for %s: %s", operator, kind)
}

func InvalidOperandsErr(at token.Span, operator, left, right string) *Error {
	return newf(InvalidOperands, at, "invalid operands for %s: %s and %s", operator, left, right)
}

func UndefinedVariableErr(at token.Span, name string) *Error {
	return newf(UndefinedVariable, at, "undefined variable: %s", name)
}

func NotAFunctionErr(at token.Span, kind string) *Error {
	return newf(NotAFunction, at, "not a function: %s", kind)
}

func WrongNumberOfArgumentsErr(at token.Span, expected, got int) *Error {
	return newf(WrongNumberOfArguments, at, "wrong number of arguments: expected %d, got %d", expected, got)
}

func NotACollectionErr(at token.Span, kind string) *Error {
	return newf(NotACollection, at, "not an array or map: %s", kind)
}

func NotAnIndexErr(at token.Span, kind string) *Error {
	return newf(NotAnIndex, at, "not a valid index: %s", kind)
}

func OutOfBoundsErr(at token.Span, index, length int) *Error {
	return newf(OutOfBounds, at, "index out of bounds: %d (length %d)", index, length)
}

func InvalidKeyErr(at token.Span, kind string) *Error {
	return newf(InvalidKey, at, "invalid map key: %s", kind)
}

func DivisionByZeroErr(at token.Span) *Error {
	return newf(DivisionByZero, at, "division by zero")
}

func BadTypeForLenErr(at token.Span, kind string) *Error {
	return newf(BadTypeForLen, at, "argument to `len` not supported: %s", kind)
}

// TooLongForLenErr reports a string/array/map whose element count overflows
// the language's integer type (spec.md §7's taxonomy lists this distinctly
// from BadTypeForLen — a supported collection that is simply too large to
// report a length for).
func TooLongForLenErr(at token.Span, kind string) *Error {
	return newf(TooLongForLen, at, "argument to `len` too long to report: %s", kind)
}

func NotAnArrayErr(at token.Span, fn, kind string) *Error {
	return newf(NotAnArray, at, "argument to `%s` must be an array, got %s", fn, kind)
}

func StackUnderflowErr(at token.Span) *Error {
	return newf(StackUnderflow, at, "stack underflow (internal compiler bug)")
}

func StackOverflowErr(at token.Span) *Error {
	return newf(StackOverflow, at, "stack overflow")
}

// Multi aggregates independent errors collected from sibling sub-
// evaluations (e.g. array elements, call arguments) per spec.md §7's
// accumulation rule. Error() reports the first; every message is
// retrievable via Errors().
type Multi []error

func (m Multi) Error() string {
	if len(m) == 0 {
		return "no errors"
	}
	return m[0].Error()
}

// ErrSpan reports the span of the first error, so a Multi can still be
// rendered as a single diagnostic.
func (m Multi) ErrSpan() token.Span {
	if len(m) == 0 {
		return token.Span{}
	}
	if s, ok := m[0].(interface{ ErrSpan() token.Span }); ok {
		return s.ErrSpan()
	}
	return token.Span{}
}

// Errors returns every aggregated error.
func (m Multi) Errors() []error { return m }

// Wrap turns a non-empty slice of errors into a single error: the lone
// error itself if there is exactly one, otherwise a Multi. Returns nil for
// an empty slice.
func Wrap(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return Multi(errs)
	}
}
