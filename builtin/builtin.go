// Package builtin implements the language's closed intrinsic set (spec.md
// §4.4/§9: print, len, first, last, rest, push) for the tree-walking
// evaluator. The VM does not dispatch intrinsics: under the VM a call such
// as len(x) fails with an undefined-variable error. Grounded on the
// teacher's own pattern of keeping
// built-in callables in one small table rather than scattering special
// cases through the evaluator.
package builtin

import (
	"fmt"
	"io"
	"math"

	"github.com/akashmaji946/corelang/langerr"
	"github.com/akashmaji946/corelang/object"
	"github.com/akashmaji946/corelang/token"
)

// Fn is one intrinsic's implementation. at is the call expression's span,
// used to locate any error the intrinsic raises.
type Fn func(args []object.Object, at token.Span) (object.Object, error)

// Builtin describes one intrinsic: its name (for NotAFunction-style
// messages) and its arity bounds. Max of -1 means unbounded.
type Builtin struct {
	Name string
	Min  int
	Max  int
	Call Fn
}

// NewTable builds the intrinsic table bound to w, the destination for
// `print`. Each Evaluator constructs its own table against its own writer
// (mirroring the teacher's injected-Writer style, see SPEC_FULL.md Part B),
// so two evaluators never share output state.
func NewTable(w io.Writer) map[string]*Builtin {
	return map[string]*Builtin{
		"print": {Name: "print", Min: 0, Max: -1, Call: printFn(w)},
		"len":   {Name: "len", Min: 1, Max: 1, Call: lenFn},
		"first": {Name: "first", Min: 1, Max: 1, Call: firstFn},
		"last":  {Name: "last", Min: 1, Max: 1, Call: lastFn},
		"rest":  {Name: "rest", Min: 1, Max: 1, Call: restFn},
		"push":  {Name: "push", Min: 2, Max: 2, Call: pushFn},
	}
}

// CheckArity reports a WrongNumberOfArguments error if len(args) falls
// outside b's declared bounds.
func (b *Builtin) CheckArity(at token.Span, n int) error {
	if n < b.Min || (b.Max >= 0 && n > b.Max) {
		expected := b.Min
		if b.Max != b.Min {
			expected = b.Max
		}
		return langerr.WrongNumberOfArgumentsErr(at, expected, n)
	}
	return nil
}

func printFn(w io.Writer) Fn {
	return func(args []object.Object, at token.Span) (object.Object, error) {
		for i, a := range args {
			if i > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprint(w, a.Inspect())
		}
		fmt.Fprintln(w)
		return &object.Null{}, nil
	}
}

func lenFn(args []object.Object, at token.Span) (object.Object, error) {
	var n int
	var kind string
	switch v := args[0].(type) {
	case *object.String:
		n, kind = len(v.Value), "string"
	case *object.Array:
		n, kind = len(v.Elements), "array"
	case *object.Map:
		n, kind = len(v.Pairs), "map"
	default:
		return nil, langerr.BadTypeForLenErr(at, object.TypeName(v.Type()))
	}
	if int64(n) > math.MaxInt64 {
		return nil, langerr.TooLongForLenErr(at, kind)
	}
	return &object.Integer{Value: int64(n)}, nil
}

func firstFn(args []object.Object, at token.Span) (object.Object, error) {
	arr, ok := args[0].(*object.Array)
	if !ok {
		return nil, langerr.NotAnArrayErr(at, "first", object.TypeName(args[0].Type()))
	}
	if len(arr.Elements) == 0 {
		return &object.Null{}, nil
	}
	return arr.Elements[0], nil
}

func lastFn(args []object.Object, at token.Span) (object.Object, error) {
	arr, ok := args[0].(*object.Array)
	if !ok {
		return nil, langerr.NotAnArrayErr(at, "last", object.TypeName(args[0].Type()))
	}
	if len(arr.Elements) == 0 {
		return &object.Null{}, nil
	}
	return arr.Elements[len(arr.Elements)-1], nil
}

func restFn(args []object.Object, at token.Span) (object.Object, error) {
	arr, ok := args[0].(*object.Array)
	if !ok {
		return nil, langerr.NotAnArrayErr(at, "rest", object.TypeName(args[0].Type()))
	}
	if len(arr.Elements) == 0 {
		return &object.Null{}, nil
	}
	rest := make([]object.Object, len(arr.Elements)-1)
	copy(rest, arr.Elements[1:])
	return &object.Array{Elements: rest}, nil
}

func pushFn(args []object.Object, at token.Span) (object.Object, error) {
	arr, ok := args[0].(*object.Array)
	if !ok {
		return nil, langerr.NotAnArrayErr(at, "push", object.TypeName(args[0].Type()))
	}
	next := make([]object.Object, len(arr.Elements)+1)
	copy(next, arr.Elements)
	next[len(arr.Elements)] = args[1]
	return &object.Array{Elements: next}, nil
}
