// Package object defines the runtime value model shared by both
// back-ends: the tree-walking evaluator and the compiler/VM pair. It is a
// closed sum type (spec.md §3 "Object (runtime value)"), implemented the
// way the teacher's `objects` package implements its own value sum — a
// small interface (Type/Inspect) with one concrete struct per variant —
// generalized to the spec's closed set instead of the teacher's open,
// ever-growing one (sets, tuples, structs, files, ... are all Non-goals
// here; see spec.md §1).
package object

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/akashmaji946/corelang/ast"
	"github.com/akashmaji946/corelang/code"
	"github.com/akashmaji946/corelang/token"
)

// Type identifies which variant of Object a value is.
type Type string

const (
	IntegerObj         Type = "INTEGER"
	BooleanObj         Type = "BOOLEAN"
	StringObj          Type = "STRING"
	NullObj            Type = "NULL"
	ArrayObj           Type = "ARRAY"
	MapObj             Type = "MAP"
	ReturnValueObj     Type = "RETURN_VALUE"
	ClosureObj         Type = "CLOSURE"
	CompiledFunctionObj Type = "COMPILED_FUNCTION"
	VMClosureObj       Type = "VM_CLOSURE"
)

// Object is implemented by every runtime value.
type Object interface {
	Type() Type
	// Inspect renders the value using the language's display format
	// (spec.md §4.3): integers as decimal, booleans as true/false, null as
	// "null", strings raw (no quotes), arrays as "[e1, e2, ...]", maps as
	// "{k1: v1, ...}", and functions as "<function>" / "<function name>".
	Inspect() string
}

// Truthy implements the language's truthiness rule: everything is truthy
// except Null and Boolean(false).
func Truthy(obj Object) bool {
	switch o := obj.(type) {
	case *Null:
		return false
	case *Boolean:
		return o.Value
	default:
		return true
	}
}

// Integer is a 64-bit signed integer value. Arithmetic on it follows Go's
// native int64 wraparound on overflow (see SPEC_FULL.md Open Question
// decision on integer overflow).
type Integer struct{ Value int64 }

func (i *Integer) Type() Type      { return IntegerObj }
func (i *Integer) Inspect() string { return fmt.Sprintf("%d", i.Value) }

// Boolean is `true` or `false`.
type Boolean struct{ Value bool }

func (b *Boolean) Type() Type      { return BooleanObj }
func (b *Boolean) Inspect() string { return fmt.Sprintf("%t", b.Value) }

// String is an owned UTF-8 buffer. New strings are produced fresh by
// concatenation (`+`); the language has no in-place string mutation.
type String struct{ Value string }

func (s *String) Type() Type      { return StringObj }
func (s *String) Inspect() string { return s.Value }

// Null is the language's single null value.
type Null struct{}

func (n *Null) Type() Type      { return NullObj }
func (n *Null) Inspect() string { return "null" }

// Array is an ordered, 0-indexed sequence. Intrinsics that "modify" an
// array (push) return a new Array rather than mutating this one (spec.md
// §4.4 and §8: "No intrinsic mutates its arguments").
type Array struct{ Elements []Object }

func (a *Array) Type() Type { return ArrayObj }
func (a *Array) Inspect() string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, el := range a.Elements {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(el.Inspect())
	}
	buf.WriteByte(']')
	return buf.String()
}

// HashKey is the comparable projection of a Hashable Object, used as the
// actual Go map key backing a Map. Only Integer, Boolean, and String are
// Hashable (spec.md §3's key/hash rule).
type HashKey struct {
	Type  Type
	Value uint64
	Str   string
}

// Hashable is implemented by Object variants that may be used as a Map
// key.
type Hashable interface {
	HashKey() HashKey
}

func (i *Integer) HashKey() HashKey { return HashKey{Type: IntegerObj, Value: uint64(i.Value)} }

func (b *Boolean) HashKey() HashKey {
	var v uint64
	if b.Value {
		v = 1
	}
	return HashKey{Type: BooleanObj, Value: v}
}

func (s *String) HashKey() HashKey { return HashKey{Type: StringObj, Str: s.Value} }

// MapPair is one surviving key/value entry of a Map (the original key
// Object is retained for Inspect and iteration; HashKey above is only the
// lookup projection).
type MapPair struct {
	Key   Object
	Value Object
}

// Map is an insertion-ordered mapping from hashable keys to arbitrary
// values. Insertion order only affects Inspect's rendering and iteration,
// never lookup (spec.md §8's property-based test).
type Map struct {
	Pairs map[HashKey]MapPair
	Order []HashKey
}

// NewMap returns an empty Map ready for Set.
func NewMap() *Map {
	return &Map{Pairs: make(map[HashKey]MapPair)}
}

// Set inserts or overwrites key -> value. An overwrite keeps the key's
// original insertion position.
func (m *Map) Set(key, value Object) error {
	hashable, ok := key.(Hashable)
	if !ok {
		return fmt.Errorf("unusable as map key: %s", key.Type())
	}
	hk := hashable.HashKey()
	if _, exists := m.Pairs[hk]; !exists {
		m.Order = append(m.Order, hk)
	}
	m.Pairs[hk] = MapPair{Key: key, Value: value}
	return nil
}

// Get looks up key, returning (value, true) if present.
func (m *Map) Get(key Object) (Object, bool) {
	hashable, ok := key.(Hashable)
	if !ok {
		return nil, false
	}
	pair, ok := m.Pairs[hashable.HashKey()]
	if !ok {
		return nil, false
	}
	return pair.Value, true
}

func (m *Map) Type() Type { return MapObj }
func (m *Map) Inspect() string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, hk := range m.Order {
		if i > 0 {
			buf.WriteString(", ")
		}
		pair := m.Pairs[hk]
		buf.WriteString(pair.Key.Inspect())
		buf.WriteString(": ")
		buf.WriteString(pair.Value.Inspect())
	}
	buf.WriteByte('}')
	return buf.String()
}

// ReturnValue wraps a value being propagated upward from a `return`
// statement. It is a tree-walker-only sentinel (spec.md §3); the VM has no
// equivalent because OpReturnValue/OpReturn already pop the frame inline.
type ReturnValue struct{ Value Object }

func (r *ReturnValue) Type() Type      { return ReturnValueObj }
func (r *ReturnValue) Inspect() string { return r.Value.Inspect() }

// FunctionInspect renders the shared "<function>" / "<function name>"
// display format (spec.md §4.3) for any callable Object variant (Closure,
// CompiledFunction, and the VM's own closure wrapper in package vm).
func FunctionInspect(name string) string {
	if name == "" {
		return "<function>"
	}
	return fmt.Sprintf("<function %s>", name)
}

// Env is the minimal interface the object package needs from the
// evaluator's environment chain, to avoid a dependency cycle between
// object and evaluator (a Closure must hold a reference to the scope it
// captured). evaluator.Environment satisfies this interface.
type Env interface {
	Get(name string) (Object, bool)
	Set(name string, val Object) Object
}

// Closure is the tree-walker's callable value: a function body paired with
// the environment active where the literal was evaluated (spec.md §3). Name
// is set when the closure is the direct right-hand side of a `let`, which
// lets its own body call itself recursively.
type Closure struct {
	Name       string
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        Env
}

func (c *Closure) Type() Type      { return ClosureObj }
func (c *Closure) Inspect() string { return FunctionInspect(c.Name) }

// CompiledFunction is the compiler's constant-pool representation of a
// function literal's body: a flat op stream plus parameter names (the VM's
// Get/Bind opcodes address locals by name, per spec.md §3's Op table).
// SpansByOffset/ArgSpansByOffset are the compiler's per-instruction source
// span side tables for this function's own Ops, consulted by the VM only
// when raising a runtime error (see vm.Frame).
type CompiledFunction struct {
	Name             string
	Parameters       []string
	Ops              code.Instructions
	SpansByOffset    map[int]token.Span
	ArgSpansByOffset map[int]token.Span
}

func (c *CompiledFunction) Type() Type      { return CompiledFunctionObj }
func (c *CompiledFunction) Inspect() string { return FunctionInspect(c.Name) }

// Equal implements the `==`/`!=` structural-equality rule (spec.md §4.3):
// matching primitive types compare by value, array/map compare structurally
// by recursing into their elements/entries, cross-type non-function pairs
// are always unequal; any function operand anywhere in the comparison is an
// error (signaled by ok = false), never silently false.
func Equal(left, right Object) (equal bool, ok bool) {
	if isFunction(left) || isFunction(right) {
		return false, false
	}
	if left.Type() != right.Type() {
		return false, true
	}
	switch l := left.(type) {
	case *Integer:
		return l.Value == right.(*Integer).Value, true
	case *Boolean:
		return l.Value == right.(*Boolean).Value, true
	case *String:
		return l.Value == right.(*String).Value, true
	case *Null:
		return true, true
	case *Array:
		r := right.(*Array)
		if len(l.Elements) != len(r.Elements) {
			return false, true
		}
		for i, le := range l.Elements {
			eq, ok := Equal(le, r.Elements[i])
			if !ok {
				return false, false
			}
			if !eq {
				return false, true
			}
		}
		return true, true
	case *Map:
		// Structural equality ignores insertion Order, comparing only the
		// key/value entries themselves.
		r := right.(*Map)
		if len(l.Pairs) != len(r.Pairs) {
			return false, true
		}
		for hk, lp := range l.Pairs {
			rp, present := r.Pairs[hk]
			if !present {
				return false, true
			}
			eq, ok := Equal(lp.Value, rp.Value)
			if !ok {
				return false, false
			}
			if !eq {
				return false, true
			}
		}
		return true, true
	default:
		return false, true
	}
}

// Callable is implemented by every function-like runtime value across both
// back-ends: Closure and CompiledFunction here, plus the VM's own closure
// wrapper (package vm), which cannot itself live in this package without an
// import cycle (it holds a reference to its capturing VM frame).
type Callable interface {
	IsCallable() bool
}

func (c *Closure) IsCallable() bool          { return true }
func (c *CompiledFunction) IsCallable() bool { return true }

func isFunction(o Object) bool {
	_, ok := o.(Callable)
	return ok
}

// TypeName renders a Type for error messages in lowercase, matching the
// style of the spec's error taxonomy (spec.md §7).
func TypeName(t Type) string {
	return strings.ToLower(string(t))
}
