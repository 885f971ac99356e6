// Package vm is the stack machine that runs a compiler.Program (spec.md §3
// "VM"). It shares the runtime value model (object) and error taxonomy
// (langerr) with the tree-walking evaluator, which is what lets
// eval(p) == run(compile(p)) hold (spec.md §8).
package vm

import (
	"fmt"

	"github.com/akashmaji946/corelang/code"
	"github.com/akashmaji946/corelang/compiler"
	"github.com/akashmaji946/corelang/langerr"
	"github.com/akashmaji946/corelang/object"
	"github.com/akashmaji946/corelang/token"
)

// StackSize is the fixed operand-stack capacity (spec.md §3: "value_stack,
// fixed capacity"). Exceeding it raises StackOverflow rather than growing
// unbounded.
const StackSize = 2048

// Closure is the VM's callable value: a CompiledFunction paired with the
// lexical Frame active where the function literal's OpConstant ran. It is
// the bytecode-backend analogue of object.Closure (SPEC_FULL.md Open
// Question decision #2) — kept in this package, not object, because it
// holds a reference to its own capturing Frame and object must not depend
// on vm.
type Closure struct {
	Fn       *object.CompiledFunction
	Captured *Frame
}

func (c *Closure) Type() object.Type { return object.VMClosureObj }
func (c *Closure) Inspect() string   { return object.FunctionInspect(c.Fn.Name) }
func (c *Closure) IsCallable() bool  { return true }

// Frame is one call's activation record: the closure being executed, its
// instruction pointer, and its locals. The closure's Captured field points
// to the lexically enclosing Frame (not the caller's Frame, which may be
// unrelated) so get can resolve free variables.
type Frame struct {
	cl       *Closure
	ip       int
	callSpan token.Span
	locals   map[string]object.Object
}

func newFrame(cl *Closure, callSpan token.Span) *Frame {
	return &Frame{cl: cl, callSpan: callSpan, locals: make(map[string]object.Object)}
}

func (f *Frame) instructions() code.Instructions { return f.cl.Fn.Ops }

// get resolves name by checking this frame's own locals, then walking the
// Captured lexical chain — the mechanism that makes closures and (via a
// `let`-bound name already present in the enclosing frame's locals map
// before the call happens) recursion work.
func (f *Frame) get(name string) (object.Object, bool) {
	for fr := f; fr != nil; fr = fr.cl.Captured {
		if v, ok := fr.locals[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// bind writes name into this frame only, never into an enclosing one.
func (f *Frame) bind(name string, val object.Object) {
	f.locals[name] = val
}

// State is the VM's run status, mirroring spec.md §3's "Running / Halted /
// Error" state machine.
type State int

const (
	Running State = iota
	Halted
	Failed
)

// VM executes one compiler.Program to completion (or first error).
type VM struct {
	constants []object.Object
	names     []string

	stack []object.Object
	sp    int

	frames []*Frame
	state  State
	err    error
}

// New constructs a VM for prog, ready to Run.
func New(prog *compiler.Program) *VM {
	root := &object.CompiledFunction{
		Ops:           prog.Ops,
		SpansByOffset: prog.Spans,
		ArgSpansByOffset: prog.ArgSpans,
	}
	rootClosure := &Closure{Fn: root}
	vm := &VM{
		constants: prog.Constants,
		names:     prog.Names,
		stack:     make([]object.Object, StackSize),
	}
	vm.frames = []*Frame{newFrame(rootClosure, token.Span{})}
	return vm
}

func (vm *VM) currentFrame() *Frame { return vm.frames[len(vm.frames)-1] }

func (vm *VM) push(obj object.Object, span token.Span) error {
	if vm.sp >= StackSize {
		return langerr.StackOverflowErr(span)
	}
	vm.stack[vm.sp] = obj
	vm.sp++
	return nil
}

func (vm *VM) pop(span token.Span) (object.Object, error) {
	if vm.sp == 0 {
		return nil, langerr.StackUnderflowErr(span)
	}
	vm.sp--
	return vm.stack[vm.sp], nil
}

// Top returns the value at the top of the stack without popping it, or nil
// if the stack is empty — used after Run to read the program's result.
func (vm *VM) Top() object.Object {
	if vm.sp == 0 {
		return nil
	}
	return vm.stack[vm.sp-1]
}

// State reports the VM's current run status.
func (vm *VM) State() State { return vm.state }

// Err returns the error that halted the VM, if State() == Failed.
func (vm *VM) Err() error { return vm.err }

// Run drives the fetch-decode-execute loop until the root frame returns
// (Halted) or a runtime error occurs (Failed). The result, on Halted, is
// whatever Top() returns (Null if the stack is empty).
func (vm *VM) Run() (object.Object, error) {
	for len(vm.frames) > 0 {
		frame := vm.currentFrame()
		ins := frame.instructions()
		if frame.ip >= len(ins) {
			vm.frames = vm.frames[:len(vm.frames)-1]
			continue
		}

		op := code.Op(ins[frame.ip])
		pos := frame.ip
		span := frame.cl.Fn.SpansByOffset[pos]
		frame.ip++

		if err := vm.execute(op, ins, frame, pos, span); err != nil {
			vm.state = Failed
			vm.err = err
			return nil, err
		}
	}
	vm.state = Halted
	result := vm.Top()
	if result == nil {
		result = &object.Null{}
	}
	return result, nil
}

func (vm *VM) execute(op code.Op, ins code.Instructions, frame *Frame, pos int, span token.Span) error {
	switch op {
	case code.OpConstant:
		idx := int(code.ReadUint16(ins[frame.ip:]))
		frame.ip += 2
		return vm.pushConstant(idx, frame, span)

	case code.OpTrue:
		return vm.push(&object.Boolean{Value: true}, span)
	case code.OpFalse:
		return vm.push(&object.Boolean{Value: false}, span)
	case code.OpNull:
		return vm.push(&object.Null{}, span)

	case code.OpAdd, code.OpSub, code.OpMul, code.OpDiv:
		return vm.executeArith(op, span)

	case code.OpEqual, code.OpNotEqual:
		return vm.executeEquality(op, span)

	case code.OpGreaterThan:
		return vm.executeComparison(span)

	case code.OpMinus:
		return vm.executeMinus(span)
	case code.OpBang:
		return vm.executeBang(span)

	case code.OpPop:
		_, err := vm.pop(span)
		return err

	case code.OpJumpIfNot:
		target := int(code.ReadUint16(ins[frame.ip:]))
		frame.ip += 2
		cond, err := vm.pop(span)
		if err != nil {
			return err
		}
		if !object.Truthy(cond) {
			frame.ip = target
		}
		return nil

	case code.OpJump:
		target := int(code.ReadUint16(ins[frame.ip:]))
		frame.ip = target
		return nil

	case code.OpBind:
		idx := int(code.ReadUint16(ins[frame.ip:]))
		frame.ip += 2
		val, err := vm.pop(span)
		if err != nil {
			return err
		}
		frame.bind(vm.names[idx], val)
		return nil

	case code.OpGetLocal:
		idx := int(code.ReadUint16(ins[frame.ip:]))
		frame.ip += 2
		name := vm.names[idx]
		val, ok := frame.get(name)
		if !ok {
			return langerr.UndefinedVariableErr(span, name)
		}
		return vm.push(val, span)

	case code.OpArray:
		n := int(code.ReadUint16(ins[frame.ip:]))
		frame.ip += 2
		return vm.executeArray(n, span)

	case code.OpMap:
		n := int(code.ReadUint16(ins[frame.ip:]))
		frame.ip += 2
		return vm.executeMap(n, span)

	case code.OpIndex:
		return vm.executeIndex(span)

	case code.OpCall:
		numArgs := int(code.ReadUint16(ins[frame.ip:]))
		frame.ip += 2
		argsSpan := frame.cl.Fn.ArgSpansByOffset[pos]
		return vm.executeCall(numArgs, span, argsSpan)

	case code.OpReturnValue:
		val, err := vm.pop(span)
		if err != nil {
			return err
		}
		vm.frames = vm.frames[:len(vm.frames)-1]
		return vm.push(val, span)

	case code.OpReturn:
		vm.frames = vm.frames[:len(vm.frames)-1]
		return vm.push(&object.Null{}, span)

	default:
		return fmt.Errorf("vm: unhandled opcode %d", op)
	}
}

func (vm *VM) pushConstant(idx int, frame *Frame, span token.Span) error {
	c := vm.constants[idx]
	if fn, ok := c.(*object.CompiledFunction); ok {
		return vm.push(&Closure{Fn: fn, Captured: frame}, span)
	}
	return vm.push(c, span)
}

// executeArray drains n elements off the stack. compileExpression compiles
// an array's elements in reverse, so the last-compiled (and therefore
// topmost) value is the array's first element: popping in order 0..n-1
// reconstructs source order directly, with no index reversal needed.
func (vm *VM) executeArray(n int, span token.Span) error {
	elems := make([]object.Object, n)
	for i := 0; i < n; i++ {
		v, err := vm.pop(span)
		if err != nil {
			return err
		}
		elems[i] = v
	}
	return vm.push(&object.Array{Elements: elems}, span)
}

func (vm *VM) executeMap(n int, span token.Span) error {
	m := object.NewMap()
	for i := 0; i < n; i++ {
		key, err := vm.pop(span)
		if err != nil {
			return err
		}
		val, err := vm.pop(span)
		if err != nil {
			return err
		}
		if err := m.Set(key, val); err != nil {
			return langerr.InvalidKeyErr(span, object.TypeName(key.Type()))
		}
	}
	return vm.push(m, span)
}

func (vm *VM) executeIndex(span token.Span) error {
	index, err := vm.pop(span)
	if err != nil {
		return err
	}
	collection, err := vm.pop(span)
	if err != nil {
		return err
	}
	switch coll := collection.(type) {
	case *object.Array:
		idx, ok := index.(*object.Integer)
		if !ok {
			return langerr.NotAnIndexErr(span, object.TypeName(index.Type()))
		}
		i := int(idx.Value)
		if i < 0 || i >= len(coll.Elements) {
			return langerr.OutOfBoundsErr(span, i, len(coll.Elements))
		}
		return vm.push(coll.Elements[i], span)
	case *object.Map:
		val, ok := coll.Get(index)
		if !ok {
			return vm.push(&object.Null{}, span)
		}
		return vm.push(val, span)
	default:
		return langerr.NotACollectionErr(span, object.TypeName(collection.Type()))
	}
}

// executeCall expects the stack, bottom to top, to hold the call's
// arguments followed last by the callee (compiler.compileCall compiles
// arguments before the function expression): [..., arg0, ..., argN-1, callee].
func (vm *VM) executeCall(numArgs int, callSpan, argsSpan token.Span) error {
	calleeIdx := vm.sp - 1
	if calleeIdx < 0 {
		return langerr.StackUnderflowErr(callSpan)
	}
	callee := vm.stack[calleeIdx]
	cl, ok := callee.(*Closure)
	if !ok {
		return langerr.NotAFunctionErr(callSpan, object.TypeName(callee.Type()))
	}

	if len(cl.Fn.Parameters) != numArgs {
		return langerr.WrongNumberOfArgumentsErr(argsSpan, len(cl.Fn.Parameters), numArgs)
	}

	if _, err := vm.pop(callSpan); err != nil { // discard the callee itself
		return err
	}

	args := make([]object.Object, numArgs)
	for i := numArgs - 1; i >= 0; i-- {
		v, err := vm.pop(callSpan)
		if err != nil {
			return err
		}
		args[i] = v
	}

	newFr := newFrame(cl, callSpan)
	for i, p := range cl.Fn.Parameters {
		newFr.bind(p, args[i])
	}
	vm.frames = append(vm.frames, newFr)
	return nil
}

func (vm *VM) executeArith(op code.Op, span token.Span) error {
	right, err := vm.pop(span)
	if err != nil {
		return err
	}
	left, err := vm.pop(span)
	if err != nil {
		return err
	}

	li, lok := left.(*object.Integer)
	ri, rok := right.(*object.Integer)
	if lok && rok {
		if op == code.OpDiv && ri.Value == 0 {
			return langerr.DivisionByZeroErr(span)
		}
		return vm.push(&object.Integer{Value: applyArith(op, li.Value, ri.Value)}, span)
	}

	ls, lsok := left.(*object.String)
	rs, rsok := right.(*object.String)
	if op == code.OpAdd && lsok && rsok {
		return vm.push(&object.String{Value: ls.Value + rs.Value}, span)
	}

	return langerr.InvalidOperandsErr(span, opSymbol(op), object.TypeName(left.Type()), object.TypeName(right.Type()))
}

// applyArith performs the wraparound-on-overflow arithmetic itself; the
// caller has already ruled out division by zero.
func applyArith(op code.Op, l, r int64) int64 {
	switch op {
	case code.OpAdd:
		return l + r
	case code.OpSub:
		return l - r
	case code.OpMul:
		return l * r
	case code.OpDiv:
		return l / r
	}
	return 0
}

func opSymbol(op code.Op) string {
	switch op {
	case code.OpAdd:
		return "+"
	case code.OpSub:
		return "-"
	case code.OpMul:
		return "*"
	case code.OpDiv:
		return "/"
	case code.OpGreaterThan:
		return ">"
	case code.OpEqual:
		return "=="
	case code.OpNotEqual:
		return "!="
	default:
		return "?"
	}
}

func (vm *VM) executeEquality(op code.Op, span token.Span) error {
	right, err := vm.pop(span)
	if err != nil {
		return err
	}
	left, err := vm.pop(span)
	if err != nil {
		return err
	}
	eq, ok := object.Equal(left, right)
	if !ok {
		return langerr.InvalidOperandsErr(span, opSymbol(op), object.TypeName(left.Type()), object.TypeName(right.Type()))
	}
	if op == code.OpNotEqual {
		eq = !eq
	}
	return vm.push(&object.Boolean{Value: eq}, span)
}

func (vm *VM) executeComparison(span token.Span) error {
	right, err := vm.pop(span)
	if err != nil {
		return err
	}
	left, err := vm.pop(span)
	if err != nil {
		return err
	}
	li, lok := left.(*object.Integer)
	ri, rok := right.(*object.Integer)
	if !lok || !rok {
		return langerr.InvalidOperandsErr(span, ">", object.TypeName(left.Type()), object.TypeName(right.Type()))
	}
	return vm.push(&object.Boolean{Value: li.Value > ri.Value}, span)
}

func (vm *VM) executeMinus(span token.Span) error {
	v, err := vm.pop(span)
	if err != nil {
		return err
	}
	i, ok := v.(*object.Integer)
	if !ok {
		return langerr.InvalidOperandErr(span, "-", object.TypeName(v.Type()))
	}
	return vm.push(&object.Integer{Value: -i.Value}, span)
}

func (vm *VM) executeBang(span token.Span) error {
	v, err := vm.pop(span)
	if err != nil {
		return err
	}
	return vm.push(&object.Boolean{Value: !object.Truthy(v)}, span)
}
