// Package evaluator is the tree-walking back-end (spec.md §4.4): it
// interprets an *ast.Program directly against an Environment chain, without
// any intermediate lowering. It shares object's runtime value model and
// langerr's error taxonomy with the compiler/VM back-end so that the two
// produce identical results on identical programs (spec.md §8).
package evaluator

import (
	"io"

	"github.com/akashmaji946/corelang/ast"
	"github.com/akashmaji946/corelang/builtin"
	"github.com/akashmaji946/corelang/langerr"
	"github.com/akashmaji946/corelang/object"
	"github.com/akashmaji946/corelang/token"
)

var (
	trueObj  = &object.Boolean{Value: true}
	falseObj = &object.Boolean{Value: false}
	nullObj  = &object.Null{}
)

func nativeBool(b bool) *object.Boolean {
	if b {
		return trueObj
	}
	return falseObj
}

// Evaluator holds the state shared across one run: the destination for
// `print` output, mirroring the teacher's Evaluator.Writer/SetWriter
// pattern (SPEC_FULL.md Part B).
type Evaluator struct {
	writer   io.Writer
	builtins map[string]*builtin.Builtin
}

// New returns an Evaluator that writes `print` output to w.
func New(w io.Writer) *Evaluator {
	e := &Evaluator{writer: w}
	e.builtins = builtin.NewTable(w)
	return e
}

// SetWriter redirects `print` output, rebuilding the bound intrinsic table.
func (e *Evaluator) SetWriter(w io.Writer) {
	e.writer = w
	e.builtins = builtin.NewTable(w)
}

// EvalProgram evaluates every top-level statement in env. Sibling
// statements accumulate errors (spec.md §4.4/§7): one failing statement
// does not stop its neighbors from running. A top-level `return` halts the
// program immediately with its value, same as reaching end of input.
func (e *Evaluator) EvalProgram(prog *ast.Program, env *Environment) (object.Object, error) {
	var result object.Object = nullObj
	var errs []error

	for _, stmt := range prog.Statements {
		v, err := e.evalStatement(stmt, env)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if rv, ok := v.(*object.ReturnValue); ok {
			return rv.Value, langerr.Wrap(errs)
		}
		result = v
	}
	return result, langerr.Wrap(errs)
}

// evalBlock evaluates a function body or if/else branch: like EvalProgram,
// sibling statements accumulate errors and do not stop evaluation, but a
// ReturnValue short-circuits the remaining statements and is returned
// together with any errors collected before it.
func (e *Evaluator) evalBlock(block *ast.BlockStatement, env *Environment) (object.Object, error) {
	var result object.Object = nullObj
	var errs []error

	for _, stmt := range block.Statements {
		v, err := e.evalStatement(stmt, env)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, ok := v.(*object.ReturnValue); ok {
			return v, langerr.Wrap(errs)
		}
		result = v
	}
	return result, langerr.Wrap(errs)
}

func (e *Evaluator) evalStatement(stmt ast.Statement, env *Environment) (object.Object, error) {
	switch n := stmt.(type) {
	case *ast.LetStatement:
		val, err := e.Eval(n.Value, env)
		if err != nil {
			return nil, err
		}
		env.Set(n.Name.Name, val)
		return nullObj, nil

	case *ast.ReturnStatement:
		val, err := e.Eval(n.Value, env)
		if err != nil {
			return nil, err
		}
		return &object.ReturnValue{Value: val}, nil

	case *ast.ExpressionStatement:
		return e.Eval(n.Expr, env)

	default:
		panic("evaluator: unhandled statement type")
	}
}

// Eval evaluates a single expression. Within one expression, the first
// sub-evaluation error aborts immediately (spec.md §4.4/§7) — this differs
// from EvalProgram/evalBlock's sibling accumulation, and from the
// accumulate-then-abort pattern used for array elements, map pairs, and
// call arguments below.
func (e *Evaluator) Eval(expr ast.Expression, env *Environment) (object.Object, error) {
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		return &object.Integer{Value: n.Value}, nil
	case *ast.StringLiteral:
		return &object.String{Value: n.Value}, nil
	case *ast.BooleanLiteral:
		return nativeBool(n.Value), nil
	case *ast.NullLiteral:
		return nullObj, nil

	case *ast.Identifier:
		if v, ok := env.Get(n.Name); ok {
			return v, nil
		}
		if _, ok := e.builtins[n.Name]; ok {
			return nil, langerr.NotAFunctionErr(n.Span(), "builtin (must be called directly, not referenced as a value)")
		}
		return nil, langerr.UndefinedVariableErr(n.Span(), n.Name)

	case *ast.PrefixExpression:
		return e.evalPrefix(n, env)

	case *ast.InfixExpression:
		return e.evalInfix(n, env)

	case *ast.IfExpression:
		return e.evalIf(n, env)

	case *ast.FunctionLiteral:
		return &object.Closure{Name: n.Name, Parameters: n.Parameters, Body: n.Body, Env: env}, nil

	case *ast.CallExpression:
		return e.evalCall(n, env)

	case *ast.ArrayLiteral:
		elems, err := e.evalExpressionList(n.Elements, env)
		if err != nil {
			return nil, err
		}
		return &object.Array{Elements: elems}, nil

	case *ast.MapLiteral:
		return e.evalMapLiteral(n, env)

	case *ast.IndexExpression:
		return e.evalIndex(n, env)

	default:
		panic("evaluator: unhandled expression type")
	}
}

func (e *Evaluator) evalPrefix(n *ast.PrefixExpression, env *Environment) (object.Object, error) {
	right, err := e.Eval(n.Right, env)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "!":
		return nativeBool(!object.Truthy(right)), nil
	case "-":
		i, ok := right.(*object.Integer)
		if !ok {
			return nil, langerr.InvalidOperandErr(n.Span(), "-", object.TypeName(right.Type()))
		}
		return &object.Integer{Value: -i.Value}, nil
	default:
		return nil, langerr.InvalidOperandErr(n.Span(), n.Operator, object.TypeName(right.Type()))
	}
}

func (e *Evaluator) evalInfix(n *ast.InfixExpression, env *Environment) (object.Object, error) {
	left, err := e.Eval(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := e.Eval(n.Right, env)
	if err != nil {
		return nil, err
	}

	switch n.Operator {
	case "+", "-", "*", "/":
		return e.evalArith(n, left, right)
	case "<":
		li, lok := left.(*object.Integer)
		ri, rok := right.(*object.Integer)
		if !lok || !rok {
			return nil, langerr.InvalidOperandsErr(n.Span(), n.Operator, object.TypeName(left.Type()), object.TypeName(right.Type()))
		}
		return nativeBool(li.Value < ri.Value), nil
	case ">":
		li, lok := left.(*object.Integer)
		ri, rok := right.(*object.Integer)
		if !lok || !rok {
			return nil, langerr.InvalidOperandsErr(n.Span(), n.Operator, object.TypeName(left.Type()), object.TypeName(right.Type()))
		}
		return nativeBool(li.Value > ri.Value), nil
	case "==", "!=":
		eq, ok := object.Equal(left, right)
		if !ok {
			return nil, langerr.InvalidOperandsErr(n.Span(), n.Operator, object.TypeName(left.Type()), object.TypeName(right.Type()))
		}
		if n.Operator == "!=" {
			eq = !eq
		}
		return nativeBool(eq), nil
	default:
		return nil, langerr.InvalidOperandsErr(n.Span(), n.Operator, object.TypeName(left.Type()), object.TypeName(right.Type()))
	}
}

func (e *Evaluator) evalArith(n *ast.InfixExpression, left, right object.Object) (object.Object, error) {
	if ls, lok := left.(*object.String); lok {
		rs, rok := right.(*object.String)
		if n.Operator == "+" && rok {
			return &object.String{Value: ls.Value + rs.Value}, nil
		}
		return nil, langerr.InvalidOperandsErr(n.Span(), n.Operator, object.TypeName(left.Type()), object.TypeName(right.Type()))
	}

	li, lok := left.(*object.Integer)
	ri, rok := right.(*object.Integer)
	if !lok || !rok {
		return nil, langerr.InvalidOperandsErr(n.Span(), n.Operator, object.TypeName(left.Type()), object.TypeName(right.Type()))
	}

	switch n.Operator {
	case "+":
		return &object.Integer{Value: li.Value + ri.Value}, nil
	case "-":
		return &object.Integer{Value: li.Value - ri.Value}, nil
	case "*":
		return &object.Integer{Value: li.Value * ri.Value}, nil
	case "/":
		if ri.Value == 0 {
			return nil, langerr.DivisionByZeroErr(n.Span())
		}
		return &object.Integer{Value: li.Value / ri.Value}, nil
	default:
		return nil, langerr.InvalidOperandsErr(n.Span(), n.Operator, object.TypeName(left.Type()), object.TypeName(right.Type()))
	}
}

func (e *Evaluator) evalIf(n *ast.IfExpression, env *Environment) (object.Object, error) {
	cond, err := e.Eval(n.Condition, env)
	if err != nil {
		return nil, err
	}
	if object.Truthy(cond) {
		return e.evalBlock(n.Consequence, NewEnclosedEnvironment(env))
	}
	if n.Alternative != nil {
		return e.evalBlock(n.Alternative, NewEnclosedEnvironment(env))
	}
	return nullObj, nil
}

// evalExpressionList evaluates every expression in exprs, accumulating
// errors across siblings (spec.md §4.4/§7) the same way EvalProgram does
// for statements. Used for array elements and call arguments.
func (e *Evaluator) evalExpressionList(exprs []ast.Expression, env *Environment) ([]object.Object, error) {
	results := make([]object.Object, len(exprs))
	var errs []error
	for i, expr := range exprs {
		v, err := e.Eval(expr, env)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results[i] = v
	}
	if len(errs) > 0 {
		return nil, langerr.Wrap(errs)
	}
	return results, nil
}

func (e *Evaluator) evalMapLiteral(n *ast.MapLiteral, env *Environment) (object.Object, error) {
	m := object.NewMap()
	var errs []error
	for _, pair := range n.Pairs {
		key, err := e.Eval(pair.Key, env)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		val, err := e.Eval(pair.Value, env)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := m.Set(key, val); err != nil {
			errs = append(errs, langerr.InvalidKeyErr(pair.Key.Span(), object.TypeName(key.Type())))
		}
	}
	if len(errs) > 0 {
		return nil, langerr.Wrap(errs)
	}
	return m, nil
}

func (e *Evaluator) evalIndex(n *ast.IndexExpression, env *Environment) (object.Object, error) {
	coll, err := e.Eval(n.Collection, env)
	if err != nil {
		return nil, err
	}
	idx, err := e.Eval(n.Index, env)
	if err != nil {
		return nil, err
	}

	switch c := coll.(type) {
	case *object.Array:
		i, ok := idx.(*object.Integer)
		if !ok {
			return nil, langerr.NotAnIndexErr(n.Span(), object.TypeName(idx.Type()))
		}
		pos := int(i.Value)
		if pos < 0 || pos >= len(c.Elements) {
			return nil, langerr.OutOfBoundsErr(n.Span(), pos, len(c.Elements))
		}
		return c.Elements[pos], nil
	case *object.Map:
		val, ok := c.Get(idx)
		if !ok {
			return nullObj, nil
		}
		return val, nil
	default:
		return nil, langerr.NotACollectionErr(n.Span(), object.TypeName(coll.Type()))
	}
}

func (e *Evaluator) evalCall(n *ast.CallExpression, env *Environment) (object.Object, error) {
	if id, ok := n.Function.(*ast.Identifier); ok {
		if b, ok := e.builtins[id.Name]; ok {
			if _, shadowed := env.Get(id.Name); !shadowed {
				return e.callBuiltin(b, n, env)
			}
		}
	}

	callee, err := e.Eval(n.Function, env)
	if err != nil {
		return nil, err
	}
	args, err := e.evalExpressionList(n.Arguments, env)
	if err != nil {
		return nil, err
	}

	cl, ok := callee.(*object.Closure)
	if !ok {
		return nil, langerr.NotAFunctionErr(n.Span(), object.TypeName(callee.Type()))
	}
	if len(cl.Parameters) != len(args) {
		return nil, langerr.WrongNumberOfArgumentsErr(
			token.Join(n.OpenSpan, n.CloseSpan), len(cl.Parameters), len(args))
	}

	// Self-recursion needs no special handling here: `let fib = fn(n){...}`
	// already bound "fib" into cl.Env before this call, so the closure's own
	// Environment chain resolves it when the body looks the name up.
	callEnv := NewEnclosedEnvironment(cl.Env.(*Environment))
	for i, p := range cl.Parameters {
		callEnv.Set(p.Name, args[i])
	}

	result, err := e.evalBlock(cl.Body, callEnv)
	if err != nil {
		return nil, err
	}
	if rv, ok := result.(*object.ReturnValue); ok {
		return rv.Value, nil
	}
	return result, nil
}

func (e *Evaluator) callBuiltin(b *builtin.Builtin, n *ast.CallExpression, env *Environment) (object.Object, error) {
	args, err := e.evalExpressionList(n.Arguments, env)
	if err != nil {
		return nil, err
	}
	argsSpan := token.Join(n.OpenSpan, n.CloseSpan)
	if err := b.CheckArity(argsSpan, len(args)); err != nil {
		return nil, err
	}
	return b.Call(args, n.Span())
}
