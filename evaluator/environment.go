package evaluator

import "github.com/akashmaji946/corelang/object"

// Environment is a parent-linked scope chain implementing object.Env
// (spec.md §3's lexical-scoping requirement): Get walks outward to the
// enclosing scope on a local miss, and closures capture whichever
// Environment was active when their function literal was evaluated.
type Environment struct {
	vars   map[string]object.Object
	parent *Environment
}

// NewEnvironment returns an empty, parentless Environment (the program's
// global scope).
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]object.Object)}
}

// NewEnclosedEnvironment returns a scope nested inside parent, used for a
// function call's locals (spec.md §4.4: parameters bind here) and for
// block-scoped constructs.
func NewEnclosedEnvironment(parent *Environment) *Environment {
	e := NewEnvironment()
	e.parent = parent
	return e
}

// Get implements object.Env.
func (e *Environment) Get(name string) (object.Object, bool) {
	if v, ok := e.vars[name]; ok {
		return v, true
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, false
}

// Set implements object.Env: it always binds in this scope, never an
// enclosing one (the language has no reassignment of outer-scope names,
// only shadowing via a fresh `let`).
func (e *Environment) Set(name string, val object.Object) object.Object {
	e.vars[name] = val
	return val
}
