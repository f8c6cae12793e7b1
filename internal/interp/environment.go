// Package interp implements the tree-walking interpreter for Steps.
//
// Execution is single-threaded and synchronous. Statements return control
// signals (see signal.go) instead of using Go panics, so return, exit and
// error propagation stay explicit and portable.
package interp

import (
	"github.com/steps-lang/steps/internal/ast"
	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/internal/interp/builtins"
	"github.com/steps-lang/steps/internal/value"
	"github.com/steps-lang/steps/pkg/token"
)

// Default resource ceilings. Both convert runaway programs into bounded,
// clearly-reported errors.
const (
	DefaultMaxCallDepth  = 1000
	DefaultMaxIterations = 10_000_000
)

// Hooks are the host-injected I/O handlers. The core never touches
// process-global streams; every read and write goes through these.
type Hooks struct {
	ReadLine       func() (string, error)
	WriteLine      func(string)
	WriteNoNewline func(string)
}

// Scope is one frame of name bindings. fixed records the locked type tag
// of bindings declared fixed.
type Scope struct {
	bindings map[string]value.Value
	fixed    map[string]value.Type
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{bindings: make(map[string]value.Value)}
}

// frame is one call-stack entry. step is nil for the synthetic building
// frame; risers run under their parent step's frame identity.
type frame struct {
	name     string
	callSite token.Position
	step     *ast.Step
}

// Environment holds all mutable execution state: the scope stack, the
// call stack, the iteration counter, the step registry and the I/O hooks.
// It lives for exactly one program execution.
type Environment struct {
	scopes []*Scope
	frames []frame

	iterations    int64
	maxIterations int64
	maxCallDepth  int

	steps   map[string]*ast.Step
	natives *builtins.Registry

	hooks Hooks
}

// NewEnvironment creates an execution environment with the default
// ceilings, an empty global scope and the given registries.
func NewEnvironment(steps map[string]*ast.Step, natives *builtins.Registry, hooks Hooks) *Environment {
	if steps == nil {
		steps = make(map[string]*ast.Step)
	}
	return &Environment{
		scopes:        []*Scope{NewScope()},
		maxIterations: DefaultMaxIterations,
		maxCallDepth:  DefaultMaxCallDepth,
		steps:         steps,
		natives:       natives,
		hooks:         hooks,
	}
}

// SetMaxCallDepth overrides the recursion ceiling. Non-positive values
// keep the default.
func (e *Environment) SetMaxCallDepth(n int) {
	if n > 0 {
		e.maxCallDepth = n
	}
}

// SetMaxIterations overrides the loop iteration ceiling. Non-positive
// values keep the default.
func (e *Environment) SetMaxIterations(n int64) {
	if n > 0 {
		e.maxIterations = n
	}
}

// Get searches the scope stack innermost first.
func (e *Environment) Get(name string) (value.Value, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if v, ok := e.scopes[i].bindings[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set assigns in the nearest enclosing scope that already has the name,
// creating it in the innermost scope otherwise. Assigning a value of a
// different type to a fixed binding is a type error.
func (e *Environment) Set(name string, v value.Value, pos token.Position) *errors.Error {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		s := e.scopes[i]
		if _, ok := s.bindings[name]; !ok {
			continue
		}
		if tag, fixed := s.fixed[name]; fixed && v.Type() != tag {
			return errors.New(errors.Type, errors.CodeFixedViolation, pos,
				"%s is fixed as %s and cannot hold a %s value", name, tag, v.Type()).
				WithHint("fixed variables keep the type they were declared with")
		}
		s.bindings[name] = v
		return nil
	}
	e.scopes[len(e.scopes)-1].bindings[name] = v
	return nil
}

// Declare creates a binding in the innermost scope with the zero value of
// its declared type, locking the type when fixed.
func (e *Environment) Declare(name string, declType value.Type, fixed bool) {
	s := e.scopes[len(e.scopes)-1]
	s.bindings[name] = zeroValue(declType)
	if fixed {
		if s.fixed == nil {
			s.fixed = make(map[string]value.Type)
		}
		s.fixed[name] = declType
	}
}

// DefineLocal creates or replaces a binding in the innermost scope without
// searching outward. Used for parameters and loop variables.
func (e *Environment) DefineLocal(name string, v value.Value) {
	e.scopes[len(e.scopes)-1].bindings[name] = v
}

// PushScope enters a fresh inner scope.
func (e *Environment) PushScope() {
	e.scopes = append(e.scopes, NewScope())
}

// PopScope leaves the innermost scope.
func (e *Environment) PopScope() {
	e.scopes = e.scopes[:len(e.scopes)-1]
}

// swapScopes replaces the whole scope stack, returning the old one. Step
// bodies cannot see their caller's variables, so a call installs a fresh
// stack and restores the old one afterwards.
func (e *Environment) swapScopes(fresh []*Scope) []*Scope {
	old := e.scopes
	e.scopes = fresh
	return old
}

// PushFrame enters a call frame, enforcing the recursion ceiling.
func (e *Environment) PushFrame(name string, callSite token.Position, step *ast.Step) *errors.Error {
	if len(e.frames) >= e.maxCallDepth {
		return errors.New(errors.Runtime, errors.CodeRecursionLimit, callSite,
			"call depth exceeded %d steps; last step was %q", e.maxCallDepth, name).
			WithHint("check for unbounded recursion")
	}
	e.frames = append(e.frames, frame{name: name, callSite: callSite, step: step})
	return nil
}

// PopFrame leaves the current call frame.
func (e *Environment) PopFrame() {
	e.frames = e.frames[:len(e.frames)-1]
}

// currentStep returns the step owning the innermost frame, or nil at
// building level.
func (e *Environment) currentStep() *ast.Step {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if e.frames[i].step != nil {
			return e.frames[i].step
		}
	}
	return nil
}

// CallDepth returns the number of active frames.
func (e *Environment) CallDepth() int { return len(e.frames) }

// StackTrace snapshots the call stack for diagnostics.
func (e *Environment) StackTrace() errors.StackTrace {
	st := make(errors.StackTrace, len(e.frames))
	for i, f := range e.frames {
		st[i] = errors.StackFrame{StepName: f.name, CallSite: f.callSite}
	}
	return st
}

// CountIteration charges one loop iteration against the global ceiling.
func (e *Environment) CountIteration(pos token.Position) *errors.Error {
	e.iterations++
	if e.iterations > e.maxIterations {
		return errors.New(errors.Runtime, errors.CodeIterationLimit, pos,
			"iteration limit of %d exceeded", e.maxIterations).
			WithHint("check the loop condition, or raise the limit with \"set iteration limit to\"")
	}
	return nil
}

// zeroValue returns the initial value for a declared type.
func zeroValue(t value.Type) value.Value {
	switch t {
	case value.NumberType:
		return value.NewNumber(0)
	case value.TextType:
		return value.NewText("")
	case value.BooleanType:
		return value.False
	case value.ListType:
		return value.NewList()
	case value.TableType:
		return value.NewTable()
	}
	return value.NothingValue
}
