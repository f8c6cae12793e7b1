// Package builtins implements the native function registry: host-provided
// routines callable from Steps code through the ordinary call statement.
// The interpreter consults this registry before the user step registry
// when dispatching a call.
package builtins

import (
	"math/rand"
	"sort"

	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/internal/value"
	"github.com/steps-lang/steps/pkg/token"
)

// Context carries the host services natives may use. Values passed to a
// native are borrowed for the call's duration only.
type Context struct {
	ReadLine       func() (string, error)
	WriteLine      func(string)
	WriteNoNewline func(string)
	Rand           *rand.Rand
}

// NativeFunc is the implementation signature shared by all natives. pos
// is the call site, used for error reporting.
type NativeFunc func(ctx *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error)

// Native describes one registered native function.
type Native struct {
	Name   string
	Params []string
	Fn     NativeFunc
}

// Arity returns the declared parameter count.
func (n *Native) Arity() int { return len(n.Params) }

// Registry maps native names to their entries. It is populated once at
// startup and read-only afterwards.
type Registry struct {
	natives map[string]*Native
}

// NewRegistry creates a registry holding every standard native.
func NewRegistry() *Registry {
	r := &Registry{natives: make(map[string]*Native)}
	registerMath(r)
	registerText(r)
	registerRandom(r)
	registerFiles(r)
	registerCSV(r)
	registerDrawing(r)
	return r
}

// register adds one native. Duplicate registration is an implementation
// bug and panics.
func (r *Registry) register(name string, params []string, fn NativeFunc) {
	if _, exists := r.natives[name]; exists {
		panic("duplicate native registration: " + name)
	}
	r.natives[name] = &Native{Name: name, Params: params, Fn: fn}
}

// Lookup finds a native by name.
func (r *Registry) Lookup(name string) (*Native, bool) {
	n, ok := r.natives[name]
	return n, ok
}

// Has reports whether name is a registered native.
func (r *Registry) Has(name string) bool {
	_, ok := r.natives[name]
	return ok
}

// Names returns all native names sorted for deterministic reporting.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.natives))
	for n := range r.natives {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
