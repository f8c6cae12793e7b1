// Package steps is the embedding façade for the Steps language core.
//
// Hosts (the CLI, the terminal IDE, the REPL) interact with the core
// through three operations: load a project root into a parsed, registered
// Program; execute it with pluggable I/O hooks; or parse an isolated
// source fragment for validation. Nothing in the core touches the
// process-global streams unless the host leaves the default hooks in
// place.
package steps

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/steps-lang/steps/internal/ast"
	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/internal/interp"
	"github.com/steps-lang/steps/internal/interp/builtins"
	"github.com/steps-lang/steps/internal/loader"
	"github.com/steps-lang/steps/internal/parser"
	"github.com/steps-lang/steps/internal/value"
	"github.com/steps-lang/steps/pkg/token"
)

// TraceEvent mirrors the interpreter's trace callback payload for hosts.
type TraceEvent struct {
	Kind  string
	Name  string
	Depth int
	Pos   token.Position
}

// Options configures one execution.
type Options struct {
	// I/O hooks. Nil hooks default to the process streams.
	ReadLine       func() (string, error)
	WriteLine      func(string)
	WriteNoNewline func(string)

	// Resource ceilings. Zero keeps the defaults (1000 calls deep,
	// 10 million loop iterations).
	MaxCallDepth  int
	MaxIterations int64

	// RandSeed makes the random_* natives deterministic when non-zero.
	RandSeed int64

	// Trace receives call/return/error events when non-nil.
	Trace func(TraceEvent)
}

// Program is a loaded, registered project ready to execute.
type Program struct {
	project *loader.Project
}

// Load discovers and parses the project at root. The returned Program is
// non-nil even when errors were collected, so hosts can inspect partial
// results; Run refuses to start while Errors is non-empty.
func Load(root string) *Program {
	return &Program{project: loader.Load(root, builtins.NewRegistry())}
}

// Check loads the project and returns only the collected error list.
func Check(root string) errors.List {
	return Load(root).Errors()
}

// ParseFragment parses an isolated statement sequence (REPL input, editor
// validation) and returns any lex or parse errors.
func ParseFragment(source, name string) errors.List {
	p := parser.New(source, name)
	p.ParseFragment()
	return p.Errors()
}

// Errors returns every structure, lex and parse error from loading.
func (p *Program) Errors() errors.List { return p.project.Errors }

// Building returns the parsed building root, which may be nil when
// loading failed early.
func (p *Program) Building() *ast.Building { return p.project.Building }

// Floors returns the project's parsed floors in load order.
func (p *Program) Floors() []*ast.Floor { return p.project.Floors }

// Steps returns the global step registry, including the standard library.
func (p *Program) Steps() map[string]*ast.Step { return p.project.Steps }

// Run executes the building. The exit code is 0 on normal completion or
// exit, 1 when a runtime error aborted execution (the error is returned
// alongside for formatting).
func (p *Program) Run(opts Options) (int, error) {
	if p.project.Errors.HasErrors() {
		return 1, fmt.Errorf("cannot run: project has %d load error(s)", len(p.project.Errors))
	}
	if p.project.Building == nil {
		return 1, fmt.Errorf("cannot run: no building was loaded")
	}

	it := newInterpreter(p.project, opts)
	if err := it.RunBuilding(p.project.Building); err != nil {
		return 1, err
	}
	return 0, nil
}

// RunStepFile parses a single .step file, synthesizes a wrapping frame,
// binds the given literal arguments to the step's parameters and executes
// it. The step's return value, if any, is written through WriteLine.
func RunStepFile(path string, rawArgs []string, opts Options) (int, error) {
	step, project := loader.LoadStepFile(path)
	if project.Errors.HasErrors() {
		return 1, project.Errors
	}

	args := make([]value.Value, len(rawArgs))
	for i, raw := range rawArgs {
		args[i] = parseArgLiteral(raw)
	}

	it := newInterpreter(project, opts)
	pos := token.Position{File: path, Line: 1, Column: 1}
	result, rerr := it.CallByName(step.Name, args, pos)
	if rerr != nil {
		return 1, rerr
	}
	if step.HasReturn() {
		writeLine(opts)(result.Display())
	}
	return 0, nil
}

// newInterpreter wires an environment and interpreter from options.
func newInterpreter(project *loader.Project, opts Options) *interp.Interpreter {
	hooks := interp.Hooks{
		ReadLine:       opts.ReadLine,
		WriteLine:      opts.WriteLine,
		WriteNoNewline: opts.WriteNoNewline,
	}
	if hooks.ReadLine == nil {
		reader := bufio.NewReader(os.Stdin)
		hooks.ReadLine = func() (string, error) { return reader.ReadString('\n') }
	}
	if hooks.WriteLine == nil {
		hooks.WriteLine = func(s string) { fmt.Fprintln(os.Stdout, s) }
	}
	if hooks.WriteNoNewline == nil {
		hooks.WriteNoNewline = func(s string) { fmt.Fprint(os.Stdout, s) }
	}

	env := interp.NewEnvironment(project.Steps, project.Natives, hooks)
	env.SetMaxCallDepth(opts.MaxCallDepth)
	env.SetMaxIterations(opts.MaxIterations)

	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	it := interp.New(env, rand.New(rand.NewSource(seed)))
	if opts.Trace != nil {
		cb := opts.Trace
		it.Trace = func(e interp.TraceEvent) {
			cb(TraceEvent{Kind: e.Kind, Name: e.Name, Depth: e.Depth, Pos: e.Pos})
		}
	}
	return it
}

func writeLine(opts Options) func(string) {
	if opts.WriteLine != nil {
		return opts.WriteLine
	}
	return func(s string) { fmt.Fprintln(os.Stdout, s) }
}

// parseArgLiteral interprets a command-line argument as a Steps literal:
// number, true/false, nothing, or plain text.
func parseArgLiteral(raw string) value.Value {
	switch raw {
	case "true":
		return value.True
	case "false":
		return value.False
	case "nothing":
		return value.NothingValue
	}
	if f, ok := value.ParseNumber(raw); ok {
		return value.NewNumber(f)
	}
	return value.NewText(raw)
}
