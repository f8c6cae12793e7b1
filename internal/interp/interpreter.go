package interp

import (
	goerrors "errors"
	"math"
	"math/rand"

	"github.com/steps-lang/steps/internal/ast"
	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/internal/interp/builtins"
	"github.com/steps-lang/steps/internal/value"
	"github.com/steps-lang/steps/pkg/token"
)

// clearSequence is written through the output hook by clear console.
const clearSequence = "\x1b[2J\x1b[H"

// errNoInput reports an input statement with no installed read hook.
var errNoInput = goerrors.New("no input handler installed")

// TraceEvent is one interpreter observation delivered to the optional
// trace callback.
type TraceEvent struct {
	Kind  string // "call", "return", "error"
	Name  string
	Depth int
	Pos   token.Position
}

// Interpreter walks a Building AST against an Environment.
type Interpreter struct {
	env *Environment
	ctx *builtins.Context

	// Trace, when non-nil, receives call, return and error events.
	Trace func(TraceEvent)
}

// New creates an interpreter. The random source feeds the random_*
// natives; tests inject a fixed seed for determinism.
func New(env *Environment, rng *rand.Rand) *Interpreter {
	return &Interpreter{
		env: env,
		ctx: &builtins.Context{
			ReadLine:       env.hooks.ReadLine,
			WriteLine:      env.hooks.WriteLine,
			WriteNoNewline: env.hooks.WriteNoNewline,
			Rand:           rng,
		},
	}
}

// RunBuilding executes a building from top to bottom. The returned error
// is nil on normal completion or exit.
func (i *Interpreter) RunBuilding(b *ast.Building) *errors.Error {
	for _, d := range b.Declares {
		i.env.Declare(d.Name, value.Type(d.DeclType), d.Fixed)
	}
	sig := i.execStatements(b.Statements)
	if sig.kind == sigError {
		i.trace("error", sig.err.Code, sig.err.Pos)
		return sig.err
	}
	return nil
}

// RunStatements executes a bare statement list in the current scope.
// Used by run-step frames and the REPL.
func (i *Interpreter) RunStatements(stmts []ast.Statement) *errors.Error {
	sig := i.execStatements(stmts)
	if sig.kind == sigError {
		return sig.err
	}
	return nil
}

// Env exposes the environment for host wiring.
func (i *Interpreter) Env() *Environment { return i.env }

// CallByName dispatches a call exactly like a call statement: natives
// first, then steps. Used by run-step to synthesize a wrapping frame.
// An exit from inside the callee counts as normal completion.
func (i *Interpreter) CallByName(name string, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	result, sig := i.dispatchCall(name, args, pos)
	switch sig.kind {
	case sigError:
		return nil, sig.err
	case sigExit:
		return value.NothingValue, nil
	}
	return result, nil
}

func (i *Interpreter) trace(kind, name string, pos token.Position) {
	if i.Trace != nil {
		i.Trace(TraceEvent{Kind: kind, Name: name, Depth: i.env.CallDepth(), Pos: pos})
	}
}

// execStatements runs statements in order until one yields a non-normal
// signal.
func (i *Interpreter) execStatements(stmts []ast.Statement) signal {
	for _, stmt := range stmts {
		if sig := i.execStatement(stmt); sig.kind != sigNormal {
			return sig
		}
	}
	return normal
}

func (i *Interpreter) execStatement(stmt ast.Statement) signal {
	switch s := stmt.(type) {
	case *ast.DisplayStatement:
		return i.execDisplay(s)
	case *ast.IndicateStatement:
		return i.execIndicate(s)
	case *ast.SetStatement:
		return i.execSet(s)
	case *ast.CallStatement:
		return i.execCall(s)
	case *ast.ReturnStatement:
		return i.execReturn(s)
	case *ast.ExitStatement:
		return signal{kind: sigExit}
	case *ast.IfStatement:
		return i.execIf(s)
	case *ast.RepeatTimesStatement:
		return i.execRepeatTimes(s)
	case *ast.RepeatForEachStatement:
		return i.execRepeatForEach(s)
	case *ast.RepeatWhileStatement:
		return i.execRepeatWhile(s)
	case *ast.AttemptStatement:
		return i.execAttempt(s)
	case *ast.AddToListStatement:
		return i.execAddToList(s)
	case *ast.RemoveFromListStatement:
		return i.execRemoveFromList(s)
	case *ast.ClearConsoleStatement:
		i.env.hooks.WriteNoNewline(clearSequence)
		return normal
	case *ast.SetIterationLimitStatement:
		return i.execSetIterationLimit(s)
	}
	return raise(errors.New(errors.Internal, errors.CodeInternal, stmt.Pos(),
		"unhandled statement %T", stmt))
}

func (i *Interpreter) execDisplay(s *ast.DisplayStatement) signal {
	v, err := i.eval(s.Value)
	if err != nil {
		return raise(err)
	}
	i.env.hooks.WriteLine(v.Display())
	return normal
}

func (i *Interpreter) execIndicate(s *ast.IndicateStatement) signal {
	v, err := i.eval(s.Value)
	if err != nil {
		return raise(err)
	}
	i.env.hooks.WriteNoNewline(v.Display())
	return normal
}

func (i *Interpreter) execSet(s *ast.SetStatement) signal {
	v, err := i.eval(s.Value)
	if err != nil {
		return raise(err)
	}

	if s.Index == nil {
		if err := i.env.Set(s.Name, v, s.NamePos); err != nil {
			return raise(err)
		}
		return normal
	}

	container, ok := i.env.Get(s.Name)
	if !ok {
		return raise(undefinedName(s.Name, s.NamePos))
	}
	idx, err := i.eval(s.Index)
	if err != nil {
		return raise(err)
	}

	switch c := container.(type) {
	case *value.List:
		n, err := listIndex(idx, len(c.Elements), s.Index.Pos())
		if err != nil {
			return raise(err)
		}
		c.Elements[n] = v
		return normal
	case *value.Table:
		key, ok := idx.(*value.Text)
		if !ok {
			return raise(errors.New(errors.Type, errors.CodeBadIndexKind, s.Index.Pos(),
				"table keys are text, got %s", idx.Type()))
		}
		c.Set(key.Value, v)
		return normal
	}
	return raise(errors.New(errors.Type, errors.CodeWrongOperand, s.NamePos,
		"%s is a %s and cannot be indexed", s.Name, container.Type()))
}

func (i *Interpreter) execCall(s *ast.CallStatement) signal {
	args := make([]value.Value, len(s.Args))
	for n, argExpr := range s.Args {
		v, err := i.eval(argExpr)
		if err != nil {
			return raise(err)
		}
		args[n] = v
	}

	result, sig := i.dispatchCall(s.Name, args, s.NamePos)
	if sig.kind != sigNormal {
		return sig
	}
	if s.Result != "" {
		if err := i.env.Set(s.Result, result, s.ResultPos); err != nil {
			return raise(err)
		}
	}
	return normal
}

// dispatchCall resolves a call name: natives first, then risers of the
// current step, then the global step registry.
func (i *Interpreter) dispatchCall(name string, args []value.Value, pos token.Position) (value.Value, signal) {
	if native, ok := i.env.natives.Lookup(name); ok {
		return i.invokeNative(native, args, pos)
	}
	if parent := i.env.currentStep(); parent != nil {
		if riser := parent.RiserByName(name); riser != nil {
			return i.invokeRiser(parent, riser, args, pos)
		}
	}
	if step, ok := i.env.steps[name]; ok {
		return i.invokeStep(step, args, pos)
	}
	return nil, raise(errors.New(errors.Runtime, errors.CodeUnknownStep, pos,
		"no step or native function named %q", name).
		WithHint("steps must be declared in a floor file and risers are only visible inside their own step"))
}

func (i *Interpreter) invokeNative(native *builtins.Native, args []value.Value, pos token.Position) (value.Value, signal) {
	if len(args) != native.Arity() {
		return nil, raise(wrongArgCount(native.Name, native.Arity(), len(args), pos))
	}
	i.trace("call", native.Name, pos)
	result, err := native.Fn(i.ctx, args, pos)
	if err != nil {
		return nil, raise(err)
	}
	if result == nil {
		result = value.NothingValue
	}
	i.trace("return", native.Name, pos)
	return result, normal
}

func (i *Interpreter) invokeStep(step *ast.Step, args []value.Value, pos token.Position) (value.Value, signal) {
	if len(args) != len(step.Params) {
		return nil, raise(wrongArgCount(step.Name, len(step.Params), len(args), pos))
	}
	if err := i.env.PushFrame(step.Name, pos, step); err != nil {
		return nil, raise(err)
	}
	defer i.env.PopFrame()
	i.trace("call", step.Name, pos)

	// A step sees only its parameters and its own bindings: the caller's
	// scopes are replaced for the duration of the call.
	scope := NewScope()
	for n, param := range step.Params {
		scope.bindings[param] = args[n]
	}
	saved := i.env.swapScopes([]*Scope{scope})
	defer i.env.swapScopes(saved)

	for _, d := range step.Declares {
		i.env.Declare(d.Name, value.Type(d.DeclType), d.Fixed)
	}

	sig := i.execStatements(step.Body)
	switch sig.kind {
	case sigReturn:
		i.trace("return", step.Name, pos)
		return sig.value, normal
	case sigNormal:
		if step.HasReturn() {
			return nil, raise(errors.New(errors.Runtime, errors.CodeMissingReturn, pos,
				"step %q declares returns: %s but finished without a return", step.Name, step.Returns))
		}
		i.trace("return", step.Name, pos)
		return value.NothingValue, normal
	default:
		return nil, sig
	}
}

// invokeRiser runs a riser under its parent step's frame identity, so
// nested calls can still see the parent's other risers.
func (i *Interpreter) invokeRiser(parent *ast.Step, riser *ast.Riser, args []value.Value, pos token.Position) (value.Value, signal) {
	if len(args) != len(riser.Params) {
		return nil, raise(wrongArgCount(riser.Name, len(riser.Params), len(args), pos))
	}
	if err := i.env.PushFrame(riser.Name, pos, parent); err != nil {
		return nil, raise(err)
	}
	defer i.env.PopFrame()
	i.trace("call", riser.Name, pos)

	scope := NewScope()
	for n, param := range riser.Params {
		scope.bindings[param] = args[n]
	}
	saved := i.env.swapScopes([]*Scope{scope})
	defer i.env.swapScopes(saved)

	for _, d := range riser.Declares {
		i.env.Declare(d.Name, value.Type(d.DeclType), d.Fixed)
	}

	sig := i.execStatements(riser.Body)
	switch sig.kind {
	case sigReturn:
		i.trace("return", riser.Name, pos)
		return sig.value, normal
	case sigNormal:
		if riser.HasReturn() {
			return nil, raise(errors.New(errors.Runtime, errors.CodeMissingReturn, pos,
				"riser %q declares returns: %s but finished without a return", riser.Name, riser.Returns))
		}
		i.trace("return", riser.Name, pos)
		return value.NothingValue, normal
	default:
		return nil, sig
	}
}

func (i *Interpreter) execReturn(s *ast.ReturnStatement) signal {
	if s.Value == nil {
		return returning(value.NothingValue)
	}
	v, err := i.eval(s.Value)
	if err != nil {
		return raise(err)
	}
	return returning(v)
}

func (i *Interpreter) execIf(s *ast.IfStatement) signal {
	for _, branch := range s.Branches {
		cond, err := i.eval(branch.Condition)
		if err != nil {
			return raise(err)
		}
		if value.Truthy(cond) {
			i.env.PushScope()
			sig := i.execStatements(branch.Body)
			i.env.PopScope()
			return sig
		}
	}
	if s.Otherwise != nil {
		i.env.PushScope()
		sig := i.execStatements(s.Otherwise)
		i.env.PopScope()
		return sig
	}
	return normal
}

func (i *Interpreter) execRepeatTimes(s *ast.RepeatTimesStatement) signal {
	countVal, err := i.eval(s.Count)
	if err != nil {
		return raise(err)
	}
	num, ok := countVal.(*value.Number)
	if !ok {
		return raise(errors.New(errors.Type, errors.CodeWrongOperand, s.Count.Pos(),
			"repeat count must be a number, got %s", countVal.Type()))
	}
	if num.Value < 0 || num.Value != math.Trunc(num.Value) {
		return raise(errors.New(errors.Runtime, errors.CodeBadLoopCount, s.Count.Pos(),
			"repeat count must be a non-negative whole number, got %s", value.FormatNumber(num.Value)))
	}

	for n := int64(0); n < int64(num.Value); n++ {
		if err := i.env.CountIteration(s.Pos()); err != nil {
			return raise(err)
		}
		i.env.PushScope()
		sig := i.execStatements(s.Body)
		i.env.PopScope()
		if sig.kind != sigNormal {
			return sig
		}
	}
	return normal
}

func (i *Interpreter) execRepeatForEach(s *ast.RepeatForEachStatement) signal {
	collection, err := i.eval(s.Collection)
	if err != nil {
		return raise(err)
	}

	// Snapshot the iteration space so body mutations of the collection
	// don't shift the walk.
	var items []value.Value
	switch c := collection.(type) {
	case *value.List:
		items = append(items, c.Elements...)
	case *value.Text:
		for _, r := range c.Value {
			items = append(items, value.NewText(string(r)))
		}
	case *value.Table:
		for _, k := range c.Keys() {
			items = append(items, value.NewText(k))
		}
	default:
		return raise(errors.New(errors.Runtime, errors.CodeNotIterable, s.Collection.Pos(),
			"cannot iterate over a %s", collection.Type()).
			WithHint("for each works on lists, text and tables"))
	}

	for _, item := range items {
		if err := i.env.CountIteration(s.Pos()); err != nil {
			return raise(err)
		}
		i.env.PushScope()
		i.env.DefineLocal(s.VarName, item)
		sig := i.execStatements(s.Body)
		i.env.PopScope()
		if sig.kind != sigNormal {
			return sig
		}
	}
	return normal
}

func (i *Interpreter) execRepeatWhile(s *ast.RepeatWhileStatement) signal {
	for {
		cond, err := i.eval(s.Condition)
		if err != nil {
			return raise(err)
		}
		if !value.Truthy(cond) {
			return normal
		}
		if err := i.env.CountIteration(s.Pos()); err != nil {
			return raise(err)
		}
		i.env.PushScope()
		sig := i.execStatements(s.Body)
		i.env.PopScope()
		if sig.kind != sigNormal {
			return sig
		}
	}
}

// execAttempt implements try/catch/finally. Catchable errors from the
// attempt body run the if unsuccessful block with problem_message bound;
// the then continue block runs whether or not an error occurred.
// Non-catchable errors skip both and propagate.
func (i *Interpreter) execAttempt(s *ast.AttemptStatement) signal {
	sig := i.execStatements(s.Try)

	if sig.kind == sigError {
		if !sig.err.Catchable() {
			return sig
		}
		caught := sig.err
		sig = normal
		if s.Catch != nil {
			i.env.PushScope()
			i.env.DefineLocal("problem_message", value.NewText(caught.Message))
			sig = i.execStatements(s.Catch)
			i.env.PopScope()
		}
	}

	if s.Finally != nil {
		i.env.PushScope()
		fsig := i.execStatements(s.Finally)
		i.env.PopScope()
		if fsig.kind != sigNormal {
			return fsig
		}
	}
	return sig
}

func (i *Interpreter) execAddToList(s *ast.AddToListStatement) signal {
	container, ok := i.env.Get(s.ListName)
	if !ok {
		return raise(undefinedName(s.ListName, s.ListPos))
	}
	list, ok := container.(*value.List)
	if !ok {
		return raise(errors.New(errors.Type, errors.CodeWrongOperand, s.ListPos,
			"add needs a list, but %s is a %s", s.ListName, container.Type()))
	}
	v, err := i.eval(s.Value)
	if err != nil {
		return raise(err)
	}
	list.Add(v)
	return normal
}

func (i *Interpreter) execRemoveFromList(s *ast.RemoveFromListStatement) signal {
	container, ok := i.env.Get(s.ListName)
	if !ok {
		return raise(undefinedName(s.ListName, s.ListPos))
	}
	list, ok := container.(*value.List)
	if !ok {
		return raise(errors.New(errors.Type, errors.CodeWrongOperand, s.ListPos,
			"remove needs a list, but %s is a %s", s.ListName, container.Type()))
	}
	v, err := i.eval(s.Value)
	if err != nil {
		return raise(err)
	}
	// Removing an absent value is deliberately a silent no-op.
	list.Remove(v)
	return normal
}

func (i *Interpreter) execSetIterationLimit(s *ast.SetIterationLimitStatement) signal {
	v, err := i.eval(s.Limit)
	if err != nil {
		return raise(err)
	}
	num, ok := v.(*value.Number)
	if !ok {
		return raise(errors.New(errors.Type, errors.CodeWrongOperand, s.Limit.Pos(),
			"iteration limit must be a number, got %s", v.Type()))
	}
	if num.Value < 1 || num.Value != math.Trunc(num.Value) {
		return raise(errors.New(errors.Runtime, errors.CodeBadLoopCount, s.Limit.Pos(),
			"iteration limit must be a positive whole number, got %s", value.FormatNumber(num.Value)))
	}
	i.env.SetMaxIterations(int64(num.Value))
	return normal
}

// undefinedName builds the standard E301 error.
func undefinedName(name string, pos token.Position) *errors.Error {
	return errors.New(errors.Runtime, errors.CodeUndefinedName, pos,
		"nothing named %q exists here", name).
		WithHint("did you set it first?")
}

func wrongArgCount(name string, want, got int, pos token.Position) *errors.Error {
	return errors.New(errors.Runtime, errors.CodeWrongArgCount, pos,
		"%s expects %d argument(s), got %d", name, want, got)
}

// listIndex validates a list index: it must be an integral number within
// [0, length).
func listIndex(idx value.Value, length int, pos token.Position) (int, *errors.Error) {
	num, ok := idx.(*value.Number)
	if !ok {
		return 0, errors.New(errors.Type, errors.CodeBadIndexKind, pos,
			"list positions are numbers, got %s", idx.Type())
	}
	if num.Value != math.Trunc(num.Value) {
		return 0, errors.New(errors.Type, errors.CodeBadIndexKind, pos,
			"list positions must be whole numbers, got %s", value.FormatNumber(num.Value))
	}
	n := int(num.Value)
	if n < 0 || n >= length {
		return 0, errors.New(errors.Runtime, errors.CodeIndexRange, pos,
			"position %d is outside the list (it has %d elements)", n, length)
	}
	return n, nil
}
