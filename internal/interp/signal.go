package interp

import (
	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/internal/value"
)

// signalKind classifies how a statement finished.
type signalKind int

const (
	// sigNormal: execution continues with the next statement.
	sigNormal signalKind = iota
	// sigReturn: a return statement is unwinding to the enclosing step
	// or riser frame.
	sigReturn
	// sigExit: the exit statement is terminating the program.
	sigExit
	// sigError: an error is propagating; only attempt may stop it.
	sigError
)

// signal is the non-local control value threaded through statement
// execution. Modelling return and errors as values rather than Go panics
// keeps unwinding explicit: every block either continues normally or
// hands its caller a signal to act on.
type signal struct {
	kind  signalKind
	value value.Value  // the returned value when kind == sigReturn
	err   *errors.Error // the propagating error when kind == sigError
}

var normal = signal{kind: sigNormal}

func returning(v value.Value) signal {
	if v == nil {
		v = value.NothingValue
	}
	return signal{kind: sigReturn, value: v}
}

func raise(err *errors.Error) signal {
	return signal{kind: sigError, err: err}
}
