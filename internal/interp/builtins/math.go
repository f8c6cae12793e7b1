package builtins

import (
	"math"

	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/internal/value"
	"github.com/steps-lang/steps/pkg/token"
)

func registerMath(r *Registry) {
	r.register("round", []string{"n"}, mathRound)
	r.register("round_down", []string{"n"}, mathFloor)
	r.register("round_up", []string{"n"}, mathCeiling)
	r.register("absolute", []string{"n"}, mathAbsolute)
	r.register("square_root", []string{"n"}, mathSquareRoot)
	r.register("power", []string{"base", "exponent"}, mathPower)
}

// mathRound rounds half away from zero, the arithmetic most newcomers
// expect from "round".
func mathRound(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	f, err := wantNumber("round", "n", args, 0, pos)
	if err != nil {
		return nil, err
	}
	return value.NewNumber(math.Round(f)), nil
}

func mathFloor(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	f, err := wantNumber("round_down", "n", args, 0, pos)
	if err != nil {
		return nil, err
	}
	return value.NewNumber(math.Floor(f)), nil
}

func mathCeiling(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	f, err := wantNumber("round_up", "n", args, 0, pos)
	if err != nil {
		return nil, err
	}
	return value.NewNumber(math.Ceil(f)), nil
}

func mathAbsolute(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	f, err := wantNumber("absolute", "n", args, 0, pos)
	if err != nil {
		return nil, err
	}
	return value.NewNumber(math.Abs(f)), nil
}

func mathSquareRoot(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	f, err := wantNumber("square_root", "n", args, 0, pos)
	if err != nil {
		return nil, err
	}
	if f < 0 {
		return nil, errors.New(errors.Runtime, errors.CodeWrongOperand, pos,
			"square_root expects a non-negative number, got %s", value.FormatNumber(f))
	}
	return value.NewNumber(math.Sqrt(f)), nil
}

func mathPower(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	base, err := wantNumber("power", "base", args, 0, pos)
	if err != nil {
		return nil, err
	}
	exp, err := wantNumber("power", "exponent", args, 1, pos)
	if err != nil {
		return nil, err
	}
	return value.NewNumber(math.Pow(base, exp)), nil
}
