package builtins

import (
	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/internal/value"
	"github.com/steps-lang/steps/pkg/token"
)

func registerRandom(r *Registry) {
	r.register("random_int", []string{"min", "max"}, randomInt)
	r.register("random_choice", []string{"options"}, randomChoice)
}

// randomInt returns a uniform integer in [min, max] inclusive.
func randomInt(ctx *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	min, err := wantInt("random_int", "min", args, 0, pos)
	if err != nil {
		return nil, err
	}
	max, err := wantInt("random_int", "max", args, 1, pos)
	if err != nil {
		return nil, err
	}
	if min > max {
		return nil, errors.New(errors.Runtime, errors.CodeWrongOperand, pos,
			"random_int expects min (%d) to be at most max (%d)", min, max)
	}
	n := ctx.Rand.Intn(max-min+1) + min
	return value.NewNumber(float64(n)), nil
}

func randomChoice(ctx *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	options, err := wantList("random_choice", "options", args, 0, pos)
	if err != nil {
		return nil, err
	}
	if options.Len() == 0 {
		return nil, errors.New(errors.Runtime, errors.CodeWrongOperand, pos,
			"random_choice expects a non-empty list")
	}
	return options.Elements[ctx.Rand.Intn(options.Len())], nil
}
