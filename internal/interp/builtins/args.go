package builtins

import (
	"math"

	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/internal/value"
	"github.com/steps-lang/steps/pkg/token"
)

// Argument validation helpers. Every native validates its argument kinds
// and reports mismatches with the parameter name so the message reads
// like "slice expects start to be a number, got text".

func wantText(fnName, param string, args []value.Value, i int, pos token.Position) (string, *errors.Error) {
	t, ok := args[i].(*value.Text)
	if !ok {
		return "", errors.New(errors.Runtime, errors.CodeWrongOperand, pos,
			"%s expects %s to be text, got %s", fnName, param, args[i].Type()).
			WithHint("convert with \"as text\" first")
	}
	return t.Value, nil
}

func wantNumber(fnName, param string, args []value.Value, i int, pos token.Position) (float64, *errors.Error) {
	n, ok := args[i].(*value.Number)
	if !ok {
		return 0, errors.New(errors.Runtime, errors.CodeWrongOperand, pos,
			"%s expects %s to be a number, got %s", fnName, param, args[i].Type()).
			WithHint("convert with \"as number\" first")
	}
	return n.Value, nil
}

func wantInt(fnName, param string, args []value.Value, i int, pos token.Position) (int, *errors.Error) {
	f, err := wantNumber(fnName, param, args, i, pos)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, errors.New(errors.Runtime, errors.CodeWrongOperand, pos,
			"%s expects %s to be a whole number, got %s", fnName, param, value.FormatNumber(f))
	}
	return int(f), nil
}

func wantList(fnName, param string, args []value.Value, i int, pos token.Position) (*value.List, *errors.Error) {
	l, ok := args[i].(*value.List)
	if !ok {
		return nil, errors.New(errors.Runtime, errors.CodeWrongOperand, pos,
			"%s expects %s to be a list, got %s", fnName, param, args[i].Type())
	}
	return l, nil
}
