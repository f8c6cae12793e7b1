package builtins

import (
	"strings"

	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/internal/value"
	"github.com/steps-lang/steps/pkg/token"
)

func registerText(r *Registry) {
	r.register("lowercase", []string{"text"}, textLowercase)
	r.register("uppercase", []string{"text"}, textUppercase)
	r.register("trim", []string{"text"}, textTrim)
	r.register("slice", []string{"text", "start", "end"}, textSlice)
	r.register("index_of", []string{"text", "search"}, textIndexOf)
	r.register("replace", []string{"text", "old", "new"}, textReplace)
	r.register("characters", []string{"text"}, textCharacters)
	r.register("join", []string{"parts", "separator"}, textJoin)
}

func textLowercase(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	s, err := wantText("lowercase", "text", args, 0, pos)
	if err != nil {
		return nil, err
	}
	return value.NewText(strings.ToLower(s)), nil
}

func textUppercase(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	s, err := wantText("uppercase", "text", args, 0, pos)
	if err != nil {
		return nil, err
	}
	return value.NewText(strings.ToUpper(s)), nil
}

func textTrim(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	s, err := wantText("trim", "text", args, 0, pos)
	if err != nil {
		return nil, err
	}
	return value.NewText(strings.TrimSpace(s)), nil
}

// textSlice extracts the half-open rune range [start, end). Bounds are
// clamped to the text length rather than raising.
func textSlice(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	s, err := wantText("slice", "text", args, 0, pos)
	if err != nil {
		return nil, err
	}
	start, err := wantInt("slice", "start", args, 1, pos)
	if err != nil {
		return nil, err
	}
	end, err := wantInt("slice", "end", args, 2, pos)
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start >= end {
		return value.NewText(""), nil
	}
	return value.NewText(string(runes[start:end])), nil
}

func textIndexOf(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	s, err := wantText("index_of", "text", args, 0, pos)
	if err != nil {
		return nil, err
	}
	search, err := wantText("index_of", "search", args, 1, pos)
	if err != nil {
		return nil, err
	}
	byteIdx := strings.Index(s, search)
	if byteIdx < 0 {
		return value.NewNumber(-1), nil
	}
	// Report the index in runes to match character at / slice.
	runeIdx := len([]rune(s[:byteIdx]))
	return value.NewNumber(float64(runeIdx)), nil
}

func textReplace(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	s, err := wantText("replace", "text", args, 0, pos)
	if err != nil {
		return nil, err
	}
	oldPart, err := wantText("replace", "old", args, 1, pos)
	if err != nil {
		return nil, err
	}
	newPart, err := wantText("replace", "new", args, 2, pos)
	if err != nil {
		return nil, err
	}
	return value.NewText(strings.ReplaceAll(s, oldPart, newPart)), nil
}

func textCharacters(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	s, err := wantText("characters", "text", args, 0, pos)
	if err != nil {
		return nil, err
	}
	list := value.NewList()
	for _, r := range s {
		list.Add(value.NewText(string(r)))
	}
	return list, nil
}

func textJoin(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	parts, err := wantList("join", "parts", args, 0, pos)
	if err != nil {
		return nil, err
	}
	sep, err := wantText("join", "separator", args, 1, pos)
	if err != nil {
		return nil, err
	}
	pieces := make([]string, len(parts.Elements))
	for i, e := range parts.Elements {
		t, ok := e.(*value.Text)
		if !ok {
			return nil, errors.New(errors.Runtime, errors.CodeWrongOperand, pos,
				"join expects every element of parts to be text, element %d is %s", i, e.Type()).
				WithHint("convert elements with \"as text\" first")
		}
		pieces[i] = t.Value
	}
	return value.NewText(strings.Join(pieces, sep)), nil
}
