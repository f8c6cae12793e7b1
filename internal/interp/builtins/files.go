package builtins

import (
	"os"

	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/internal/value"
	"github.com/steps-lang/steps/pkg/token"
)

func registerFiles(r *Registry) {
	r.register("read_file", []string{"path"}, fileRead)
	r.register("write_file", []string{"path", "content"}, fileWrite)
	r.register("append_file", []string{"path", "content"}, fileAppend)
	r.register("file_exists", []string{"path"}, fileExists)
}

func fileRead(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	path, err := wantText("read_file", "path", args, 0, pos)
	if err != nil {
		return nil, err
	}
	data, rerr := os.ReadFile(path)
	if rerr != nil {
		return nil, errors.New(errors.Runtime, errors.CodeWrongOperand, pos,
			"cannot read file %q: %v", path, rerr).
			WithHint("check the path with file_exists first")
	}
	return value.NewText(string(data)), nil
}

func fileWrite(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	path, err := wantText("write_file", "path", args, 0, pos)
	if err != nil {
		return nil, err
	}
	content, err := wantText("write_file", "content", args, 1, pos)
	if err != nil {
		return nil, err
	}
	if werr := os.WriteFile(path, []byte(content), 0o644); werr != nil {
		return nil, errors.New(errors.Runtime, errors.CodeWrongOperand, pos,
			"cannot write file %q: %v", path, werr)
	}
	return value.NothingValue, nil
}

func fileAppend(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	path, err := wantText("append_file", "path", args, 0, pos)
	if err != nil {
		return nil, err
	}
	content, err := wantText("append_file", "content", args, 1, pos)
	if err != nil {
		return nil, err
	}
	f, oerr := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if oerr != nil {
		return nil, errors.New(errors.Runtime, errors.CodeWrongOperand, pos,
			"cannot open file %q: %v", path, oerr)
	}
	defer f.Close()
	if _, werr := f.WriteString(content); werr != nil {
		return nil, errors.New(errors.Runtime, errors.CodeWrongOperand, pos,
			"cannot append to file %q: %v", path, werr)
	}
	return value.NothingValue, nil
}

func fileExists(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	path, err := wantText("file_exists", "path", args, 0, pos)
	if err != nil {
		return nil, err
	}
	_, serr := os.Stat(path)
	return value.NewBoolean(serr == nil), nil
}
