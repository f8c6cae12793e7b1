package builtins

import (
	"strings"

	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/internal/value"
	"github.com/steps-lang/steps/pkg/token"
)

func registerDrawing(r *Registry) {
	r.register("box", []string{"text"}, drawBox)
	r.register("line", []string{"width"}, drawLine)
	r.register("banner", []string{"text"}, drawBanner)
	r.register("center_text", []string{"text", "width"}, drawCenterText)
	r.register("pad_text", []string{"text", "width"}, drawPadText)
	r.register("progress_bar", []string{"current", "total", "width"}, drawProgressBar)
}

// drawBox frames text in an ASCII box. Multi-line input keeps one box
// around all lines, sized to the widest.
func drawBox(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	s, err := wantText("box", "text", args, 0, pos)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(s, "\n")
	width := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}
	var sb strings.Builder
	border := "+" + strings.Repeat("-", width+2) + "+"
	sb.WriteString(border)
	for _, line := range lines {
		sb.WriteString("\n| ")
		sb.WriteString(line)
		sb.WriteString(strings.Repeat(" ", width-len([]rune(line))))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
	sb.WriteString(border)
	return value.NewText(sb.String()), nil
}

func drawLine(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	width, err := wantInt("line", "width", args, 0, pos)
	if err != nil {
		return nil, err
	}
	if width < 0 {
		width = 0
	}
	return value.NewText(strings.Repeat("-", width)), nil
}

func drawBanner(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	s, err := wantText("banner", "text", args, 0, pos)
	if err != nil {
		return nil, err
	}
	width := len([]rune(s)) + 4
	border := strings.Repeat("=", width)
	return value.NewText(border + "\n  " + s + "\n" + border), nil
}

func drawCenterText(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	s, err := wantText("center_text", "text", args, 0, pos)
	if err != nil {
		return nil, err
	}
	width, err := wantInt("center_text", "width", args, 1, pos)
	if err != nil {
		return nil, err
	}
	n := len([]rune(s))
	if n >= width {
		return value.NewText(s), nil
	}
	left := (width - n) / 2
	right := width - n - left
	return value.NewText(strings.Repeat(" ", left) + s + strings.Repeat(" ", right)), nil
}

func drawPadText(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	s, err := wantText("pad_text", "text", args, 0, pos)
	if err != nil {
		return nil, err
	}
	width, err := wantInt("pad_text", "width", args, 1, pos)
	if err != nil {
		return nil, err
	}
	n := len([]rune(s))
	if n >= width {
		return value.NewText(s), nil
	}
	return value.NewText(s + strings.Repeat(" ", width-n)), nil
}

// drawProgressBar renders "[#####-----]" scaled to width characters.
func drawProgressBar(_ *Context, args []value.Value, pos token.Position) (value.Value, *errors.Error) {
	current, err := wantNumber("progress_bar", "current", args, 0, pos)
	if err != nil {
		return nil, err
	}
	total, err := wantNumber("progress_bar", "total", args, 1, pos)
	if err != nil {
		return nil, err
	}
	width, err := wantInt("progress_bar", "width", args, 2, pos)
	if err != nil {
		return nil, err
	}
	if total <= 0 {
		return nil, errors.New(errors.Runtime, errors.CodeWrongOperand, pos,
			"progress_bar expects total to be positive, got %s", value.FormatNumber(total))
	}
	if width < 1 {
		width = 1
	}
	ratio := current / total
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	return value.NewText("[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"), nil
}
