package errors

import (
	"strings"
	"testing"

	"github.com/steps-lang/steps/pkg/token"
)

func pos(line, col int) token.Position {
	return token.Position{File: "demo.step", Line: line, Column: col}
}

func TestErrorString(t *testing.T) {
	e := New(Runtime, CodeUndefinedName, pos(3, 9), "nothing named %q exists here", "x")
	want := `[E301] demo.step:3:9: nothing named "x" exists here`
	if e.Error() != want {
		t.Errorf("Error() wrong.\nexpected: %s\ngot:      %s", want, e.Error())
	}
}

func TestFormatWithSourceExcerpt(t *testing.T) {
	src := "set a to 1\nset b to missing\nset c to 3\n"
	e := New(Runtime, CodeUndefinedName, pos(2, 10), "nothing named %q exists here", "missing").
		WithHint("did you set it first?").
		WithSource(src)

	out := e.Format(false)
	for _, want := range []string{
		"Error [E301] at demo.step:2:10",
		"   2 | set b to missing",
		"^",
		"Hint: did you set it first?",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted error missing %q:\n%s", want, out)
		}
	}

	// The caret must sit under column 10 of the excerpt line.
	lines := strings.Split(out, "\n")
	var caretLine string
	for _, line := range lines {
		if strings.HasSuffix(line, "^") {
			caretLine = line
		}
	}
	gutterWidth := len("   2 | ")
	if len(caretLine) != gutterWidth+10-1+1 {
		t.Errorf("caret misplaced: %q", caretLine)
	}
}

func TestCatchability(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want bool
	}{
		{"type error", New(Type, CodeBadConversion, pos(1, 1), "x"), true},
		{"runtime error", New(Runtime, CodeKeyNotFound, pos(1, 1), "x"), true},
		{"lex error", New(Lex, CodeTabIndent, pos(1, 1), "x"), false},
		{"parse error", New(Parse, CodeUnexpectedToken, pos(1, 1), "x"), false},
		{"structure error", New(Structure, CodeDuplicateStep, pos(1, 1), "x"), false},
		{"internal error", New(Internal, CodeInternal, pos(1, 1), "x"), false},
		{"recursion ceiling", New(Runtime, CodeRecursionLimit, pos(1, 1), "x"), false},
		{"iteration ceiling", New(Runtime, CodeIterationLimit, pos(1, 1), "x"), false},
		{"host failure", NewHostFailure(pos(1, 1), errTest), false},
	}
	for _, tt := range tests {
		if got := tt.err.Catchable(); got != tt.want {
			t.Errorf("%s: Catchable() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

var errTest = &testErr{}

type testErr struct{}

func (*testErr) Error() string { return "boom" }

func TestListFormatting(t *testing.T) {
	var l List
	if l.HasErrors() {
		t.Error("empty list reports errors")
	}
	l = append(l,
		New(Parse, CodeUnexpectedToken, pos(1, 1), "first"),
		New(Parse, CodeMissingClause, pos(2, 1), "second"))
	if !l.HasErrors() {
		t.Error("non-empty list reports no errors")
	}
	if !strings.Contains(l.Error(), "and 1 more") {
		t.Errorf("List.Error() wrong: %s", l.Error())
	}
	formatted := l.Format(false)
	if !strings.Contains(formatted, "first") || !strings.Contains(formatted, "second") {
		t.Errorf("List.Format() missing entries:\n%s", formatted)
	}
}

func TestStackTrace(t *testing.T) {
	st := StackTrace{
		{StepName: "main"},
		{StepName: "outer", CallSite: pos(4, 5)},
		{StepName: "inner", CallSite: pos(9, 5)},
	}
	if st.Depth() != 3 {
		t.Errorf("Depth() = %d", st.Depth())
	}
	if st.Top().StepName != "inner" {
		t.Errorf("Top() = %q", st.Top().StepName)
	}
	out := st.String()
	if !strings.HasPrefix(out, "inner [line: 9, column: 5]") {
		t.Errorf("String() must lead with the newest frame:\n%s", out)
	}
	if !strings.HasSuffix(out, "main") {
		t.Errorf("String() must end with the oldest frame:\n%s", out)
	}
}
