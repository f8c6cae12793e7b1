package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/steps-lang/steps/internal/ast"
)

func parseBuilding(t *testing.T, src string) *ast.Building {
	t.Helper()
	p := New(src, "test.building")
	b := p.ParseBuilding()
	require.False(t, p.Errors().HasErrors(), "unexpected errors: %v", p.Errors())
	return b
}

func parseStep(t *testing.T, src string) *ast.Step {
	t.Helper()
	p := New(src, "test.step")
	s := p.ParseStep()
	require.False(t, p.Errors().HasErrors(), "unexpected errors: %v", p.Errors())
	return s
}

func TestParseBuildingBareStatements(t *testing.T) {
	b := parseBuilding(t, "building: hello\n    display \"Hello, World!\"\n    exit\n")
	require.Equal(t, "hello", b.Name)
	require.Len(t, b.Statements, 2)

	display, ok := b.Statements[0].(*ast.DisplayStatement)
	require.True(t, ok, "statement 0 is %T", b.Statements[0])
	lit, ok := display.Value.(*ast.TextLiteral)
	require.True(t, ok)
	require.Equal(t, "Hello, World!", lit.Value)

	_, ok = b.Statements[1].(*ast.ExitStatement)
	require.True(t, ok, "statement 1 is %T", b.Statements[1])
}

func TestParseBuildingWithDeclareAndDo(t *testing.T) {
	src := "building: demo\n" +
		"    declare:\n" +
		"        score as number fixed\n" +
		"        name as text\n" +
		"    do:\n" +
		"        set score to 10\n"
	b := parseBuilding(t, src)
	require.Len(t, b.Declares, 2)
	require.Equal(t, "score", b.Declares[0].Name)
	require.Equal(t, "number", b.Declares[0].DeclType)
	require.True(t, b.Declares[0].Fixed)
	require.Equal(t, "name", b.Declares[1].Name)
	require.False(t, b.Declares[1].Fixed)
	require.Len(t, b.Statements, 1)
}

func TestParseFloor(t *testing.T) {
	p := New("floor: math\n    step: calculate_tip\n    step: add_tax\n", "math.floor")
	f := p.ParseFloor()
	require.False(t, p.Errors().HasErrors(), "unexpected errors: %v", p.Errors())
	require.Equal(t, "math", f.Name)
	require.Len(t, f.Steps, 2)
	require.Equal(t, "calculate_tip", f.Steps[0].Name)
	require.Equal(t, "add_tax", f.Steps[1].Name)
}

func TestParseFloorWithoutStepsIsError(t *testing.T) {
	p := New("floor: math\n", "math.floor")
	p.ParseFloor()
	require.True(t, p.Errors().HasErrors())
}

func TestParseStepFull(t *testing.T) {
	src := "step: calculate_tip\n" +
		"    belongs to: math\n" +
		"    expects: amount, percent\n" +
		"    returns: tip\n" +
		"    do:\n" +
		"        set tip to amount * percent / 100\n" +
		"        return tip\n"
	s := parseStep(t, src)
	require.Equal(t, "calculate_tip", s.Name)
	require.Equal(t, "math", s.FloorName)
	require.Equal(t, []string{"amount", "percent"}, s.Params)
	require.Equal(t, "tip", s.Returns)
	require.True(t, s.HasReturn())
	require.Len(t, s.Body, 2)
}

func TestParseStepMissingBelongsTo(t *testing.T) {
	p := New("step: lonely\n    do:\n        exit\n", "lonely.step")
	p.ParseStep()
	require.True(t, p.Errors().HasErrors())
}

func TestParseStepWithRiser(t *testing.T) {
	src := "step: outer\n" +
		"    belongs to: main\n" +
		"    riser: helper\n" +
		"        expects: n\n" +
		"        returns: doubled\n" +
		"        do:\n" +
		"            return n * 2\n" +
		"    do:\n" +
		"        call helper with 5 storing result in x\n" +
		"        display x\n"
	s := parseStep(t, src)
	require.Len(t, s.Risers, 1)
	riser := s.Risers[0]
	require.Equal(t, "helper", riser.Name)
	require.Equal(t, []string{"n"}, riser.Params)
	require.Equal(t, "doubled", riser.Returns)
	require.NotNil(t, s.RiserByName("helper"))
	require.Nil(t, s.RiserByName("missing"))
}

func TestParseCallForms(t *testing.T) {
	b := parseBuilding(t, "building: demo\n"+
		"    call greet\n"+
		"    call tip with 100, 15 storing result in result_tip\n")

	bare, ok := b.Statements[0].(*ast.CallStatement)
	require.True(t, ok)
	require.Equal(t, "greet", bare.Name)
	require.Empty(t, bare.Args)
	require.Empty(t, bare.Result)

	full, ok := b.Statements[1].(*ast.CallStatement)
	require.True(t, ok)
	require.Equal(t, "tip", full.Name)
	require.Len(t, full.Args, 2)
	require.Equal(t, "result_tip", full.Result)
}

func TestParseIfChain(t *testing.T) {
	src := "building: demo\n" +
		"    if x is greater than 10:\n" +
		"        display \"big\"\n" +
		"    otherwise if x is greater than 5:\n" +
		"        display \"medium\"\n" +
		"    otherwise:\n" +
		"        display \"small\"\n"
	b := parseBuilding(t, src)
	require.Len(t, b.Statements, 1)

	ifStmt, ok := b.Statements[0].(*ast.IfStatement)
	require.True(t, ok)
	require.Len(t, ifStmt.Branches, 2)
	require.NotNil(t, ifStmt.Otherwise)
	require.Len(t, ifStmt.Otherwise, 1)
}

func TestParseRepeatForms(t *testing.T) {
	src := "building: demo\n" +
		"    repeat 3 times:\n" +
		"        display \"hi\"\n" +
		"    repeat for each item in basket:\n" +
		"        display item\n" +
		"    repeat while x is less than 10:\n" +
		"        set x to x + 1\n"
	b := parseBuilding(t, src)
	require.Len(t, b.Statements, 3)

	_, ok := b.Statements[0].(*ast.RepeatTimesStatement)
	require.True(t, ok, "statement 0 is %T", b.Statements[0])

	forEach, ok := b.Statements[1].(*ast.RepeatForEachStatement)
	require.True(t, ok, "statement 1 is %T", b.Statements[1])
	require.Equal(t, "item", forEach.VarName)

	_, ok = b.Statements[2].(*ast.RepeatWhileStatement)
	require.True(t, ok, "statement 2 is %T", b.Statements[2])
}

func TestParseAttempt(t *testing.T) {
	src := "building: demo\n" +
		"    attempt:\n" +
		"        set n to \"abc\" as number\n" +
		"    if unsuccessful:\n" +
		"        display problem_message\n" +
		"    then continue:\n" +
		"        display \"done\"\n"
	b := parseBuilding(t, src)
	require.Len(t, b.Statements, 1)

	attempt, ok := b.Statements[0].(*ast.AttemptStatement)
	require.True(t, ok)
	require.Len(t, attempt.Try, 1)
	require.Len(t, attempt.Catch, 1)
	require.Len(t, attempt.Finally, 1)
}

// attempt: with an empty try body and no catch is still valid.
func TestParseAttemptEmptyTry(t *testing.T) {
	src := "building: demo\n" +
		"    attempt:\n" +
		"    then continue:\n" +
		"        display \"done\"\n"
	b := parseBuilding(t, src)
	attempt, ok := b.Statements[0].(*ast.AttemptStatement)
	require.True(t, ok)
	require.Empty(t, attempt.Try)
	require.Nil(t, attempt.Catch)
	require.Len(t, attempt.Finally, 1)
}

func TestParseIndexedAssignment(t *testing.T) {
	b := parseBuilding(t, "building: demo\n    set scores[\"alice\"] to 97\n")
	set, ok := b.Statements[0].(*ast.SetStatement)
	require.True(t, ok)
	require.Equal(t, "scores", set.Name)
	require.NotNil(t, set.Index)
}

func TestParseSetIterationLimit(t *testing.T) {
	b := parseBuilding(t, "building: demo\n    set iteration limit to 1000\n")
	_, ok := b.Statements[0].(*ast.SetIterationLimitStatement)
	require.True(t, ok, "statement is %T", b.Statements[0])
}

func TestParseAddRemove(t *testing.T) {
	b := parseBuilding(t, "building: demo\n    add 5 to basket\n    remove 5 from basket\n")
	addStmt, ok := b.Statements[0].(*ast.AddToListStatement)
	require.True(t, ok)
	require.Equal(t, "basket", addStmt.ListName)
	removeStmt, ok := b.Statements[1].(*ast.RemoveFromListStatement)
	require.True(t, ok)
	require.Equal(t, "basket", removeStmt.ListName)
}

func TestAssignToProblemMessageIsError(t *testing.T) {
	p := New("building: demo\n    set problem_message to \"x\"\n", "test.building")
	p.ParseBuilding()
	require.True(t, p.Errors().HasErrors())
}

// A bad statement must not hide the rest of the file: recovery resumes at
// the next line.
func TestErrorRecoveryContinuesParsing(t *testing.T) {
	src := "building: demo\n" +
		"    set to 5\n" +
		"    display \"still here\"\n"
	p := New(src, "test.building")
	b := p.ParseBuilding()
	require.True(t, p.Errors().HasErrors())
	require.Len(t, b.Statements, 1)
	_, ok := b.Statements[0].(*ast.DisplayStatement)
	require.True(t, ok)
}
