package interp

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/steps-lang/steps/internal/ast"
	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/internal/interp/builtins"
	"github.com/steps-lang/steps/internal/parser"
)

// harness runs a building source against scripted stdin, capturing all
// output. Step sources are parsed and registered alongside.
type harness struct {
	output []string
	buf    strings.Builder
	input  []string
	inPos  int
}

func (h *harness) writeLine(s string) {
	h.buf.WriteString(s)
	h.output = append(h.output, h.buf.String())
	h.buf.Reset()
}

func (h *harness) writeNoNewline(s string) {
	h.buf.WriteString(s)
}

func (h *harness) readLine() (string, error) {
	if h.inPos >= len(h.input) {
		return "", fmt.Errorf("no more scripted input")
	}
	line := h.input[h.inPos]
	h.inPos++
	return line, nil
}

// run executes a building with optional step files and scripted input.
func run(t *testing.T, buildingSrc string, stepSrcs []string, input ...string) ([]string, *errors.Error) {
	t.Helper()

	p := parser.New(buildingSrc, "test.building")
	building := p.ParseBuilding()
	require.False(t, p.Errors().HasErrors(), "building parse errors: %v", p.Errors())

	steps := make(map[string]*ast.Step)
	for i, src := range stepSrcs {
		sp := parser.New(src, fmt.Sprintf("step%d.step", i))
		step := sp.ParseStep()
		require.False(t, sp.Errors().HasErrors(), "step parse errors: %v", sp.Errors())
		steps[step.Name] = step
	}

	h := &harness{input: input}
	env := NewEnvironment(steps, builtins.NewRegistry(), Hooks{
		ReadLine:       h.readLine,
		WriteLine:      h.writeLine,
		WriteNoNewline: h.writeNoNewline,
	})
	it := New(env, rand.New(rand.NewSource(1)))
	err := it.RunBuilding(building)
	return h.output, err
}

func requireOutput(t *testing.T, got []string, want ...string) {
	t.Helper()
	require.Equal(t, want, got)
}

// S1: hello world.
func TestHelloWorld(t *testing.T) {
	out, err := run(t, "building: hello\n    display \"Hello, World!\"\n    exit\n", nil)
	require.Nil(t, err)
	requireOutput(t, out, "Hello, World!")
}

// S2: tip calculator reading stdin and calling a floor step.
func TestTipCalculator(t *testing.T) {
	step := "step: calculate_tip\n" +
		"    belongs to: math\n" +
		"    expects: amount, percent\n" +
		"    returns: tip\n" +
		"    do:\n" +
		"        return amount * percent / 100\n"
	building := "building: tips\n" +
		"    set amount to input as number\n" +
		"    set percent to input as number\n" +
		"    call calculate_tip with amount, percent storing result in tip\n" +
		"    display \"Tip: $\" added to tip as decimal(1)\n" +
		"    display \"Total: $\" added to (amount + tip) as decimal(1)\n"
	out, err := run(t, building, []string{step}, "100", "15")
	require.Nil(t, err)
	requireOutput(t, out, "Tip: $15.0", "Total: $115.0")
}

// S3: a failed conversion is caught by attempt and then continue runs.
func TestAttemptCatchesConversion(t *testing.T) {
	building := "building: demo\n" +
		"    attempt:\n" +
		"        set n to \"abc\" as number\n" +
		"    if unsuccessful:\n" +
		"        display \"Caught: \" added to problem_message\n" +
		"    then continue:\n" +
		"        display \"done\"\n"
	out, err := run(t, building, nil)
	require.Nil(t, err)
	requireOutput(t, out, `Caught: cannot convert "abc" to number`, "done")
}

// S4: unbounded recursion terminates with E408 naming the step.
func TestRecursionBound(t *testing.T) {
	step := "step: forever\n" +
		"    belongs to: main\n" +
		"    do:\n" +
		"        call forever\n"
	out, err := run(t, "building: demo\n    call forever\n", []string{step})
	require.NotNil(t, err)
	require.Equal(t, errors.CodeRecursionLimit, err.Code)
	require.Contains(t, err.Message, "forever")
	require.Empty(t, out)
}

// S5: assigning the wrong type to a fixed variable names the variable and
// both types.
func TestFixedTypeViolation(t *testing.T) {
	building := "building: demo\n" +
		"    declare:\n" +
		"        score as number fixed\n" +
		"    do:\n" +
		"        set score to \"high\"\n"
	_, err := run(t, building, nil)
	require.NotNil(t, err)
	require.Equal(t, errors.CodeFixedViolation, err.Code)
	require.Equal(t, errors.Type, err.Kind)
	require.Contains(t, err.Message, "score")
	require.Contains(t, err.Message, "number")
	require.Contains(t, err.Message, "text")
}

// S6: repeat while true trips the iteration ceiling.
func TestIterationCap(t *testing.T) {
	building := "building: demo\n" +
		"    set iteration limit to 1000\n" +
		"    repeat while true:\n" +
		"        set x to 1\n"
	_, err := run(t, building, nil)
	require.NotNil(t, err)
	require.Equal(t, errors.CodeIterationLimit, err.Code)
	// The ceiling error is not catchable.
	require.False(t, err.Catchable())
}

func TestIterationLimitNotCaughtByAttempt(t *testing.T) {
	building := "building: demo\n" +
		"    set iteration limit to 100\n" +
		"    attempt:\n" +
		"        repeat while true:\n" +
		"            set x to 1\n" +
		"    if unsuccessful:\n" +
		"        display \"caught\"\n" +
		"    then continue:\n" +
		"        display \"finally\"\n"
	out, err := run(t, building, nil)
	require.NotNil(t, err)
	require.Equal(t, errors.CodeIterationLimit, err.Code)
	// Non-catchable errors skip both the catch and the finally body.
	require.Empty(t, out)
}

func TestAttemptFinallyRunsWithoutError(t *testing.T) {
	building := "building: demo\n" +
		"    attempt:\n" +
		"        display \"try\"\n" +
		"    if unsuccessful:\n" +
		"        display \"catch\"\n" +
		"    then continue:\n" +
		"        display \"finally\"\n"
	out, err := run(t, building, nil)
	require.Nil(t, err)
	requireOutput(t, out, "try", "finally")
}

func TestProblemMessageOnlyDuringCatch(t *testing.T) {
	building := "building: demo\n" +
		"    attempt:\n" +
		"        set n to \"x\" as number\n" +
		"    if unsuccessful:\n" +
		"        display \"in catch\"\n" +
		"    then continue:\n" +
		"        display problem_message\n"
	out, err := run(t, building, nil)
	require.NotNil(t, err)
	require.Equal(t, errors.CodeUndefinedName, err.Code)
	requireOutput(t, out, "in catch")
}

func TestDisplayAndIndicate(t *testing.T) {
	building := "building: demo\n" +
		"    indicate \"a\"\n" +
		"    indicate \"b\"\n" +
		"    display \"c\"\n"
	out, err := run(t, building, nil)
	require.Nil(t, err)
	requireOutput(t, out, "abc")
}

func TestArithmeticAndComparison(t *testing.T) {
	building := "building: demo\n" +
		"    set x to 2 + 3 * 4\n" +
		"    display x\n" +
		"    display x is greater than 10\n" +
		"    display x is equal to \"14\"\n" +
		"    display 7 / 2\n"
	out, err := run(t, building, nil)
	require.Nil(t, err)
	requireOutput(t, out, "14", "true", "false", "3.5")
}

func TestDivisionByZero(t *testing.T) {
	_, err := run(t, "building: demo\n    display 1 / 0\n", nil)
	require.NotNil(t, err)
	require.Equal(t, errors.CodeDivisionByZero, err.Code)
}

func TestAddedToRequiresText(t *testing.T) {
	_, err := run(t, "building: demo\n    display 1 added to \"x\"\n", nil)
	require.NotNil(t, err)
	require.Equal(t, errors.CodeWrongOperand, err.Code)
	require.NotEmpty(t, err.Hint)
}

func TestPlusOnTextSuggestsAddedTo(t *testing.T) {
	_, err := run(t, "building: demo\n    display \"a\" + \"b\"\n", nil)
	require.NotNil(t, err)
	require.Contains(t, err.Hint, "added to")
}

func TestUndefinedName(t *testing.T) {
	_, err := run(t, "building: demo\n    display missing\n", nil)
	require.NotNil(t, err)
	require.Equal(t, errors.CodeUndefinedName, err.Code)
	require.Contains(t, err.Hint, "set")
}

func TestListOperations(t *testing.T) {
	building := "building: demo\n" +
		"    set basket to [1, 2, 3]\n" +
		"    add 4 to basket\n" +
		"    remove 2 from basket\n" +
		"    remove 99 from basket\n" + // silent no-op
		"    display basket\n" +
		"    display length of basket\n" +
		"    display basket[0]\n" +
		"    set basket[0] to 10\n" +
		"    display basket[0]\n" +
		"    display 3 is in basket\n"
	out, err := run(t, building, nil)
	require.Nil(t, err)
	requireOutput(t, out, "[1, 3, 4]", "3", "1", "10", "true")
}

func TestListIndexErrors(t *testing.T) {
	_, err := run(t, "building: demo\n    set basket to [1]\n    display basket[5]\n", nil)
	require.NotNil(t, err)
	require.Equal(t, errors.CodeIndexRange, err.Code)

	_, err = run(t, "building: demo\n    set basket to [1]\n    display basket[0.5]\n", nil)
	require.NotNil(t, err)
	require.Equal(t, errors.CodeBadIndexKind, err.Code)
	require.Equal(t, errors.Type, err.Kind)
}

func TestTableOperations(t *testing.T) {
	building := "building: demo\n" +
		"    set ages to [\"alice\": 30]\n" +
		"    set ages[\"bob\"] to 25\n" +
		"    display ages[\"alice\"]\n" +
		"    display length of ages\n" +
		"    display \"bob\" is in ages\n" +
		"    repeat for each key in ages:\n" +
		"        display key\n"
	out, err := run(t, building, nil)
	require.Nil(t, err)
	requireOutput(t, out, "30", "2", "true", "alice", "bob")
}

func TestMissingTableKey(t *testing.T) {
	_, err := run(t, "building: demo\n    set ages to [:]\n    display ages[\"ghost\"]\n", nil)
	require.NotNil(t, err)
	require.Equal(t, errors.CodeKeyNotFound, err.Code)
}

func TestRepeatTimes(t *testing.T) {
	out, err := run(t, "building: demo\n    repeat 3 times:\n        display \"x\"\n", nil)
	require.Nil(t, err)
	requireOutput(t, out, "x", "x", "x")
}

func TestRepeatZeroTimes(t *testing.T) {
	out, err := run(t, "building: demo\n    repeat 0 times:\n        display \"x\"\n    display \"after\"\n", nil)
	require.Nil(t, err)
	requireOutput(t, out, "after")
}

func TestRepeatNegativeTimesIsError(t *testing.T) {
	_, err := run(t, "building: demo\n    repeat -1 times:\n        display \"x\"\n", nil)
	require.NotNil(t, err)
	require.Equal(t, errors.CodeBadLoopCount, err.Code)
}

func TestForEachOverEmptyCollection(t *testing.T) {
	building := "building: demo\n" +
		"    repeat for each item in []:\n" +
		"        display item\n" +
		"    display \"after\"\n"
	out, err := run(t, building, nil)
	require.Nil(t, err)
	requireOutput(t, out, "after")
}

func TestForEachOverText(t *testing.T) {
	building := "building: demo\n" +
		"    repeat for each letter in \"abc\":\n" +
		"        display letter\n"
	out, err := run(t, building, nil)
	require.Nil(t, err)
	requireOutput(t, out, "a", "b", "c")
}

func TestLengthOfEmptyContainers(t *testing.T) {
	building := "building: demo\n" +
		"    display length of \"\"\n" +
		"    display length of []\n" +
		"    display length of [:]\n"
	out, err := run(t, building, nil)
	require.Nil(t, err)
	requireOutput(t, out, "0", "0", "0")
}

func TestTextOperators(t *testing.T) {
	building := "building: demo\n" +
		"    set s to \"hello world\"\n" +
		"    display s contains \"world\"\n" +
		"    display s starts with \"hello\"\n" +
		"    display s ends with \"!\"\n" +
		"    display character at 4 of s\n" +
		"    display \"a,b,c\" split by \",\"\n" +
		"    display type of s\n" +
		"    display s is a text\n"
	out, err := run(t, building, nil)
	require.Nil(t, err)
	requireOutput(t, out, "true", "true", "false", "o", `["a", "b", "c"]`, "text", "true")
}

func TestStepScopeIsolation(t *testing.T) {
	step := "step: peek\n" +
		"    belongs to: main\n" +
		"    do:\n" +
		"        display hidden\n"
	building := "building: demo\n" +
		"    set hidden to 42\n" +
		"    call peek\n"
	_, err := run(t, building, []string{step})
	require.NotNil(t, err)
	require.Equal(t, errors.CodeUndefinedName, err.Code)
}

func TestStepArityMismatch(t *testing.T) {
	step := "step: pair\n" +
		"    belongs to: main\n" +
		"    expects: a_value, b_value\n" +
		"    do:\n" +
		"        return\n"
	_, err := run(t, "building: demo\n    call pair with 1\n", []string{step})
	require.NotNil(t, err)
	require.Equal(t, errors.CodeWrongArgCount, err.Code)
}

func TestStepMissingDeclaredReturn(t *testing.T) {
	step := "step: promise\n" +
		"    belongs to: main\n" +
		"    returns: answer\n" +
		"    do:\n" +
		"        display \"working\"\n"
	_, err := run(t, "building: demo\n    call promise storing result in x\n", []string{step})
	require.NotNil(t, err)
	require.Equal(t, errors.CodeMissingReturn, err.Code)
}

func TestRiserVisibility(t *testing.T) {
	withRiser := "step: outer\n" +
		"    belongs to: main\n" +
		"    returns: answer\n" +
		"    riser: double\n" +
		"        expects: n\n" +
		"        returns: doubled\n" +
		"        do:\n" +
		"            return n * 2\n" +
		"    do:\n" +
		"        call double with 21 storing result in x\n" +
		"        return x\n"
	building := "building: demo\n" +
		"    call outer storing result in y\n" +
		"    display y\n"
	out, err := run(t, building, []string{withRiser})
	require.Nil(t, err)
	requireOutput(t, out, "42")

	// The riser must not be callable from outside its parent step.
	_, err = run(t, "building: demo\n    call double with 21\n", []string{withRiser})
	require.NotNil(t, err)
	require.Equal(t, errors.CodeUnknownStep, err.Code)
}

func TestRecursiveStep(t *testing.T) {
	step := "step: countdown\n" +
		"    belongs to: main\n" +
		"    expects: n\n" +
		"    do:\n" +
		"        if n is equal to 0:\n" +
		"            return\n" +
		"        display n\n" +
		"        call countdown with n - 1\n"
	out, err := run(t, "building: demo\n    call countdown with 3\n", []string{step})
	require.Nil(t, err)
	requireOutput(t, out, "3", "2", "1")
}

func TestNativeDispatchBeforeSteps(t *testing.T) {
	building := "building: demo\n" +
		"    call uppercase with \"hi\" storing result in loud\n" +
		"    display loud\n" +
		"    call maximum_missing_native with 1\n"
	out, err := run(t, building, nil)
	require.NotNil(t, err)
	require.Equal(t, errors.CodeUnknownStep, err.Code)
	requireOutput(t, out, "HI")
}

func TestExitInsideStepStopsProgram(t *testing.T) {
	step := "step: bail\n" +
		"    belongs to: main\n" +
		"    do:\n" +
		"        display \"bailing\"\n" +
		"        exit\n"
	building := "building: demo\n" +
		"    call bail\n" +
		"    display \"never\"\n"
	out, err := run(t, building, []string{step})
	require.Nil(t, err)
	requireOutput(t, out, "bailing")
}

func TestConversions(t *testing.T) {
	building := "building: demo\n" +
		"    display \"42\" as number + 1\n" +
		"    display 7 as text added to \"!\"\n" +
		"    display 0 as boolean\n" +
		"    display \"\" as boolean\n" +
		"    display nothing as boolean\n" +
		"    display 3.14159 as decimal(2)\n"
	out, err := run(t, building, nil)
	require.Nil(t, err)
	requireOutput(t, out, "43", "7!", "false", "false", "false", "3.14")
}

func TestInputAsNumberFailureIsCatchable(t *testing.T) {
	building := "building: demo\n" +
		"    attempt:\n" +
		"        set n to input as number\n" +
		"    if unsuccessful:\n" +
		"        display \"bad input\"\n" +
		"    then continue:\n" +
		"        display \"done\"\n"
	out, err := run(t, building, nil, "not a number")
	require.Nil(t, err)
	requireOutput(t, out, "bad input", "done")
}

func TestHostReadFailureIsNotCatchable(t *testing.T) {
	building := "building: demo\n" +
		"    attempt:\n" +
		"        set n to input\n" +
		"    if unsuccessful:\n" +
		"        display \"caught\"\n"
	// No scripted input: the hook itself fails.
	_, err := run(t, building, nil)
	require.NotNil(t, err)
	require.Equal(t, errors.CodeHostFailure, err.Code)
	require.False(t, err.Catchable())
}

func TestIfChain(t *testing.T) {
	building := "building: demo\n" +
		"    set x to 7\n" +
		"    if x is greater than 10:\n" +
		"        display \"big\"\n" +
		"    otherwise if x is greater than 5:\n" +
		"        display \"medium\"\n" +
		"    otherwise:\n" +
		"        display \"small\"\n"
	out, err := run(t, building, nil)
	require.Nil(t, err)
	requireOutput(t, out, "medium")
}

func TestBranchScopeIsPopped(t *testing.T) {
	building := "building: demo\n" +
		"    if true:\n" +
		"        set inner to 1\n" +
		"    display inner\n"
	_, err := run(t, building, nil)
	require.NotNil(t, err)
	require.Equal(t, errors.CodeUndefinedName, err.Code)
}

func TestSetReachesEnclosingScope(t *testing.T) {
	building := "building: demo\n" +
		"    set total to 0\n" +
		"    repeat 3 times:\n" +
		"        set total to total + 1\n" +
		"    display total\n"
	out, err := run(t, building, nil)
	require.Nil(t, err)
	requireOutput(t, out, "3")
}

func TestShortCircuit(t *testing.T) {
	// The right side would raise if evaluated.
	building := "building: demo\n" +
		"    display false and missing\n" +
		"    display true or missing\n"
	out, err := run(t, building, nil)
	require.Nil(t, err)
	requireOutput(t, out, "false", "true")
}

func TestReturnUnwindsNestedBlocks(t *testing.T) {
	step := "step: finder\n" +
		"    belongs to: main\n" +
		"    expects: target\n" +
		"    returns: found\n" +
		"    do:\n" +
		"        repeat for each n in [1, 2, 3, 4]:\n" +
		"            if n is equal to target:\n" +
		"                return \"yes\"\n" +
		"        return \"no\"\n"
	building := "building: demo\n" +
		"    call finder with 3 storing result in x\n" +
		"    display x\n" +
		"    call finder with 9 storing result in b\n" +
		"    display b\n"
	out, err := run(t, building, []string{step})
	require.Nil(t, err)
	requireOutput(t, out, "yes", "no")
}
