package steps

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// scripted returns Options with deterministic I/O: stdin served from
// lines, stdout captured into the returned slice.
func scripted(input ...string) (Options, *[]string) {
	var output []string
	var partial strings.Builder
	pos := 0
	opts := Options{
		ReadLine: func() (string, error) {
			if pos >= len(input) {
				return "", fmt.Errorf("no more scripted input")
			}
			line := input[pos]
			pos++
			return line, nil
		},
		WriteLine: func(s string) {
			partial.WriteString(s)
			output = append(output, partial.String())
			partial.Reset()
		},
		WriteNoNewline: func(s string) {
			partial.WriteString(s)
		},
		RandSeed: 1,
	}
	return opts, &output
}

func TestRunHello(t *testing.T) {
	program := Load("testdata/hello")
	require.False(t, program.Errors().HasErrors(), "load errors: %v", program.Errors())

	opts, output := scripted()
	code, err := program.Run(opts)
	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Equal(t, []string{"Hello, World!"}, *output)
}

func TestRunTips(t *testing.T) {
	program := Load("testdata/tips")
	require.False(t, program.Errors().HasErrors(), "load errors: %v", program.Errors())

	opts, output := scripted("100", "15")
	code, err := program.Run(opts)
	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Equal(t, []string{"Tip: $15.0", "Total: $115.0"}, *output)
}

func TestRunGreeterUsesStepsRisersAndStdlib(t *testing.T) {
	program := Load("testdata/greeter")
	require.False(t, program.Errors().HasErrors(), "load errors: %v", program.Errors())

	opts, output := scripted()
	code, err := program.Run(opts)
	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Equal(t, []string{"* Ada *", "* Grace *", "* Edsger *", "done"}, *output)
}

func TestRunRefusesBrokenProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "broken")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.building"),
		[]byte("building: broken\n    display\n"), 0o644))

	program := Load(dir)
	require.True(t, program.Errors().HasErrors())

	opts, _ := scripted()
	code, err := program.Run(opts)
	require.Error(t, err)
	require.Equal(t, 1, code)
}

func TestCheckReportsErrors(t *testing.T) {
	require.False(t, Check("testdata/hello").HasErrors())

	dir := filepath.Join(t.TempDir(), "bad")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.building"),
		[]byte("building: bad\n\tdisplay 1\n"), 0o644))
	require.True(t, Check(dir).HasErrors())
}

func TestParseFragment(t *testing.T) {
	require.False(t, ParseFragment("set x to 1\ndisplay x\n", "<repl>").HasErrors())
	require.True(t, ParseFragment("set to to to\n", "<repl>").HasErrors())
}

func TestRunStepFile(t *testing.T) {
	path := filepath.Join("testdata", "tips", "math", "calculate_tip.step")

	opts, output := scripted()
	code, err := RunStepFile(path, []string{"100", "15"}, opts)
	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Equal(t, []string{"15"}, *output)
}

func TestRunStepFileWrongArity(t *testing.T) {
	path := filepath.Join("testdata", "tips", "math", "calculate_tip.step")

	opts, _ := scripted()
	code, err := RunStepFile(path, []string{"100"}, opts)
	require.Error(t, err)
	require.Equal(t, 1, code)
}

func TestTraceCallbackReceivesEvents(t *testing.T) {
	program := Load("testdata/tips")
	require.False(t, program.Errors().HasErrors())

	var kinds []string
	opts, _ := scripted("100", "15")
	opts.Trace = func(e TraceEvent) {
		kinds = append(kinds, e.Kind+":"+e.Name)
	}
	_, err := program.Run(opts)
	require.NoError(t, err)
	require.Contains(t, kinds, "call:calculate_tip")
	require.Contains(t, kinds, "return:calculate_tip")
}
