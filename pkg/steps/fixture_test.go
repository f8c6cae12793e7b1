package steps

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

// TestProjectFixtures executes every testdata project with scripted input
// and snapshots the full output trace, so any behaviour drift in the
// pipeline shows up as a snapshot diff.
func TestProjectFixtures(t *testing.T) {
	fixtures := []struct {
		name  string
		path  string
		input []string
	}{
		{name: "hello", path: "testdata/hello"},
		{name: "tips", path: "testdata/tips", input: []string{"100", "15"}},
		{name: "tips_fractional", path: "testdata/tips", input: []string{"18.50", "20"}},
		{name: "greeter", path: "testdata/greeter"},
	}

	for _, fixture := range fixtures {
		t.Run(fixture.name, func(t *testing.T) {
			program := Load(fixture.path)
			require.False(t, program.Errors().HasErrors(), "load errors: %v", program.Errors())

			opts, output := scripted(fixture.input...)
			code, err := program.Run(opts)
			require.NoError(t, err)
			require.Equal(t, 0, code)

			snaps.MatchSnapshot(t, strings.Join(*output, "\n"))
		})
	}
}
