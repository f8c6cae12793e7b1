package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/steps-lang/steps/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Steps session",
	Long: `Start a read-eval-print loop with history and line editing. The
standard library is preloaded; variables persist across entries. Leave
with :quit or Ctrl-D.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		r, err := repl.New(os.Stdout)
		if err != nil {
			return err
		}
		return r.Run()
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
