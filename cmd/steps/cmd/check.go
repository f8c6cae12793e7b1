package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/steps-lang/steps/pkg/steps"
)

var checkCmd = &cobra.Command{
	Use:   "check <project>",
	Short: "Load and validate a project without executing it",
	Long: `Parse the whole project and report every structure, lex and parse
error found. Exits 0 when the project is clean.`,
	Args: cobra.ExactArgs(1),
	RunE: checkProject,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkProject(_ *cobra.Command, args []string) error {
	errs := steps.Check(args[0])
	if errs.HasErrors() {
		fmt.Fprintln(os.Stderr, errs.Format(true))
		return fmt.Errorf("%d error(s) found", len(errs))
	}
	if verbose {
		fmt.Println("project is clean")
	}
	return nil
}
