package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/pkg/steps"
)

var runStepArgs []string

var runStepCmd = &cobra.Command{
	Use:   "run-step <file.step>",
	Short: "Parse and execute a single step file",
	Long: `Parse one .step file in isolation, bind the --args values to its
declared parameters, execute it, and print the returned value if the
step declares one.

Example:
  steps run-step math/calculate_tip.step --args 100,15`,
	Args: cobra.ExactArgs(1),
	RunE: runStepFile,
}

func init() {
	rootCmd.AddCommand(runStepCmd)

	runStepCmd.Flags().StringSliceVar(&runStepArgs, "args", nil, "argument literals bound to the step's parameters")
}

func runStepFile(_ *cobra.Command, args []string) error {
	_, err := steps.RunStepFile(args[0], runStepArgs, steps.Options{})
	if err != nil {
		switch e := err.(type) {
		case *errors.Error:
			fmt.Fprintln(os.Stderr, e.Format(true))
		case errors.List:
			fmt.Fprintln(os.Stderr, e.Format(true))
		default:
			fmt.Fprintln(os.Stderr, err)
		}
		return fmt.Errorf("execution failed")
	}
	return nil
}
