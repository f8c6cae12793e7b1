package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/internal/trace"
	"github.com/steps-lang/steps/pkg/steps"
)

var (
	runMaxDepth      int
	runMaxIterations int64
	runTrace         bool
	runTraceFile     string
)

var runCmd = &cobra.Command{
	Use:   "run <project>",
	Short: "Load and execute a Steps project",
	Long: `Load the project directory, register every floor and step, then
execute the building from top to bottom.

Examples:
  # Run a project
  steps run my_project

  # Trace step calls to a rotating log file
  steps run --trace --trace-file run.log my_project`,
	Args: cobra.ExactArgs(1),
	RunE: runProject,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runMaxDepth, "max-depth", 0, "call stack ceiling (default 1000)")
	runCmd.Flags().Int64Var(&runMaxIterations, "max-iterations", 0, "loop iteration ceiling (default 10 million)")
	runCmd.Flags().BoolVar(&runTrace, "trace", false, "emit structured call/return/error events")
	runCmd.Flags().StringVar(&runTraceFile, "trace-file", "", "write trace events to this file instead of stderr")
}

func runProject(_ *cobra.Command, args []string) error {
	program := steps.Load(args[0])
	if errs := program.Errors(); errs.HasErrors() {
		fmt.Fprintln(os.Stderr, errs.Format(true))
		return fmt.Errorf("loading failed with %d error(s)", len(errs))
	}

	opts := steps.Options{
		MaxCallDepth:  runMaxDepth,
		MaxIterations: runMaxIterations,
	}

	if runTrace {
		session := trace.NewSession(runTraceFile)
		defer session.Close()
		opts.Trace = func(e steps.TraceEvent) {
			session.Emit(trace.Event{
				Timestamp: time.Now(),
				Kind:      e.Kind,
				Name:      e.Name,
				Depth:     e.Depth,
				File:      e.Pos.File,
				Line:      e.Pos.Line,
				Column:    e.Pos.Column,
			})
		}
	}

	_, err := program.Run(opts)
	if err != nil {
		if serr, ok := err.(*errors.Error); ok {
			fmt.Fprintln(os.Stderr, serr.Format(true))
			return fmt.Errorf("execution failed")
		}
		return err
	}
	return nil
}
