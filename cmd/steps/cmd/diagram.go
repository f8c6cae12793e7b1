package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steps-lang/steps/pkg/steps"
)

var diagramCmd = &cobra.Command{
	Use:   "diagram <project>",
	Short: "Print an ASCII view of a project's architecture",
	Long: `Load the project and print its structure: the building, every
floor, and each floor's steps with their parameters, return names and
risers. Nothing is executed.`,
	Args: cobra.ExactArgs(1),
	RunE: diagramProject,
}

func init() {
	rootCmd.AddCommand(diagramCmd)
}

func diagramProject(_ *cobra.Command, args []string) error {
	program := steps.Load(args[0])
	if errs := program.Errors(); errs.HasErrors() {
		fmt.Fprintln(os.Stderr, errs.Format(true))
		return fmt.Errorf("loading failed with %d error(s)", len(errs))
	}

	building := program.Building()
	fmt.Printf("building: %s\n", building.Name)

	floors := program.Floors()
	registry := program.Steps()
	for fi, floor := range floors {
		floorBranch, stepIndent := "├──", "│   "
		if fi == len(floors)-1 {
			floorBranch, stepIndent = "└──", "    "
		}
		fmt.Printf("%s floor: %s\n", floorBranch, floor.Name)

		for si, decl := range floor.Steps {
			stepBranch := "├──"
			riserIndent := stepIndent + "│   "
			if si == len(floor.Steps)-1 {
				stepBranch = "└──"
				riserIndent = stepIndent + "    "
			}

			step := registry[decl.Name]
			if step == nil {
				fmt.Printf("%s%s step: %s (missing)\n", stepIndent, stepBranch, decl.Name)
				continue
			}
			fmt.Printf("%s%s step: %s%s\n", stepIndent, stepBranch, step.Name, signature(step.Params, step.Returns))
			for ri, riser := range step.Risers {
				riserBranch := "├──"
				if ri == len(step.Risers)-1 {
					riserBranch = "└──"
				}
				fmt.Printf("%s%s riser: %s%s\n", riserIndent, riserBranch, riser.Name, signature(riser.Params, riser.Returns))
			}
		}
	}
	return nil
}

// signature renders "(a, b) -> c" for a step or riser header.
func signature(params []string, returns string) string {
	var sb strings.Builder
	if len(params) > 0 {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(params, ", "))
		sb.WriteString(")")
	}
	if returns != "" {
		sb.WriteString(" -> ")
		sb.WriteString(returns)
	}
	return sb.String()
}
