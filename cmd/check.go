package cmd

import (
	"fmt"
	"os"

	"capstan/internal/compiler"
	"capstan/pkg/logging"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var checkQuiet bool

// checkCmd compiles the declarations without serving them.
var checkCmd = &cobra.Command{
	Use:   "check <declarations-dir>",
	Short: "Compile declaration units and report every error",
	Long: `Compiles every declaration unit under the given directory and reports
every error found: extraction failures, naming and structural defects,
schema problems, duplicate names, unresolvable router members, and
broken skill references. Nothing short-circuits; one run shows the full
defect list.

Exits 0 when everything compiles, 2 when any declaration has errors.

Examples:
  capstan check ./declarations
  capstan check --quiet ./declarations`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	logging.Init(logging.LevelError, os.Stderr)

	assembly, err := compiler.AssembleDir(args[0], nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if assembly.Valid() {
		if !checkQuiet {
			fmt.Fprintf(out, "%s %d capabilities compiled cleanly\n",
				text.FgGreen.Sprint("OK"), assembly.Registry.Len())
		}
		return nil
	}

	if !checkQuiet {
		for _, compileErr := range assembly.Errors {
			fmt.Fprintf(out, "%s %v\n", text.FgRed.Sprint("ERROR"), compileErr)
		}
		fmt.Fprintf(out, "\n%d capabilities compiled, %d errors\n",
			assembly.Registry.Len(), len(assembly.Errors))
	}
	os.Exit(ExitCodeDeclarationErrors)
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "Suppress output; exit code only")
}
