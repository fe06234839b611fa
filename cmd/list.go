package cmd

import (
	"os"

	"capstan/internal/compiler"
	"capstan/pkg/logging"
	pkgstrings "capstan/pkg/strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	listKind          string
	listIncludeHidden bool
)

// listCmd compiles the declarations and prints the resulting capability
// set as a table.
var listCmd = &cobra.Command{
	Use:   "list <declarations-dir>",
	Short: "List the capabilities a declarations directory compiles to",
	Long: `Compiles the declaration units and prints the resulting capabilities:
name, call name, kind, visibility, and description. Declarations with
errors are omitted; use 'capstan check' to see the errors themselves.

Examples:
  capstan list ./declarations
  capstan list --kind operation ./declarations
  capstan list --include-hidden ./declarations`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	logging.Init(logging.LevelError, os.Stderr)

	assembly, err := compiler.AssembleDir(args[0], nil)
	if err != nil {
		return err
	}

	caps := assembly.Registry.List(listIncludeHidden)

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"NAME", "CALL NAME", "KIND", "HIDDEN", "DESCRIPTION"})
	for _, cap := range caps {
		if listKind != "" && cap.Kind != listKind {
			continue
		}
		hidden := ""
		if cap.Hidden {
			hidden = "yes"
		}
		description := pkgstrings.TruncateDescription(cap.Description, pkgstrings.DefaultDescriptionMaxLen)
		t.AppendRow(table.Row{cap.Name, cap.CallName, cap.Kind, hidden, description})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listKind, "kind", "", "Restrict to one kind (operation, router, skill, document, template, schema)")
	listCmd.Flags().BoolVar(&listIncludeHidden, "include-hidden", false, "Include hidden capabilities")
}
