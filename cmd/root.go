package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeDeclarationErrors indicates the declarations did not compile cleanly.
	ExitCodeDeclarationErrors = 2
)

// rootCmd represents the base command for the capstan application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "capstan",
	Short: "Serve declared capabilities to LLM clients over MCP",
	Long: `capstan compiles declarative capability units (operations, routers,
skills, documents, templates, and schemas) into a validated registry and
serves them to LLM clients over the Model Context Protocol.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the
// application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application. It is called
// by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "capstan version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitCodeError)
	}
}
