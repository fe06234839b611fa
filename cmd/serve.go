package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"capstan/internal/config"
	"capstan/internal/server"
	"capstan/pkg/logging"

	"github.com/spf13/cobra"
)

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveConfigPath specifies a custom configuration directory. When set it
// replaces the per-user configuration directory.
var serveConfigPath string

// serveDeclarations overrides the declarations directory from the config.
var serveDeclarations string

// serveTransport overrides the transport from the config.
var serveTransport string

// serveWatch recompiles declarations when unit files change.
var serveWatch bool

// serveCmd starts the capability server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the capability server",
	Long: `Compiles the declaration units and serves the resulting registry over
MCP. Operations and routers are exposed as tools, templates as prompts,
documents and skills as resources; the meta tools (list_capabilities,
describe_capability, call_capability) provide discovery over the whole
set, hidden capabilities included.

Declarations that fail to compile are reported and skipped; the
capabilities that compiled cleanly are served. With --watch, changes to
the declarations directory recompile and republish in place.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveDebug {
		logging.Init(logging.LevelDebug, os.Stderr)
	} else {
		logging.Init(logging.LevelInfo, os.Stderr)
	}

	configPath := serveConfigPath
	if configPath == "" {
		configPath = config.GetDefaultConfigPathOrPanic()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if serveDeclarations != "" {
		cfg.Server.Declarations = serveDeclarations
	}
	if serveTransport != "" {
		cfg.Server.Transport = serveTransport
	}
	if serveWatch {
		cfg.Server.Watch = true
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg).Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", "", "Configuration directory (default: ~/.config/capstan)")
	serveCmd.Flags().StringVar(&serveDeclarations, "declarations", "", "Declarations directory (overrides config)")
	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "Transport: stdio, sse, or streamable-http (overrides config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Recompile when declaration units change")
}
