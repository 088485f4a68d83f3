package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"snooper/cmd/snooper/ui"
	"snooper/internal/config"
	"snooper/internal/logging"
)

var version = "0.3.0"

var (
	// Global flags
	verbose   bool
	apiKey    string
	showTrace bool
	timeout   time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "snooper",
	Short: "snooper - Debug your Go scripts with AI",
	Long: `snooper runs a Go script under instrumentation, captures everything it
printed (stdout and stderr, interleaved, including uncaught panics), and asks
a language-model backend a question about the captured execution.

Two backends are supported (Claude and OpenAI); the configured one is tried
first and the other is the automatic fallback.

Commands:
  run     Run a Go script and ask a question about its execution
          Example: snooper run script.go --show-trace

  config  Configure snooper settings
          Example: snooper config`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		// Category file logging is gated by the workspace config
		ws, err := config.FindWorkspaceRoot()
		if err == nil {
			if lerr := logging.Initialize(ws); lerr != nil {
				logger.Warn("file logging unavailable", zap.Error(lerr))
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// runCmd runs a target script and asks a question about its execution
var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Go script with AI-assisted debugging",
	Long: `Runs the given Go script in an isolated interpreter, capturing stdout and
stderr in emission order. An uncaught panic is folded into the captured trace
instead of aborting the session. You are then prompted for a question about
the execution, and the configured backend answers it.

Packages in directories next to the script are importable by name; the
resolution context is scoped to the run.

Examples:
  snooper run my_script.go
  snooper run my_script.go --show-trace
  snooper run my_script.go --api-key your-api-key`,
	Args: cobra.ExactArgs(1),
	RunE: runTarget,
}

// configCmd manages snooper settings
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure snooper settings",
	RunE:  runConfigure,
}

// versionCmd prints the version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the snooper version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("snooper %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	runCmd.Flags().StringVar(&apiKey, "api-key", "", "API key for the selected provider")
	runCmd.Flags().BoolVar(&showTrace, "show-trace", false, "Show the captured execution trace before the analysis")
	runCmd.Flags().DurationVar(&timeout, "timeout", 0, "Abort target execution after this duration (default: no limit)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("Error:")+" "+err.Error())
		os.Exit(1)
	}
}
