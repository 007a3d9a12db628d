package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	flagProject string
	flagOutput  string
	flagVerbose bool
	cfgFile     string

	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tracelens",
	Short: "Agent session analysis from trace logs",
	Long: `tracelens queries a hosted trace-logging service for agent-session
telemetry and turns it into readable analytics and LLM-judged reviews.

Analytics:
  analyze      Analyze the most recent session
  sessions     List recent sessions
  stats        Agent and skill usage statistics
  loops        Detect repeated tool calls
  replay       Replay a session's spans
  summary      Weekly activity summary
  tokens       Token usage trends

Evaluation:
  learn        Extract learnings from a session
  score        Score plan quality
  review       Review an implementation against its plan
  judge        Judge a plan against past precedent

Requires BRAINTRUST_API_KEY in the environment or a discovered .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProject, "project", "", "Logging-service project name")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output format (markdown, json)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable diagnostic logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.tracelens/config.yaml)")
}

// initLogger builds the diagnostic logger: quiet by default, debug-level
// console output on stderr under --verbose. Report output goes to stdout
// separately.
func initLogger() error {
	if cfgFile != "" {
		os.Setenv("TRACELENS_CONFIG", cfgFile)
	}
	if !flagVerbose && os.Getenv("TRACELENS_VERBOSE") == "" {
		logger = zap.NewNop()
		return nil
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	zcfg.Encoding = "console"
	zcfg.OutputPaths = []string{"stderr"}

	built, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	logger = built
	return nil
}
