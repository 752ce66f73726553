package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options holds the flags shared by every command.
type options struct {
	logger     *zap.Logger
	configPath string
	subtract   int
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "kernz",
		Short: "Run and inspect typed kernel pipelines",
		Long: `kernz runs the vector example pipeline: subtract a constant from every
element, require all elements to be non-negative, then sum them.

The pipeline's stage types are verified when it is built; a run either produces
the sum or fails at the first failing stage.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			config := zap.NewProductionConfig()
			if opts.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every stage")
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML pipeline config file")
	rootCmd.PersistentFlags().IntVar(&opts.subtract, "subtract", 0, "Value subtracted from every element (overrides config)")

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newSchemaCmd(opts))
	return rootCmd
}
