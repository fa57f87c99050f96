// Package main implements the sortbench CLI, a correctness and performance
// harness for integer sort routines.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sortbench/internal/config"
	"sortbench/internal/harness"
	"sortbench/internal/logging"
	"sortbench/internal/suite"
)

// exitNotSorted mirrors the status of a process that aborted on a failed
// validation.
const exitNotSorted = 134

var (
	// Global flags
	configPath string
	suitePath  string
	seed       uint64
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sortbench",
	Short: "Correctness and performance harness for integer sorts",
	Long: `sortbench feeds randomized integer sequences to candidate sort routines,
times each call in processor ticks, and verifies the output is ordered.

Every completed trial is appended to the results log as "A = (length, ticks)".
The first unsorted output writes its input and output to the diagnostics log
and stops the run with exit status 134.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("seed") {
			loaded.Generator.Seed = seed
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", configPath, err)
		}
		cfg = loaded

		logger, err = logging.NewZap(cfg.Logging.Level, cfg.Logging.Format, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Config file")
	rootCmd.PersistentFlags().StringVarP(&suitePath, "suite", "s", suite.DefaultSuiteFile, "Suite file")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Generator seed (0 seeds from the clock)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(averageCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(onceCmd)
	rootCmd.AddCommand(sortsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

// reportError prints err and returns the process exit status.
func reportError(w io.Writer, err error) int {
	if errors.Is(err, harness.ErrNotSorted) {
		fmt.Fprintln(w, failureStyle.Render("TEST FAILED. INPUT AND OUTPUT DATA ARE IN "+diagnosticsPath()))
		return exitNotSorted
	}
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
	return 1
}

func diagnosticsPath() string {
	if cfg == nil {
		return logging.DefaultDiagnosticsFile
	}
	return cfg.DiagnosticsPath()
}

// commandContext returns a context cancelled on SIGINT or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
