package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sortbench/internal/suite"
)

// initCmd writes a default config and a sample suite
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config and a sample suite",
	Long: `Creates the config file (--config) and the suite file (--suite) in their
default form. Existing files are left alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initForce bool

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	wrote, err := writeIfAbsent(configPath, func() error { return cfg.Save(configPath) })
	if err != nil {
		return err
	}
	reportInit(out, configPath, wrote)

	wrote, err = writeIfAbsent(suitePath, func() error { return suite.Sample().Save(suitePath) })
	if err != nil {
		return err
	}
	reportInit(out, suitePath, wrote)
	return nil
}

func writeIfAbsent(path string, write func() error) (bool, error) {
	if _, err := os.Stat(path); err == nil && !initForce {
		logger.Debug("File exists, skipping", zap.String("path", path))
		return false, nil
	}
	if err := write(); err != nil {
		return false, err
	}
	return true, nil
}

func reportInit(out io.Writer, path string, wrote bool) {
	if wrote {
		fmt.Fprintln(out, successStyle.Render("Wrote "+path))
		return
	}
	fmt.Fprintln(out, warningStyle.Render(path+" exists, skipped (use --force to overwrite)"))
}
