package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sortbench/internal/suite"
	"sortbench/internal/watch"
)

// watchCmd re-runs the suite on change
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the suite whenever it or one of its scripts changes",
	Long: `Runs the suite once, then again each time the suite file or a script it
uses is saved. A failed run is reported and watching continues. Stop with
Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	out := cmd.OutOrStdout()

	rerun(ctx, out)

	w, err := watch.New(watchPaths(), cfg.GetWatchDebounce(), func(ctx context.Context, path string) {
		logger.Info("Change detected", zap.String("path", path))
		fmt.Fprintln(out, mutedStyle.Render("Change detected in "+path))
		rerun(ctx, out)
	}, logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}
	defer w.Stop()

	fmt.Fprintln(out, mutedStyle.Render("Watching "+suitePath+" (Ctrl+C to stop)"))
	select {
	case <-ctx.Done():
	case <-w.Done():
	}
	return nil
}

// rerun executes the suite and reports a failure without returning it.
func rerun(ctx context.Context, out io.Writer) {
	err := executeSuite(ctx, out)
	if err == nil || ctx.Err() != nil {
		return
	}
	reportError(out, err)
	fmt.Fprintln(out, warningStyle.Render("Waiting for changes"))
}

// watchPaths returns the suite file and every script it or the config names.
func watchPaths() []string {
	paths := []string{suitePath}
	if s, err := suite.LoadSuite(suitePath); err == nil {
		for _, p := range s.ScriptPaths() {
			paths = append(paths, p)
		}
	} else {
		logger.Debug("Suite not loadable, watching file only", zap.Error(err))
	}
	for _, p := range cfg.Scripts.Paths {
		paths = append(paths, p)
	}
	return paths
}
