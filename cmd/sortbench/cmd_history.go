package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"sortbench/internal/store"
)

// historyCmd shows stored runs
var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recorded runs",
	Long: `Without arguments, lists the most recent runs with their trial count and
mean ticks. With a run ID, shows that run's trials and any failure.`,
	Args: cobra.MaximumNArgs(1),
	RunE: showHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list")
}

func showHistory(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	out := cmd.OutOrStdout()

	if !cfg.Store.Enabled {
		return fmt.Errorf("results store is disabled (store.enabled: false)")
	}
	db, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 1 {
		return showRun(ctx, out, db, args[0])
	}

	runs, err := db.ListRuns(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No runs recorded in "+db.Path()))
		return nil
	}

	t := newTable("RUN", "COMMAND", "STATUS", "SEED", "TRIALS", "MEAN TICKS", "STARTED")
	for _, r := range runs {
		t.Row(r.ID, r.Command, r.Status, strconv.FormatUint(r.Seed, 10), strconv.Itoa(r.Trials),
			strconv.FormatFloat(r.MeanTicks, 'f', 1, 64), r.StartedAt.Format(time.DateTime))
	}
	fmt.Fprintln(out, t.Render())
	return nil
}

func showRun(ctx context.Context, out io.Writer, db *store.Store, id string) error {
	run, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Run %s (%s, %s)", run.ID, run.Command, run.Status)))
	fmt.Fprintf(out, "seed %d, %d trials, mean %.1f ticks\n", run.Seed, run.Trials, run.MeanTicks)
	if run.Error != "" {
		fmt.Fprintln(out, errorStyle.Render(run.Error))
	}

	trials, err := db.Trials(ctx, id)
	if err != nil {
		return err
	}
	if len(trials) > 0 {
		t := newTable("MODE", "SPEC", "LENGTH", "TICKS", "CRITICAL")
		for _, tr := range trials {
			t.Row(string(tr.Mode), tr.Spec, strconv.Itoa(tr.Length), strconv.FormatInt(int64(tr.Ticks), 10), strconv.FormatBool(tr.Critical))
		}
		fmt.Fprintln(out, t.Render())
	}

	failures, err := db.Failures(ctx, id)
	if err != nil {
		return err
	}
	for _, f := range failures {
		fmt.Fprintln(out, failureStyle.Render(fmt.Sprintf("%s %s: first descent at index %d", f.Mode, f.Spec, f.Index)))
		fmt.Fprintf(out, "INPUT_DATA = %s\nOUTPUT_DATA = %s\n", f.Input, f.Output)
	}
	return nil
}
