package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sortbench/internal/harness"
	"sortbench/internal/sorts"
	"sortbench/internal/spec"
)

// runCmd runs every test and sweep of the suite
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every test and sweep in the suite",
	Long: `Runs the suite's tests in order, then its sweeps. Each trial appends
"A = (length, ticks)" to the results log.

Example:
  sortbench run --suite sortbench.suite.yaml --seed 42`,
	Args: cobra.NoArgs,
	RunE: runSuite,
}

// averageCmd prints the mean duration of every suite test
var averageCmd = &cobra.Command{
	Use:   "average",
	Short: "Print the mean ticks of every test in the suite",
	Long: `Runs each suite test without writing result lines and prints its mean
duration. Sweeps are not run.`,
	Args: cobra.NoArgs,
	RunE: runAverage,
}

// sweepCmd runs the suite's sweeps or a single ad-hoc sweep
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run size sweeps",
	Long: `Without --sort, runs every sweep in the suite. With --sort, runs one sweep
built from the flags.

Example:
  sortbench sweep --sort quick --start 2 --step 100 --max-length 100000`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

// onceCmd sorts the values given on the command line
var onceCmd = &cobra.Command{
	Use:   "once [values...]",
	Short: "Run one candidate on the given values",
	Long: `Runs the timing and validation pipeline once on a caller-supplied
sequence and writes one result line.

Example:
  sortbench once --sort insertion -- 5 -3 9 0`,
	RunE: runOnce,
}

var (
	sweepSort      string
	sweepStart     int
	sweepStep      int
	sweepMaxLength int
	sweepMin       int
	sweepMax       int
	sweepCritical  bool

	onceSort string
)

func init() {
	sweepCmd.Flags().StringVar(&sweepSort, "sort", "", "Candidate to sweep (default: the suite's sweeps)")
	sweepCmd.Flags().IntVar(&sweepStart, "start", 2, "First length")
	sweepCmd.Flags().IntVar(&sweepStep, "step", 1, "Length increment")
	sweepCmd.Flags().IntVar(&sweepMaxLength, "max-length", 0, "Exclusive length cap (0 uses sweep.max_length)")
	sweepCmd.Flags().IntVar(&sweepMin, "min", 0, "Smallest generated value")
	sweepCmd.Flags().IntVar(&sweepMax, "max", 1000, "Largest generated value")
	sweepCmd.Flags().BoolVar(&sweepCritical, "critical", false, "Append MaxInt and MinInt to every input")

	onceCmd.Flags().StringVar(&onceSort, "sort", "std", "Candidate to run")
}

func runSuite(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	return executeSuite(ctx, cmd.OutOrStdout())
}

// executeSuite runs the suite's tests then its sweeps in one session.
func executeSuite(ctx context.Context, out io.Writer) error {
	resolved, err := resolveSuite(ctx, suitePath)
	if err != nil {
		return err
	}

	sess, err := openSession(ctx, "run", resolved.Tests, out)
	if err != nil {
		return err
	}

	runErr := sess.harness.Start(ctx)
	for _, sw := range resolved.Sweeps {
		if runErr != nil {
			break
		}
		runErr = sess.harness.Benchmark(ctx, sw)
	}
	sess.finish(ctx, runErr)
	if runErr != nil {
		return runErr
	}

	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Suite passed: %d tests, %d sweeps", len(resolved.Tests), len(resolved.Sweeps))))
	printRunFooter(out, sess)
	return nil
}

func runAverage(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	out := cmd.OutOrStdout()

	resolved, err := resolveSuite(ctx, suitePath)
	if err != nil {
		return err
	}

	sess, err := openSession(ctx, "average", resolved.Tests, out)
	if err != nil {
		return err
	}
	means, runErr := sess.harness.AverageAll(ctx)
	sess.finish(ctx, runErr)
	if runErr != nil {
		return runErr
	}

	printAverages(out, resolved.Tests, means)
	printRunFooter(out, sess)
	return nil
}

func printAverages(out io.Writer, specs []spec.TestSpec, means []harness.Ticks) {
	fmt.Fprintln(out, headerStyle.Render("Mean duration per test"))
	t := newTable("NAME", "TRIALS", "LENGTH", "TICKS", "TIME")
	for i, m := range means {
		s := specs[i]
		t.Row(s.Name, strconv.Itoa(s.Trials), strconv.Itoa(s.Length), strconv.FormatInt(int64(m), 10), m.Duration().String())
	}
	fmt.Fprintln(out, t.Render())
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	out := cmd.OutOrStdout()

	sweeps, err := sweepsToRun(ctx)
	if err != nil {
		return err
	}

	sess, err := openSession(ctx, "sweep", nil, out)
	if err != nil {
		return err
	}
	var runErr error
	for _, sw := range sweeps {
		if runErr = sess.harness.Benchmark(ctx, sw); runErr != nil {
			break
		}
	}
	sess.finish(ctx, runErr)
	if runErr != nil {
		return runErr
	}

	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Sweeps passed: %d", len(sweeps))))
	printRunFooter(out, sess)
	return nil
}

// sweepsToRun builds the ad-hoc sweep from flags, or resolves the suite's.
func sweepsToRun(ctx context.Context) ([]spec.SweepSpec, error) {
	if sweepSort == "" {
		resolved, err := resolveSuite(ctx, suitePath)
		if err != nil {
			return nil, err
		}
		return resolved.Sweeps, nil
	}

	reg, _, err := newRegistry(ctx)
	if err != nil {
		return nil, err
	}
	sorter, err := reg.Lookup(sweepSort)
	if err != nil {
		return nil, err
	}
	sw, err := spec.NewSweepSpec(sorter, sweepStart, sweepStep, sweepMin, sweepMax, sweepCritical)
	if err != nil {
		return nil, err
	}
	sw.Name = sweepSort
	sw.MaxLength = sweepMaxLength
	if err := sw.Validate(); err != nil {
		return nil, err
	}
	return []spec.SweepSpec{sw}, nil
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	out := cmd.OutOrStdout()

	values, err := parseValues(args)
	if err != nil {
		return err
	}
	reg, _, err := newRegistry(ctx)
	if err != nil {
		return err
	}
	sorter, err := reg.Lookup(onceSort)
	if err != nil {
		return err
	}
	if sorts.Broken[onceSort] {
		logger.Warn("Running a candidate that does not sort", zap.String("sort", onceSort))
	}

	sess, err := openSession(ctx, "once", nil, out)
	if err != nil {
		return err
	}
	runErr := sess.harness.StartOnce(ctx, sorter, values)
	sess.finish(ctx, runErr)
	if runErr != nil {
		return runErr
	}

	fmt.Fprintln(out, harness.FormatSequence(values))
	return nil
}

// parseValues parses decimal integers from args.
func parseValues(args []string) ([]int, error) {
	values := make([]int, 0, len(args))
	for _, a := range args {
		v, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", a, err)
		}
		values = append(values, v)
	}
	return values, nil
}

func printRunFooter(out io.Writer, sess *session) {
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("seed %d, results in %s", sess.seed, sess.sinks.Results.Path())))
	if id := sess.runID(); id != "" {
		fmt.Fprintln(out, mutedStyle.Render("run "+id))
	}
}
