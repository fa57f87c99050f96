package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sortbench/internal/config"
	"sortbench/internal/harness"
	"sortbench/internal/store"
	"sortbench/internal/suite"
)

const passingSuite = `version: 1
tests:
  - {name: small, sort: insertion, trials: 2, length: 5, min: -10, max: 10}
sweeps:
  - {name: grow, sort: std, start: 2, step: 1, max_length: 5, min: 0, max: 100}
`

const failingSuite = `version: 1
tests:
  - {name: ok, sort: heap, trials: 1, length: 4, min: 0, max: 9}
  - {name: bad, sort: reverse, trials: 3, length: 3, min: 0, max: 9, critical: true}
  - {name: never, sort: std, trials: 1, length: 4, min: 0, max: 9}
`

// setupCLI points the global config at a temp workspace.
func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	cfg.Logs.Dir = dir
	cfg.Store.DatabasePath = filepath.Join(dir, "results.db")
	cfg.Generator.Seed = 42
	configPath = filepath.Join(dir, config.DefaultConfigPath)
	suitePath = filepath.Join(dir, suite.DefaultSuiteFile)

	t.Cleanup(func() {
		cfg = nil
		logger = nil
		configPath = config.DefaultConfigPath
		suitePath = suite.DefaultSuiteFile
		sweepSort = ""
		onceSort = "std"
		initForce = false
	})
	return dir
}

func writeSuite(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(suitePath, []byte(content), 0644))
}

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	return cmd, buf
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func latestRun(t *testing.T) store.RunSummary {
	t.Helper()
	db, err := store.Open(cfg.Store.DatabasePath)
	require.NoError(t, err)
	defer db.Close()
	runs, err := db.ListRuns(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	return runs[0]
}

func TestInitCmd(t *testing.T) {
	setupCLI(t)
	cmd, out := newTestCmd()

	require.NoError(t, runInit(cmd, nil))
	assert.FileExists(t, configPath)
	assert.FileExists(t, suitePath)
	assert.Contains(t, out.String(), "Wrote "+suitePath)

	loaded, err := suite.LoadSuite(suitePath)
	require.NoError(t, err)
	assert.Equal(t, suite.Sample().Tests, loaded.Tests)

	// Second run leaves files alone.
	out.Reset()
	require.NoError(t, runInit(cmd, nil))
	assert.Contains(t, out.String(), "exists, skipped")
}

func TestRunSuite(t *testing.T) {
	setupCLI(t)
	writeSuite(t, passingSuite)
	cmd, out := newTestCmd()

	require.NoError(t, runSuite(cmd, nil))
	assert.Contains(t, out.String(), "Suite passed: 1 tests, 1 sweeps")
	assert.Contains(t, out.String(), "seed 42")

	lines := readLines(t, cfg.ResultsPath())
	require.Len(t, lines, 5)
	for i, prefix := range []string{"A = (5, ", "A = (5, ", "A = (2, ", "A = (3, ", "A = (4, "} {
		assert.True(t, strings.HasPrefix(lines[i], prefix), "line %d: %q", i, lines[i])
	}

	run := latestRun(t)
	assert.Equal(t, "run", run.Command)
	assert.Equal(t, store.StatusPassed, run.Status)
	assert.Equal(t, 5, run.Trials)
	assert.Equal(t, uint64(42), run.Seed)
}

func TestRunSuiteFailureStopsRun(t *testing.T) {
	setupCLI(t)
	writeSuite(t, failingSuite)
	cmd, _ := newTestCmd()

	err := runSuite(cmd, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, harness.ErrNotSorted))

	// Only the passing test before the failure logged a result.
	lines := readLines(t, cfg.ResultsPath())
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "A = (4, "))

	diag := readLines(t, cfg.DiagnosticsPath())
	require.Len(t, diag, 2)
	assert.True(t, strings.HasPrefix(diag[0], "INPUT_DATA = {"))
	assert.True(t, strings.HasPrefix(diag[1], "OUTPUT_DATA = {"))

	var buf bytes.Buffer
	assert.Equal(t, exitNotSorted, reportError(&buf, err))
	assert.Contains(t, buf.String(), "TEST FAILED. INPUT AND OUTPUT DATA ARE IN "+cfg.DiagnosticsPath())

	run := latestRun(t)
	assert.Equal(t, store.StatusNotSorted, run.Status)
	assert.Equal(t, 1, run.Trials)
}

func TestReportErrorGeneric(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, 1, reportError(&buf, errors.New("boom")))
	assert.Contains(t, buf.String(), "Error: boom")
}

func TestRunSuiteMissingFile(t *testing.T) {
	setupCLI(t)
	cmd, _ := newTestCmd()
	err := runSuite(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load suite")
}

func TestAverageCmd(t *testing.T) {
	setupCLI(t)
	writeSuite(t, passingSuite)
	cmd, out := newTestCmd()

	require.NoError(t, runAverage(cmd, nil))
	assert.Contains(t, out.String(), "Mean duration per test")
	assert.Contains(t, out.String(), "small")

	// Averaging does not write result lines.
	data, err := os.ReadFile(cfg.ResultsPath())
	require.NoError(t, err)
	assert.Empty(t, data)

	run := latestRun(t)
	assert.Equal(t, "average", run.Command)
	assert.Equal(t, 2, run.Trials)
}

func TestSweepAdHoc(t *testing.T) {
	setupCLI(t)
	cmd, out := newTestCmd()
	sweepSort, sweepStart, sweepStep, sweepMaxLength, sweepMin, sweepMax, sweepCritical = "quick", 2, 1, 5, -5, 5, true
	t.Cleanup(func() { sweepStart, sweepStep, sweepMaxLength, sweepMin, sweepMax, sweepCritical = 2, 1, 0, 0, 1000, false })

	require.NoError(t, runSweep(cmd, nil))
	assert.Contains(t, out.String(), "Sweeps passed: 1")

	// Critical inputs carry two sentinels on top of each length.
	lines := readLines(t, cfg.ResultsPath())
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "A = (4, "))
	assert.True(t, strings.HasPrefix(lines[2], "A = (6, "))
}

func TestSweepUnknownSort(t *testing.T) {
	setupCLI(t)
	sweepSort = "bogo"
	cmd, _ := newTestCmd()
	err := runSweep(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort")
}

func TestOnceCmd(t *testing.T) {
	setupCLI(t)
	cmd, out := newTestCmd()
	onceSort = "merge"

	require.NoError(t, runOnce(cmd, []string{"3", "-1", "2"}))
	assert.Equal(t, "{-1, 2, 3}\n", out.String())

	lines := readLines(t, cfg.ResultsPath())
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "A = (3, "))
}

func TestOnceBrokenSort(t *testing.T) {
	setupCLI(t)
	cmd, _ := newTestCmd()
	onceSort = "reverse"

	err := runOnce(cmd, []string{"1", "2", "3"})
	require.ErrorIs(t, err, harness.ErrNotSorted)
	assert.Equal(t, []string{"INPUT_DATA = {1, 2, 3}", "OUTPUT_DATA = {3, 2, 1}"}, readLines(t, cfg.DiagnosticsPath()))
}

func TestParseValues(t *testing.T) {
	values, err := parseValues([]string{"1", " -2 ", "9223372036854775807"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, -2, 9223372036854775807}, values)

	_, err = parseValues([]string{"x"})
	assert.Error(t, err)
}

func TestListSorts(t *testing.T) {
	setupCLI(t)
	cmd, out := newTestCmd()

	require.NoError(t, listSorts(cmd, nil))
	for _, name := range []string{"std", "insertion", "quick", "merge", "heap", "shell", "reverse", "identity"} {
		assert.Contains(t, out.String(), name)
	}
	assert.Contains(t, out.String(), "broken")
}

func TestHistoryCmd(t *testing.T) {
	setupCLI(t)
	writeSuite(t, passingSuite)
	cmd, out := newTestCmd()

	require.NoError(t, showHistory(cmd, nil))
	assert.Contains(t, out.String(), "No runs recorded")

	require.NoError(t, runSuite(cmd, nil))
	run := latestRun(t)

	out.Reset()
	require.NoError(t, showHistory(cmd, nil))
	assert.Contains(t, out.String(), run.ID)

	out.Reset()
	require.NoError(t, showHistory(cmd, []string{run.ID}))
	assert.Contains(t, out.String(), "grow")
	assert.Contains(t, out.String(), "small")

	err := showHistory(cmd, []string{"missing"})
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}

func TestHistoryStoreDisabled(t *testing.T) {
	setupCLI(t)
	cfg.Store.Enabled = false
	cmd, _ := newTestCmd()
	assert.Error(t, showHistory(cmd, nil))
}

func TestMetricsTextfile(t *testing.T) {
	dir := setupCLI(t)
	writeSuite(t, passingSuite)
	cfg.Metrics.TextfilePath = filepath.Join(dir, "metrics", "sortbench.prom")
	cmd, _ := newTestCmd()

	require.NoError(t, runSuite(cmd, nil))
	data, err := os.ReadFile(cfg.Metrics.TextfilePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sortbench_trials_total{mode="run",spec="small"} 2`)
	assert.Contains(t, string(data), `sortbench_trials_total{mode="sweep",spec="grow"} 3`)
}

func TestWatchPaths(t *testing.T) {
	dir := setupCLI(t)
	writeSuite(t, "version: 1\nscripts:\n  mine: candidates/mine.go\n")
	cfg.Scripts.Paths = map[string]string{"other": "/abs/other.go"}

	paths := watchPaths()
	assert.ElementsMatch(t, []string{suitePath, filepath.Join(dir, "candidates", "mine.go"), "/abs/other.go"}, paths)
}

func TestRerunReportsFailure(t *testing.T) {
	setupCLI(t)
	writeSuite(t, failingSuite)
	var out bytes.Buffer

	rerun(context.Background(), &out)
	assert.Contains(t, out.String(), "TEST FAILED")
	assert.Contains(t, out.String(), "Waiting for changes")
}

func TestWatchMissingScriptDirFails(t *testing.T) {
	dir := setupCLI(t)
	writeSuite(t, passingSuite)
	cfg.Scripts.Paths = map[string]string{"gone": filepath.Join(dir, "nope", "gone.go")}
	cmd, out := newTestCmd()

	done := make(chan error, 1)
	go func() { done <- runWatch(cmd, nil) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to watch")
		assert.Contains(t, out.String(), "Waiting for changes")
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return after failing to start")
	}
}
