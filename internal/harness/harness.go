// Package harness runs candidate sorts against generated inputs, times them,
// validates their output, and records the results.
//
// Execution is strictly sequential. A validation failure anywhere stops the
// whole run: every entry point returns a *NotSortedError immediately and no
// further specification is executed.
package harness

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"sortbench/internal/generate"
	"sortbench/internal/spec"
)

const (
	// DefaultSweepCap is the exclusive upper bound on sweep lengths.
	DefaultSweepCap = 100_000_000
	// DefaultProgressInterval is the number of sweep iterations between
	// progress reports.
	DefaultProgressInterval = 1_000_000
)

// SweepProgress is reported periodically by Benchmark.
type SweepProgress struct {
	Sweep      string
	Iterations int
	Length     int
	Cap        int
}

// Options wires the harness to its collaborators. Zero values get defaults.
type Options struct {
	// Results receives one "A = (len, ticks)" line per logged trial.
	Results io.Writer
	// Diagnostics receives INPUT_DATA/OUTPUT_DATA on validation failure.
	Diagnostics io.Writer

	Generator *generate.Generator
	Clock     Clock
	Logger    *zap.Logger
	Observers []Observer

	SweepCap         int
	ProgressInterval int // negative disables progress reports
	OnProgress       func(SweepProgress)
}

// Harness holds an ordered list of specifications and the shared state used
// to execute them.
type Harness struct {
	specs []spec.TestSpec

	results     io.Writer
	diagnostics io.Writer
	gen         *generate.Generator
	clock       Clock
	logger      *zap.Logger
	observers   []Observer

	sweepCap         int
	progressInterval int
	onProgress       func(SweepProgress)
}

// New validates specs and returns a harness that runs them in order.
func New(specs []spec.TestSpec, opts Options) (*Harness, error) {
	for i, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("spec %d: %w", i, err)
		}
	}

	h := &Harness{
		specs:            append([]spec.TestSpec(nil), specs...),
		results:          opts.Results,
		diagnostics:      opts.Diagnostics,
		gen:              opts.Generator,
		clock:            opts.Clock,
		logger:           opts.Logger,
		observers:        opts.Observers,
		sweepCap:         opts.SweepCap,
		progressInterval: opts.ProgressInterval,
		onProgress:       opts.OnProgress,
	}
	if h.results == nil {
		h.results = io.Discard
	}
	if h.diagnostics == nil {
		h.diagnostics = io.Discard
	}
	if h.gen == nil {
		h.gen = generate.NewGenerator(generate.NewSampler(0))
	}
	if h.clock == nil {
		h.clock = ProcessClock{}
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.sweepCap <= 0 {
		h.sweepCap = DefaultSweepCap
	}
	if h.progressInterval == 0 {
		h.progressInterval = DefaultProgressInterval
	}
	return h, nil
}

// Specs returns a copy of the configured specifications.
func (h *Harness) Specs() []spec.TestSpec {
	return append([]spec.TestSpec(nil), h.specs...)
}

// Start runs every specification in order through the test runner.
func (h *Harness) Start(ctx context.Context) error {
	h.logger.Info("Starting test run", zap.Int("specs", len(h.specs)))
	for i, s := range h.specs {
		h.logger.Debug("Running spec",
			zap.Int("index", i),
			zap.String("name", s.Name),
			zap.Int("trials", s.Trials),
			zap.Int("length", s.Length))
		if err := h.run(ctx, ModeRun, s); err != nil {
			return err
		}
	}
	h.logger.Info("Test run complete", zap.Int("specs", len(h.specs)))
	return nil
}

// StartOnce runs the pipeline on a caller-supplied sequence, bypassing
// generation, and logs a single result line.
func (h *Harness) StartOnce(ctx context.Context, sorter spec.Sorter, values []int) error {
	if sorter == nil {
		return fmt.Errorf("%w: sort is required", spec.ErrInvalidSpec)
	}
	ticks, err := h.measure(ctx, ModeOnce, "", sorter, values)
	if err != nil {
		return err
	}
	if err := h.writeResult(len(values), ticks); err != nil {
		return err
	}
	return h.notify(ctx, Trial{Mode: ModeOnce, Length: len(values), Ticks: ticks})
}

func (h *Harness) writeResult(length int, ticks Ticks) error {
	if _, err := fmt.Fprintf(h.results, "A = (%d, %d)\n", length, ticks); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

func (h *Harness) notify(ctx context.Context, t Trial) error {
	for _, o := range h.observers {
		if err := o.ObserveTrial(ctx, t); err != nil {
			return fmt.Errorf("observer failed: %w", err)
		}
	}
	return nil
}
