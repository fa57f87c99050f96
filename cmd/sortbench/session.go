package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"sortbench/internal/generate"
	"sortbench/internal/harness"
	"sortbench/internal/logging"
	"sortbench/internal/metrics"
	"sortbench/internal/sorts"
	"sortbench/internal/spec"
	"sortbench/internal/store"
	"sortbench/internal/suite"
)

// session owns everything one command invocation writes to: the log sinks,
// the results store run, and the metrics recorder.
type session struct {
	sinks   *logging.Sinks
	db      *store.Store
	run     *store.Run
	metrics *metrics.Recorder
	harness *harness.Harness
	seed    uint64
}

// openSession wires a harness for specs from the loaded config. Progress
// reports go to out.
func openSession(ctx context.Context, command string, specs []spec.TestSpec, out io.Writer) (*session, error) {
	sinks, err := logging.OpenSinks(cfg.Logs.Dir, cfg.Logs.ResultsFile, cfg.Logs.DiagnosticsFile)
	if err != nil {
		return nil, err
	}
	s := &session{sinks: sinks}

	sampler := generate.NewSampler(cfg.Generator.Seed)
	s.seed = sampler.Seed()
	logger.Info("Generator seeded", zap.Uint64("seed", s.seed), zap.String("command", command))

	var observers []harness.Observer
	if cfg.Store.Enabled {
		db, err := store.Open(cfg.Store.DatabasePath)
		if err != nil {
			sinks.Close()
			return nil, err
		}
		s.db = db
		run, err := db.BeginRun(ctx, store.RunInfo{Command: command, Suite: suitePath, Seed: s.seed})
		if err != nil {
			s.release()
			return nil, err
		}
		s.run = run
		observers = append(observers, run)
		logger.Debug("Recording run", zap.String("run_id", run.ID()), zap.String("db", db.Path()))
	}
	if cfg.Metrics.TextfilePath != "" {
		s.metrics = metrics.NewRecorder()
		observers = append(observers, s.metrics)
	}

	progress := cfg.Sweep.ProgressInterval
	if progress == 0 {
		progress = -1
	}

	h, err := harness.New(specs, harness.Options{
		Results:          sinks.Results,
		Diagnostics:      sinks.Diagnostics,
		Generator:        generate.NewGenerator(sampler),
		Logger:           logger,
		Observers:        observers,
		SweepCap:         cfg.Sweep.MaxLength,
		ProgressInterval: progress,
		OnProgress: func(p harness.SweepProgress) {
			fmt.Fprintf(out, "%d ITERATIONS COMPLETE OUT OF %d\n", p.Length, p.Cap)
		},
	})
	if err != nil {
		s.release()
		return nil, err
	}
	s.harness = h
	return s, nil
}

// close records the outcome of the session and releases its resources.
func (s *session) close(ctx context.Context, runErr error) error {
	var errs []error
	if s.run != nil {
		errs = append(errs, s.run.Finish(context.WithoutCancel(ctx), runErr))
	}
	if s.metrics != nil {
		errs = append(errs, s.metrics.WriteTextfile(cfg.Metrics.TextfilePath))
	}
	errs = append(errs, s.release())
	return errors.Join(errs...)
}

func (s *session) release() error {
	var errs []error
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	errs = append(errs, s.sinks.Close())
	return errors.Join(errs...)
}

// runID returns the store run identifier, or "" when the store is disabled.
func (s *session) runID() string {
	if s.run == nil {
		return ""
	}
	return s.run.ID()
}

// finish closes s and logs close failures without masking runErr.
func (s *session) finish(ctx context.Context, runErr error) {
	if err := s.close(ctx, runErr); err != nil {
		logger.Warn("Failed to close session", zap.Error(err))
	}
}

// newRegistry returns the built-in sorts plus the scripts named in config.
func newRegistry(ctx context.Context) (*sorts.Registry, *sorts.ScriptLoader, error) {
	reg := sorts.Default()
	loader := sorts.NewScriptLoader(logger)
	if len(cfg.Scripts.Paths) > 0 {
		lctx, cancel := context.WithTimeout(ctx, cfg.GetScriptTimeout())
		defer cancel()
		if err := loader.RegisterScripts(lctx, reg, cfg.Scripts.Paths); err != nil {
			return nil, nil, fmt.Errorf("failed to load configured scripts: %w", err)
		}
	}
	return reg, loader, nil
}

// resolveSuite loads the suite file and resolves its entries.
func resolveSuite(ctx context.Context, path string) (*suite.Resolved, error) {
	s, err := suite.LoadSuite(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load suite %s: %w", path, err)
	}
	reg, loader, err := newRegistry(ctx)
	if err != nil {
		return nil, err
	}
	lctx, cancel := context.WithTimeout(ctx, cfg.GetScriptTimeout())
	defer cancel()
	return s.Resolve(lctx, reg, loader)
}
