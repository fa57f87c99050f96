package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sortbench/internal/harness"
)

// RunSummary is a run with aggregate trial statistics.
type RunSummary struct {
	ID         string
	Command    string
	Suite      string
	Seed       uint64
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     string
	Error      string
	Trials     int
	MeanTicks  float64
}

// TrialRow is a stored trial.
type TrialRow struct {
	Mode     harness.Mode
	Spec     string
	Length   int
	Ticks    harness.Ticks
	Critical bool
}

// FailureRow is a stored validation failure.
type FailureRow struct {
	Mode   harness.Mode
	Spec   string
	Index  int
	Input  string
	Output string
}

const summarySelect = `
	SELECT r.id, r.command, COALESCE(r.suite, ''), r.seed, r.started_at, r.finished_at,
	       r.status, COALESCE(r.error, ''), COUNT(t.id), COALESCE(AVG(t.ticks), 0)
	FROM runs r LEFT JOIN trials t ON t.run_id = r.id`

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		summarySelect+` GROUP BY r.id ORDER BY r.started_at DESC, r.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		rs, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

// GetRun returns one run summary.
func (s *Store) GetRun(ctx context.Context, id string) (RunSummary, error) {
	row := s.db.QueryRowContext(ctx, summarySelect+` WHERE r.id = ? GROUP BY r.id`, id)
	rs, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunSummary{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return rs, err
}

// Trials returns the trials of a run in insertion order.
func (s *Store) Trials(ctx context.Context, runID string) ([]TrialRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mode, COALESCE(spec, ''), length, ticks, critical FROM trials WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trials: %w", err)
	}
	defer rows.Close()

	var out []TrialRow
	for rows.Next() {
		var (
			t        TrialRow
			mode     string
			ticks    int64
			critical int
		)
		if err := rows.Scan(&mode, &t.Spec, &t.Length, &ticks, &critical); err != nil {
			return nil, fmt.Errorf("failed to scan trial: %w", err)
		}
		t.Mode = harness.Mode(mode)
		t.Ticks = harness.Ticks(ticks)
		t.Critical = critical != 0
		out = append(out, t)
	}
	return out, rows.Err()
}

// Failures returns the recorded validation failures of a run.
func (s *Store) Failures(ctx context.Context, runID string) ([]FailureRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mode, COALESCE(spec, ''), idx, input, output FROM failures WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query failures: %w", err)
	}
	defer rows.Close()

	var out []FailureRow
	for rows.Next() {
		var (
			f    FailureRow
			mode string
		)
		if err := rows.Scan(&mode, &f.Spec, &f.Index, &f.Input, &f.Output); err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}
		f.Mode = harness.Mode(mode)
		out = append(out, f)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(sc scanner) (RunSummary, error) {
	var (
		rs       RunSummary
		seed     int64
		started  int64
		finished sql.NullInt64
	)
	if err := sc.Scan(&rs.ID, &rs.Command, &rs.Suite, &seed, &started, &finished,
		&rs.Status, &rs.Error, &rs.Trials, &rs.MeanTicks); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rs, err
		}
		return rs, fmt.Errorf("failed to scan run: %w", err)
	}
	rs.Seed = uint64(seed)
	rs.StartedAt = time.Unix(0, started)
	if finished.Valid {
		t := time.Unix(0, finished.Int64)
		rs.FinishedAt = &t
	}
	return rs, nil
}
