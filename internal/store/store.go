// Package store persists harness runs and their trials in a SQLite database
// so results can be compared across runs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"sortbench/internal/harness"
)

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("run not found")

// Run statuses.
const (
	StatusRunning   = "running"
	StatusPassed    = "passed"
	StatusNotSorted = "not_sorted"
	StatusFailed    = "failed"
)

// Store manages the results database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open creates or opens the database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		suite TEXT,
		seed INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER,
		status TEXT NOT NULL,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	CREATE TABLE IF NOT EXISTS trials (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		mode TEXT NOT NULL,
		spec TEXT,
		length INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		critical INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);
	CREATE INDEX IF NOT EXISTS idx_trials_run ON trials(run_id);

	CREATE TABLE IF NOT EXISTS failures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		mode TEXT NOT NULL,
		spec TEXT,
		idx INTEGER NOT NULL,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RunInfo describes a run being started.
type RunInfo struct {
	Command string
	Suite   string
	Seed    uint64
}

// Run records the trials of one harness invocation. It implements
// harness.Observer.
type Run struct {
	store *Store
	id    string
}

var _ harness.Observer = (*Run)(nil)

// BeginRun inserts a new run in the running state.
func (s *Store) BeginRun(ctx context.Context, info RunInfo) (*Run, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, command, suite, seed, started_at, status) VALUES (?, ?, ?, ?, ?, ?)`,
		id, info.Command, info.Suite, int64(info.Seed), time.Now().UnixNano(), StatusRunning)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}
	return &Run{store: s, id: id}, nil
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// ObserveTrial stores one trial.
func (r *Run) ObserveTrial(ctx context.Context, t harness.Trial) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO trials (run_id, mode, spec, length, ticks, critical) VALUES (?, ?, ?, ?, ?, ?)`,
		r.id, string(t.Mode), t.Spec, t.Length, int64(t.Ticks), boolToInt(t.Critical))
	if err != nil {
		return fmt.Errorf("failed to insert trial: %w", err)
	}
	return nil
}

// ObserveFailure stores the sequences of a failed validation.
func (r *Run) ObserveFailure(ctx context.Context, mode harness.Mode, e *harness.NotSortedError) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO failures (run_id, mode, spec, idx, input, output) VALUES (?, ?, ?, ?, ?, ?)`,
		r.id, string(mode), e.Spec, e.Index, harness.FormatSequence(e.Input), harness.FormatSequence(e.Output))
	if err != nil {
		return fmt.Errorf("failed to insert failure: %w", err)
	}
	return nil
}

// Finish marks the run complete. runErr decides the status.
func (r *Run) Finish(ctx context.Context, runErr error) error {
	status := StatusPassed
	var msg sql.NullString
	if runErr != nil {
		status = StatusFailed
		if errors.Is(runErr, harness.ErrNotSorted) {
			status = StatusNotSorted
		}
		msg = sql.NullString{String: runErr.Error(), Valid: true}
	}
	_, err := r.store.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, error = ? WHERE id = ?`,
		time.Now().UnixNano(), status, msg, r.id)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
