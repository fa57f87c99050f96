// Package logging owns the harness log sinks and the operational logger.
//
// The results and diagnostics logs are plain append-only text files. They are
// opened once by the process entry point and handed to the harness; nothing
// in this package keeps global state.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category identifies one of the harness sinks.
type Category string

const (
	CategoryResults     Category = "results"     // One line per completed trial
	CategoryDiagnostics Category = "diagnostics" // Before/after data of a failed validation
)

// Default file names, matching the historical harness output.
const (
	DefaultResultsFile     = "benchmark.txt"
	DefaultDiagnosticsFile = "error.txt"
)

// Sink is an append-only text file.
type Sink struct {
	category Category
	path     string
	file     *os.File
}

// OpenSink opens (creating if needed) path for appending.
func OpenSink(category Category, path string) (*Sink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s log directory: %w", category, err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s log %s: %w", category, path, err)
	}
	return &Sink{category: category, path: path, file: file}, nil
}

// Write appends p to the file.
func (s *Sink) Write(p []byte) (int, error) {
	return s.file.Write(p)
}

// Path returns the file path.
func (s *Sink) Path() string { return s.path }

// Category returns the sink category.
func (s *Sink) Category() Category { return s.category }

// Close closes the file.
func (s *Sink) Close() error {
	return s.file.Close()
}

// Sinks bundles the results and diagnostics logs.
type Sinks struct {
	Results     *Sink
	Diagnostics *Sink
}

// OpenSinks opens both logs under dir. Empty names fall back to the defaults.
func OpenSinks(dir, results, diagnostics string) (*Sinks, error) {
	if results == "" {
		results = DefaultResultsFile
	}
	if diagnostics == "" {
		diagnostics = DefaultDiagnosticsFile
	}
	r, err := OpenSink(CategoryResults, resolve(dir, results))
	if err != nil {
		return nil, err
	}
	d, err := OpenSink(CategoryDiagnostics, resolve(dir, diagnostics))
	if err != nil {
		r.Close()
		return nil, err
	}
	return &Sinks{Results: r, Diagnostics: d}, nil
}

// Close closes both sinks and returns the first error.
func (s *Sinks) Close() error {
	rerr := s.Results.Close()
	derr := s.Diagnostics.Close()
	if rerr != nil {
		return rerr
	}
	return derr
}

func resolve(dir, name string) string {
	if dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// NewZap builds the operational logger. format "json" keeps the production
// encoder; anything else uses the console encoder. verbose forces debug.
func NewZap(level, format string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if !strings.EqualFold(format, "json") {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	return cfg.Build()
}

// ParseLevel maps a config level name to a zap level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// Writer returns w, or io.Discard when the sink is nil.
func Writer(s *Sink) io.Writer {
	if s == nil {
		return io.Discard
	}
	return s
}
