package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestOpenSinksAppends(t *testing.T) {
	dir := t.TempDir()

	sinks, err := OpenSinks(dir, "", "")
	require.NoError(t, err)
	_, err = sinks.Results.Write([]byte("A = (1, 2)\n"))
	require.NoError(t, err)
	require.NoError(t, sinks.Close())

	sinks, err = OpenSinks(dir, "", "")
	require.NoError(t, err)
	_, err = sinks.Results.Write([]byte("A = (3, 4)\n"))
	require.NoError(t, err)
	require.NoError(t, sinks.Close())

	data, err := os.ReadFile(filepath.Join(dir, DefaultResultsFile))
	require.NoError(t, err)
	assert.Equal(t, "A = (1, 2)\nA = (3, 4)\n", string(data))

	_, err = os.Stat(filepath.Join(dir, DefaultDiagnosticsFile))
	assert.NoError(t, err, "diagnostics file should be created even when empty")
}

func TestOpenSinksCustomNames(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "abs-errors.txt")

	sinks, err := OpenSinks(dir, filepath.Join("nested", "bench.log"), abs)
	require.NoError(t, err)
	defer sinks.Close()

	assert.Equal(t, filepath.Join(dir, "nested", "bench.log"), sinks.Results.Path())
	assert.Equal(t, abs, sinks.Diagnostics.Path())
	assert.Equal(t, CategoryResults, sinks.Results.Category())
	assert.Equal(t, CategoryDiagnostics, sinks.Diagnostics.Category())
}

func TestOpenSinkFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := OpenSink(CategoryResults, filepath.Join(blocker, "results.txt"))
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"info":    zapcore.InfoLevel,
		"DEBUG":   zapcore.DebugLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewZap(t *testing.T) {
	l, err := NewZap("warn", "json", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	l, err = NewZap("warn", "text", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = NewZap("nope", "text", false)
	assert.Error(t, err)
}

func TestWriterNil(t *testing.T) {
	n, err := Writer(nil).Write([]byte("discarded"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
}
