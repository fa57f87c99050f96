package watch

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresPaths(t *testing.T) {
	_, err := New(nil, 0, nil, nil)
	assert.Error(t, err)
}

func TestWatcherDebouncesChanges(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("filesystem notification timing differs on windows")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "suite.yaml")
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(target, []byte("version: 1\n"), 0644))

	changed := make(chan string, 10)
	w, err := New([]string{target}, 50*time.Millisecond, func(_ context.Context, path string) {
		changed <- path
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(target, []byte("version: 1\n# edit\n"), 0644))
	}

	select {
	case path := <-changed:
		want, err := filepath.Abs(target)
		require.NoError(t, err)
		assert.Equal(t, want, path)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	// Rapid writes collapse into one trigger.
	select {
	case path := <-changed:
		t.Fatalf("unexpected second trigger for %s", path)
	case <-time.After(200 * time.Millisecond):
	}

	stats := w.GetStats()
	assert.Equal(t, 1, stats.Triggers)
	assert.GreaterOrEqual(t, stats.Events, 1)
}

func TestStopWithoutStart(t *testing.T) {
	w, err := New([]string{filepath.Join(t.TempDir(), "suite.yaml")}, time.Millisecond, nil, nil)
	require.NoError(t, err)
	w.Stop()
}

func TestContextCancelEndsLoop(t *testing.T) {
	w, err := New([]string{filepath.Join(t.TempDir(), "suite.yaml")}, 20*time.Millisecond, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not exit")
	}
	w.Stop()
}

func TestStopAfterFailedStartReturns(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "suite.yaml")
	require.NoError(t, os.WriteFile(existing, []byte("version: 1\n"), 0644))

	w, err := New([]string{existing, filepath.Join(dir, "nope", "x.go")}, 20*time.Millisecond, nil, nil)
	require.NoError(t, err)

	err = w.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked after a failed Start")
	}
}
