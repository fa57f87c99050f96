// Package watch re-runs work when a suite file or one of its scripts changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is used when New is given a non-positive debounce.
const DefaultDebounce = 500 * time.Millisecond

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Triggers      int
	Errors        int
	LastEventPath string
	LastEventTime time.Time
}

// Watcher watches a fixed set of files. Their parent directories are watched
// so editors that replace files on save are still seen.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	files    map[string]bool
	dirs     []string
	debounce time.Duration
	pending  map[string]time.Time
	onChange func(ctx context.Context, path string)
	logger   *zap.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stats    Stats
}

// New creates a watcher for paths. onChange is called from the watcher
// goroutine once a file has been quiet for the debounce window.
func New(paths []string, debounce time.Duration, onChange func(ctx context.Context, path string), logger *zap.Logger) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]bool),
		debounce: debounce,
		pending:  make(map[string]time.Time),
		onChange: onChange,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	seen := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Start begins watching. It does not block. The watcher is only marked
// running once every directory is registered, so Stop after a failed Start
// just releases the underlying watcher.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	for _, dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.logger.Debug("Watching directory", zap.String("dir", dir))
	}

	w.running = true
	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("Failed to close watcher", zap.Error(err))
	}
}

// Done is closed when the event loop exits.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

// GetStats returns a snapshot of watcher activity.
func (w *Watcher) GetStats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 5
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}
	name := filepath.Clean(event.Name)
	if !w.files[name] {
		return
	}

	w.logger.Debug("File changed", zap.String("path", name), zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventPath = name
	w.stats.LastEventTime = time.Now()
	w.pending[name] = time.Now()
	w.mu.Unlock()
}

// flush fires onChange for files that have settled past the debounce window.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.stats.Triggers += len(ready)
	w.mu.Unlock()

	for _, path := range ready {
		if w.onChange != nil {
			w.onChange(ctx, path)
		}
	}
}
