package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RoutingWatcher hot-reloads a model routing table when its file
// changes on disk. Editors replace files rather than rewrite them, so
// the watch covers the parent directory and filters by name.
type RoutingWatcher struct {
	path    string
	apply   func(data []byte) error
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// Debouncing: collect change bursts before reloading
	pendingMu sync.Mutex
	pending   bool

	debounce time.Duration
}

// WatcherOption configures a RoutingWatcher.
type WatcherOption func(*RoutingWatcher)

// WithWatcherLogger sets the logger.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *RoutingWatcher) {
		w.logger = logger
	}
}

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *RoutingWatcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewRoutingWatcher creates a watcher for the routing file at path.
// apply receives the file contents after each settled change; a
// registry's ApplyRouting fits directly.
func NewRoutingWatcher(path string, apply func(data []byte) error, opts ...WatcherOption) (*RoutingWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &RoutingWatcher{
		path:     path,
		apply:    apply,
		watcher:  fsw,
		logger:   slog.Default(),
		debounce: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start applies the file once, then begins watching for changes until
// the context is cancelled.
func (w *RoutingWatcher) Start(ctx context.Context) error {
	if err := w.reload(); err != nil {
		return err
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("Routing watcher started",
		"path", w.path,
		"debounce", w.debounce)
	return nil
}

// Stop stops the watcher.
func (w *RoutingWatcher) Stop() error {
	return w.watcher.Close()
}

// processEvents handles fsnotify events with debouncing
func (w *RoutingWatcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

// handleFSEvent marks a reload pending when the routing file itself
// was written, created, or renamed into place.
func (w *RoutingWatcher) handleFSEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.pendingMu.Lock()
	w.pending = true
	w.pendingMu.Unlock()

	w.logger.Debug("Routing file change detected", "op", event.Op.String())
}

// flushPending reloads the file once per settled burst of changes.
func (w *RoutingWatcher) flushPending() {
	w.pendingMu.Lock()
	pending := w.pending
	w.pending = false
	w.pendingMu.Unlock()

	if !pending {
		return
	}

	if err := w.reload(); err != nil {
		// Keep serving the previous table on a bad edit.
		w.logger.Error("Routing reload failed, keeping previous table",
			"path", w.path,
			"error", err)
		return
	}
	w.logger.Info("Routing table reloaded", "path", w.path)
}

func (w *RoutingWatcher) reload() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return err
	}
	return w.apply(data)
}
