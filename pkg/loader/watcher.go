package loader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a rule file for changes and triggers reloads. Change
// bursts (editor save storms, atomic renames) are debounced into a single
// reload.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
}

// NewWatcher creates a watcher for the given rule file. A non-positive
// debounce defaults to 100ms.
func NewWatcher(path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("watch path cannot be empty")
	}
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:     path,
		debounce: debounce,
		logger:   logger.With("component", "rule.watcher"),
		watcher:  fsWatcher,
		stopCh:   make(chan struct{}),
	}, nil
}

// Watch blocks processing file events until the context is cancelled or
// Stop is called, invoking onReload after each debounced change. Reload
// failures are logged; the watcher keeps running so a later fix still
// reloads.
func (w *Watcher) Watch(ctx context.Context, onReload func() error) error {
	// Watch the directory rather than the file itself: editors and config
	// management commonly replace the file via rename, which drops a watch
	// on the file but not on its parent.
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.logger.Info("rule watcher started",
		"path", w.path,
		"debounce_ms", w.debounce.Milliseconds(),
	)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("rule watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("rule watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				// Stop closes the underlying watcher; its channels closing
				// afterwards is a normal exit, not a failure.
				if w.stopped() {
					w.logger.Info("rule watcher stopped")
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.matches(event) {
				continue
			}

			w.logger.Debug("rule file event", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil

			w.logger.Info("triggering rule reload", "path", w.path)
			if err := onReload(); err != nil {
				w.logger.Error("rule reload failed", "path", w.path, "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				if w.stopped() {
					w.logger.Info("rule watcher stopped")
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// Stop stops the watch loop and releases the underlying watcher.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	return w.watcher.Close()
}

// stopped reports whether Stop has been called.
func (w *Watcher) stopped() bool {
	select {
	case <-w.stopCh:
		return true
	default:
		return false
	}
}

// matches filters events down to writes, creates, and renames of the
// watched file.
func (w *Watcher) matches(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
