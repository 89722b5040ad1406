package loader

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestWatcherValidation tests constructor argument checks
func TestWatcherValidation(t *testing.T) {
	if _, err := NewWatcher("", 0, nil); err == nil {
		t.Error("expected error for an empty path")
	}

	w, err := NewWatcher(filepath.Join(t.TempDir(), "rules.yaml"), 0, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	if w.debounce != 100*time.Millisecond {
		t.Errorf("debounce default = %v, want 100ms", w.debounce)
	}
}

// TestWatcherReloadOnWrite tests that a file write triggers a debounced reload
func TestWatcherReloadOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte("rules: []\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := NewWatcher(path, 20*time.Millisecond, logger)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reloaded := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func() error {
			select {
			case reloaded <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	// Give the watch loop a moment to register before writing.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("rules: [] # changed\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("reload was not triggered by a file write")
	}

	if err := w.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Watch returned: %v", err)
	}
}

// TestWatcherStopExitsCleanly tests that Stop ends Watch without an error,
// whichever of the stop signal or the closing fsnotify channels the loop
// observes first
func TestWatcherStopExitsCleanly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte("rules: []\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := NewWatcher(path, 20*time.Millisecond, logger)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(context.Background(), func() error { return nil })
	}()

	time.Sleep(50 * time.Millisecond)
	if err := w.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v after Stop, want nil", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Watch did not return after Stop")
	}
}

// TestWatcherIgnoresSiblingFiles tests that events for other files in the
// watched directory do not trigger reloads
func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte("rules: []\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := NewWatcher(path, 20*time.Millisecond, logger)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan struct{}, 1)
	go func() {
		w.Watch(ctx, func() error {
			select {
			case reloaded <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case <-reloaded:
		t.Fatal("sibling file write must not trigger a reload")
	case <-time.After(200 * time.Millisecond):
	}
}
