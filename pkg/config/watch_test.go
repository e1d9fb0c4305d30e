package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_DetectsWrite(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("streams: {}\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := NewWatcher(configPath, logger)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher time to register before touching the file.
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(configPath, []byte("streams: {foo: 'http://x'}\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watcher returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("streams: {}\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := NewWatcher(configPath, logger)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	go func() {
		_ = w.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	time.Sleep(50 * time.Millisecond)

	sibling := filepath.Join(tmpDir, "other.yaml")
	if err := os.WriteFile(sibling, []byte("unrelated\n"), 0644); err != nil {
		t.Fatalf("failed to write sibling: %v", err)
	}

	select {
	case <-changed:
		t.Fatal("sibling file change should not trigger a notification")
	case <-time.After(200 * time.Millisecond):
	}
}
