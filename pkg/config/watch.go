package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the configuration file for on-disk changes. The routing
// table is immutable for the lifetime of the process, so the watcher never
// reloads anything: it detects changes and invokes the callback, which
// typically logs that a restart is required to apply them.
//
// Changes are debounced so that editors writing a file in several syscalls
// trigger a single notification.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	logger   *slog.Logger
	debounce time.Duration
}

// DefaultDebounceInterval is the wait before a detected change is reported.
const DefaultDebounceInterval = 250 * time.Millisecond

// NewWatcher creates a watcher for the given configuration file path.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  fsw,
		path:     path,
		logger:   logger,
		debounce: DefaultDebounceInterval,
	}, nil
}

// Watch blocks until the context is cancelled, invoking onChange after each
// debounced modification of the configuration file. The parent directory is
// watched rather than the file itself so atomic rename-into-place saves
// (vim, sed -i, kubectl configmap updates) are still seen.
func (w *Watcher) Watch(ctx context.Context, onChange func()) error {
	defer w.watcher.Close()

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.logger.Info("config watcher started", "path", w.path)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("config watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case <-pending:
			w.logger.Warn("configuration file changed on disk",
				"path", w.path,
				"note", "the routing table is fixed at startup; restart to apply changes",
			)
			if onChange != nil {
				onChange()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("config watcher error", "error", err)
		}
	}
}
