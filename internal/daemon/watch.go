package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces the burst of events an editor save produces.
const DefaultWatchDebounce = 200 * time.Millisecond

// watchConfig signals on the returned channel after path has been written
// or recreated and then left alone for debounce. The watcher stops when
// ctx is cancelled.
func watchConfig(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	// Editors often save by renaming a temp file over the original, which
	// drops a watch on the file itself.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	name := filepath.Clean(path)
	changed := make(chan struct{}, 1)
	go func() {
		defer w.Close()
		timer := time.NewTimer(debounce)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != name || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				logger.Debug("config file changed", "path", ev.Name, "op", ev.Op.String())
				timer.Reset(debounce)
			case <-timer.C:
				select {
				case changed <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", "err", err)
			}
		}
	}()
	return changed, nil
}
