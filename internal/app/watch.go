package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce collapses bursts of writes into one re-analysis.
const WatchDebounce = 300 * time.Millisecond

// Watch calls run once and then again after every change to path, until ctx
// is done. Runs happen on the calling goroutine and never overlap. A failing
// run is logged and watching continues.
func Watch(ctx context.Context, path string, debounce time.Duration, run func(context.Context) error) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files by rename, so watch the directory.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	runOnce := func() {
		if err := run(ctx); err != nil {
			slog.Error("Analysis failed", "path", path, "error", err)
		}
	}
	runOnce()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			slog.Debug("Input changed", "path", path, "op", event.Op.String())
			timer.Reset(debounce)
		case <-timer.C:
			runOnce()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)
		}
	}
}
