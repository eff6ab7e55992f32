package commands

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/simonhull/firebird-suite/heron/internal/filesystem"
	"github.com/simonhull/firebird-suite/heron/pkg/logger"
)

// watchDebounce is how long a burst of file events must settle before a
// re-run.
const watchDebounce = 300 * time.Millisecond

// watch calls run once, then again after every settled burst of changes
// under root, until ctx is done. Runs never overlap.
func watch(ctx context.Context, root string, log logger.Logger, run func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, root); err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}

	var mu sync.Mutex
	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		run()
	}
	trigger()

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && filesystem.IsDir(ev.Name) {
				if err := addWatchRecursive(watcher, ev.Name); err != nil {
					log.Warn("Failed to watch new directory", logger.F("dir", ev.Name), logger.F("error", err))
				}
			}
			log.Debug("Source changed", logger.F("file", ev.Name), logger.F("op", ev.Op.String()))

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, trigger)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("Watch error", logger.F("error", err))
		}
	}
}

// addWatchRecursive registers root and every directory below it, skipping
// the usual dependency and build directories.
func addWatchRecursive(w *fsnotify.Watcher, root string) error {
	opts := filesystem.WalkOptions{ContinueOnError: true}
	return filesystem.Walk(root, opts, func(path string, info os.FileInfo) error {
		if info.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
