// Package watch reruns generation whenever the metadata document changes.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Run watches the metadata document at path and calls fn each time changes
// have settled for the debounce window. Failures from fn are logged and the
// watch continues; Run itself returns when ctx is canceled or the watcher
// breaks.
func Run(ctx context.Context, path string, debounce time.Duration, log *zap.Logger, fn func(context.Context) error) error {
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors and the output sink
	// replace files by rename, which silently drops a watch held on the
	// file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "watching %s", dir)
	}

	log.Info("watching metadata",
		zap.String("path", path),
		zap.Duration("debounce", debounce))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, path) {
				continue
			}
			log.Debug("metadata changed", zap.String("op", event.Op.String()))
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			pending = true

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			pending = false
			if err := fn(ctx); err != nil {
				log.Error("regeneration failed", zap.Error(err))
			}
		}
	}
}

// relevant reports whether event is a content change to the watched path.
// Chmod noise and sibling files in the watched directory are ignored.
func relevant(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != filepath.Clean(path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
