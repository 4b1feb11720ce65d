package session

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watch reports changes to the session database at path until ctx is
// cancelled. cb runs after writes, creates, removes and renames of the file
// (or its WAL/journal siblings), debounced so a burst of writes yields one call.
// The parent directory is watched because SQLite replaces journal files.
func Watch(ctx context.Context, path string, logger *slog.Logger, cb func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	logger.Debug("session watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Debug("session watcher: stopped")
			return nil

		case <-fire:
			fire = nil
			cb()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !sameDB(abs, ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("session watcher: error", slog.String("error", err.Error()))
		}
	}
}

func sameDB(db, name string) bool {
	switch filepath.Clean(name) {
	case db, db + "-wal", db + "-journal", db + "-shm":
		return true
	}
	return false
}
