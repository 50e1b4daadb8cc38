// Package watcher reports changes to the note store file made by any process.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/zametki/internal/checksum"
)

// Debounce is the quiet period after the last event before the file is re-hashed.
const Debounce = 200 * time.Millisecond

// ChangeCallback receives the new content digest of the store file.
type ChangeCallback func(sum string)

// Watch observes the directory holding storePath and calls cb whenever the
// file content digest changes. Bursts of events (temp file, rename) are
// debounced. Watch blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file itself because atomic
// writes replace the inode.
func Watch(ctx context.Context, storePath string, logger *slog.Logger, cb ChangeCallback) error {
	abs, err := filepath.Abs(storePath)
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

	last, err := checksum.File(abs)
	if err != nil {
		logger.Warn("watcher: initial checksum failed", slog.String("path", abs), slog.String("error", err.Error()))
	}

	logger.Info("watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(Debounce)
			timerCh = timer.C
		} else {
			timer.Reset(Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			sum, sumErr := checksum.File(abs)
			if sumErr != nil {
				logger.Warn("watcher: checksum failed", slog.String("path", abs), slog.String("error", sumErr.Error()))
				continue
			}
			if sum == last {
				continue
			}
			last = sum
			logger.Debug("watcher: store changed", slog.String("path", abs), slog.String("checksum", sum))
			if cb != nil {
				cb(sum)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
