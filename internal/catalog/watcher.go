package catalog

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch event kinds passed to EventCallback.
const (
	EventReloaded = "reloaded"
	EventInvalid  = "invalid"
)

const reloadDebounce = 200 * time.Millisecond

// EventCallback is called after a watcher-driven reload attempt.
// kind is EventReloaded (detail is the new checksum) or EventInvalid
// (detail is the error message).
type EventCallback func(kind, detail string)

// Watch reloads the catalog whenever file changes, until ctx is cancelled.
//
// The parent directory is watched rather than the file itself: editors and
// atomic writers replace the file by rename, which drops a file-level watch.
// Bursts of events are debounced into a single reload.
func (s *Service) Watch(ctx context.Context, file string, cb EventCallback) error {
	target, err := filepath.Abs(file)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	s.logger.Info("watcher: started", slog.String("file", target))

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(reloadDebounce)
			timerCh = timer.C
			return
		}
		timer.Reset(reloadDebounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			s.logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			timer, timerCh = nil, nil
			s.reloadFromWatch(ctx, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				s.logger.Debug("watcher: change", slog.String("op", ev.Op.String()))
				schedule()
				continue
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				// The file may come back through a rename; keep serving the
				// current snapshot until it does.
				s.logger.Warn("watcher: source removed, keeping current tree", slog.String("file", target))
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func (s *Service) reloadFromWatch(ctx context.Context, cb EventCallback) {
	snap, changed, err := s.Reload(ctx)
	if err != nil {
		s.logger.Warn("watcher: reload failed", slog.String("error", err.Error()))
		if cb != nil {
			cb(EventInvalid, err.Error())
		}
		return
	}
	if !changed {
		return
	}
	if cb != nil {
		cb(EventReloaded, snap.Checksum)
	}
}
