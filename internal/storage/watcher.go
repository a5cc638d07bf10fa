package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is called when a key is modified by someone other than this
// provider. removed is true when the key's file disappeared.
type ChangeCallback func(key string, removed bool)

// Watcher is implemented by providers that can report external changes.
type Watcher interface {
	Watch(ctx context.Context, logger *slog.Logger, cb ChangeCallback) error
}

var _ Watcher = (*FS)(nil)

// debounce coalesces the burst of events editors produce for one save.
const debounce = 100 * time.Millisecond

// Watch observes the data directory until ctx is cancelled. Writes made
// through this provider are recognised by checksum and not reported.
func (f *FS) Watch(ctx context.Context, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(f.root); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("root", f.root))

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
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
			for key := range pending {
				f.report(key, logger, cb)
			}
			clear(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			key, ok := keyFromName(filepath.Base(ev.Name))
			if !ok {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending[key] = struct{}{}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func (f *FS) report(key string, logger *slog.Logger, cb ChangeCallback) {
	p, err := f.path(key)
	if err != nil {
		return
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			f.forget(key)
			logger.Debug("watcher: key removed", slog.String("key", key))
			cb(key, true)
		}
		return
	}
	if f.ownWrite(key, data) {
		return
	}
	logger.Debug("watcher: external change", slog.String("key", key))
	cb(key, false)
}
