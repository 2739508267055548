// Package watch reports debounced changes to a save folder.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is the quiet period used when none is configured.
const DefaultDelay = 500 * time.Millisecond

// Watcher watches one folder, non-recursively.
type Watcher struct {
	fs       *fsnotify.Watcher
	folder   string
	debounce *Debouncer
	changes  chan struct{}
	log      *slog.Logger
}

// New starts watching folder. Events are coalesced over delay.
func New(folder string, delay time.Duration, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if delay <= 0 {
		delay = DefaultDelay
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(folder); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", folder, err)
	}

	return &Watcher{
		fs:       fw,
		folder:   folder,
		debounce: NewDebouncer(delay),
		changes:  make(chan struct{}, 1),
		log:      log.With(slog.String("folder", folder)),
	}, nil
}

// Changes delivers one value per quiet period that followed a change.
// Pending notifications are coalesced.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Run forwards events until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.debounce.Stop()
		_ = w.fs.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			w.log.Debug("save folder event", slog.String("name", ev.Name), slog.String("op", ev.Op.String()))
			w.debounce.Do(w.notify)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", slog.Any("err", err))
		}
	}
}

func (w *Watcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
