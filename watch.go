package logsink

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher raises a callback when a configuration file changes on disk.
// Bursts of events within the debounce window produce one callback.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func()
	onError  func(error)
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// WatchConfig watches path through its parent directory, so editors that
// replace the file on save are still observed. onError may be nil.
func WatchConfig(path string, onChange func(), onError func(error), debounce time.Duration) (*Watcher, error) {
	if path == "" {
		return nil, fmtErrorf("config path is empty")
	}
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmtErrorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fsWatcher.Add(dir); err != nil {
		closeErr := fsWatcher.Close()
		return nil, errors.Join(fmtErrorf("failed to watch directory %s: %w", dir, err), closeErr)
	}

	return &Watcher{
		path:     path,
		watcher:  fsWatcher,
		onChange: onChange,
		onError:  onError,
		debounce: debounce,
	}, nil
}

// Run delivers events until ctx is done or the watcher is closed
func (w *Watcher) Run(ctx context.Context) error {
	filename := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return w.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event, filename)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.onError != nil {
				w.onError(fmtErrorf("watch error: %w", err))
			}
		}
	}
}

// handleEvent schedules the callback for changes to the watched file
func (w *Watcher) handleEvent(event fsnotify.Event, filename string) {
	if filepath.Base(event.Name) != filename {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		stopped := w.stopped
		w.mu.Unlock()
		if !stopped && w.onChange != nil {
			w.onChange()
		}
	})
}

// Close stops the watcher and cancels a pending callback
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	return w.watcher.Close()
}
