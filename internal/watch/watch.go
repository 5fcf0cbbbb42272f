// Package watch re-runs a callback when a query document changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/satishbabariya/rootquery/internal/debug"
)

// DefaultDebounce is the quiet period after the last event before the
// callback fires.
const DefaultDebounce = 500 * time.Millisecond

// Callback is invoked with the absolute path of the changed file.
type Callback func(ctx context.Context, path string) error

// Watcher watches a single file.
type Watcher struct {
	file     string
	callback Callback
	onError  func(error)
	debounce time.Duration
	watcher  *fsnotify.Watcher

	stopOnce sync.Once
	done     chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithErrorHandler receives callback and watcher errors. By default they are
// logged.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// New creates a watcher for file. Its directory is watched so that editors
// replacing the file by rename are still observed.
func New(file string, callback Callback, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(absPath)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	w := &Watcher{
		file:     absPath,
		callback: callback,
		debounce: DefaultDebounce,
		watcher:  fw,
		done:     make(chan struct{}),
		onError: func(err error) {
			debug.Warn("watch error", "error", err)
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// File returns the absolute path being watched.
func (w *Watcher) File() string {
	return w.file
}

// Run invokes the callback once, then again after every change, until ctx is
// cancelled or Stop is called. An error from the first invocation is
// returned; later ones go to the error handler.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Stop()

	if err := w.callback(ctx, w.file); err != nil {
		return fmt.Errorf("initial callback failed: %w", err)
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var debounceCh <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if path, err := filepath.Abs(event.Name); err == nil && path == w.file {
				timer.Reset(w.debounce)
				debounceCh = timer.C
			}

		case <-debounceCh:
			debounceCh = nil
			if err := w.callback(ctx, w.file); err != nil {
				w.onError(err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.onError(err)

		case <-ctx.Done():
			return nil

		case <-w.done:
			return nil
		}
	}
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}
