package config

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a watched file must stay quiet before it is
// reloaded. Editors often write a file in several steps.
const DefaultSettle = 300 * time.Millisecond

// Watcher reloads a value from one file once it settles and hands it to
// apply. The parent directory is watched, so an editor that renames a
// temporary file over the original is picked up too. A value that fails
// to load is logged and dropped; apply only ever sees good values.
type Watcher[T any] struct {
	path   string
	load   func(path string) (T, error)
	apply  func(T)
	settle time.Duration
	logger *slog.Logger

	fsw  *fsnotify.Watcher
	quit chan struct{}
	done chan struct{}
	stop sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption[T any] func(*Watcher[T])

// WithSettle replaces DefaultSettle.
func WithSettle[T any](d time.Duration) WatcherOption[T] {
	return func(w *Watcher[T]) { w.settle = d }
}

// NewWatcher creates a watcher on path. Nothing happens until Start.
func NewWatcher[T any](
	path string,
	load func(path string) (T, error),
	apply func(T),
	logger *slog.Logger,
	opts ...WatcherOption[T],
) *Watcher[T] {
	w := &Watcher[T]{
		path:   filepath.Clean(path),
		load:   load,
		apply:  apply,
		settle: DefaultSettle,
		logger: logger,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching. It fails when the parent directory cannot be
// watched.
func (w *Watcher[T]) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return err
	}
	w.fsw = fsw

	w.logger.Info("Watching for changes", "path", w.path, "settle", w.settle)
	go w.run()
	return nil
}

// Stop ends watching and waits for a reload in progress to finish.
// It is safe to call more than once, and before Start.
func (w *Watcher[T]) Stop() error {
	var err error
	w.stop.Do(func() {
		close(w.quit)
		if w.fsw == nil {
			return
		}
		err = w.fsw.Close()
		<-w.done
	})
	return err
}

func (w *Watcher[T]) run() {
	defer close(w.done)

	settled := time.NewTimer(time.Hour)
	settled.Stop()
	defer settled.Stop()

	for {
		select {
		case <-w.quit:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug("Change detected", "path", w.path, "op", ev.Op.String())
			settled.Reset(w.settle)

		case <-settled.C:
			w.reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watch error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher[T]) reload() {
	value, err := w.load(w.path)
	if err != nil {
		w.logger.Warn("Reload failed, keeping the current version", "path", w.path, "error", err)
		return
	}
	w.apply(value)
	w.logger.Info("Reloaded", "path", w.path)
}
