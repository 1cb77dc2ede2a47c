package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/smazurov/blinkid/internal/logging"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads a config file through loader whenever it changes and
// passes the result to the registered handlers. It watches the parent
// directory, so a file replaced by rename is still picked up.
type Watcher[T any] struct {
	path     string
	debounce time.Duration
	loader   func(path string) (T, error)
	onError  func(error)
	logger   logging.Logger

	mu       sync.Mutex
	handlers map[int]func(T)
	nextID   int

	fs       *fsnotify.Watcher
	done     chan struct{}
	loopDone chan struct{}
	stopOnce sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption[T any] func(*Watcher[T])

// WithDebounce overrides DefaultDebounce.
func WithDebounce[T any](d time.Duration) WatcherOption[T] {
	return func(w *Watcher[T]) { w.debounce = d }
}

// WithErrorHandler is called when loader fails. Failures are logged either way.
func WithErrorHandler[T any](fn func(error)) WatcherOption[T] {
	return func(w *Watcher[T]) { w.onError = fn }
}

// NewConfigWatcher creates a watcher for path. Nothing is watched until Start.
func NewConfigWatcher[T any](
	path string,
	loader func(path string) (T, error),
	logger logging.Logger,
	opts ...WatcherOption[T],
) *Watcher[T] {
	w := &Watcher[T]{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		loader:   loader,
		logger:   logger,
		handlers: map[int]func(T){},
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// OnReload registers fn and returns a function that removes it.
func (w *Watcher[T]) OnReload(fn func(T)) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.handlers[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.handlers, id)
		w.mu.Unlock()
	}
}

// Start begins watching. It fails if the parent directory cannot be watched.
func (w *Watcher[T]) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}
	w.fs = fsw
	w.loopDone = make(chan struct{})

	w.logger.Info("Watching config file", "path", w.path, "debounce", w.debounce)
	go w.loop()
	return nil
}

// Stop ends the watch. No handler runs after Stop returns.
func (w *Watcher[T]) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		if w.fs == nil {
			return
		}
		err = w.fs.Close()
		<-w.loopDone
	})
	return err
}

func (w *Watcher[T]) loop() {
	defer close(w.loopDone)

	var pending <-chan time.Time
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("Config file touched", "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			w.reload()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Config watch error", "error", err)
		}
	}
}

func (w *Watcher[T]) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher[T]) reload() {
	cfg, err := w.loader(w.path)
	if err != nil {
		w.logger.Warn("Config reload failed", "path", w.path, "error", err)
		if w.onError != nil {
			w.onError(err)
		}
		return
	}

	w.mu.Lock()
	handlers := make([]func(T), 0, len(w.handlers))
	for id := range w.nextID {
		if fn, ok := w.handlers[id]; ok {
			handlers = append(handlers, fn)
		}
	}
	w.mu.Unlock()

	w.logger.Info("Config file reloaded", "path", w.path, "handlers", len(handlers))
	for _, fn := range handlers {
		fn(cfg)
	}
}

// WatchLogging re-resolves log levels with load whenever path changes and
// applies them. load is expected to honour the same CLI > env > file
// precedence as startup; if it fails, the current levels stay. Sequence,
// timing and hardware settings are startup-only.
func WatchLogging(path string, load func() (logging.Config, error), logger logging.Logger) (*Watcher[logging.Config], error) {
	w := NewConfigWatcher(path, func(string) (logging.Config, error) {
		return load()
	}, logger)
	w.OnReload(func(cfg logging.Config) {
		logging.SetLevels(cfg)
		logger.Info("Log levels updated", "level", cfg.Level, "modules", len(cfg.Modules))
	})
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w, nil
}
