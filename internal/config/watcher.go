package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Reload is the outcome of reloading the config file after a change.
type Reload struct {
	Config *Config
	Err    error
	Time   time.Time
}

// Watcher reloads a config file when it changes on disk.
//
// The file's directory is watched rather than the file itself, so that
// editors which save by renaming a temporary file are seen.
type Watcher struct {
	loader   *Loader
	path     string
	debounce time.Duration

	fsw     *fsnotify.Watcher
	reloads chan Reload

	mu       sync.Mutex
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for changes to settle.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// NewWatcher starts watching the loader's file.
func NewWatcher(loader *Loader, opts ...WatcherOption) (*Watcher, error) {
	path, err := filepath.Abs(loader.Path())
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		loader:   loader,
		path:     path,
		debounce: 100 * time.Millisecond,
		fsw:      fsw,
		reloads:  make(chan Reload, 1),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Reloads returns the channel receiving reload results. It is closed by
// Close.
func (w *Watcher) Reloads() <-chan Reload {
	return w.reloads
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()
	close(w.reloads)
	return w.fsw.Close()
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.send(Reload{Err: err, Time: time.Now()})

		case <-fire:
			fire = nil
			cfg, err := w.loader.Load()
			w.send(Reload{Config: cfg, Err: err, Time: time.Now()})
		}
	}
}

// relevant reports whether ev touches the watched file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}

// send delivers r, replacing an unread older result.
func (w *Watcher) send(r Reload) {
	for {
		select {
		case w.reloads <- r:
			return
		case <-w.closeCh:
			return
		default:
		}
		select {
		case <-w.reloads:
		default:
		}
	}
}
