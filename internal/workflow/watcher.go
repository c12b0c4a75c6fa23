package workflow

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a registry from a workflows directory whenever a YAML
// file in it changes. Events are debounced so an editor's
// write-then-rename shows up as one reload.
type Watcher struct {
	dir      string
	registry *Registry
	onReload func(count int, err error)

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
	closed  bool
}

// NewWatcher starts watching dir. onReload is called after each reload
// attempt with the number of definitions loaded and any error; it may be
// nil.
func NewWatcher(dir string, registry *Registry, onReload func(count int, err error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		dir:      dir,
		registry: registry,
		onReload: onReload,
		watcher:  fsw,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	// Debounce timer; nil channel until the first relevant event.
	var pending <-chan time.Time
	var timer *time.Timer

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(200 * time.Millisecond)
			} else {
				timer.Reset(200 * time.Millisecond)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			w.reload()
		case <-w.watcher.Errors:
			// Keep watching.
		}
	}
}

func relevantEvent(event fsnotify.Event) bool {
	ext := filepath.Ext(event.Name)
	if ext != ".yaml" && ext != ".yml" {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func (w *Watcher) reload() {
	defs, err := LoadDir(w.dir)
	if err == nil {
		err = w.registry.Reload(defs)
	}
	if w.onReload != nil {
		w.onReload(len(defs), err)
	}
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.done)
	w.watcher.Close()
}
