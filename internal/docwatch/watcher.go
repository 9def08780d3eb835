// Package docwatch notifies when the open document changes on disk.
package docwatch

import (
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
)

// DefaultDelay coalesces the burst of events a single save produces.
const DefaultDelay = 250 * time.Millisecond

// Watcher watches one file at a time. It watches the parent directory
// rather than the file so that editors which save by writing a temp file
// and renaming it over the original keep being tracked.
type Watcher struct {
	onChange func(path string)
	delay    time.Duration

	mu     sync.Mutex
	w      *fsnotify.Watcher
	path   string
	stopCh chan struct{}
	doneCh chan struct{}
}

// New returns a watcher that calls onChange (from a background goroutine)
// after the watched file is written or replaced.
func New(onChange func(path string), delay time.Duration) *Watcher {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Watcher{onChange: onChange, delay: delay}
}

// Watch switches to path, dropping any previous watch.
func (dw *Watcher) Watch(path string) error {
	path = filepath.Clean(path)
	dw.mu.Lock()
	if dw.w != nil && samePath(dw.path, path) {
		dw.mu.Unlock()
		return nil
	}
	dw.mu.Unlock()

	dw.Unwatch()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return err
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	dw.mu.Lock()
	dw.w = w
	dw.path = path
	dw.stopCh = stopCh
	dw.doneCh = doneCh
	dw.mu.Unlock()

	go dw.loop(w, path, stopCh, doneCh)
	return nil
}

// Path returns the file currently watched, or "".
func (dw *Watcher) Path() string {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	return dw.path
}

// Unwatch stops watching. It is safe to call when nothing is watched.
func (dw *Watcher) Unwatch() {
	dw.mu.Lock()
	w, stopCh, doneCh := dw.w, dw.stopCh, dw.doneCh
	dw.w, dw.path, dw.stopCh, dw.doneCh = nil, "", nil, nil
	dw.mu.Unlock()

	if w == nil {
		return
	}
	close(stopCh)
	_ = w.Close()
	<-doneCh
}

func (dw *Watcher) Close() {
	dw.Unwatch()
}

func (dw *Watcher) loop(w *fsnotify.Watcher, path string, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	quiet := make(chan struct{})
	debounced := debounce.New(dw.delay)
	fire := func() {
		select {
		case <-quiet:
			return
		default:
		}
		dw.onChange(path)
	}
	defer close(quiet)

	for {
		select {
		case <-stopCh:
			return
		case _, ok := <-w.Errors:
			if !ok {
				return
			}
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !samePath(filepath.Clean(ev.Name), path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounced(fire)
		}
	}
}

func samePath(a, b string) bool {
	if a == b {
		return true
	}
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return false
}
