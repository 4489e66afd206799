// Package watch provides a debounced recursive file watcher used to reload
// rules, skills, and library content when they change on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// DefaultDebounce coalesces editor write bursts into one event.
const DefaultDebounce = 200 * time.Millisecond

// Event is a debounced change notification for one path.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Watcher watches directory trees recursively and delivers debounced
// change events.
type Watcher struct {
	fw       *fsnotify.Watcher
	events   chan Event
	debounce time.Duration

	mu     sync.Mutex
	closed bool
	timers map[string]*time.Timer
}

// New creates a watcher over the given root directories. Missing roots are
// skipped. Subdirectories are added as they appear.
func New(roots []string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		fw:       fw,
		events:   make(chan Event, 16),
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
	}

	for _, root := range roots {
		if err := w.addTree(root); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Events returns the debounced event channel. It is closed when Run returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run pumps raw fsnotify events through the debounce layer until ctx is
// cancelled. On return every pending debounce timer is stopped before the
// event channel closes, so no timer can fire into a closed channel.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.fw.Close()
		w.mu.Lock()
		w.closed = true
		for _, t := range w.timers {
			t.Stop()
		}
		w.timers = nil
		w.mu.Unlock()
		close(w.events)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			log.Warnf("watch error: %v", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	// New directories get watched so the tree stays covered.
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				log.Warnf("watching new directory %s: %v", ev.Name, err)
			}
		}
	}

	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[ev.Name]; ok {
		t.Reset(w.debounce)
		return
	}

	name, op := ev.Name, ev.Op
	w.timers[name] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.closed {
			return
		}
		delete(w.timers, name)

		// The send happens under the mutex so shutdown cannot close the
		// channel mid-send. Drop when the buffer is full rather than
		// blocking with the lock held; the consumer re-scans everything
		// on each event anyway.
		select {
		case w.events <- Event{Path: name, Op: op}:
		default:
		}
	})
}

// addTree registers root and every directory under it. Hidden directories
// other than .claude itself are skipped.
func (w *Watcher) addTree(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking watch root: %w", err)
	}
	if !info.IsDir() {
		return w.fw.Add(root)
	}

	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		if path != root && strings.HasPrefix(base, ".") && base != ".claude" {
			return filepath.SkipDir
		}
		if err := w.fw.Add(path); err != nil {
			log.Warnf("watching %s: %v", path, err)
		}
		return nil
	})
}
