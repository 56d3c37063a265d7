// Package watcher reports edits to declaration files.
package watcher

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/weave/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// DefaultDebounceWindow is the default time window for coalescing file events.
const DefaultDebounceWindow = 50 * time.Millisecond

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Watcher implements ports.Watcher using fsnotify. Files are watched through their
// directories so that editors replacing a file by rename are still noticed.
type Watcher struct {
	window time.Duration

	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	targets   map[string]bool
	changes   chan []string
}

// NewWatcher creates a watcher that coalesces events arriving within window.
func NewWatcher(window time.Duration) *Watcher {
	return &Watcher{
		window:  window,
		changes: make(chan []string, 1),
	}
}

// Start begins watching the given files.
func (w *Watcher) Start(ctx context.Context, paths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsWatcher != nil {
		return zerr.New("watcher already started")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}

	w.targets = make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fsWatcher.Close()
			return zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", p)
		}
		w.targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for _, dir := range slices.Sorted(maps.Keys(dirs)) {
		if err := fsWatcher.Add(dir); err != nil {
			_ = fsWatcher.Close()
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", dir)
		}
	}

	w.fsWatcher = fsWatcher
	go w.processEvents(ctx, fsWatcher)
	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsWatcher == nil {
		return nil
	}
	return w.fsWatcher.Close()
}

// Changes returns an iterator of coalesced change batches. Paths in a batch are sorted.
func (w *Watcher) Changes() iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		for batch := range w.changes {
			if !yield(batch) {
				return
			}
		}
	}
}

func (w *Watcher) processEvents(ctx context.Context, fsWatcher *fsnotify.Watcher) {
	defer close(w.changes)

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.window)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&relevantOps == 0 || !w.isTarget(event.Name) {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(w.window)
			fire = timer.C

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watcher: file system error: %v\n", err)

		case <-fire:
			fire = nil
			batch := slices.Sorted(maps.Keys(pending))
			clear(pending)
			select {
			case w.changes <- batch:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (w *Watcher) isTarget(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return w.targets[abs]
}
