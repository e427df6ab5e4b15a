// Package watch notifies owt of git state changes made outside the
// program — a `git worktree add` run in another terminal, a branch pushed
// from CI — by watching the bare repository's refs and HEAD. It never
// mutates the in-memory model itself; it only signals that a refresh is
// due, exactly like any other completion event the dispatcher already
// knows how to handle.
package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce coalesces bursts of ref updates (e.g. a fetch touching dozens of
// remote-tracking refs at once) into a single refresh signal.
const Debounce = 600 * time.Millisecond

// Watcher watches a bare repository's refs/, logs/, and worktrees/
// directories for changes.
type Watcher struct {
	mu          sync.Mutex
	fsw         *fsnotify.Watcher
	roots       []string
	paths       map[string]struct{}
	events      chan struct{}
	done        chan struct{}
	lastSignal  time.Time
	logf        func(string, ...any)
}

// New starts watching bareRepoDir's refs/logs/worktrees trees. logf may be
// nil.
func New(bareRepoDir string, logf func(string, ...any)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		paths:  make(map[string]struct{}),
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
		logf:   logf,
		roots: []string{
			filepath.Join(bareRepoDir, "refs"),
			filepath.Join(bareRepoDir, "logs"),
			filepath.Join(bareRepoDir, "worktrees"),
		},
	}

	w.addDir(bareRepoDir) // HEAD lives directly under the bare dir
	for _, root := range w.roots {
		w.addTree(root)
	}

	go w.run()
	return w, nil
}

// Events returns the channel a refresh-triggering change is signaled on.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops the watcher.
func (w *Watcher) Close() {
	select {
	case <-w.done:
		return
	default:
	}
	close(w.done)
	_ = w.fsw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.maybeWatchNewDir(event.Name)
			}
			w.signal()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.debugf("watch: error: %v", err)
		}
	}
}

func (w *Watcher) signal() {
	now := time.Now()
	w.mu.Lock()
	if !w.lastSignal.IsZero() && now.Sub(w.lastSignal) < Debounce {
		w.mu.Unlock()
		return
	}
	w.lastSignal = now
	w.mu.Unlock()

	select {
	case w.events <- struct{}{}:
	default:
	}
}

func (w *Watcher) maybeWatchNewDir(path string) {
	if !w.underRoot(path) {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	w.addDir(path)
}

func (w *Watcher) underRoot(path string) bool {
	for _, root := range w.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) addDir(path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.paths[path]; ok {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.debugf("watch: add failed for %s: %v", path, err)
		return
	}
	w.paths[path] = struct{}{}
}

func (w *Watcher) addTree(root string) {
	if root == "" {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		w.addDir(path)
		return nil
	})
}

func (w *Watcher) debugf(format string, args ...any) {
	if w.logf != nil {
		w.logf(format, args...)
	}
}
