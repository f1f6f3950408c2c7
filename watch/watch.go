// Package watch notices when another process changes the jj repository so
// the graph can refresh without polling.
package watch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/gerunddev/jjgraph/logging"
)

// DefaultDelay is how long the watcher waits for a burst of file events to
// settle before reporting a change.
const DefaultDelay = 350 * time.Millisecond

// Watcher reports repository changes on a channel.
type Watcher struct {
	mu       sync.Mutex
	fs       *fsnotify.Watcher
	debounce *Debouncer
	changes  chan struct{}
	done     chan struct{}
	closed   bool
	log      *log.Logger
}

// New watches the jj operation log of the workspace at root.
func New(root string, delay time.Duration) (*Watcher, error) {
	paths, err := Paths(root)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}

	w := &Watcher{
		fs:      fsw,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
		log:     logging.With("watch"),
	}
	for _, path := range paths {
		w.log.Debug("adding path to FS watcher", "path", path)
		if err := fsw.Add(path); err != nil {
			err := errors.Join(err, fsw.Close())
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
	}

	w.debounce = NewDebouncer(delay, w.notify)
	go w.loop()
	return w, nil
}

// Changes delivers one value per settled burst of repository changes. A
// change that arrives while the previous one is unread is merged into it.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Done is closed once the watcher stops.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ShouldIgnore(ev.Name) {
				continue
			}
			w.log.Debug("fsnotify event", "op", ev.Op.String(), "path", ev.Name)
			w.debounce.Trigger()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Error("fsnotify error", "error", err)
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	w.debounce.Stop()
	return w.fs.Close()
}

// Paths returns the directories to watch for the workspace at root. Every
// jj command that changes the repository writes a new operation head, so
// watching op_heads catches them all without seeing working-copy edits.
func Paths(root string) ([]string, error) {
	repoDir, err := repoDir(root)
	if err != nil {
		return nil, err
	}

	heads := filepath.Join(repoDir, "op_heads", "heads")
	if info, err := os.Stat(heads); err == nil && info.IsDir() {
		return []string{heads}, nil
	}
	return []string{repoDir}, nil
}

// repoDir resolves .jj/repo, which is a file pointing at the shared repo in
// secondary workspaces.
func repoDir(root string) (string, error) {
	repo := filepath.Join(root, ".jj", "repo")
	info, err := os.Stat(repo)
	if err != nil {
		return "", fmt.Errorf("not a jj workspace: %w", err)
	}
	if info.IsDir() {
		return repo, nil
	}

	target, err := os.ReadFile(repo)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", repo, err)
	}
	path := strings.TrimSpace(string(target))
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(repo), path)
	}
	return path, nil
}

// ShouldIgnore reports whether an event path is lock or IPC noise.
func ShouldIgnore(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".lock" || ext == ".ipc"
}
