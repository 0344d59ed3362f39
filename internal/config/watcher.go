package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/agentcore/agentcore/internal/event"
	"github.com/agentcore/agentcore/internal/logging"
)

// RootsWatcher watches a project's .agentcore directory for edits to
// config.jsonc and republishes the sandbox's writable roots whenever it
// changes, so a session already running in that directory can pick up a
// root granted by hand without being restarted.
type RootsWatcher struct {
	watcher   *fsnotify.Watcher
	directory string
	stopCh    chan struct{}
	doneCh    chan struct{}
	mu        sync.Mutex
	started   bool
}

// NewRootsWatcher opens a watch on <directory>/.agentcore. It returns a nil
// watcher (and no error) when that directory doesn't exist yet, since there
// is nothing to watch until a project config is created.
func NewRootsWatcher(directory string) (*RootsWatcher, error) {
	agentDir := filepath.Join(directory, ".agentcore")
	if _, err := os.Stat(agentDir); err != nil {
		return nil, nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(agentDir); err != nil {
		w.Close()
		return nil, err
	}

	return &RootsWatcher{
		watcher:   w,
		directory: directory,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}, nil
}

// Start begins watching in its own goroutine. Calling it more than once is
// a no-op.
func (w *RootsWatcher) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()
	go w.run()
}

func (w *RootsWatcher) run() {
	defer close(w.doneCh)

	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 && filepath.Base(ev.Name) == "config.jsonc" {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn().Err(err).Msg("roots watcher error")
		}
	}
}

func (w *RootsWatcher) reload() {
	cfg, err := Load(w.directory)
	if err != nil {
		logging.Warn().Err(err).Str("directory", w.directory).Msg("roots watcher: reload config failed")
		return
	}
	roots := cfg.SandboxPolicy.WritableRoots
	if len(roots) == 0 {
		roots = []string{w.directory}
	}
	logging.Info().Strs("roots", roots).Msg("project config changed, republishing writable roots")
	event.PublishSync(event.Event{
		Type: event.ConfigRootsChanged,
		Data: event.ConfigRootsChangedData{Directory: w.directory, Roots: roots},
	})
}

// Stop halts the watcher's goroutine and releases the underlying fsnotify
// watch. Safe to call even if Start was never called.
func (w *RootsWatcher) Stop() error {
	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}

	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if started {
		<-w.doneCh
	}

	return w.watcher.Close()
}
