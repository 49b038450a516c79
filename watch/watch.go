// Package watch reports edits to shader files so programs can be rebuilt
// while the demo runs.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/xopoww/go-shaderlab/logging"
)

// Watcher watches one directory for changes to files with the given
// extensions.
type Watcher struct {
	log     logging.Logger
	watcher *fsnotify.Watcher
	exts    map[string]bool
	changes chan string

	mu      sync.Mutex
	pending []string
	queued  map[string]bool

	done chan struct{}
	wg   sync.WaitGroup
}

// New starts watching dir. Only files whose extension is in exts are
// reported; no extensions means every file.
func New(dir string, log logging.Logger, exts ...string) (*Watcher, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		log:     log,
		watcher: fw,
		exts:    make(map[string]bool, len(exts)),
		changes: make(chan string, 32),
		queued:  make(map[string]bool),
		done:    make(chan struct{}),
	}
	for _, ext := range exts {
		w.exts[ext] = true
	}
	w.wg.Add(1)
	go w.loop()
	log.Debugf("watching %s", dir)
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if len(w.exts) > 0 && !w.exts[filepath.Ext(event.Name)] {
				continue
			}
			w.record(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warnf("watch: %s", err)
		case <-w.done:
			return
		}
	}
}

// record queues path for Pending and notifies Changes readers.
func (w *Watcher) record(path string) {
	w.mu.Lock()
	if !w.queued[path] {
		w.queued[path] = true
		w.pending = append(w.pending, path)
	}
	w.mu.Unlock()

	select {
	case w.changes <- path:
	default:
		// the path stays queued for Pending
		w.log.Debugf("change of %s not signalled, reader is behind", path)
	}
}

// Changes yields paths of changed files. A reader that falls behind may
// miss notifications; Pending still returns every changed path.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Pending returns the paths changed since the last call without blocking.
// Each path appears once, in the order first seen.
func (w *Watcher) Pending() []string {
	for drained := false; !drained; {
		select {
		case <-w.changes:
		default:
			drained = true
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	paths := w.pending
	w.pending = nil
	w.queued = make(map[string]bool)
	return paths
}

func (w *Watcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
