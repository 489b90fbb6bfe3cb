package contexts

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"codenav/internal/paths"
)

// watch is a recursive file-system watch over a descriptor's containing
// directory. Any matching modify/create/delete/rename event fires the
// invalidate callback on its own goroutine, outside both the request
// path and the event loop.
type watch struct {
	watcher    *fsnotify.Watcher
	extensions []string
	invalidate func()
	logger     *slog.Logger
	stopCh     chan struct{}
	doneCh     chan struct{}
	stopOnce   sync.Once
}

// newWatch starts watching the descriptor's directory tree.
func newWatch(descriptorPath string, extensions []string, invalidate func(), logger *slog.Logger) (*watch, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &watch{
		watcher:    fw,
		extensions: extensions,
		invalidate: invalidate,
		logger:     logger,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}

	root := filepath.Dir(descriptorPath)
	if err := w.addTree(root); err != nil {
		_ = fw.Close()
		return nil, err
	}

	go w.run()
	return w, nil
}

// addTree registers the directory and all its subdirectories, skipping
// hidden and build-output directories.
func (w *watch) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || name == "bin" || name == "obj" || name == "node_modules") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *watch) run() {
	defer close(w.doneCh)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Debug("watch error", "error", err)
		case <-w.stopCh:
			return
		}
	}
}

func (w *watch) handle(event fsnotify.Event) {
	const relevant = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

	if event.Op&fsnotify.Create != 0 {
		// New subdirectories join the watch so later changes inside
		// them are seen.
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addTree(event.Name)
			return
		}
	}

	if event.Op&relevant == 0 {
		return
	}
	if !paths.HasAnyExtension(event.Name, w.extensions) {
		return
	}

	w.logger.Debug("source change detected", "file", event.Name, "op", event.Op.String())
	// No debouncing: repeated events cause repeated invalidations, which
	// is acceptable because reload is idempotent and lazy.
	//
	// The callback stops this watch, and stop joins the run goroutine.
	// Firing it from the event loop would self-join, so it gets its own
	// goroutine.
	go w.invalidate()
}

// stop shuts the watch down. Idempotent.
func (w *watch) stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		_ = w.watcher.Close()
	})
	<-w.doneCh
}
