// Package watch re-runs a handler when watched files change.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/typetransform/config"
	"github.com/teranos/typetransform/errors"
	"github.com/teranos/typetransform/logger"
)

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 500 * time.Millisecond

// Handler is called with the path of a changed file once its events have
// settled. Calls for one path never overlap.
type Handler func(ctx context.Context, path string)

// Watcher watches a fixed set of files. Parent directories are watched
// rather than the files themselves so that editors replacing a file by
// rename are still seen.
type Watcher struct {
	watcher        *fsnotify.Watcher
	handler        Handler
	debouncePeriod time.Duration
	logger         *zap.SugaredLogger

	files map[string]string // cleaned absolute path -> path as given

	mu     sync.Mutex
	timers map[string]*time.Timer
	locks  map[string]*sync.Mutex
	wg     sync.WaitGroup
}

// New creates a watcher for paths. Start it with Run.
func New(paths []string, handler Handler) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("nothing to watch")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		watcher:        fw,
		handler:        handler,
		debouncePeriod: DefaultDebounce,
		logger:         logger.ComponentLogger("watch"),
		files:          make(map[string]string, len(paths)),
		timers:         map[string]*time.Timer{},
		locks:          map[string]*sync.Mutex{},
	}

	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		if _, err := os.Stat(abs); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "cannot watch %s", p)
		}
		w.files[abs] = p
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch directory %s", dir)
		}
	}
	return w, nil
}

// SetDebounce changes the settle period; call before Run.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debouncePeriod = d
}

// Run processes events until ctx is cancelled, then waits for running
// handlers and closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, _ := filepath.Abs(event.Name)
			path, watched := w.files[abs]
			if !watched || ignored(event.Name) {
				continue
			}
			w.logger.Debugw("change detected",
				logger.FieldFile, path,
				"op", event.Op.String())
			w.schedule(ctx, path)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnw("watcher error", logger.FieldError, err)
		}
	}
}

// schedule debounces rapid changes to one file and then runs the handler
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok && t.Stop() {
		w.wg.Done()
	}
	lock, ok := w.locks[path]
	if !ok {
		lock = &sync.Mutex{}
		w.locks[path] = lock
	}

	w.wg.Add(1)
	w.timers[path] = time.AfterFunc(w.debouncePeriod, func() {
		defer w.wg.Done()
		if ctx.Err() != nil {
			return
		}
		lock.Lock()
		defer lock.Unlock()
		w.handler(ctx, path)
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	for path, t := range w.timers {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.timers, path)
	}
	w.mu.Unlock()
	w.wg.Wait()
	w.watcher.Close()
}

// ignored filters editor swap files, atomic-write temporaries and config
// backups.
func ignored(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".tmp") ||
		config.IsBackupFile(path)
}
