package am

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/logger"
)

// ChangeCallback receives the paths that changed during one debounce window
type ChangeCallback func(paths []string)

// Watcher reports changes to a fixed set of files. It watches their parent
// directories so editors that replace files on save are still seen.
type Watcher struct {
	watcher        *fsnotify.Watcher
	files          map[string]bool
	callback       ChangeCallback
	debouncePeriod time.Duration
	log            *zap.SugaredLogger

	mu            sync.Mutex
	changed       map[string]bool
	debounceTimer *time.Timer
	started       bool
	done          chan struct{}
}

// NewWatcher creates a watcher for files
func NewWatcher(files []string, debounce time.Duration, callback ChangeCallback) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		watcher:        fw,
		files:          make(map[string]bool),
		callback:       callback,
		debouncePeriod: debounce,
		log:            logger.ComponentLogger("watch"),
		changed:        make(map[string]bool),
		done:           make(chan struct{}),
	}
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", f)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}
	return w, nil
}

// Start begins watching for changes
func (w *Watcher) Start() {
	w.mu.Lock()
	w.started = true
	w.mu.Unlock()
	go w.watchLoop()
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.files[name] || isBackupFile(name) {
				continue
			}
			w.log.Debugw("Detected change",
				logger.FieldFile, name,
				"op", event.Op.String())
			w.schedule(name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

// schedule debounces rapid file changes into one callback
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.changed[path] = true
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.changed))
	for p := range w.changed {
		paths = append(paths, p)
	}
	w.changed = make(map[string]bool)
	w.mu.Unlock()

	if len(paths) > 0 {
		w.callback(paths)
	}
}

// Stop stops watching and waits for the event loop to exit
func (w *Watcher) Stop() error {
	err := w.watcher.Close()
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if started {
		<-w.done
	}
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
	return err
}

// isBackupFile checks if the file is a config backup (.back1, .back2, .back3)
func isBackupFile(path string) bool {
	ext := filepath.Ext(path)
	return strings.HasPrefix(ext, ".back")
}
