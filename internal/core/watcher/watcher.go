package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"hooklint/internal/shared/observability"
	"hooklint/internal/shared/util"

	"github.com/fsnotify/fsnotify"
)

// Watcher batches file system changes under the watched roots and hands
// the changed lintable paths to onChange once events settle for the
// debounce interval. onChange calls never overlap.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	filter     *util.PathFilter
	onChange   func([]string)
	callbackMu sync.Mutex

	pendingMu sync.Mutex
	debounce  time.Duration
	pending   map[string]struct{}
	timer     *time.Timer

	done      chan struct{}
	closeOnce sync.Once
}

func NewWatcher(debounce time.Duration, filter *util.PathFilter, onChange func([]string)) (*Watcher, error) {
	if onChange == nil || filter == nil {
		return nil, os.ErrInvalid
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher: fsw,
		filter:    filter,
		onChange:  onChange,
		debounce:  debounce,
		pending:   make(map[string]struct{}),
		done:      make(chan struct{}),
	}, nil
}

func (w *Watcher) SetDebounce(debounce time.Duration) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	w.debounce = debounce
}

// SetFilter swaps the path filter, e.g. after a config reload.
func (w *Watcher) SetFilter(filter *util.PathFilter) {
	if filter == nil {
		return
	}
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	w.filter = filter
}

func (w *Watcher) currentFilter() *util.PathFilter {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	return w.filter
}

func (w *Watcher) Watch(paths []string) error {
	for _, path := range paths {
		if err := w.watchRecursive(path); err != nil {
			return err
		}
	}

	go w.run()
	return nil
}

func (w *Watcher) watchRecursive(root string) error {
	filter := w.currentFilter()
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && filter.ExcludeDir(path) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()
			w.handle(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	filter := w.currentFilter()

	if event.Op&fsnotify.Create == fsnotify.Create {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if filter.ExcludeDir(event.Name) {
				return
			}
			if err := w.watchRecursive(event.Name); err != nil {
				slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
				return
			}
			w.enqueueExistingFiles(event.Name)
			return
		}
	}

	if !filter.Accept(event.Name) {
		return
	}
	// Chmod alone never changes what the linter sees.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
		w.scheduleChange(event.Name)
	}
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = struct{}{}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flushChanges)
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	select {
	case <-w.done:
		return
	default:
	}
	w.onChange(paths)
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.pendingMu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.pendingMu.Unlock()
		err = w.fsWatcher.Close()
	})
	return err
}

func (w *Watcher) enqueueExistingFiles(root string) {
	filter := w.currentFilter()
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil {
			return nil
		}
		if info.IsDir() {
			if path != root && filter.ExcludeDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if filter.Accept(path) {
			w.scheduleChange(path)
		}
		return nil
	})
}
