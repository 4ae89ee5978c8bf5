package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before OnChange runs.
const DefaultDebounce = 100 * time.Millisecond

// ignoredDirs are generated by the pipeline itself and never trigger a run.
var ignoredDirs = map[string]bool{
	"_site":    true,
	"_tmp":     true,
	"_backups": true,
}

// Ignored reports whether a path relative to the watched root is output or
// hidden and should not trigger a regeneration.
func Ignored(rel string) bool {
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == "" {
		return false
	}
	first := strings.SplitN(rel, "/", 2)[0]
	return ignoredDirs[first] || strings.HasPrefix(first, ".")
}

// Watcher handles filesystem events below a source tree and reports batches
// of changed paths.
type Watcher struct {
	watcher  *fsnotify.Watcher
	Root     string
	Debounce time.Duration
	OnChange func(paths []string)
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

// New creates a new watcher for root
func New(root string, onChange func(paths []string), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  w,
		Root:     abs,
		Debounce: DefaultDebounce,
		OnChange: onChange,
		logger:   logger,
		pending:  make(map[string]struct{}),
	}, nil
}

// Run watches until ctx is cancelled. It closes the underlying watcher on
// return.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	if err := w.addTree(w.Root); err != nil {
		return err
	}
	w.logger.Info("👀 Watch mode active. Waiting for changes...", "root", w.Root)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			// Ignore chmod and other meta events
			if event.Op == fsnotify.Chmod {
				continue
			}
			rel, err := filepath.Rel(w.Root, event.Name)
			if err != nil || Ignored(rel) {
				continue
			}

			// Handle new directories
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("Failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			w.queue(filepath.ToSlash(rel))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", "error", err)
		}
	}
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if rel, _ := filepath.Rel(w.Root, path); Ignored(rel) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// queue records path and restarts the debounce timer.
func (w *Watcher) queue(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.Debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.timer = nil
	w.mu.Unlock()

	if len(paths) == 0 || w.OnChange == nil {
		return
	}
	sort.Strings(paths)
	w.OnChange(paths)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
