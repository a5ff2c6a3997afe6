package site

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ziadkadry99/navinject/internal/walker"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 300 * time.Millisecond

// ChangeFunc is called with the site-relative paths that changed since the
// previous call.
type ChangeFunc func(ctx context.Context, changed []string)

// Watcher re-runs injection when pages or the fragment change on disk.
type Watcher struct {
	root     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	relevant func(relPath string) bool
	onChange ChangeFunc
	logger   *zap.Logger
}

// NewWatcher creates a Watcher over every directory below root. relevant
// filters site-relative paths; nil accepts all files.
func NewWatcher(root string, debounce time.Duration, relevant func(string) bool, onChange ChangeFunc, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if relevant == nil {
		relevant = func(string) bool { return true }
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Watcher{
		root:     abs,
		watcher:  fw,
		debounce: debounce,
		relevant: relevant,
		onChange: onChange,
		logger:   logger,
	}
	if err := w.addTree(abs); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches dir and all of its subdirectories, skipping the walker's
// default excluded directories.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && walker.ExcludedDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}

// Run blocks until ctx is done, calling onChange once per burst of
// relevant events.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.logger.Info("watching for changes", zap.String("root", w.root))

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("watch new directory", zap.Error(err))
					}
					continue
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			rel, err := filepath.Rel(w.root, event.Name)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if !w.relevant(rel) {
				continue
			}
			pending[rel] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = make(map[string]bool)

			w.logger.Debug("change detected", zap.Strings("paths", changed))
			w.onChange(ctx, changed)
		}
	}
}

// Close releases the underlying watcher without running.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
