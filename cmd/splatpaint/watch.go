package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/taigrr/splat/internal/logger"
)

const watchDebounce = 200 * time.Millisecond

// watcher reports changes to a set of files. It watches their directories
// so that editors which replace files on save are still seen.
type watcher struct {
	fs    *fsnotify.Watcher
	files map[string]bool
}

func newWatcher(paths ...string) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{fs: fsw, files: make(map[string]bool)}

	dirs := make(map[string]bool)
	for _, p := range paths {
		if p == "" || filepath.Ext(p) == "" {
			// Built-in primitives have nothing to watch.
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// matches reports whether ev touches a watched file.
func (w *watcher) matches(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	return err == nil && w.files[abs]
}

// Run calls onChange once per burst of changes until ctx is done.
func (w *watcher) Run(ctx context.Context, onChange func()) {
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.matches(ev) {
				logger.Debug("file changed", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
				timer.Reset(watchDebounce)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error", zap.Error(err))
		case <-timer.C:
			onChange()
		}
	}
}

// Close stops watching.
func (w *watcher) Close() error {
	return w.fs.Close()
}
