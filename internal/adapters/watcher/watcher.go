// Package watcher reports debounced file changes for compile --watch.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/ports"
	"github.com/fsnotify/fsnotify"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	logger ports.Logger
	window time.Duration
}

// NewWatcher creates a watcher with the default debounce window.
func NewWatcher(logger ports.Logger) *Watcher {
	return NewWatcherWithWindow(logger, DefaultDebounceWindow)
}

// NewWatcherWithWindow creates a watcher with a custom debounce window.
func NewWatcherWithWindow(logger ports.Logger, window time.Duration) *Watcher {
	return &Watcher{logger: logger, window: window}
}

// Watch blocks until ctx is cancelled. onChange runs on the calling goroutine,
// so batches never overlap.
func (w *Watcher) Watch(ctx context.Context, dirs []string, onChange func(paths []string)) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}
	defer func() { _ = fsWatcher.Close() }()

	for _, dir := range uniqueDirs(dirs) {
		if err := fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", dir)
		}
	}

	batches := make(chan []string)
	done := make(chan struct{})
	defer close(done)
	debouncer := NewDebouncer(w.window, func(paths []string) {
		select {
		case batches <- paths:
		case <-done:
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-batches:
			onChange(paths)
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if relevant(event) {
				debouncer.Add(event.Name)
			}
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(fmt.Sprintf("watcher: %v", err))
		}
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func uniqueDirs(dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		out = append(out, filepath.Clean(dir))
	}
	slices.Sort(out)
	return slices.Compact(out)
}
