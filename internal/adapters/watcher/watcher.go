// Package watcher reports changes to contract sources using fsnotify.
package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/foundry/internal/core/domain"
	"go.trai.ch/foundry/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultDebounceWindow is the default time window for debouncing file events.
const DefaultDebounceWindow = 100 * time.Millisecond

// skippedDirs are directories that are never watched.
var skippedDirs = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

var _ ports.Watcher = (*Watcher)(nil)

// Watcher implements ports.Watcher for contract sources.
type Watcher struct {
	logger ports.Logger
	window time.Duration
}

// NewWatcher creates a watcher that batches events over window.
// A non-positive window uses DefaultDebounceWindow.
func NewWatcher(logger ports.Logger, window time.Duration) *Watcher {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Watcher{logger: logger, window: window}
}

// Watch watches root recursively until ctx is done.
// onChange receives sorted batches of changed contract paths, one batch at a time.
func (w *Watcher) Watch(ctx context.Context, root string, onChange func(paths []string)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}
	defer func() { _ = fsw.Close() }()

	for dir := range watchRecursively(root) {
		if err := fsw.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", dir)
		}
	}

	batches := make(chan []string)
	debouncer := NewDebouncer(w.window, func(paths []string) {
		select {
		case batches <- paths:
		case <-ctx.Done():
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-batches:
			onChange(paths)
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(fsw, debouncer, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error: " + err.Error())
		}
	}
}

func (w *Watcher) handle(fsw *fsnotify.Watcher, d *Debouncer, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if skippedDirs[info.Name()] {
				return
			}
			for dir := range watchRecursively(event.Name) {
				if err := fsw.Add(dir); err != nil {
					w.logger.Warn("failed to watch directory " + dir + ": " + err.Error())
				}
			}
			return
		}
	}

	if filepath.Ext(event.Name) == domain.ContractExtension {
		d.Add(event.Name)
	}
}

// watchRecursively yields root and every directory below it.
func watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are skipped
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && skippedDirs[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
