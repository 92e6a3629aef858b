package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a config file and invokes a callback when it is written.
// The host can use it to re-feed settings (for example re-publishing the
// kernel debug level) without restarting.
type Watcher struct {
	path     string
	onChange func(path string)
	watcher  *fsnotify.Watcher
}

// NewWatcher creates a watcher for the given file. The callback runs on the
// watcher goroutine for every write or create affecting the file.
func NewWatcher(path string, onChange func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory: editors commonly replace files on save.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return &Watcher{path: path, onChange: onChange, watcher: fsw}, nil
}

// Start runs the watch loop until the context is cancelled or the watcher is
// closed.
func (w *Watcher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(w.path) {
					continue
				}
				if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
					w.onChange(w.path)
				}
			case _, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close file watcher: %w", err)
	}
	return nil
}
