// Package watch observes a templates directory for procedure template
// files exported as JSON. Changes are surfaced as domain.TemplateChange
// values so the driving side can reload or re-import templates without
// polling the filesystem.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/canopy-labs/proctor-cli/internal/core/domain"
	"github.com/canopy-labs/proctor-cli/internal/logger"
)

// Watcher watches a single templates directory for JSON template files.
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the given templates directory,
// creating the directory if it does not exist. If dir is empty,
// defaults to ~/.proctor/templates.
func NewWatcher(dir string) (*Watcher, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".proctor", "templates")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	return &Watcher{dir: dir}, nil
}

// Dir returns the watched templates directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Watch starts watching and returns a channel of template changes.
// The channel is closed when the context is cancelled or the watcher
// is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan domain.TemplateChange, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return nil, err
	}
	w.watcher = fsw

	changes := make(chan domain.TemplateChange)

	go func() {
		defer close(changes)
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				change := w.handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}

			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("template watcher error: %v", err)
			}
		}
	}()

	return changes, nil
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	if w.watcher == nil {
		return nil
	}
	return w.watcher.Close()
}

// handleFsEvent maps a filesystem event to a template change.
// Returns nil for events that should be ignored: non-JSON files,
// hidden files, directories and chmod-only events.
func (w *Watcher) handleFsEvent(event fsnotify.Event) *domain.TemplateChange {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
		return nil
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
			return nil
		}
		return &domain.TemplateChange{Type: domain.ChangeCreated, Path: event.Name}

	case event.Op.Has(fsnotify.Write):
		if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
			return nil
		}
		return &domain.TemplateChange{Type: domain.ChangeUpdated, Path: event.Name}

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		return &domain.TemplateChange{Type: domain.ChangeDeleted, Path: event.Name}

	default:
		return nil
	}
}
