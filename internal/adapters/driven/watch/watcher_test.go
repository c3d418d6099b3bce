package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canopy-labs/proctor-cli/internal/core/domain"
)

func TestNewWatcher_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "templates")

	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, w.Dir())
}

func TestWatcher_Watch_DetectsNewTemplate(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := w.Watch(ctx)
	require.NoError(t, err)

	template := filepath.Join(w.Dir(), "pump-check.json")
	go func() {
		time.Sleep(50 * time.Millisecond)
		os.WriteFile(template, []byte(`{"name":"Pump Check"}`), 0644)
	}()

	select {
	case change := <-changes:
		assert.Equal(t, domain.ChangeCreated, change.Type)
		assert.Contains(t, change.Path, "pump-check.json")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for template change event")
	}
}

func TestWatcher_Watch_DetectsRemoval(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)
	defer w.Close()

	template := filepath.Join(w.Dir(), "doomed.json")
	require.NoError(t, os.WriteFile(template, []byte("{}"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := w.Watch(ctx)
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		os.Remove(template)
	}()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case change := <-changes:
			if change.Type == domain.ChangeDeleted {
				assert.Contains(t, change.Path, "doomed.json")
				return
			}
		case <-deadline:
			t.Fatal("timeout waiting for deletion event")
		}
	}
}

func TestWatcher_Watch_CancelClosesChannel(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	changes, err := w.Watch(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, open := <-changes:
		assert.False(t, open, "channel should close after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for channel close")
	}
}

func TestWatcher_HandleFsEvent(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	jsonFile := filepath.Join(dir, "check.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte("{}"), 0644))
	textFile := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(textFile, []byte("x"), 0644))
	hiddenFile := filepath.Join(dir, ".draft.json")
	require.NoError(t, os.WriteFile(hiddenFile, []byte("{}"), 0644))
	subDir := filepath.Join(dir, "nested.json")
	require.NoError(t, os.Mkdir(subDir, 0755))

	tests := []struct {
		name     string
		event    fsnotify.Event
		expected *domain.TemplateChange
	}{
		{
			name:     "json create",
			event:    fsnotify.Event{Name: jsonFile, Op: fsnotify.Create},
			expected: &domain.TemplateChange{Type: domain.ChangeCreated, Path: jsonFile},
		},
		{
			name:     "json write",
			event:    fsnotify.Event{Name: jsonFile, Op: fsnotify.Write},
			expected: &domain.TemplateChange{Type: domain.ChangeUpdated, Path: jsonFile},
		},
		{
			name:     "json remove",
			event:    fsnotify.Event{Name: filepath.Join(dir, "gone.json"), Op: fsnotify.Remove},
			expected: &domain.TemplateChange{Type: domain.ChangeDeleted, Path: filepath.Join(dir, "gone.json")},
		},
		{
			name:     "json rename treated as delete",
			event:    fsnotify.Event{Name: filepath.Join(dir, "moved.json"), Op: fsnotify.Rename},
			expected: &domain.TemplateChange{Type: domain.ChangeDeleted, Path: filepath.Join(dir, "moved.json")},
		},
		{
			name:     "chmod ignored",
			event:    fsnotify.Event{Name: jsonFile, Op: fsnotify.Chmod},
			expected: nil,
		},
		{
			name:     "non-json ignored",
			event:    fsnotify.Event{Name: textFile, Op: fsnotify.Create},
			expected: nil,
		},
		{
			name:     "hidden file ignored",
			event:    fsnotify.Event{Name: hiddenFile, Op: fsnotify.Create},
			expected: nil,
		},
		{
			name:     "directory ignored",
			event:    fsnotify.Event{Name: subDir, Op: fsnotify.Create},
			expected: nil,
		},
		{
			name:     "combined write and chmod",
			event:    fsnotify.Event{Name: jsonFile, Op: fsnotify.Write | fsnotify.Chmod},
			expected: &domain.TemplateChange{Type: domain.ChangeUpdated, Path: jsonFile},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change := w.handleFsEvent(tt.event)
			if tt.expected == nil {
				assert.Nil(t, change)
				return
			}
			require.NotNil(t, change)
			assert.Equal(t, *tt.expected, *change)
		})
	}
}
