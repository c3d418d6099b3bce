package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canopy-labs/proctor-cli/internal/adapters/driven/watch"
	"github.com/canopy-labs/proctor-cli/internal/core/domain"
)

func TestWatchCmd_Use(t *testing.T) {
	assert.Equal(t, "watch", watchCmd.Use)
}

func TestWatchCmd_NoServices(t *testing.T) {
	SetServices(nil)

	_, err := execute("watch")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "services not configured")
}

func TestSyncTemplates_ImportsDroppedFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	dir := services.TemplatesDir
	watcher, err := watch.NewWatcher(dir)
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	imported := make(chan *domain.Procedure, 1)
	go func() {
		_ = syncTemplates(ctx, watcher, func(p *domain.Procedure) {
			imported <- p
		})
	}()

	// Give the watcher a moment to start before dropping the file.
	time.Sleep(100 * time.Millisecond)

	template := `{"name": "Dropped Template", "fields": []}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dropped.json"), []byte(template), 0600))

	select {
	case p := <-imported:
		assert.Equal(t, "Dropped Template", p.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("template was not imported")
	}

	procedures, err := services.Procedure.List(context.Background())
	require.NoError(t, err)
	require.Len(t, procedures, 1)
	assert.Equal(t, "Dropped Template", procedures[0].Name)
}

func TestSyncTemplates_IgnoresInvalidTemplate(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	dir := services.TemplatesDir
	watcher, err := watch.NewWatcher(dir)
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = syncTemplates(ctx, watcher, nil)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{broken"), 0600))
	time.Sleep(300 * time.Millisecond)

	procedures, err := services.Procedure.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, procedures)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sync loop did not stop on cancel")
	}
}
