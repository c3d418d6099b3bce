package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCmd_Use(t *testing.T) {
	assert.Equal(t, "import [file]", importCmd.Use)
}

func TestImportCmd_RoundTrip(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	ctx := context.Background()
	p, err := services.Procedure.Create(ctx, "Boiler Check", "")
	require.NoError(t, err)

	data, err := services.Procedure.Export(ctx, p.ID)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "boiler.json")
	require.NoError(t, os.WriteFile(path, data, 0600))
	require.NoError(t, services.Procedure.Delete(ctx, p.ID))

	out, err := execute("import", path)

	assert.NoError(t, err)
	assert.Contains(t, out, `Imported "Boiler Check"`)

	restored, err := services.Procedure.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Boiler Check", restored.Name)
}

func TestImportCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("import", filepath.Join(t.TempDir(), "nope.json"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading template")
}

func TestImportCmd_InvalidJSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := execute("import", path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "importing template")
}
