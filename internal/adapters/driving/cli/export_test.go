package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCmd_Use(t *testing.T) {
	assert.Equal(t, "export [id]", exportCmd.Use)
}

func TestExportCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("export")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestExportCmd_WritesToStdout(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	p, err := services.Procedure.Create(context.Background(), "Valve Inspection", "")
	require.NoError(t, err)

	out, err := execute("export", p.ID)

	assert.NoError(t, err)
	assert.Contains(t, out, `"name": "Valve Inspection"`)
}

func TestExportCmd_WritesToFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { exportOutput = "" }()

	p, err := services.Procedure.Create(context.Background(), "Valve Inspection", "")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "valve.json")
	out, err := execute("export", p.ID, "--output", path)

	assert.NoError(t, err)
	assert.Contains(t, out, "Exported to")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Valve Inspection")
}

func TestExportCmd_UnknownID(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("export", "missing")

	assert.Error(t, err)
}
