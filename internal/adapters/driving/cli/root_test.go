package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canopy-labs/proctor-cli/internal/adapters/driven/storage/memory"
	svc "github.com/canopy-labs/proctor-cli/internal/core/services"
)

// setupTestServices wires the commands to in-memory stores.
func setupTestServices() func() {
	store := memory.NewProcedureStore()
	dir, _ := os.MkdirTemp("", "proctor-cli-test")

	SetServices(&Services{
		Procedure:    svc.NewProcedureService(store),
		Builder:      svc.NewBuilderService(store),
		Executor:     svc.NewExecutionService(store, memory.NewExecutionStore()),
		TemplatesDir: dir,
	})

	return func() {
		SetServices(nil)
		os.RemoveAll(dir)
	}
}

// execute runs the root command with args and captures output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "proctor", rootCmd.Use)
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")

	assert.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["tui"])
	assert.True(t, names["list"])
	assert.True(t, names["export"])
	assert.True(t, names["import"])
	assert.True(t, names["watch"])
	assert.True(t, names["version"])
}

func TestSetVersion(t *testing.T) {
	old := version
	defer SetVersion(old)

	SetVersion("9.9.9")
	assert.Equal(t, "9.9.9", version)

	// Empty string keeps the current version.
	SetVersion("")
	assert.Equal(t, "9.9.9", version)
}
