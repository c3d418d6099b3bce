package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canopy-labs/proctor-cli/internal/adapters/driven/storage/memory"
	"github.com/canopy-labs/proctor-cli/internal/core/services"
)

func newValidPorts() *Ports {
	store := memory.NewProcedureStore()
	return NewPorts(
		services.NewProcedureService(store),
		services.NewBuilderService(store),
		services.NewExecutionService(store, memory.NewExecutionStore()),
	)
}

func TestNewPorts(t *testing.T) {
	ports := newValidPorts()

	require.NotNil(t, ports)
	assert.NotNil(t, ports.Procedure)
	assert.NotNil(t, ports.Builder)
	assert.NotNil(t, ports.Executor)
	// Uploader is optional and starts unset.
	assert.Nil(t, ports.Uploader)
}

func TestPorts_Validate(t *testing.T) {
	ports := newValidPorts()

	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate_MissingProcedureService(t *testing.T) {
	ports := newValidPorts()
	ports.Procedure = nil

	assert.ErrorIs(t, ports.Validate(), ErrMissingProcedureService)
}

func TestPorts_Validate_MissingBuilderService(t *testing.T) {
	ports := newValidPorts()
	ports.Builder = nil

	assert.ErrorIs(t, ports.Validate(), ErrMissingBuilderService)
}

func TestPorts_Validate_MissingExecutorService(t *testing.T) {
	ports := newValidPorts()
	ports.Executor = nil

	assert.ErrorIs(t, ports.Validate(), ErrMissingExecutorService)
}
