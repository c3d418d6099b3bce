// Package tui provides an interactive terminal user interface for proctor.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/canopy-labs/proctor-cli/internal/core/ports/driven"
	"github.com/canopy-labs/proctor-cli/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Procedure manages the procedure template library.
	Procedure driving.ProcedureService

	// Builder opens edit sessions over stored procedures.
	Builder driving.BuilderService

	// Executor opens execution sessions over stored procedures.
	Executor driving.ExecutorService

	// Uploader stores photo and illustration blobs. Optional; when nil
	// the photo and image actions are unavailable.
	Uploader driven.Uploader
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	procedure driving.ProcedureService,
	builder driving.BuilderService,
	executor driving.ExecutorService,
) *Ports {
	return &Ports{
		Procedure: procedure,
		Builder:   builder,
		Executor:  executor,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Procedure == nil {
		return ErrMissingProcedureService
	}
	if p.Builder == nil {
		return ErrMissingBuilderService
	}
	if p.Executor == nil {
		return ErrMissingExecutorService
	}
	return nil
}
