package driving

import (
	"context"

	"github.com/canopy-labs/proctor-cli/internal/core/domain"
)

// ProcedureService manages the procedure template library.
type ProcedureService interface {
	// Create stores a new empty procedure.
	Create(ctx context.Context, name, description string) (*domain.Procedure, error)

	// Get retrieves a procedure by id.
	Get(ctx context.Context, id string) (*domain.Procedure, error)

	// List returns all stored procedures sorted by name.
	List(ctx context.Context) ([]domain.Procedure, error)

	// Save validates and persists a procedure.
	Save(ctx context.Context, p domain.Procedure) error

	// Rename changes a procedure's name.
	Rename(ctx context.Context, id, name string) error

	// Duplicate copies a procedure under a new id, regenerating all
	// field ids.
	Duplicate(ctx context.Context, id string) (*domain.Procedure, error)

	// Delete removes a procedure.
	Delete(ctx context.Context, id string) error

	// Export serialises a procedure to its JSON template form.
	Export(ctx context.Context, id string) ([]byte, error)

	// Import parses a JSON template and stores it as a new procedure.
	Import(ctx context.Context, data []byte) (*domain.Procedure, error)
}
