package driven

import (
	"context"

	"github.com/canopy-labs/proctor-cli/internal/core/domain"
)

// ProcedureStore persists procedure templates.
type ProcedureStore interface {
	// Save stores or updates a procedure.
	Save(ctx context.Context, p domain.Procedure) error

	// Get retrieves a procedure by id.
	Get(ctx context.Context, id string) (*domain.Procedure, error)

	// Delete removes a procedure.
	Delete(ctx context.Context, id string) error

	// List returns all stored procedures.
	List(ctx context.Context) ([]domain.Procedure, error)
}
