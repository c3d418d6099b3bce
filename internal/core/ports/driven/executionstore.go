package driven

import (
	"context"

	"github.com/canopy-labs/proctor-cli/internal/core/domain"
)

// ExecutionStore persists captured answer maps per work order.
// The executor itself never persists; the execution service hands the
// updated map here on every change.
type ExecutionStore interface {
	// Save stores or updates the answers for a work order.
	Save(ctx context.Context, e domain.Execution) error

	// Get retrieves the answers for a work order.
	Get(ctx context.Context, workOrderID string) (*domain.Execution, error)

	// List returns all stored executions.
	List(ctx context.Context) ([]domain.Execution, error)

	// Delete removes a work order's answers.
	Delete(ctx context.Context, workOrderID string) error
}
