package memory

import (
	"context"
	"sync"

	"github.com/canopy-labs/proctor-cli/internal/core/domain"
	"github.com/canopy-labs/proctor-cli/internal/core/ports/driven"
)

// Ensure ExecutionStore implements the interface.
var _ driven.ExecutionStore = (*ExecutionStore)(nil)

// ExecutionStore is an in-memory implementation of driven.ExecutionStore.
type ExecutionStore struct {
	mu         sync.RWMutex
	executions map[string]domain.Execution
}

// NewExecutionStore creates a new in-memory execution store.
func NewExecutionStore() *ExecutionStore {
	return &ExecutionStore{
		executions: make(map[string]domain.Execution),
	}
}

// Save stores or updates the answers for a work order.
func (s *ExecutionStore) Save(_ context.Context, e domain.Execution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.Answers = e.Answers.Clone()
	s.executions[e.WorkOrderID] = e
	return nil
}

// Get retrieves the answers for a work order.
func (s *ExecutionStore) Get(_ context.Context, workOrderID string) (*domain.Execution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.executions[workOrderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := e
	c.Answers = e.Answers.Clone()
	return &c, nil
}

// List returns all stored executions.
func (s *ExecutionStore) List(_ context.Context) ([]domain.Execution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Execution, 0, len(s.executions))
	for _, e := range s.executions {
		c := e
		c.Answers = e.Answers.Clone()
		result = append(result, c)
	}
	return result, nil
}

// Delete removes a work order's answers.
func (s *ExecutionStore) Delete(_ context.Context, workOrderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.executions, workOrderID)
	return nil
}
