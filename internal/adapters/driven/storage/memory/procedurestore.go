// Package memory provides in-memory implementations of the driven
// storage ports, used by tests and as the default when no data
// directory is configured.
package memory

import (
	"context"
	"sync"

	"github.com/canopy-labs/proctor-cli/internal/core/domain"
	"github.com/canopy-labs/proctor-cli/internal/core/ports/driven"
)

// Ensure ProcedureStore implements the interface.
var _ driven.ProcedureStore = (*ProcedureStore)(nil)

// ProcedureStore is an in-memory implementation of driven.ProcedureStore.
type ProcedureStore struct {
	mu         sync.RWMutex
	procedures map[string]domain.Procedure
}

// NewProcedureStore creates a new in-memory procedure store.
func NewProcedureStore() *ProcedureStore {
	return &ProcedureStore{
		procedures: make(map[string]domain.Procedure),
	}
}

// Save stores or updates a procedure.
func (s *ProcedureStore) Save(_ context.Context, p domain.Procedure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.procedures[p.ID] = p.Clone()
	return nil
}

// Get retrieves a procedure by id.
func (s *ProcedureStore) Get(_ context.Context, id string) (*domain.Procedure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.procedures[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := p.Clone()
	return &c, nil
}

// Delete removes a procedure.
func (s *ProcedureStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.procedures, id)
	return nil
}

// List returns all stored procedures.
func (s *ProcedureStore) List(_ context.Context) ([]domain.Procedure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Procedure, 0, len(s.procedures))
	for _, p := range s.procedures {
		result = append(result, p.Clone())
	}
	return result, nil
}
