package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/canopy-labs/proctor-cli/internal/core/domain"
	"github.com/canopy-labs/proctor-cli/internal/core/ports/driven"
	"github.com/canopy-labs/proctor-cli/internal/core/ports/driving"
)

// Ensure ProcedureService implements the interface.
var _ driving.ProcedureService = (*ProcedureService)(nil)

// ProcedureService manages the procedure template library.
type ProcedureService struct {
	store driven.ProcedureStore
}

// NewProcedureService creates a procedure service over the store.
func NewProcedureService(store driven.ProcedureStore) *ProcedureService {
	return &ProcedureService{store: store}
}

// Create stores a new empty procedure.
func (s *ProcedureService) Create(ctx context.Context, name, description string) (*domain.Procedure, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: procedure name is empty", domain.ErrInvalidInput)
	}

	p := domain.NewProcedure(name)
	p.Description = description
	if err := s.store.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("saving procedure: %w", err)
	}
	return &p, nil
}

// Get retrieves a procedure by id.
func (s *ProcedureService) Get(ctx context.Context, id string) (*domain.Procedure, error) {
	return s.store.Get(ctx, id)
}

// List returns all stored procedures sorted by name.
func (s *ProcedureService) List(ctx context.Context) ([]domain.Procedure, error) {
	procedures, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing procedures: %w", err)
	}
	sort.Slice(procedures, func(i, j int) bool {
		if procedures[i].Name == procedures[j].Name {
			return procedures[i].ID < procedures[j].ID
		}
		return procedures[i].Name < procedures[j].Name
	})
	return procedures, nil
}

// Save validates and persists a procedure.
func (s *ProcedureService) Save(ctx context.Context, p domain.Procedure) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	return s.store.Save(ctx, p)
}

// Rename changes a procedure's name.
func (s *ProcedureService) Rename(ctx context.Context, id, name string) error {
	if name == "" {
		return fmt.Errorf("%w: procedure name is empty", domain.ErrInvalidInput)
	}

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	p.Name = name
	p.UpdatedAt = time.Now().UTC()
	return s.store.Save(ctx, *p)
}

// Duplicate copies a procedure under a new id. Field ids are
// regenerated so answers never alias across copies.
func (s *ProcedureService) Duplicate(ctx context.Context, id string) (*domain.Procedure, error) {
	src, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	dup := src.Clone()
	dup.ID = uuid.NewString()
	dup.Name = src.Name + " (copy)"
	now := time.Now().UTC()
	dup.CreatedAt = now
	dup.UpdatedAt = now
	for i := range dup.Fields {
		dup.Fields[i].ID = uuid.NewString()
	}

	if err := s.store.Save(ctx, dup); err != nil {
		return nil, fmt.Errorf("saving duplicate: %w", err)
	}
	return &dup, nil
}

// Delete removes a procedure.
func (s *ProcedureService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Export serialises a procedure to its JSON template form.
func (s *ProcedureService) Export(ctx context.Context, id string) ([]byte, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding procedure: %w", err)
	}
	return data, nil
}

// Import parses a JSON template and stores it. A missing id gets
// generated; the template is validated before saving.
func (s *ProcedureService) Import(ctx context.Context, data []byte) (*domain.Procedure, error) {
	var p domain.Procedure
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	for i := range p.Fields {
		if p.Fields[i].ID == "" {
			p.Fields[i].ID = uuid.NewString()
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("saving imported procedure: %w", err)
	}
	return &p, nil
}
