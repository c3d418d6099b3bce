package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Procedure is a named, ordered list of fields defining an
// inspection/maintenance form template. The field slice order is the
// canonical ordering for both editing and execution rendering.
type Procedure struct {
	// ID is the unique identifier for the procedure.
	ID string `json:"id"`

	// Name is the human-readable template name.
	Name string `json:"name"`

	// Description explains what the procedure covers.
	Description string `json:"description,omitempty"`

	// Fields is the ordered field list. Edits replace the slice
	// wholesale rather than mutating elements in place.
	Fields []Field `json:"fields"`

	// CreatedAt is when the procedure was created.
	CreatedAt time.Time `json:"created_at,omitempty"`

	// UpdatedAt is when the procedure was last updated.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// NewProcedure creates an empty procedure with a generated id.
func NewProcedure(name string) Procedure {
	now := time.Now().UTC()
	return Procedure{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the procedure.
func (p Procedure) Clone() Procedure {
	c := p
	c.Fields = make([]Field, len(p.Fields))
	for i, f := range p.Fields {
		c.Fields[i] = f.Clone()
	}
	return c
}

// FieldByID returns the field with the given id, or ErrFieldNotFound.
func (p Procedure) FieldByID(id string) (*Field, error) {
	for i := range p.Fields {
		if p.Fields[i].ID == id {
			f := p.Fields[i].Clone()
			return &f, nil
		}
	}
	return nil, ErrFieldNotFound
}

// Validate checks the structural invariants: non-empty id, known field
// types and unique field ids.
func (p Procedure) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: procedure id is empty", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(p.Fields))
	for _, f := range p.Fields {
		if f.ID == "" {
			return fmt.Errorf("%w: field id is empty", ErrInvalidInput)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("%w: duplicate field id %q", ErrInvalidInput, f.ID)
		}
		seen[f.ID] = struct{}{}
		if !f.Type.IsValid() {
			return fmt.Errorf("%w: %q", ErrUnsupportedType, f.Type)
		}
	}
	return nil
}

// Execution is a completed or in-progress run of procedures against a
// work order. It pairs the opaque work order reference with the
// captured answers; persisting it is a store concern.
type Execution struct {
	// WorkOrderID is the opaque work order reference supplied by the caller.
	WorkOrderID string `json:"work_order_id"`

	// Answers holds the captured per-procedure, per-field values.
	Answers AnswerMap `json:"answers"`

	// UpdatedAt is when the answers were last changed.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// NewExecutionID generates an identifier for ad-hoc executions where the
// caller supplies no work order reference.
func NewExecutionID() string {
	return uuid.NewString()
}
