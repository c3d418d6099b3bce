package driving

import (
	"context"

	"github.com/canopy-labs/proctor-cli/internal/core/domain"
)

// FieldPatch is a partial update applied to exactly one field.
// Nil members leave the corresponding field attribute untouched.
type FieldPatch struct {
	// Label replaces the prompt text.
	Label *string

	// Type switches the field kind. Switching to a choice kind seeds a
	// default option list if none is present.
	Type *domain.FieldType

	// Required toggles the advisory required marker.
	Required *bool

	// Placeholder replaces the hint text.
	Placeholder *string

	// Options replaces the ordered option list.
	Options *[]string

	// SectionBreak toggles the start-new-group flag.
	SectionBreak *bool
}

// Builder maintains the authoritative ordered field list for one
// procedure while it is being edited, plus the single active field.
// All list edits replace the underlying slice wholesale; Fields always
// returns a copy.
type Builder interface {
	// Procedure returns a copy of the procedure in its current state.
	Procedure() domain.Procedure

	// Fields returns a copy of the current ordered field list.
	Fields() []domain.Field

	// AddField appends a new field of the given type with a generated
	// unique id and type defaults, and makes it the active field.
	AddField(t domain.FieldType) (domain.Field, error)

	// DuplicateField inserts a copy of the field (fresh id) directly
	// after the original and makes the copy active.
	DuplicateField(id string) (domain.Field, error)

	// RemoveField deletes the field. If it was active, the active
	// selection is cleared. There is no undo.
	RemoveField(id string) error

	// UpdateField merges a partial patch into exactly one field.
	// All other fields and the list order are unchanged.
	UpdateField(id string, patch FieldPatch) error

	// Reorder moves the field at from to position to, preserving the
	// relative order of all other fields.
	Reorder(from, to int) error

	// Activate expands the given field for editing, collapsing any
	// previously active field.
	Activate(id string) error

	// Deactivate collapses the active field, if any.
	Deactivate()

	// ActiveFieldID reports the currently expanded field.
	ActiveFieldID() (string, bool)

	// SetFieldImage attaches an illustrative image reference to the
	// field's prompt. The reference comes from the upload collaborator.
	SetFieldImage(id, ref string) error
}

// BuilderService opens builders over stored procedures.
type BuilderService interface {
	// Edit loads a procedure and returns a builder over a working copy.
	Edit(ctx context.Context, procedureID string) (Builder, error)

	// EditNew creates a procedure with the given name and returns a
	// builder over it.
	EditNew(ctx context.Context, name string) (Builder, error)

	// Commit persists the builder's current procedure state.
	Commit(ctx context.Context, b Builder) error
}
