package services

import (
	"context"
	"fmt"

	"github.com/canopy-labs/proctor-cli/internal/core/domain"
	"github.com/canopy-labs/proctor-cli/internal/core/ports/driven"
	"github.com/canopy-labs/proctor-cli/internal/core/ports/driving"
)

// Ensure Builder implements the interface.
var _ driving.Builder = (*Builder)(nil)

// Builder edits one procedure's ordered field list in memory.
// Every edit rebuilds the field slice rather than mutating in place, so
// Fields snapshots taken by views stay stable. The single-active
// invariant is held structurally in activeID.
type Builder struct {
	proc     domain.Procedure
	activeID string
}

// NewBuilder creates a builder over a working copy of the procedure.
func NewBuilder(p domain.Procedure) *Builder {
	return &Builder{proc: p.Clone()}
}

// Procedure returns a copy of the procedure in its current state.
func (b *Builder) Procedure() domain.Procedure {
	return b.proc.Clone()
}

// Fields returns a copy of the current ordered field list.
func (b *Builder) Fields() []domain.Field {
	out := make([]domain.Field, len(b.proc.Fields))
	for i, f := range b.proc.Fields {
		out[i] = f.Clone()
	}
	return out
}

// AddField appends a new field with a generated unique id and type
// defaults, and makes it the active field.
func (b *Builder) AddField(t domain.FieldType) (domain.Field, error) {
	if !t.IsValid() {
		return domain.Field{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, t)
	}

	f := domain.NewField(t)
	next := append(b.snapshot(), f)
	b.replace(next)
	b.activeID = f.ID
	return f.Clone(), nil
}

// DuplicateField inserts a copy of the field directly after the
// original. The copy gets a fresh id and becomes active.
func (b *Builder) DuplicateField(id string) (domain.Field, error) {
	idx := b.indexOf(id)
	if idx < 0 {
		return domain.Field{}, domain.ErrFieldNotFound
	}

	dup := b.proc.Fields[idx].Clone()
	dup.ID = domain.NewField(dup.Type).ID

	cur := b.snapshot()
	next := make([]domain.Field, 0, len(cur)+1)
	next = append(next, cur[:idx+1]...)
	next = append(next, dup)
	next = append(next, cur[idx+1:]...)
	b.replace(next)
	b.activeID = dup.ID
	return dup.Clone(), nil
}

// RemoveField deletes the field. No confirmation, no undo.
func (b *Builder) RemoveField(id string) error {
	idx := b.indexOf(id)
	if idx < 0 {
		return domain.ErrFieldNotFound
	}

	cur := b.snapshot()
	next := make([]domain.Field, 0, len(cur)-1)
	next = append(next, cur[:idx]...)
	next = append(next, cur[idx+1:]...)
	b.replace(next)

	if b.activeID == id {
		b.activeID = ""
	}
	return nil
}

// UpdateField merges a partial patch into exactly one field.
func (b *Builder) UpdateField(id string, patch driving.FieldPatch) error {
	idx := b.indexOf(id)
	if idx < 0 {
		return domain.ErrFieldNotFound
	}

	next := b.snapshot()
	f := next[idx]

	if patch.Label != nil {
		f.Label = *patch.Label
	}
	if patch.Type != nil {
		if !patch.Type.IsValid() {
			return fmt.Errorf("%w: %q", domain.ErrUnsupportedType, *patch.Type)
		}
		f.Type = *patch.Type
		f.Placeholder = f.Type.DefaultPlaceholder()
		if f.Type.HasOptions() && len(f.Options) == 0 {
			f.Options = []string{"Option 1"}
		}
	}
	if patch.Required != nil {
		f.Required = *patch.Required
	}
	if patch.Placeholder != nil {
		f.Placeholder = *patch.Placeholder
	}
	if patch.Options != nil {
		f.Options = append([]string(nil), (*patch.Options)...)
	}
	if patch.SectionBreak != nil {
		f.SectionBreak = *patch.SectionBreak
	}

	next[idx] = f
	b.replace(next)
	return nil
}

// Reorder moves one field from index from to index to. All other
// fields keep their relative order (array move, not swap).
func (b *Builder) Reorder(from, to int) error {
	n := len(b.proc.Fields)
	if from < 0 || from >= n || to < 0 || to >= n {
		return domain.ErrIndexOutOfRange
	}
	if from == to {
		return nil
	}

	cur := b.snapshot()
	moved := cur[from]
	rest := make([]domain.Field, 0, n-1)
	rest = append(rest, cur[:from]...)
	rest = append(rest, cur[from+1:]...)

	next := make([]domain.Field, 0, n)
	next = append(next, rest[:to]...)
	next = append(next, moved)
	next = append(next, rest[to:]...)
	b.replace(next)
	return nil
}

// Activate expands the field for editing. Any previously active field
// collapses; headings are always inline-editable but may still hold
// the active slot for keyboard focus.
func (b *Builder) Activate(id string) error {
	if b.indexOf(id) < 0 {
		return domain.ErrFieldNotFound
	}
	b.activeID = id
	return nil
}

// Deactivate collapses the active field (canvas background click).
func (b *Builder) Deactivate() {
	b.activeID = ""
}

// ActiveFieldID reports the currently expanded field.
func (b *Builder) ActiveFieldID() (string, bool) {
	if b.activeID == "" {
		return "", false
	}
	return b.activeID, true
}

// SetFieldImage attaches an illustrative image reference to the prompt.
func (b *Builder) SetFieldImage(id, ref string) error {
	idx := b.indexOf(id)
	if idx < 0 {
		return domain.ErrFieldNotFound
	}

	next := b.snapshot()
	next[idx].Image = ref
	b.replace(next)
	return nil
}

// snapshot returns a fresh copy of the current field slice.
func (b *Builder) snapshot() []domain.Field {
	out := make([]domain.Field, len(b.proc.Fields))
	for i, f := range b.proc.Fields {
		out[i] = f.Clone()
	}
	return out
}

// replace swaps in a new field slice wholesale.
func (b *Builder) replace(fields []domain.Field) {
	b.proc.Fields = fields
}

func (b *Builder) indexOf(id string) int {
	for i := range b.proc.Fields {
		if b.proc.Fields[i].ID == id {
			return i
		}
	}
	return -1
}

// Ensure BuilderService implements the interface.
var _ driving.BuilderService = (*BuilderService)(nil)

// BuilderService opens builders over stored procedures.
type BuilderService struct {
	procedures driven.ProcedureStore
}

// NewBuilderService creates a builder service over the procedure store.
func NewBuilderService(procedures driven.ProcedureStore) *BuilderService {
	return &BuilderService{procedures: procedures}
}

// Edit loads a procedure and returns a builder over a working copy.
func (s *BuilderService) Edit(ctx context.Context, procedureID string) (driving.Builder, error) {
	p, err := s.procedures.Get(ctx, procedureID)
	if err != nil {
		return nil, fmt.Errorf("loading procedure: %w", err)
	}
	return NewBuilder(*p), nil
}

// EditNew creates a procedure with the given name and opens it.
func (s *BuilderService) EditNew(_ context.Context, name string) (driving.Builder, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: procedure name is empty", domain.ErrInvalidInput)
	}
	return NewBuilder(domain.NewProcedure(name)), nil
}

// Commit validates and persists the builder's current procedure state.
func (s *BuilderService) Commit(ctx context.Context, b driving.Builder) error {
	p := b.Procedure()
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.procedures.Save(ctx, p); err != nil {
		return fmt.Errorf("saving procedure: %w", err)
	}
	return nil
}
