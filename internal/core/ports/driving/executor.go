package driving

import (
	"context"

	"github.com/canopy-labs/proctor-cli/internal/core/domain"
)

// FieldGroup is a render grouping of consecutive fields. Grouping is a
// rendering concern only: it never alters the field list or answers.
type FieldGroup struct {
	// Title is the section name for explicit sections, empty for flat runs.
	Title string

	// SectionID is the id of the section field opening the group, empty
	// for flat runs.
	SectionID string

	// Collapsible marks explicit sections, which default to open.
	Collapsible bool

	// Fields are the member fields in list order.
	Fields []domain.Field
}

// PhotoSource is one pending photo attachment. Reads of the payload are
// independent and may complete in any order; the executor serialises
// the appends so no entry is lost.
type PhotoSource struct {
	// Name is the display name of the file.
	Name string

	// Read returns the payload reference (URL or embedded encoding).
	// A failed read skips this source only.
	Read func(ctx context.Context) (string, error)
}

// Executor renders-and-binds a set of stacked procedures against one
// answer map. Every mutation emits the full updated map through the
// session's change callback; the caller owns the authoritative map.
type Executor interface {
	// Procedures returns the stacked procedures in render order.
	Procedures() []domain.Procedure

	// Values returns a copy of the current answer map.
	Values() domain.AnswerMap

	// Value returns the raw answer for one field, nil when unset.
	Value(procedureID, fieldID string) any

	// Readonly reports whether mutation is disabled.
	Readonly() bool

	// Groups partitions a procedure's fields into render groups.
	Groups(procedureID string) []FieldGroup

	// SetString binds text-like answers (text fields).
	SetString(procedureID, fieldID, value string) error

	// SetNumber binds numeric answers from raw input. Non-numeric input
	// coerces to 0 and is not an error.
	SetNumber(procedureID, fieldID, raw string) error

	// SetDate stores an ISO-8601 date string.
	SetDate(procedureID, fieldID, iso string) error

	// ToggleCheckbox flips a boolean answer.
	ToggleCheckbox(procedureID, fieldID string) error

	// ToggleChecklistOption toggles an option's presence in the answer
	// list. Rendering preserves the field's option order.
	ToggleChecklistOption(procedureID, fieldID, option string) error

	// SelectChoice sets an exclusive selection (multiple_choice,
	// yes_no_na). Reselecting the current choice is a no-op.
	SelectChoice(procedureID, fieldID, option string) error

	// SelectInspection sets the Pass/Flag/Fail verdict. Reselecting the
	// current verdict is a no-op.
	SelectInspection(procedureID, fieldID string, result domain.InspectionResult) error

	// AppendPhotos reads each source and appends the successful payloads
	// to the current photo list. Returns the number appended; failed
	// sources are skipped without discarding earlier appends.
	AppendPhotos(ctx context.Context, procedureID, fieldID string, sources []PhotoSource) (int, error)

	// RemovePhoto splices one photo out of the list by index.
	RemovePhoto(procedureID, fieldID string, index int) error

	// CommitSignature stores a signature raster encoding. An empty
	// encoding clears the signature.
	CommitSignature(procedureID, fieldID, encoding string) error
}

// ExecutorService opens execution sessions over stored procedures.
type ExecutorService interface {
	// Start opens a session over the given procedures for a work order,
	// resuming any previously captured answers.
	Start(ctx context.Context, workOrderID string, procedureIDs []string) (Executor, error)

	// StartReadonly opens a view-only session over captured answers.
	StartReadonly(ctx context.Context, workOrderID string, procedureIDs []string) (Executor, error)
}
