// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/canopy-labs/proctor-cli/internal/core/domain"
	"github.com/canopy-labs/proctor-cli/internal/core/ports/driving"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewProcedures is the procedure library view.
	ViewProcedures
	// ViewBuilder is the procedure builder view.
	ViewBuilder
	// ViewExecutor is the procedure execution view.
	ViewExecutor
	// ViewSignature is the signature capture view.
	ViewSignature
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewProcedures:
		return "procedures"
	case ViewBuilder:
		return "builder"
	case ViewExecutor:
		return "executor"
	case ViewSignature:
		return "signature"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// ProceduresLoaded carries the procedure library from the service.
type ProceduresLoaded struct {
	Procedures []domain.Procedure
	Err        error
}

// ProcedureDeleted signals a procedure was removed from the library.
type ProcedureDeleted struct {
	ID  string
	Err error
}

// ProcedureDuplicated signals a procedure was copied in the library.
type ProcedureDuplicated struct {
	Procedure *domain.Procedure
	Err       error
}

// ProcedureExported signals a procedure was written as a JSON template.
type ProcedureExported struct {
	ID   string
	Path string
	Err  error
}

// BuilderOpened carries a fresh builder session for a procedure.
type BuilderOpened struct {
	Builder driving.Builder
	Err     error
}

// BuilderCommitted signals the builder's procedure was persisted.
type BuilderCommitted struct {
	ProcedureID string
	Err         error
}

// ExecutorOpened carries a fresh execution session for a work order.
type ExecutorOpened struct {
	Executor    driving.Executor
	WorkOrderID string
	Readonly    bool
	Err         error
}

// PhotosAppended signals a batch of photo reads finished.
type PhotosAppended struct {
	ProcedureID string
	FieldID     string
	Appended    int
	Err         error
}

// SignatureRequested asks the app to open the signature pad for a field.
type SignatureRequested struct {
	ProcedureID string
	FieldID     string
	Current     string
	Readonly    bool
}

// SignatureCommitted carries a finished signature back to the executor.
type SignatureCommitted struct {
	ProcedureID string
	FieldID     string
	Encoding    string
}

// SignatureCancelled signals the pad was dismissed without committing.
type SignatureCancelled struct{}
