package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown field type.
	// Renderers skip such fields rather than failing the whole form.
	ErrUnsupportedType = errors.New("unsupported field type")

	// ErrFieldNotFound indicates a field id is not present in the procedure.
	ErrFieldNotFound = errors.New("field not found")

	// ErrIndexOutOfRange indicates a reorder or splice index outside the list.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrReadonly indicates a mutation was attempted on a readonly session.
	ErrReadonly = errors.New("session is readonly")

	// ErrDisplayOnly indicates a value operation on a display-only field
	// (headings, instructions and section markers never bind values).
	ErrDisplayOnly = errors.New("field is display-only")
)
