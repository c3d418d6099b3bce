package domain

// ChangeType describes what happened to a template file on disk.
type ChangeType string

const (
	// ChangeCreated indicates a new template file appeared.
	ChangeCreated ChangeType = "created"

	// ChangeUpdated indicates an existing template file was rewritten.
	ChangeUpdated ChangeType = "updated"

	// ChangeDeleted indicates a template file was removed or renamed away.
	ChangeDeleted ChangeType = "deleted"
)

// TemplateChange is a single observed change to a procedure template
// file in the watched templates directory.
type TemplateChange struct {
	Type ChangeType
	Path string
}
