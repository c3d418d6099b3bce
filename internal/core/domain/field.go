package domain

import (
	"github.com/google/uuid"
)

// FieldType identifies the kind of a procedure field. The set is closed:
// adding a kind requires a selector entry (Icon/Description), a default
// placeholder and an executor render branch.
type FieldType string

const (
	// FieldText is a free-form single-line text answer.
	FieldText FieldType = "text"
	// FieldCheckbox is a single boolean toggle.
	FieldCheckbox FieldType = "checkbox"
	// FieldNumber is a numeric answer.
	FieldNumber FieldType = "number"
	// FieldAmount is a numeric quantity (e.g. litres, cycles).
	FieldAmount FieldType = "amount"
	// FieldMultipleChoice is an exclusive selection from Options.
	FieldMultipleChoice FieldType = "multiple_choice"
	// FieldChecklist is a multi-selection from Options.
	FieldChecklist FieldType = "checklist"
	// FieldInspectionCheck is a Pass/Flag/Fail verdict.
	FieldInspectionCheck FieldType = "inspection_check"
	// FieldHeading is a display-only heading line.
	FieldHeading FieldType = "heading"
	// FieldPhoto captures a list of image references.
	FieldPhoto FieldType = "photo"
	// FieldInstruction is a display-only instruction paragraph.
	FieldInstruction FieldType = "instruction"
	// FieldDate is an ISO-8601 date answer.
	FieldDate FieldType = "date"
	// FieldCurrency is a monetary numeric answer.
	FieldCurrency FieldType = "currency"
	// FieldSignature captures a freehand signature raster.
	FieldSignature FieldType = "signature"
	// FieldYesNoNA is an exclusive Yes/No/N/A selection.
	FieldYesNoNA FieldType = "yes_no_na"
	// FieldSection starts a named collapsible group of fields.
	FieldSection FieldType = "section"
)

// AllFieldTypes returns every known field type in selector order.
func AllFieldTypes() []FieldType {
	return []FieldType{
		FieldText,
		FieldCheckbox,
		FieldNumber,
		FieldAmount,
		FieldMultipleChoice,
		FieldChecklist,
		FieldInspectionCheck,
		FieldHeading,
		FieldPhoto,
		FieldInstruction,
		FieldDate,
		FieldCurrency,
		FieldSignature,
		FieldYesNoNA,
		FieldSection,
	}
}

// IsValid returns true if the field type is a known kind.
func (t FieldType) IsValid() bool {
	for _, known := range AllFieldTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// String returns the wire name of the field type.
func (t FieldType) String() string {
	return string(t)
}

// Description returns the human-readable name shown in the type selector.
func (t FieldType) Description() string {
	switch t {
	case FieldText:
		return "Text"
	case FieldCheckbox:
		return "Checkbox"
	case FieldNumber:
		return "Number"
	case FieldAmount:
		return "Amount"
	case FieldMultipleChoice:
		return "Multiple Choice"
	case FieldChecklist:
		return "Checklist"
	case FieldInspectionCheck:
		return "Inspection Check"
	case FieldHeading:
		return "Heading"
	case FieldPhoto:
		return "Photo"
	case FieldInstruction:
		return "Instruction"
	case FieldDate:
		return "Date"
	case FieldCurrency:
		return "Currency"
	case FieldSignature:
		return "Signature"
	case FieldYesNoNA:
		return "Yes / No / N/A"
	case FieldSection:
		return "Section"
	default:
		return "Unknown"
	}
}

// Icon returns the glyph shown next to the type in the selector.
func (t FieldType) Icon() string {
	switch t {
	case FieldText:
		return "✎"
	case FieldCheckbox:
		return "☑"
	case FieldNumber, FieldAmount:
		return "#"
	case FieldMultipleChoice:
		return "◉"
	case FieldChecklist:
		return "≣"
	case FieldInspectionCheck:
		return "✓"
	case FieldHeading:
		return "H"
	case FieldPhoto:
		return "▣"
	case FieldInstruction:
		return "¶"
	case FieldDate:
		return "▤"
	case FieldCurrency:
		return "$"
	case FieldSignature:
		return "✍"
	case FieldYesNoNA:
		return "?"
	case FieldSection:
		return "§"
	default:
		return "·"
	}
}

// DefaultPlaceholder returns the hint text a freshly added field carries.
func (t FieldType) DefaultPlaceholder() string {
	switch t {
	case FieldText:
		return "Enter answer"
	case FieldNumber, FieldAmount:
		return "Enter a number"
	case FieldCurrency:
		return "Enter an amount"
	case FieldDate:
		return "YYYY-MM-DD"
	case FieldHeading:
		return "Heading"
	case FieldInstruction:
		return "Add instructions"
	case FieldSection:
		return "New section"
	case FieldPhoto:
		return "Attach photos"
	case FieldSignature:
		return "Sign here"
	default:
		return ""
	}
}

// IsDisplayOnly returns true for kinds that never bind an answer value.
func (t FieldType) IsDisplayOnly() bool {
	return t == FieldHeading || t == FieldInstruction || t == FieldSection
}

// HasOptions returns true for kinds that carry an ordered option list.
func (t FieldType) HasOptions() bool {
	return t == FieldMultipleChoice || t == FieldChecklist
}

// ValueKind describes the answer shape a field type binds to.
type ValueKind int

const (
	// ValueNone marks display-only kinds.
	ValueNone ValueKind = iota
	// ValueString is a single string answer.
	ValueString
	// ValueNumber is a float64 answer.
	ValueNumber
	// ValueBool is a boolean answer.
	ValueBool
	// ValueStringList is an ordered list of string answers.
	ValueStringList
)

// ValueKind returns the answer shape for this field type.
func (t FieldType) ValueKind() ValueKind {
	switch t {
	case FieldText, FieldDate, FieldSignature, FieldMultipleChoice,
		FieldInspectionCheck, FieldYesNoNA:
		return ValueString
	case FieldNumber, FieldAmount, FieldCurrency:
		return ValueNumber
	case FieldCheckbox:
		return ValueBool
	case FieldChecklist, FieldPhoto:
		return ValueStringList
	default:
		return ValueNone
	}
}

// InspectionResult is the fixed verdict set for inspection_check fields.
type InspectionResult string

const (
	// InspectionPass indicates the inspected item is acceptable.
	InspectionPass InspectionResult = "Pass"
	// InspectionFlag indicates the item needs attention but passed.
	InspectionFlag InspectionResult = "Flag"
	// InspectionFail indicates the item failed inspection.
	InspectionFail InspectionResult = "Fail"
)

// AllInspectionResults returns the verdicts in render order.
func AllInspectionResults() []InspectionResult {
	return []InspectionResult{InspectionPass, InspectionFlag, InspectionFail}
}

// YesNoNAOptions returns the fixed option set for yes_no_na fields.
func YesNoNAOptions() []string {
	return []string{"Yes", "No", "N/A"}
}

// Attachment is a read-only reference record shown alongside a field.
// Attachments are supplementary material, never part of the answer.
type Attachment struct {
	// URL is the stable reference returned by the upload collaborator.
	URL string `json:"url"`

	// Name is the display name of the attachment.
	Name string `json:"name"`

	// Type is the media type hint (e.g. "image/png", "application/pdf").
	Type string `json:"type"`
}

// Field is one typed prompt within a procedure.
type Field struct {
	// ID is the stable unique identifier within the procedure.
	// Assigned at creation, never reused.
	ID string `json:"id"`

	// Type is the field kind.
	Type FieldType `json:"type"`

	// Label is the display prompt. May be empty while authoring.
	Label string `json:"label"`

	// Required marks the field as mandatory. Advisory only: neither the
	// builder nor the executor enforces it.
	Required bool `json:"required"`

	// Placeholder is the hint shown in the collapsed/empty state.
	Placeholder string `json:"placeholder,omitempty"`

	// Image is an optional illustrative attachment reference for the
	// prompt itself, distinct from answers.
	Image string `json:"image,omitempty"`

	// Options is the ordered option list for choice-like kinds.
	Options []string `json:"options,omitempty"`

	// Attachments are read-only reference records rendered with the field.
	Attachments []Attachment `json:"attachments,omitempty"`

	// SectionBreak starts a new flat render group before this field.
	SectionBreak bool `json:"section_break,omitempty"`
}

// NewField creates a field of the given type with a generated id and
// type-appropriate defaults.
func NewField(t FieldType) Field {
	f := Field{
		ID:          uuid.NewString(),
		Type:        t,
		Required:    false,
		Placeholder: t.DefaultPlaceholder(),
	}
	if t.HasOptions() {
		f.Options = []string{"Option 1"}
	}
	return f
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	c := f
	if f.Options != nil {
		c.Options = append([]string(nil), f.Options...)
	}
	if f.Attachments != nil {
		c.Attachments = append([]Attachment(nil), f.Attachments...)
	}
	return c
}
