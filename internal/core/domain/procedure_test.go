package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProcedure(t *testing.T) {
	p := NewProcedure("Pump Inspection")

	require.NotEmpty(t, p.ID)
	assert.Equal(t, "Pump Inspection", p.Name)
	assert.Empty(t, p.Fields)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestProcedure_Clone_IsDeep(t *testing.T) {
	p := Procedure{
		ID:   "p1",
		Name: "Original",
		Fields: []Field{
			{ID: "f1", Type: FieldChecklist, Options: []string{"A"}},
		},
	}

	c := p.Clone()
	c.Fields[0].Options[0] = "Z"
	c.Fields = append(c.Fields, Field{ID: "f2", Type: FieldText})

	assert.Equal(t, "A", p.Fields[0].Options[0])
	assert.Len(t, p.Fields, 1)
}

func TestProcedure_FieldByID(t *testing.T) {
	p := Procedure{
		ID: "p1",
		Fields: []Field{
			{ID: "f1", Type: FieldText, Label: "Pressure"},
			{ID: "f2", Type: FieldInspectionCheck, Label: "Valve"},
		},
	}

	f, err := p.FieldByID("f2")
	require.NoError(t, err)
	assert.Equal(t, "Valve", f.Label)

	_, err = p.FieldByID("missing")
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestProcedure_Validate_Success(t *testing.T) {
	p := Procedure{
		ID: "p1",
		Fields: []Field{
			{ID: "f1", Type: FieldText},
			{ID: "f2", Type: FieldSection},
		},
	}

	assert.NoError(t, p.Validate())
}

func TestProcedure_Validate_DuplicateFieldID(t *testing.T) {
	p := Procedure{
		ID: "p1",
		Fields: []Field{
			{ID: "f1", Type: FieldText},
			{ID: "f1", Type: FieldDate},
		},
	}

	assert.ErrorIs(t, p.Validate(), ErrInvalidInput)
}

func TestProcedure_Validate_UnknownType(t *testing.T) {
	p := Procedure{
		ID:     "p1",
		Fields: []Field{{ID: "f1", Type: FieldType("hologram")}},
	}

	assert.ErrorIs(t, p.Validate(), ErrUnsupportedType)
}

func TestProcedure_Validate_EmptyIDs(t *testing.T) {
	assert.ErrorIs(t, Procedure{}.Validate(), ErrInvalidInput)

	p := Procedure{ID: "p1", Fields: []Field{{Type: FieldText}}}
	assert.ErrorIs(t, p.Validate(), ErrInvalidInput)
}
