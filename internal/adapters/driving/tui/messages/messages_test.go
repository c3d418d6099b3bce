package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewMenu, "menu"},
		{ViewProcedures, "procedures"},
		{ViewBuilder, "builder"},
		{ViewExecutor, "executor"},
		{ViewSignature, "signature"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.view.String())
	}
}

func TestViewChanged(t *testing.T) {
	msg := ViewChanged{View: ViewBuilder}

	assert.Equal(t, ViewBuilder, msg.View)
}

func TestErrorOccurred(t *testing.T) {
	err := errors.New("store unavailable")
	msg := ErrorOccurred{Err: err}

	assert.Equal(t, err, msg.Err)
}

func TestProceduresLoaded_WithError(t *testing.T) {
	err := errors.New("read failed")
	msg := ProceduresLoaded{Err: err}

	assert.Empty(t, msg.Procedures)
	assert.Equal(t, err, msg.Err)
}

func TestPhotosAppended(t *testing.T) {
	msg := PhotosAppended{ProcedureID: "p1", FieldID: "f1", Appended: 2}

	assert.Equal(t, "p1", msg.ProcedureID)
	assert.Equal(t, "f1", msg.FieldID)
	assert.Equal(t, 2, msg.Appended)
	assert.NoError(t, msg.Err)
}

func TestSignatureRequested(t *testing.T) {
	msg := SignatureRequested{
		ProcedureID: "p1",
		FieldID:     "f-sig",
		Current:     "iVBOR",
		Readonly:    true,
	}

	assert.Equal(t, "p1", msg.ProcedureID)
	assert.Equal(t, "f-sig", msg.FieldID)
	assert.Equal(t, "iVBOR", msg.Current)
	assert.True(t, msg.Readonly)
}

func TestSignatureCommitted(t *testing.T) {
	msg := SignatureCommitted{ProcedureID: "p1", FieldID: "f-sig", Encoding: "iVBOR"}

	assert.Equal(t, "iVBOR", msg.Encoding)
}
