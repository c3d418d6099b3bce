package signpad

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/messages"
)

func openView(readonly bool, current string) *View {
	v := NewView(nil)
	v.Open(messages.SignatureRequested{
		ProcedureID: "proc-1",
		FieldID:     "f-sig",
		Current:     current,
		Readonly:    readonly,
	})
	return v
}

// draw traces a short diagonal stroke across the preview grid.
func draw(v *View) {
	v.Update(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	v.Update(tea.MouseMsg{X: 20, Y: 10, Action: tea.MouseActionMotion})
	v.Update(tea.MouseMsg{X: 30, Y: 12, Action: tea.MouseActionRelease})
}

func TestView_Draw_ProducesEncoding(t *testing.T) {
	v := openView(false, "")

	draw(v)

	assert.NotEmpty(t, v.Encoding())
	assert.False(t, v.Pad().Empty())
}

func TestView_Open_HydratesExistingSignature(t *testing.T) {
	src := openView(false, "")
	draw(src)
	existing := src.Encoding()
	require.NotEmpty(t, existing)

	v := openView(false, existing)

	assert.Equal(t, existing, v.Encoding())
	assert.False(t, v.Pad().Empty())
}

func TestView_Clear(t *testing.T) {
	v := openView(false, "")
	draw(v)
	require.False(t, v.Pad().Empty())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'C'}})

	assert.Empty(t, v.Encoding())
	assert.True(t, v.Pad().Empty())
}

func TestView_Confirm_CommitsEncoding(t *testing.T) {
	v := openView(false, "")
	draw(v)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	committed, ok := cmd().(messages.SignatureCommitted)
	require.True(t, ok)
	assert.Equal(t, "proc-1", committed.ProcedureID)
	assert.Equal(t, "f-sig", committed.FieldID)
	assert.Equal(t, v.Encoding(), committed.Encoding)
	assert.NotEmpty(t, committed.Encoding)
}

func TestView_Esc_Cancels(t *testing.T) {
	v := openView(false, "")
	draw(v)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	_, ok := cmd().(messages.SignatureCancelled)
	assert.True(t, ok)
}

func TestView_Readonly_IgnoresInk(t *testing.T) {
	v := openView(true, "")

	draw(v)
	assert.True(t, v.Pad().Empty())

	// Clear is also inert.
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'C'}})
	assert.True(t, v.Pad().Empty())

	// Confirm closes without committing.
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, ok := cmd().(messages.SignatureCancelled)
	assert.True(t, ok)
}

func TestView_Readonly_ShowsExistingInk(t *testing.T) {
	src := openView(false, "")
	draw(src)

	v := openView(true, src.Encoding())

	assert.False(t, v.Pad().Empty())
	assert.True(t, v.Pad().Readonly())
}

func TestView_View_Render(t *testing.T) {
	v := openView(false, "")
	v.SetDimensions(100, 30)

	out := v.View()

	assert.Contains(t, out, "Signature")
	assert.Contains(t, out, "[C] clear")

	draw(v)
	assert.Contains(t, v.View(), "█")
}

func TestView_View_Readonly(t *testing.T) {
	v := openView(true, "")

	out := v.View()

	assert.Contains(t, out, "(read-only)")
	assert.Contains(t, out, "[enter/esc] close")
}
