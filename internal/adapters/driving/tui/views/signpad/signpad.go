// Package signpad provides the signature capture view for the TUI.
// It hosts a signature.Pad, translating mouse input into strokes and
// rendering a down-sampled preview of the logical canvas as character
// cells. Confirming hands the encoded raster back to the executor.
package signpad

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/keymap"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/messages"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/styles"
	"github.com/canopy-labs/proctor-cli/internal/signature"
)

// Preview cell grid size. Each cell samples a block of logical pixels.
const (
	previewCols = 80
	previewRows = 20
)

// View is the signature capture view.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap

	pad         *signature.Pad
	procedureID string
	fieldID     string
	encoding    string
	width       int
	height      int
}

// NewView creates a new signature view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	v := &View{styles: s, keys: keymap.DefaultKeyMap()}
	v.pad = signature.NewPad(func(enc string) {
		v.encoding = enc
	})
	// Mouse coordinates arrive in preview-cell space.
	v.pad.SetDisplaySize(previewCols, previewRows)
	return v
}

// Open prepares the pad for a signature field, hydrating any existing
// raster and applying the session's readonly state.
func (v *View) Open(req messages.SignatureRequested) {
	v.procedureID = req.ProcedureID
	v.fieldID = req.FieldID
	v.pad.SetReadonly(false)
	v.pad.Load(req.Current)
	v.encoding = req.Current
	v.pad.SetReadonly(req.Readonly)
}

// Pad exposes the underlying pad (for testing).
func (v *View) Pad() *signature.Pad {
	return v.pad
}

// Init initialises the signature view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the signature view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.MouseMsg:
		return v.handleMouse(msg), nil

	case tea.KeyMsg:
		key := msg.String()
		switch {
		case keymap.Matches(key, v.keys.Clear):
			// Clearing never bubbles into the form underneath.
			v.pad.Clear()
			return v, nil

		case keymap.Matches(key, v.keys.Select):
			if v.pad.Readonly() {
				return v, func() tea.Msg { return messages.SignatureCancelled{} }
			}
			pid, fid, enc := v.procedureID, v.fieldID, v.encoding
			return v, func() tea.Msg {
				return messages.SignatureCommitted{ProcedureID: pid, FieldID: fid, Encoding: enc}
			}

		case keymap.Matches(key, v.keys.Back):
			return v, func() tea.Msg { return messages.SignatureCancelled{} }
		}
	}

	return v, nil
}

// handleMouse maps press/drag/release onto pad strokes.
func (v *View) handleMouse(msg tea.MouseMsg) *View {
	pt := signature.Point{X: float64(msg.X), Y: float64(msg.Y)}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			v.pad.StrokeBegin(pt)
		}
	case tea.MouseActionMotion:
		v.pad.StrokeMove(pt)
	case tea.MouseActionRelease:
		v.pad.StrokeEnd()
	}

	return v
}

// View renders the signature pad.
func (v *View) View() string {
	var b strings.Builder

	title := "Signature"
	if v.pad.Readonly() {
		title += "  (read-only)"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Border.Render(v.renderCanvas()))
	b.WriteString("\n\n")

	if v.pad.Readonly() {
		b.WriteString(v.styles.Help.Render("[enter/esc] close"))
	} else {
		b.WriteString(v.styles.Help.Render("draw with mouse  [C] clear  [enter] confirm  [esc] cancel"))
	}

	return b.String()
}

// renderCanvas down-samples the logical canvas into a character grid.
// A cell is inked when any sampled pixel in its block is dark.
func (v *View) renderCanvas() string {
	img := v.pad.Image()
	bounds := img.Bounds()
	blockW := bounds.Dx() / previewCols
	blockH := bounds.Dy() / previewRows

	var b strings.Builder
	for row := 0; row < previewRows; row++ {
		for col := 0; col < previewCols; col++ {
			inked := false
			for dy := 0; dy < blockH && !inked; dy += 2 {
				for dx := 0; dx < blockW && !inked; dx += 2 {
					r, g, bl, _ := img.At(col*blockW+dx, row*blockH+dy).RGBA()
					if r < 0x8000 && g < 0x8000 && bl < 0x8000 {
						inked = true
					}
				}
			}
			if inked {
				b.WriteString("█")
			} else {
				b.WriteString(" ")
			}
		}
		if row < previewRows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Encoding returns the current raster encoding (for testing).
func (v *View) Encoding() string {
	return v.encoding
}
