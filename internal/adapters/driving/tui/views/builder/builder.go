// Package builder provides the procedure builder view for the TUI.
// It renders the ordered field list, keeps exactly one field expanded
// for editing, and maps keys onto the builder port's operations.
package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/keymap"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/messages"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/styles"
	"github.com/canopy-labs/proctor-cli/internal/core/domain"
	"github.com/canopy-labs/proctor-cli/internal/core/ports/driven"
	"github.com/canopy-labs/proctor-cli/internal/core/ports/driving"
)

// mode is the builder view's input mode.
type mode int

const (
	// modeList navigates the collapsed field list.
	modeList mode = iota

	// modeEdit edits the expanded active field's label.
	modeEdit

	// modePicker selects a field type for add or retype.
	modePicker

	// modeImage types a path for the active field's illustration.
	modeImage
)

// View is the procedure builder view.
type View struct {
	styles         *styles.Styles
	keys           *keymap.KeyMap
	builderService driving.BuilderService
	uploader       driven.Uploader

	builder    driving.Builder
	mode       mode
	cursor     int
	pickerIdx  int
	pickerFor  string // field id being retyped, empty when adding
	labelInput textinput.Model
	imageInput textinput.Model
	width      int
	height     int
	err        error
	saved      bool
}

// NewView creates a new builder view. uploader may be nil, in which
// case image paths are attached as-is.
func NewView(s *styles.Styles, builderService driving.BuilderService, uploader driven.Uploader) *View {
	ti := textinput.New()
	ti.Placeholder = "Field label..."
	ti.CharLimit = 256
	ti.Width = 50

	ii := textinput.New()
	ii.Placeholder = "Path to image file..."
	ii.CharLimit = 512
	ii.Width = 50

	return &View{
		styles:         s,
		keys:           keymap.DefaultKeyMap(),
		builderService: builderService,
		uploader:       uploader,
		labelInput:     ti,
		imageInput:     ii,
	}
}

// SetBuilder installs a fresh edit session and resets view state.
func (v *View) SetBuilder(b driving.Builder) {
	v.builder = b
	v.mode = modeList
	v.cursor = 0
	v.err = nil
	v.saved = false
}

// Builder returns the current edit session.
func (v *View) Builder() driving.Builder {
	return v.builder
}

// Init initialises the builder view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the builder view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		if v.builder == nil {
			return v, nil
		}
		switch v.mode {
		case modePicker:
			return v.handlePickerKey(msg)
		case modeEdit:
			return v.handleEditKey(msg)
		case modeImage:
			return v.handleImageKey(msg)
		default:
			return v.handleListKey(msg)
		}

	case messages.BuilderCommitted:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.saved = true
		}
		return v, nil
	}

	return v, nil
}

// handleListKey handles keys while navigating the collapsed list.
func (v *View) handleListKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	fields := v.builder.Fields()
	v.saved = false
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case keymap.Matches(key, v.keys.Down):
		if v.cursor < len(fields)-1 {
			v.cursor++
		}
	case keymap.Matches(key, v.keys.MoveUp):
		if v.cursor > 0 {
			if err := v.builder.Reorder(v.cursor, v.cursor-1); err != nil {
				v.err = err
			} else {
				v.cursor--
			}
		}
	case keymap.Matches(key, v.keys.MoveDown):
		if v.cursor < len(fields)-1 {
			if err := v.builder.Reorder(v.cursor, v.cursor+1); err != nil {
				v.err = err
			} else {
				v.cursor++
			}
		}
	case keymap.Matches(key, v.keys.Add):
		v.mode = modePicker
		v.pickerIdx = 0
		v.pickerFor = ""
	case keymap.Matches(key, v.keys.Select):
		if len(fields) > 0 {
			f := fields[v.cursor]
			if err := v.builder.Activate(f.ID); err != nil {
				v.err = err
				break
			}
			v.mode = modeEdit
			v.labelInput.SetValue(f.Label)
			return v, v.labelInput.Focus()
		}
	case keymap.Matches(key, v.keys.Duplicate):
		if len(fields) > 0 {
			dup, err := v.builder.DuplicateField(fields[v.cursor].ID)
			if err != nil {
				v.err = err
				break
			}
			// Cursor follows the copy.
			for i, f := range v.builder.Fields() {
				if f.ID == dup.ID {
					v.cursor = i
					break
				}
			}
		}
	case keymap.Matches(key, v.keys.Delete):
		if len(fields) > 0 {
			if err := v.builder.RemoveField(fields[v.cursor].ID); err != nil {
				v.err = err
				break
			}
			if v.cursor >= len(v.builder.Fields()) && v.cursor > 0 {
				v.cursor--
			}
		}
	case keymap.Matches(key, v.keys.Save):
		return v, v.commit()
	case keymap.Matches(key, v.keys.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewProcedures}
		}
	}

	return v, nil
}

// handleEditKey handles keys while a field is expanded.
func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	activeID, ok := v.builder.ActiveFieldID()
	if !ok {
		v.mode = modeList
		return v, nil
	}

	key := msg.String()
	switch {
	case key == "esc" || key == "enter":
		// Commit the label edit and collapse.
		label := v.labelInput.Value()
		if err := v.builder.UpdateField(activeID, driving.FieldPatch{Label: &label}); err != nil {
			v.err = err
		}
		v.builder.Deactivate()
		v.labelInput.Blur()
		v.mode = modeList
		return v, nil

	case key == "ctrl+t":
		v.mode = modePicker
		v.pickerIdx = 0
		v.pickerFor = activeID
		return v, nil

	case keymap.Matches(key, v.keys.Required):
		field := v.activeField(activeID)
		if field == nil {
			return v, nil
		}
		required := !field.Required
		if err := v.builder.UpdateField(activeID, driving.FieldPatch{Required: &required}); err != nil {
			v.err = err
		}
		return v, nil

	case key == "ctrl+o":
		field := v.activeField(activeID)
		if field == nil || !field.Type.HasOptions() {
			return v, nil
		}
		options := append([]string{}, field.Options...)
		options = append(options, fmt.Sprintf("Option %d", len(options)+1))
		if err := v.builder.UpdateField(activeID, driving.FieldPatch{Options: &options}); err != nil {
			v.err = err
		}
		return v, nil

	case key == "ctrl+b":
		field := v.activeField(activeID)
		if field == nil {
			return v, nil
		}
		sectionBreak := !field.SectionBreak
		if err := v.builder.UpdateField(activeID, driving.FieldPatch{SectionBreak: &sectionBreak}); err != nil {
			v.err = err
		}
		return v, nil

	case key == "ctrl+p":
		v.mode = modeImage
		v.imageInput.SetValue("")
		return v, v.imageInput.Focus()
	}

	var cmd tea.Cmd
	v.labelInput, cmd = v.labelInput.Update(msg)
	return v, cmd
}

// handleImageKey handles keys while typing the illustration path.
func (v *View) handleImageKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	activeID, ok := v.builder.ActiveFieldID()
	if !ok {
		v.mode = modeList
		return v, nil
	}

	switch msg.String() {
	case "esc":
		v.imageInput.Blur()
		v.mode = modeEdit
		return v, nil

	case "enter":
		path := strings.TrimSpace(v.imageInput.Value())
		v.imageInput.Blur()
		v.mode = modeEdit
		if path == "" {
			return v, nil
		}

		ref := path
		if v.uploader != nil {
			uploaded, err := v.uploader.UploadFile(context.Background(), path)
			if err != nil {
				v.err = err
				return v, nil
			}
			ref = uploaded
		}
		if err := v.builder.SetFieldImage(activeID, ref); err != nil {
			v.err = err
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.imageInput, cmd = v.imageInput.Update(msg)
	return v, cmd
}

// handlePickerKey handles keys in the type picker.
func (v *View) handlePickerKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	types := domain.AllFieldTypes()

	switch msg.String() {
	case "up", "k":
		if v.pickerIdx > 0 {
			v.pickerIdx--
		}
	case "down", "j":
		if v.pickerIdx < len(types)-1 {
			v.pickerIdx++
		}
	case "esc":
		v.mode = modeList
	case "enter":
		chosen := types[v.pickerIdx]
		if v.pickerFor == "" {
			f, err := v.builder.AddField(chosen)
			if err != nil {
				v.err = err
				v.mode = modeList
				break
			}
			// New fields append; expand immediately for labelling.
			v.cursor = len(v.builder.Fields()) - 1
			v.mode = modeEdit
			v.labelInput.SetValue(f.Label)
			return v, v.labelInput.Focus()
		}
		if err := v.builder.UpdateField(v.pickerFor, driving.FieldPatch{Type: &chosen}); err != nil {
			v.err = err
		}
		v.mode = modeEdit
	}

	return v, nil
}

// activeField looks up a field by id in the current list.
func (v *View) activeField(id string) *domain.Field {
	for _, f := range v.builder.Fields() {
		if f.ID == id {
			return &f
		}
	}
	return nil
}

// commit returns a command that persists the builder's procedure.
func (v *View) commit() tea.Cmd {
	return func() tea.Msg {
		err := v.builderService.Commit(context.Background(), v.builder)
		return messages.BuilderCommitted{ProcedureID: v.builder.Procedure().ID, Err: err}
	}
}

// View renders the builder.
func (v *View) View() string {
	if v.builder == nil {
		return v.styles.Muted.Render("No procedure open.")
	}

	if v.mode == modePicker {
		return v.viewPicker()
	}

	var b strings.Builder
	proc := v.builder.Procedure()

	b.WriteString(v.styles.Title.Render("Edit: " + proc.Name))
	b.WriteString("\n\n")

	fields := v.builder.Fields()
	if len(fields) == 0 {
		b.WriteString(v.styles.Muted.Render("No fields yet. Press [a] to add one."))
		b.WriteString("\n")
	}

	activeID, hasActive := v.builder.ActiveFieldID()
	for i, f := range fields {
		if hasActive && f.ID == activeID && (v.mode == modeEdit || v.mode == modeImage) {
			b.WriteString(v.renderExpanded(f))
		} else {
			b.WriteString(v.renderCollapsed(i, f))
		}
		b.WriteString("\n")
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	}
	if v.saved {
		b.WriteString("\n")
		b.WriteString(v.styles.Success.Render("Saved."))
	}

	b.WriteString("\n")
	switch v.mode {
	case modeImage:
		b.WriteString(v.styles.Help.Render("[enter] attach image  [esc] cancel"))
	case modeEdit:
		b.WriteString(v.styles.Help.Render(
			"[enter/esc] done  [ctrl+t] type  [ctrl+r] required  [ctrl+o] add option  [ctrl+b] section break  [ctrl+p] image",
		))
	default:
		b.WriteString(v.styles.Help.Render(keymap.HelpLine(v.keys.BuilderHelp())))
	}

	return b.String()
}

// renderCollapsed renders a collapsed field row.
func (v *View) renderCollapsed(index int, f domain.Field) string {
	indicator := "  "
	if index == v.cursor && v.mode == modeList {
		indicator = "> "
	}

	label := f.Label
	if label == "" {
		label = v.styles.Muted.Render("(untitled)")
	}

	marker := ""
	if f.Required {
		marker = v.styles.Warning.Render(" *")
	}
	if f.SectionBreak {
		marker += v.styles.Muted.Render(" ┄")
	}

	typeTag := fmt.Sprintf("%s %-18s", f.Type.Icon(), "["+f.Type.String()+"]")
	line := fmt.Sprintf("%s%s %s%s", indicator, typeTag, label, marker)

	if index == v.cursor && v.mode == modeList {
		return v.styles.Selected.Render(line)
	}
	return v.styles.Normal.Render(line)
}

// renderExpanded renders the active field's editing card.
func (v *View) renderExpanded(f domain.Field) string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render(f.Type.Icon() + " " + f.Type.String()))
	b.WriteString("\n")
	b.WriteString("Label: " + v.labelInput.View())
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Placeholder: " + f.Placeholder))
	if f.Type.HasOptions() {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Options: " + strings.Join(f.Options, ", ")))
	}
	if f.Image != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Image: " + f.Image))
	}
	if v.mode == modeImage {
		b.WriteString("\n")
		b.WriteString("Image: " + v.imageInput.View())
	}
	if f.Required {
		b.WriteString("\n")
		b.WriteString(v.styles.Warning.Render("Required"))
	}

	return v.styles.Active.Render(b.String())
}

// viewPicker renders the field type picker.
func (v *View) viewPicker() string {
	var b strings.Builder

	title := "Add field"
	if v.pickerFor != "" {
		title = "Change field type"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	for i, t := range domain.AllFieldTypes() {
		indicator := "  "
		line := fmt.Sprintf("%s %-18s %s", t.Icon(), t.String(), v.styles.Muted.Render(t.Description()))
		if i == v.pickerIdx {
			indicator = "> "
			line = v.styles.Selected.Render(fmt.Sprintf("%s %-18s", t.Icon(), t.String()))
		}
		b.WriteString(indicator + line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[enter] select  [esc] cancel"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Cursor returns the current list cursor (for testing).
func (v *View) Cursor() int {
	return v.cursor
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
