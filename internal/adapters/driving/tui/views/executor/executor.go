// Package executor provides the procedure execution view for the TUI.
// It renders the stacked procedures as grouped field lists, binds key
// input to the executor port's per-kind operations, and keeps the
// answer map updated as the technician works through the form.
package executor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/keymap"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/messages"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/styles"
	"github.com/canopy-labs/proctor-cli/internal/core/domain"
	"github.com/canopy-labs/proctor-cli/internal/core/ports/driven"
	"github.com/canopy-labs/proctor-cli/internal/core/ports/driving"
)

// rowKind distinguishes navigable rows in the flattened form.
type rowKind int

const (
	rowHeader rowKind = iota
	rowField
)

// row is one navigable line of the rendered form.
type row struct {
	kind        rowKind
	procedureID string
	groupTitle  string
	sectionID   string
	field       domain.Field
}

// renderFunc renders one field's answer area. Unknown field kinds have
// no renderer and produce no output.
type renderFunc func(v *View, procedureID string, f domain.Field) string

// renderers maps each field kind to its answer renderer.
var renderers = map[domain.FieldType]renderFunc{
	domain.FieldText:            renderText,
	domain.FieldNumber:          renderText,
	domain.FieldDate:            renderText,
	domain.FieldAmount:          renderText,
	domain.FieldCurrency:        renderText,
	domain.FieldCheckbox:        renderCheckbox,
	domain.FieldChecklist:       renderChecklist,
	domain.FieldMultipleChoice:  renderChoice,
	domain.FieldYesNoNA:         renderChoice,
	domain.FieldInspectionCheck: renderInspection,
	domain.FieldPhoto:           renderPhoto,
	domain.FieldSignature:       renderSignature,
	domain.FieldHeading:         renderDisplayOnly,
	domain.FieldInstruction:     renderDisplayOnly,
}

// View is the procedure execution view.
type View struct {
	styles   *styles.Styles
	keys     *keymap.KeyMap
	uploader driven.Uploader

	session     driving.Executor
	workOrderID string

	rows       []row
	collapsed  map[string]bool // section field id -> collapsed
	cursor     int
	editing    bool
	attaching  bool
	previewing bool
	input      textinput.Model
	width      int
	height     int
	err        error
}

// NewView creates a new executor view. uploader may be nil, which
// disables photo attachment from local files.
func NewView(s *styles.Styles, uploader driven.Uploader) *View {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 40

	return &View{
		styles:    s,
		keys:      keymap.DefaultKeyMap(),
		uploader:  uploader,
		collapsed: make(map[string]bool),
		input:     ti,
	}
}

// SetSession installs a fresh execution session and resets view state.
func (v *View) SetSession(session driving.Executor, workOrderID string) {
	v.session = session
	v.workOrderID = workOrderID
	v.collapsed = make(map[string]bool)
	v.cursor = 0
	v.editing = false
	v.attaching = false
	v.previewing = false
	v.err = nil
	v.rebuildRows()
}

// Session returns the current execution session.
func (v *View) Session() driving.Executor {
	return v.session
}

// Init initialises the executor view.
func (v *View) Init() tea.Cmd {
	return nil
}

// rebuildRows flattens the grouped procedures into navigable rows,
// hiding the members of collapsed sections.
func (v *View) rebuildRows() {
	v.rows = v.rows[:0]
	if v.session == nil {
		return
	}

	for _, proc := range v.session.Procedures() {
		for _, group := range v.session.Groups(proc.ID) {
			if group.Collapsible {
				v.rows = append(v.rows, row{
					kind:        rowHeader,
					procedureID: proc.ID,
					groupTitle:  group.Title,
					sectionID:   group.SectionID,
				})
				if v.collapsed[group.SectionID] {
					continue
				}
			}
			for _, f := range group.Fields {
				v.rows = append(v.rows, row{kind: rowField, procedureID: proc.ID, field: f})
			}
		}
	}

	if v.cursor >= len(v.rows) && v.cursor > 0 {
		v.cursor = len(v.rows) - 1
	}
}

// Update handles messages for the executor view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		if v.session == nil {
			return v, nil
		}
		if v.previewing {
			return v.handlePreviewKey(msg)
		}
		if v.editing || v.attaching {
			return v.handleInputKey(msg)
		}
		return v.handleListKey(msg)

	case messages.PhotosAppended:
		if msg.Err != nil {
			v.err = msg.Err
		}
		return v, nil

	case messages.SignatureCommitted:
		if err := v.session.CommitSignature(msg.ProcedureID, msg.FieldID, msg.Encoding); err != nil {
			v.err = err
		}
		return v, nil
	}

	return v, nil
}

// handleInputKey handles keys while typing into the answer input.
func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.editing = false
		v.attaching = false
		v.input.Blur()
		return v, nil

	case "enter":
		value := v.input.Value()
		attaching := v.attaching
		v.editing = false
		v.attaching = false
		v.input.Blur()
		if attaching {
			return v, v.appendPhoto(value)
		}
		v.bindInput(value)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// bindInput routes a committed text input to the right setter for the
// focused field's kind.
func (v *View) bindInput(value string) {
	r := v.currentRow()
	if r == nil || r.kind != rowField {
		return
	}

	var err error
	switch r.field.Type {
	case domain.FieldNumber, domain.FieldAmount, domain.FieldCurrency:
		err = v.session.SetNumber(r.procedureID, r.field.ID, value)
	case domain.FieldDate:
		err = v.session.SetDate(r.procedureID, r.field.ID, value)
	default:
		err = v.session.SetString(r.procedureID, r.field.ID, value)
	}
	if err != nil {
		v.err = err
	}
}

// handleListKey handles keys while navigating the form.
//
//nolint:gocognit // per-kind key dispatch is inherently branchy
func (v *View) handleListKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil
	case keymap.Matches(key, v.keys.Down):
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}
		return v, nil
	case keymap.Matches(key, v.keys.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewProcedures}
		}
	}

	r := v.currentRow()
	if r == nil {
		return v, nil
	}

	if r.kind == rowHeader {
		if keymap.Matches(key, v.keys.Select) || key == " " {
			v.collapsed[r.sectionID] = !v.collapsed[r.sectionID]
			v.rebuildRows()
		}
		return v, nil
	}

	// The photo list opens for inspection in readonly sessions too.
	if r.field.Type == domain.FieldPhoto && keymap.Matches(key, v.keys.Select) {
		if len(domain.ListValue(v.session.Value(r.procedureID, r.field.ID))) > 0 {
			v.previewing = true
			return v, nil
		}
	}

	// Likewise the signature pad, which the readonly flag keeps inert.
	if r.field.Type == domain.FieldSignature && keymap.Matches(key, v.keys.Select) {
		current := domain.StringValue(v.session.Value(r.procedureID, r.field.ID))
		pid, fid, readonly := r.procedureID, r.field.ID, v.session.Readonly()
		return v, func() tea.Msg {
			return messages.SignatureRequested{
				ProcedureID: pid,
				FieldID:     fid,
				Current:     current,
				Readonly:    readonly,
			}
		}
	}

	if v.session.Readonly() || r.field.Type.IsDisplayOnly() {
		return v, nil
	}

	switch r.field.Type {
	case domain.FieldText, domain.FieldNumber, domain.FieldDate,
		domain.FieldAmount, domain.FieldCurrency:
		if keymap.Matches(key, v.keys.Select) {
			v.editing = true
			v.input.Placeholder = r.field.Placeholder
			v.input.SetValue(editValue(r.field.Type, v.session.Value(r.procedureID, r.field.ID)))
			return v, v.input.Focus()
		}

	case domain.FieldCheckbox:
		if keymap.Matches(key, v.keys.Select) || key == " " {
			if err := v.session.ToggleCheckbox(r.procedureID, r.field.ID); err != nil {
				v.err = err
			}
		}

	case domain.FieldChecklist:
		if idx, ok := optionIndex(key, len(r.field.Options)); ok {
			if err := v.session.ToggleChecklistOption(r.procedureID, r.field.ID, r.field.Options[idx]); err != nil {
				v.err = err
			}
		}

	case domain.FieldMultipleChoice, domain.FieldYesNoNA:
		options := choiceOptions(r.field)
		if idx, ok := optionIndex(key, len(options)); ok {
			if err := v.session.SelectChoice(r.procedureID, r.field.ID, options[idx]); err != nil {
				v.err = err
			}
		}

	case domain.FieldInspectionCheck:
		results := domain.AllInspectionResults()
		if idx, ok := optionIndex(key, len(results)); ok {
			if err := v.session.SelectInspection(r.procedureID, r.field.ID, results[idx]); err != nil {
				v.err = err
			}
		}

	case domain.FieldPhoto:
		switch {
		case keymap.Matches(key, v.keys.Select) || key == "p":
			v.attaching = true
			v.input.Placeholder = "Path to photo file..."
			v.input.SetValue("")
			return v, v.input.Focus()
		case keymap.Matches(key, v.keys.Delete):
			photos := domain.ListValue(v.session.Value(r.procedureID, r.field.ID))
			if len(photos) > 0 {
				if err := v.session.RemovePhoto(r.procedureID, r.field.ID, len(photos)-1); err != nil {
					v.err = err
				}
			}
		}

	}

	return v, nil
}

// handlePreviewKey handles keys while the photo list is open. Closing
// the list never changes the answer; digits remove the numbered entry.
func (v *View) handlePreviewKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	r := v.currentRow()
	if r == nil || keymap.Matches(key, v.keys.Back) {
		v.previewing = false
		return v, nil
	}
	if v.session.Readonly() {
		return v, nil
	}

	photos := domain.ListValue(v.session.Value(r.procedureID, r.field.ID))
	if idx, ok := optionIndex(key, len(photos)); ok {
		if err := v.session.RemovePhoto(r.procedureID, r.field.ID, idx); err != nil {
			v.err = err
		}
		if len(photos) == 1 {
			v.previewing = false
		}
	}
	return v, nil
}

// optionIndex maps a digit key to an option index.
func optionIndex(key string, count int) (int, bool) {
	n, err := strconv.Atoi(key)
	if err != nil || n < 1 || n > count {
		return 0, false
	}
	return n - 1, true
}

// currentRow returns the row under the cursor.
func (v *View) currentRow() *row {
	if len(v.rows) == 0 || v.cursor >= len(v.rows) {
		return nil
	}
	return &v.rows[v.cursor]
}

// appendPhoto returns a command that reads one photo file and appends
// its reference to the focused photo field.
func (v *View) appendPhoto(path string) tea.Cmd {
	r := v.currentRow()
	if r == nil || r.kind != rowField || strings.TrimSpace(path) == "" {
		return nil
	}
	pid, fid := r.procedureID, r.field.ID
	uploader := v.uploader
	session := v.session

	return func() tea.Msg {
		source := driving.PhotoSource{
			Name: path,
			Read: func(ctx context.Context) (string, error) {
				if uploader != nil {
					return uploader.UploadFile(ctx, path)
				}
				return path, nil
			},
		}
		appended, err := session.AppendPhotos(context.Background(), pid, fid, []driving.PhotoSource{source})
		return messages.PhotosAppended{ProcedureID: pid, FieldID: fid, Appended: appended, Err: err}
	}
}

// View renders the execution form.
func (v *View) View() string {
	if v.session == nil {
		return v.styles.Muted.Render("No work order open.")
	}

	var b strings.Builder

	title := "Work order " + v.workOrderID
	if v.session.Readonly() {
		title += "  (read-only)"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	for i, r := range v.rows {
		focused := i == v.cursor
		if r.kind == rowHeader {
			b.WriteString(v.renderHeader(r, focused))
		} else {
			b.WriteString(v.renderField(r, focused))
		}
		b.WriteString("\n")
	}

	if v.editing || v.attaching {
		b.WriteString("\n")
		b.WriteString(v.input.View())
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderHeader renders a collapsible section header row.
func (v *View) renderHeader(r row, focused bool) string {
	marker := "▾"
	if v.collapsed[r.sectionID] {
		marker = "▸"
	}
	line := marker + " " + r.groupTitle

	if focused {
		return v.styles.Selected.Render(line)
	}
	return v.styles.SectionHeader.Render(line)
}

// renderField renders one field row: prompt line plus answer area.
func (v *View) renderField(r row, focused bool) string {
	indicator := "  "
	if focused {
		indicator = "> "
	}

	label := r.field.Label
	if label == "" {
		label = r.field.Placeholder
	}
	if r.field.Required {
		label += v.styles.Warning.Render(" *")
	}

	prompt := indicator + label
	if focused {
		prompt = indicator + v.styles.Selected.Render(label)
	}

	render, ok := renderers[r.field.Type]
	if !ok {
		// Unknown kinds render nothing below the prompt.
		return prompt
	}

	answer := render(v, r.procedureID, r.field)

	var b strings.Builder
	b.WriteString(prompt)
	if answer != "" {
		b.WriteString("\n    " + answer)
	}
	for _, att := range r.field.Attachments {
		b.WriteString("\n    " + v.styles.Muted.Render(fmt.Sprintf("ref: %s (%s)", att.Name, att.Type)))
	}
	return b.String()
}

// displayValue formats a stored text-like answer for the form. Numeric
// kinds hold float64 and dates hold canonical ISO strings.
func displayValue(t domain.FieldType, raw any) string {
	if raw == nil {
		return ""
	}
	switch t {
	case domain.FieldNumber, domain.FieldAmount, domain.FieldCurrency:
		return strconv.FormatFloat(domain.NumberValue(raw), 'f', -1, 64)
	case domain.FieldDate:
		return humanDate(domain.StringValue(raw))
	default:
		return domain.StringValue(raw)
	}
}

// editValue formats a stored answer for re-editing. Dates stay in
// canonical ISO form so the input round-trips through the date setter.
func editValue(t domain.FieldType, raw any) string {
	if raw == nil {
		return ""
	}
	switch t {
	case domain.FieldNumber, domain.FieldAmount, domain.FieldCurrency:
		return strconv.FormatFloat(domain.NumberValue(raw), 'f', -1, 64)
	default:
		return domain.StringValue(raw)
	}
}

// humanDate reformats a canonical ISO date for display. Anything that
// does not parse renders as stored.
func humanDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("2 Jan 2006")
}

// renderText renders text-like answers (text, number, date, amount, currency).
func renderText(v *View, procedureID string, f domain.Field) string {
	value := displayValue(f.Type, v.session.Value(procedureID, f.ID))
	if value == "" {
		return v.styles.Muted.Render(f.Placeholder)
	}
	return v.styles.Normal.Render(value)
}

// renderCheckbox renders a single checkbox answer.
func renderCheckbox(v *View, procedureID string, f domain.Field) string {
	if domain.BoolValue(v.session.Value(procedureID, f.ID)) {
		return v.styles.Success.Render("[x] done")
	}
	return v.styles.Muted.Render("[ ] pending")
}

// renderChecklist renders the option list with per-option ticks,
// preserving the field's option order.
func renderChecklist(v *View, procedureID string, f domain.Field) string {
	selected := domain.ListValue(v.session.Value(procedureID, f.ID))
	on := make(map[string]bool, len(selected))
	for _, s := range selected {
		on[s] = true
	}

	parts := make([]string, 0, len(f.Options))
	for i, opt := range f.Options {
		box := "[ ]"
		if on[opt] {
			box = "[x]"
		}
		parts = append(parts, fmt.Sprintf("%d %s %s", i+1, box, opt))
	}
	return v.styles.Normal.Render(strings.Join(parts, "   "))
}

// choiceOptions returns the selectable options for an exclusive field.
// yes_no_na always uses its fixed option set.
func choiceOptions(f domain.Field) []string {
	if f.Type == domain.FieldYesNoNA {
		return domain.YesNoNAOptions()
	}
	return f.Options
}

// renderChoice renders an exclusive option row (multiple_choice, yes_no_na).
func renderChoice(v *View, procedureID string, f domain.Field) string {
	current := domain.StringValue(v.session.Value(procedureID, f.ID))

	options := choiceOptions(f)
	parts := make([]string, 0, len(options))
	for i, opt := range options {
		mark := "( )"
		if opt == current {
			mark = "(•)"
		}
		parts = append(parts, fmt.Sprintf("%d %s %s", i+1, mark, opt))
	}
	return v.styles.Normal.Render(strings.Join(parts, "   "))
}

// renderInspection renders the Pass/Flag/Fail verdict row.
func renderInspection(v *View, procedureID string, f domain.Field) string {
	current := domain.StringValue(v.session.Value(procedureID, f.ID))

	parts := make([]string, 0, 3)
	for i, result := range domain.AllInspectionResults() {
		name := string(result)
		switch {
		case name == current && result == domain.InspectionPass:
			name = v.styles.Success.Render("●" + name)
		case name == current && result == domain.InspectionFail:
			name = v.styles.Error.Render("●" + name)
		case name == current:
			name = v.styles.Warning.Render("●" + name)
		}
		parts = append(parts, fmt.Sprintf("%d %s", i+1, name))
	}
	return strings.Join(parts, "   ")
}

// renderPhoto renders the photo list summary, or the open numbered
// list when the focused field is being previewed.
func renderPhoto(v *View, procedureID string, f domain.Field) string {
	photos := domain.ListValue(v.session.Value(procedureID, f.ID))
	if len(photos) == 0 {
		return v.styles.Muted.Render("no photos  [enter] attach")
	}

	if v.previewing {
		if r := v.currentRow(); r != nil && r.procedureID == procedureID && r.field.ID == f.ID {
			var b strings.Builder
			b.WriteString(v.styles.Normal.Render(fmt.Sprintf("%d photo(s)", len(photos))))
			for i, ref := range photos {
				b.WriteString("\n    " + v.styles.Normal.Render(fmt.Sprintf("%d %s", i+1, ref)))
			}
			if v.session.Readonly() {
				b.WriteString("\n    " + v.styles.Help.Render("[esc] close"))
			} else {
				b.WriteString("\n    " + v.styles.Help.Render("[1-9] remove  [esc] close"))
			}
			return b.String()
		}
	}

	return v.styles.Normal.Render(fmt.Sprintf("%d photo(s)  [enter] view  [p] attach  [d] remove last", len(photos)))
}

// renderSignature renders the signature state line.
func renderSignature(v *View, procedureID string, f domain.Field) string {
	if domain.StringValue(v.session.Value(procedureID, f.ID)) == "" {
		return v.styles.Muted.Render("unsigned  [enter] sign")
	}
	return v.styles.Success.Render("signed  [enter] view/replace")
}

// renderDisplayOnly renders nothing below heading and paragraph prompts.
func renderDisplayOnly(v *View, procedureID string, f domain.Field) string {
	return ""
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	if v.session.Readonly() {
		return v.styles.Help.Render("[j/k] navigate  [enter] toggle section / view  [esc] back")
	}
	return v.styles.Help.Render("[j/k] navigate  [enter] answer  [1-9] options  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Rows returns the number of navigable rows (for testing).
func (v *View) Rows() int {
	return len(v.rows)
}

// Cursor returns the cursor position (for testing).
func (v *View) Cursor() int {
	return v.cursor
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
