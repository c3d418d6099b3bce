// Package procedures provides the procedure library view for the TUI.
// It lists stored procedures and dispatches edit, run, duplicate,
// delete and export actions.
package procedures

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/keymap"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/messages"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/styles"
	"github.com/canopy-labs/proctor-cli/internal/core/domain"
	"github.com/canopy-labs/proctor-cli/internal/core/ports/driving"
)

// View is the procedure library view.
type View struct {
	styles           *styles.Styles
	keys             *keymap.KeyMap
	procedureService driving.ProcedureService
	builderService   driving.BuilderService
	executorService  driving.ExecutorService
	templatesDir     string

	procedures []domain.Procedure
	selected   int
	width      int
	height     int
	ready      bool
	err        error
	loading    bool
	naming     bool
	nameBuf    string
}

// NewView creates a new procedure library view. templatesDir is where
// exported JSON templates are written; empty disables export.
func NewView(
	s *styles.Styles,
	procedureService driving.ProcedureService,
	builderService driving.BuilderService,
	executorService driving.ExecutorService,
	templatesDir string,
) *View {
	return &View{
		styles:           s,
		keys:             keymap.DefaultKeyMap(),
		procedureService: procedureService,
		builderService:   builderService,
		executorService:  executorService,
		templatesDir:     templatesDir,
		procedures:       []domain.Procedure{},
	}
}

// Init initialises the view and loads the library.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadProcedures()
}

// loadProcedures returns a command that loads the library from the service.
func (v *View) loadProcedures() tea.Cmd {
	return func() tea.Msg {
		if v.procedureService == nil {
			return messages.ProceduresLoaded{Err: fmt.Errorf("procedure service not available")}
		}

		procedures, err := v.procedureService.List(context.Background())
		return messages.ProceduresLoaded{Procedures: procedures, Err: err}
	}
}

// Update handles messages for the library view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		if v.naming {
			return v.handleNamingKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.ProceduresLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.procedures = msg.Procedures
			v.err = nil
			if v.selected >= len(v.procedures) && v.selected > 0 {
				v.selected = len(v.procedures) - 1
			}
		}
		return v, nil

	case messages.ProcedureDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.loadProcedures()

	case messages.ProcedureDuplicated:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.loadProcedures()

	case messages.ProcedureExported:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleNamingKey handles keys while typing a new procedure name.
func (v *View) handleNamingKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.naming = false
		v.nameBuf = ""
		return v, nil

	case tea.KeyEnter:
		name := strings.TrimSpace(v.nameBuf)
		v.naming = false
		v.nameBuf = ""
		if name == "" {
			return v, nil
		}
		return v, v.openNewBuilder(name)

	case tea.KeyBackspace:
		if len(v.nameBuf) > 0 {
			v.nameBuf = v.nameBuf[:len(v.nameBuf)-1]
		}
		return v, nil

	case tea.KeyRunes, tea.KeySpace:
		// Space arrives with its rune populated, so one append covers both.
		v.nameBuf += string(msg.Runes)
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses in the list.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keys.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(key, v.keys.Down):
		if v.selected < len(v.procedures)-1 {
			v.selected++
		}
	case keymap.Matches(key, v.keys.Add):
		v.naming = true
		v.nameBuf = ""
		return v, nil
	case keymap.Matches(key, v.keys.Select):
		if p := v.current(); p != nil {
			return v, v.openBuilder(p.ID)
		}
	case keymap.Matches(key, v.keys.Run):
		if p := v.current(); p != nil {
			return v, v.openExecutor(p.ID, false)
		}
	case keymap.Matches(key, v.keys.View):
		if p := v.current(); p != nil {
			return v, v.openExecutor(p.ID, true)
		}
	case keymap.Matches(key, v.keys.Duplicate):
		if p := v.current(); p != nil {
			return v, v.duplicateProcedure(p.ID)
		}
	case keymap.Matches(key, v.keys.Delete):
		if p := v.current(); p != nil {
			return v, v.deleteProcedure(p.ID)
		}
	case keymap.Matches(key, v.keys.Export):
		if p := v.current(); p != nil && v.templatesDir != "" {
			return v, v.exportProcedure(*p)
		}
	case key == "R":
		v.loading = true
		return v, v.loadProcedures()
	}

	return v, nil
}

// current returns the selected procedure, nil when the list is empty.
func (v *View) current() *domain.Procedure {
	if len(v.procedures) == 0 || v.selected >= len(v.procedures) {
		return nil
	}
	return &v.procedures[v.selected]
}

// openBuilder returns a command that opens a builder over a stored procedure.
func (v *View) openBuilder(id string) tea.Cmd {
	return func() tea.Msg {
		b, err := v.builderService.Edit(context.Background(), id)
		return messages.BuilderOpened{Builder: b, Err: err}
	}
}

// openNewBuilder returns a command that creates a procedure and opens it.
func (v *View) openNewBuilder(name string) tea.Cmd {
	return func() tea.Msg {
		b, err := v.builderService.EditNew(context.Background(), name)
		return messages.BuilderOpened{Builder: b, Err: err}
	}
}

// openExecutor returns a command that starts an execution session.
// The procedure id doubles as the work order id for ad hoc runs.
func (v *View) openExecutor(id string, readonly bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		workOrderID := "wo-" + id
		var (
			ex  driving.Executor
			err error
		)
		if readonly {
			ex, err = v.executorService.StartReadonly(ctx, workOrderID, []string{id})
		} else {
			ex, err = v.executorService.Start(ctx, workOrderID, []string{id})
		}
		return messages.ExecutorOpened{Executor: ex, WorkOrderID: workOrderID, Readonly: readonly, Err: err}
	}
}

// duplicateProcedure returns a command that copies a procedure.
func (v *View) duplicateProcedure(id string) tea.Cmd {
	return func() tea.Msg {
		p, err := v.procedureService.Duplicate(context.Background(), id)
		return messages.ProcedureDuplicated{Procedure: p, Err: err}
	}
}

// deleteProcedure returns a command that deletes a procedure.
func (v *View) deleteProcedure(id string) tea.Cmd {
	return func() tea.Msg {
		err := v.procedureService.Delete(context.Background(), id)
		return messages.ProcedureDeleted{ID: id, Err: err}
	}
}

// exportProcedure returns a command that writes a JSON template file.
func (v *View) exportProcedure(p domain.Procedure) tea.Cmd {
	return func() tea.Msg {
		data, err := v.procedureService.Export(context.Background(), p.ID)
		if err != nil {
			return messages.ProcedureExported{ID: p.ID, Err: err}
		}

		name := templateFileName(p.Name)
		path := filepath.Join(v.templatesDir, name)
		if err := os.WriteFile(path, data, 0600); err != nil {
			return messages.ProcedureExported{ID: p.ID, Err: err}
		}
		return messages.ProcedureExported{ID: p.ID, Path: path}
	}
}

// templateFileName derives a filesystem-safe template name.
func templateFileName(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' {
			return r
		}
		return -1
	}, slug)
	if slug == "" {
		slug = "procedure"
	}
	return slug + ".json"
}

// View renders the library view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Procedures"))
	b.WriteString("\n\n")

	if v.naming {
		b.WriteString(v.styles.Subtitle.Render("New procedure name: "))
		b.WriteString(v.styles.InputField.Render(v.nameBuf + "█"))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[enter] create  [esc] cancel"))
		return b.String()
	}

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading procedures..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if len(v.procedures) == 0 {
		b.WriteString(v.styles.Muted.Render("No procedures yet. Press [a] to create one."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	for i := range v.procedures {
		b.WriteString(v.renderProcedure(i, &v.procedures[i]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderProcedure renders a single library line.
func (v *View) renderProcedure(index int, p *domain.Procedure) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	count := fmt.Sprintf("%d fields", len(p.Fields))
	name := p.Name
	if name == "" {
		name = p.ID
	}

	maxNameLen := v.width - len(count) - 12
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-40s %s", indicator, name, count))
	}
	return v.styles.Normal.Render(indicator+name) + "  " + v.styles.Muted.Render(count)
}

// renderHelp renders the help footer from the library keybindings.
func (v *View) renderHelp() string {
	return v.styles.Help.Render(keymap.HelpLine(v.keys.LibraryHelp()))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Procedures returns the current library listing.
func (v *View) Procedures() []domain.Procedure {
	return v.procedures
}

// SelectedIndex returns the currently selected index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
