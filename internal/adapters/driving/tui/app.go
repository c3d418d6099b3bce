package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/keymap"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/messages"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/styles"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/views/builder"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/views/executor"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/views/menu"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/views/procedures"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/views/signpad"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keys holds the shared keybindings.
	keys *keymap.KeyMap

	// menuView is the main navigation menu.
	menuView *menu.View

	// proceduresView is the procedure library view component.
	proceduresView *procedures.View

	// builderView is the procedure builder view component.
	builderView *builder.View

	// executorView is the procedure execution view component.
	executorView *executor.View

	// signatureView is the signature capture view component.
	signatureView *signpad.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
// templatesDir is where exported JSON templates are written.
func NewApp(ports *Ports, templatesDir string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		keys:           keymap.DefaultKeyMap(),
		menuView:       menu.NewView(s),
		proceduresView: procedures.NewView(s, ports.Procedure, ports.Builder, ports.Executor, templatesDir),
		builderView:    builder.NewView(s, ports.Builder, ports.Uploader),
		executorView:   executor.NewView(s, ports.Uploader),
		signatureView:  signpad.NewView(s),
		currentView:    messages.ViewMenu, // Start with menu
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.EnableMouseCellMotion,
		tea.SetWindowTitle("proctor - Maintenance Procedures"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.proceduresView.SetDimensions(msg.Width, msg.Height)
		a.builderView.SetDimensions(msg.Width, msg.Height)
		a.executorView.SetDimensions(msg.Width, msg.Height)
		a.signatureView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
			return a, cmd

		case messages.ViewProcedures:
			// Esc from the library goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			a.proceduresView, cmd = a.proceduresView.Update(msg)
			return a, cmd

		case messages.ViewBuilder:
			a.builderView, cmd = a.builderView.Update(msg)
			return a, cmd

		case messages.ViewExecutor:
			a.executorView, cmd = a.executorView.Update(msg)
			return a, cmd

		case messages.ViewSignature:
			a.signatureView, cmd = a.signatureView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			// Esc from help goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			return a, nil
		}
		return a, nil

	case tea.MouseMsg:
		// Mouse input only drives the signature pad.
		if a.currentView == messages.ViewSignature {
			a.signatureView, cmd = a.signatureView.Update(msg)
			return a, cmd
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewProcedures {
			return a, a.proceduresView.Init()
		}
		return a, nil

	case messages.BuilderOpened:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.builderView.SetBuilder(msg.Builder)
		a.currentView = messages.ViewBuilder
		return a, a.builderView.Init()

	case messages.ExecutorOpened:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.executorView.SetSession(msg.Executor, msg.WorkOrderID)
		a.currentView = messages.ViewExecutor
		return a, a.executorView.Init()

	case messages.SignatureRequested:
		a.signatureView.Open(msg)
		a.currentView = messages.ViewSignature
		return a, nil

	case messages.SignatureCommitted:
		// Hand the raster to the executor and return to the form.
		a.currentView = messages.ViewExecutor
		a.executorView, cmd = a.executorView.Update(msg)
		return a, cmd

	case messages.SignatureCancelled:
		a.currentView = messages.ViewExecutor
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewProcedures:
		a.proceduresView, cmd = a.proceduresView.Update(msg)
	case messages.ViewBuilder:
		a.builderView, cmd = a.builderView.Update(msg)
	case messages.ViewExecutor:
		a.executorView, cmd = a.executorView.Update(msg)
	case messages.ViewSignature:
		a.signatureView, cmd = a.signatureView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewProcedures:
		return a.proceduresView.View()
	case messages.ViewBuilder:
		return a.builderView.View()
	case messages.ViewExecutor:
		return a.executorView.View()
	case messages.ViewSignature:
		return a.signatureView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString("Help\n\nKeys:\n")
	for _, group := range a.keys.FullHelp() {
		b.WriteString("  " + keymap.HelpLine(group) + "\n")
	}
	b.WriteString(`
Library:
  r           Run procedure
  v           View answers read-only
  x           Export JSON template

Executor:
  1-9         Select options
  enter       Answer / toggle section / view photos

[esc] back to menu`)
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.proceduresView.SetDimensions(width, height)
}
