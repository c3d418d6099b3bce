// Package keymap defines keybindings for the TUI.
package keymap

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection.
	Select key.Binding

	// Add appends a new item.
	Add key.Binding

	// Delete removes the selected item.
	Delete key.Binding

	// Duplicate copies the selected item.
	Duplicate key.Binding

	// MoveUp moves the selected field one position up.
	MoveUp key.Binding

	// MoveDown moves the selected field one position down.
	MoveDown key.Binding

	// Required toggles the required marker on the active field.
	Required key.Binding

	// Save commits the current edit session.
	Save key.Binding

	// Run starts executing the selected procedure.
	Run key.Binding

	// View opens the selected procedure read-only.
	View key.Binding

	// Export writes the selected procedure as a JSON template.
	Export key.Binding

	// Clear wipes the signature canvas.
	Clear key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Add: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete", "backspace"),
			key.WithHelp("d", "delete"),
		),
		Duplicate: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "duplicate"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		Required: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "required"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s", "s"),
			key.WithHelp("s", "save"),
		),
		Run: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "run"),
		),
		View: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "view"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear"),
		),
	}
}

// LibraryHelp returns keybindings for the procedure library view.
func (k *KeyMap) LibraryHelp() []key.Binding {
	return []key.Binding{k.Add, k.Select, k.Run, k.View, k.Duplicate, k.Delete, k.Export, k.Back}
}

// BuilderHelp returns keybindings for the builder view.
func (k *KeyMap) BuilderHelp() []key.Binding {
	return []key.Binding{k.Add, k.Select, k.Duplicate, k.Delete, k.MoveUp, k.MoveDown, k.Save, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Add, k.Delete, k.Duplicate},
		{k.MoveUp, k.MoveDown, k.Save},
		{k.Help, k.Back, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}

// HelpLine renders a binding list as a "[key] action" footer segment.
func HelpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
	}
	return strings.Join(parts, "  ")
}
