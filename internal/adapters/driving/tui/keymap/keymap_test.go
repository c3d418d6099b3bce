package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_QuitBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Quit.Keys()
	assert.Contains(t, keys, "q")
	assert.Contains(t, keys, "ctrl+c")
}

func TestDefaultKeyMap_BackBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Back.Keys()
	assert.Contains(t, keys, "esc")
}

func TestDefaultKeyMap_NavigationBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.Up.Keys(), "k")
	assert.Contains(t, km.Up.Keys(), "up")
	assert.Contains(t, km.Down.Keys(), "j")
	assert.Contains(t, km.Down.Keys(), "down")
}

func TestDefaultKeyMap_MoveBindings(t *testing.T) {
	km := DefaultKeyMap()

	// Reordering uses the shifted variants so plain j/k stay navigation.
	assert.Contains(t, km.MoveUp.Keys(), "K")
	assert.Contains(t, km.MoveDown.Keys(), "J")
}

func TestDefaultKeyMap_SaveBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Save.Keys()
	assert.Contains(t, keys, "ctrl+s")
	assert.Contains(t, keys, "s")
}

func TestLibraryHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.LibraryHelp()
	assert.NotEmpty(t, bindings)
}

func TestBuilderHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.BuilderHelp()
	assert.NotEmpty(t, bindings)
}

func TestFullHelp(t *testing.T) {
	km := DefaultKeyMap()

	groups := km.FullHelp()
	require.NotEmpty(t, groups)
	for _, group := range groups {
		assert.NotEmpty(t, group)
	}
}

func TestDefaultKeyMap_DeleteBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Delete.Keys()
	assert.Contains(t, keys, "d")
	assert.Contains(t, keys, "backspace")
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("q", km.Quit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.False(t, Matches("z", km.Quit))
}

func TestHelpLine(t *testing.T) {
	km := DefaultKeyMap()

	line := HelpLine([]key.Binding{km.Add, km.Back})
	assert.Equal(t, "[a] add  [esc] back", line)
}
