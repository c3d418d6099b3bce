package procedures

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canopy-labs/proctor-cli/internal/adapters/driven/storage/memory"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/messages"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui/styles"
	"github.com/canopy-labs/proctor-cli/internal/core/services"
)

func newTestView(t *testing.T) *View {
	t.Helper()
	store := memory.NewProcedureStore()
	return NewView(
		styles.DefaultStyles(),
		services.NewProcedureService(store),
		services.NewBuilderService(store),
		services.NewExecutionService(store, memory.NewExecutionStore()),
		t.TempDir(),
	)
}

func seed(t *testing.T, v *View, names ...string) {
	t.Helper()
	ctx := context.Background()
	for _, name := range names {
		_, err := v.procedureService.Create(ctx, name, "")
		require.NoError(t, err)
	}
	msg := v.loadProcedures()()
	loaded, ok := msg.(messages.ProceduresLoaded)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	v, _ = v.Update(loaded)
	require.Len(t, v.Procedures(), len(names))
}

func TestView_Init_LoadsLibrary(t *testing.T) {
	v := newTestView(t)

	cmd := v.Init()
	require.NotNil(t, cmd)

	msg := cmd()
	loaded, ok := msg.(messages.ProceduresLoaded)
	require.True(t, ok)
	assert.NoError(t, loaded.Err)
	assert.Empty(t, loaded.Procedures)
}

func TestView_Update_Navigation(t *testing.T) {
	v := newTestView(t)
	seed(t, v, "Alpha", "Beta", "Gamma")

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, v.SelectedIndex())

	// Clamped at the end of the list
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, v.SelectedIndex())
}

func TestView_NamingFlow_OpensBuilder(t *testing.T) {
	v := newTestView(t)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	assert.True(t, v.naming)

	for _, r := range "Pump Check" {
		if r == ' ' {
			v, _ = v.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
		} else {
			v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		}
	}
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	opened, ok := msg.(messages.BuilderOpened)
	require.True(t, ok)
	require.NoError(t, opened.Err)
	assert.Equal(t, "Pump Check", opened.Builder.Procedure().Name)
}

func TestView_NamingFlow_SpaceInsertsSingleSpace(t *testing.T) {
	v := newTestView(t)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'X'}})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'Y'}})

	assert.Equal(t, "X Y", v.nameBuf)
}

func TestView_NamingFlow_EscCancels(t *testing.T) {
	v := newTestView(t)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.False(t, v.naming)
	assert.Empty(t, v.nameBuf)
}

func TestView_EnterOpensBuilder(t *testing.T) {
	v := newTestView(t)
	seed(t, v, "Boiler Check")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	opened, ok := cmd().(messages.BuilderOpened)
	require.True(t, ok)
	require.NoError(t, opened.Err)
	assert.Equal(t, "Boiler Check", opened.Builder.Procedure().Name)
}

func TestView_RunOpensExecutor(t *testing.T) {
	v := newTestView(t)
	seed(t, v, "Boiler Check")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.NotNil(t, cmd)

	opened, ok := cmd().(messages.ExecutorOpened)
	require.True(t, ok)
	require.NoError(t, opened.Err)
	assert.False(t, opened.Readonly)
	assert.False(t, opened.Executor.Readonly())
}

func TestView_ViewOpensReadonlyExecutor(t *testing.T) {
	v := newTestView(t)
	seed(t, v, "Boiler Check")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'v'}})
	require.NotNil(t, cmd)

	opened, ok := cmd().(messages.ExecutorOpened)
	require.True(t, ok)
	require.NoError(t, opened.Err)
	assert.True(t, opened.Readonly)
	assert.True(t, opened.Executor.Readonly())
}

func TestView_DeleteProcedure(t *testing.T) {
	v := newTestView(t)
	seed(t, v, "Doomed")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	require.NotNil(t, cmd)

	deleted, ok := cmd().(messages.ProcedureDeleted)
	require.True(t, ok)
	assert.NoError(t, deleted.Err)

	remaining, err := v.procedureService.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestView_DuplicateProcedure(t *testing.T) {
	v := newTestView(t)
	seed(t, v, "Original")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	require.NotNil(t, cmd)

	dup, ok := cmd().(messages.ProcedureDuplicated)
	require.True(t, ok)
	require.NoError(t, dup.Err)
	assert.Equal(t, "Original (copy)", dup.Procedure.Name)
}

func TestView_ExportWritesTemplate(t *testing.T) {
	v := newTestView(t)
	seed(t, v, "Valve Inspection")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	require.NotNil(t, cmd)

	exported, ok := cmd().(messages.ProcedureExported)
	require.True(t, ok)
	require.NoError(t, exported.Err)
	assert.Equal(t, "valve-inspection.json", filepath.Base(exported.Path))

	data, err := os.ReadFile(exported.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Valve Inspection")
}

func TestTemplateFileName(t *testing.T) {
	assert.Equal(t, "pump-check.json", templateFileName("Pump Check"))
	assert.Equal(t, "ac-unit-3.json", templateFileName("  AC Unit #3  "))
	assert.Equal(t, "procedure.json", templateFileName("***"))
}

func TestView_EmptyLibraryActionsAreNoOps(t *testing.T) {
	v := newTestView(t)
	seed(t, v)

	for _, key := range []rune{'r', 'v', 'c', 'd', 'x'} {
		_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{key}})
		assert.Nil(t, cmd, "key %q should be a no-op on an empty library", key)
	}
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestView_View_States(t *testing.T) {
	v := newTestView(t)
	v.SetDimensions(80, 24)

	assert.Contains(t, v.View(), "No procedures yet")

	seed(t, v, "Pump Check")
	out := v.View()
	assert.Contains(t, out, "Pump Check")
	assert.Contains(t, out, "0 fields")
}
