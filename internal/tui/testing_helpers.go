package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/perseus/internal/clipboard"
	"github.com/studiowebux/perseus/internal/config"
	"github.com/studiowebux/perseus/internal/keybinds"
	"github.com/studiowebux/perseus/internal/session"
	"github.com/studiowebux/perseus/internal/storage"
	"github.com/studiowebux/perseus/internal/types"
)

// CreateTestModel creates a Model over an empty collection in a temporary
// directory, with an in-memory clipboard and no history
func CreateTestModel(t *testing.T) *Model {
	t.Helper()
	return CreateTestModelWithStore(t, nil)
}

// CreateTestModelWithStore lets populate fill the store before the model
// is built
func CreateTestModelWithStore(t *testing.T, populate func(s *storage.Store)) *Model {
	t.Helper()

	root := t.TempDir()
	store, err := storage.Open(root)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	if populate != nil {
		populate(store)
		if err := store.Save(); err != nil {
			t.Fatalf("Failed to save test store: %v", err)
		}
	}

	m, err := New(Options{
		Root:      root,
		Settings:  config.Default(),
		Store:     store,
		Sessions:  session.NewManager(filepath.Join(t.TempDir(), "sessions.json")),
		Keybinds:  keybinds.NewDefaultRegistry(),
		Clipboard: clipboard.NewMemory(),
	})
	if err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}
	m.width, m.height = 120, 40

	return &m
}

// AddTestRequest adds a request under the first project and returns its id
func AddTestRequest(t *testing.T, s *storage.Store, parentID, name, url string) string {
	t.Helper()
	if parentID == "" {
		parentID = s.Projects()[0].ID
	}
	id, err := s.AddRequest(parentID, name, &types.Request{Method: types.MethodGet, URL: url})
	if err != nil {
		t.Fatalf("Failed to add request %s: %v", name, err)
	}
	return id
}

// PressKeys feeds keys to the model as if typed, one message per entry.
// Entries of one rune are sent as runes, anything else by name.
func PressKeys(m *Model, keys ...string) tea.Cmd {
	var cmds []tea.Cmd
	for _, k := range keys {
		_, cmd := m.Update(keyMsg(k))
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// TypeText sends every rune of text as a separate key press
func TypeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "ctrl+w":
		return tea.KeyMsg{Type: tea.KeyCtrlW}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}

// AssertNoError verifies that an error is nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

// AssertError verifies that an error occurred
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Error("Expected error but got nil")
	}
}
