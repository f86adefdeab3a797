package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "sessions.json")
	m := NewManager(path)
	require.NoError(t, m.Load())

	_, ok := m.Get("/proj")
	assert.False(t, ok)

	state := State{
		ActiveProjectID: "p1",
		SidebarWidth:    40,
		SidebarVisible:  true,
		SelectionID:     "r1",
		Expanded:        []string{"f1", "f2"},
		Environment:     "dev",
	}
	require.NoError(t, m.Put("/proj", state))

	reloaded := NewManager(path)
	require.NoError(t, reloaded.Load())
	got, ok := reloaded.Get("/proj")
	require.True(t, ok)
	assert.Equal(t, state, got)
	assert.Equal(t, map[string]bool{"f1": true, "f2": true}, got.ExpandedSet())

	got.Expanded[0] = "changed"
	again, _ := reloaded.Get("/proj")
	assert.Equal(t, "f1", again.Expanded[0])
}

func TestPutRejectsEmptyKey(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "s.json"))
	assert.Error(t, m.Put(" ", State{}))
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 9, "sessions": {}}`), 0o644))

	err := NewManager(path).Load()
	assert.ErrorContains(t, err, "unsupported session file version")
}

func TestForget(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "s.json"))
	require.NoError(t, m.Put("a", State{ActiveProjectID: "x"}))
	require.NoError(t, m.Forget("a"))
	_, ok := m.Get("a")
	assert.False(t, ok)
}
