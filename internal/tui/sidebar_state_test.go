package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/perseus/internal/storage"
)

type sidebarFixture struct {
	sidebar *SidebarState
	project string
	api     string
	v1      string
	users   string
	health  string
}

// newSidebarFixture builds project / api / v1 / users plus a top level health
func newSidebarFixture(t *testing.T) sidebarFixture {
	t.Helper()
	s, err := storage.Open(t.TempDir())
	require.NoError(t, err)

	fx := sidebarFixture{project: s.Projects()[0].ID}
	fx.api, err = s.AddFolder(fx.project, "api")
	require.NoError(t, err)
	fx.v1, err = s.AddFolder(fx.api, "v1")
	require.NoError(t, err)
	fx.users = AddTestRequest(t, s, fx.v1, "users", "http://example.com/users")
	fx.health = AddTestRequest(t, s, fx.project, "health", "http://example.com/health")

	tree, err := s.Tree(fx.project)
	require.NoError(t, err)
	fx.sidebar = NewSidebarState(nil)
	fx.sidebar.SetTree(tree)
	return fx
}

func rowIDs(s *SidebarState) []string {
	var ids []string
	for _, r := range s.Rows() {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestSidebarState_CollapsedByDefault(t *testing.T) {
	fx := newSidebarFixture(t)

	assert.Equal(t, []string{fx.project, fx.api, fx.health}, rowIDs(fx.sidebar))
	assert.Equal(t, fx.project, fx.sidebar.SelectedID())
}

func TestSidebarState_ExpandAndCollapse(t *testing.T) {
	fx := newSidebarFixture(t)
	s := fx.sidebar

	s.Move(1)
	require.True(t, s.Expand())
	assert.Equal(t, []string{fx.project, fx.api, fx.v1, fx.health}, rowIDs(s))
	assert.Equal(t, fx.api, s.SelectedID())

	s.Move(1)
	s.Expand()
	s.Move(1)
	assert.Equal(t, fx.users, s.SelectedID())
	assert.False(t, s.Expand(), "requests do not expand")

	// collapse on a request goes to its folder, then closes it
	s.Collapse()
	assert.Equal(t, fx.v1, s.SelectedID())
	s.Collapse()
	assert.NotContains(t, rowIDs(s), fx.users)
	assert.Equal(t, fx.v1, s.SelectedID())

	assert.Equal(t, []string{fx.api}, s.Expanded())
}

func TestSidebarState_Toggle(t *testing.T) {
	fx := newSidebarFixture(t)
	s := fx.sidebar
	s.Select(fx.api)

	s.Toggle()
	assert.Contains(t, rowIDs(s), fx.v1)
	s.Toggle()
	assert.NotContains(t, rowIDs(s), fx.v1)
}

func TestSidebarState_SelectExpandsAncestors(t *testing.T) {
	fx := newSidebarFixture(t)
	s := fx.sidebar

	s.Select(fx.users)

	assert.Equal(t, fx.users, s.SelectedID())
	assert.ElementsMatch(t, []string{fx.api, fx.v1}, s.Expanded())

	s.Select("missing")
	assert.Equal(t, fx.users, s.SelectedID())
}

func TestSidebarState_SetTreeKeepsSelection(t *testing.T) {
	fx := newSidebarFixture(t)
	s := fx.sidebar
	s.Select(fx.health)

	s.SetTree(s.Tree())

	assert.Equal(t, fx.health, s.SelectedID())
}

func TestSidebarState_Filter(t *testing.T) {
	fx := newSidebarFixture(t)
	s := fx.sidebar
	s.Select(fx.health)

	s.SetFilter("usr")
	require.Len(t, s.Rows(), 1)
	row := s.Rows()[0]
	assert.Equal(t, fx.users, row.ID)
	assert.Equal(t, "api/v1/users", row.Label)
	assert.NotEmpty(t, row.Matched)

	// collapse is a no-op while filtering
	s.Collapse()
	assert.Equal(t, fx.users, s.SelectedID())

	s.SetFilter("zzz")
	assert.Empty(t, s.Rows())
	assert.Nil(t, s.Selected())
	assert.Equal(t, "", s.SelectedID())

	s.SetFilter("")
	assert.Equal(t, []string{fx.project, fx.api, fx.health}, rowIDs(s))
}

func TestSidebarState_ExpandWhileFilteringClearsFilter(t *testing.T) {
	fx := newSidebarFixture(t)
	s := fx.sidebar

	s.SetFilter("v1")
	require.True(t, s.selectVisible(fx.v1))

	assert.True(t, s.Expand())
	assert.Empty(t, s.Filter())
	assert.Equal(t, fx.v1, s.SelectedID())
	assert.Contains(t, rowIDs(s), fx.users)
}

func TestSidebarState_MoveClamps(t *testing.T) {
	fx := newSidebarFixture(t)
	s := fx.sidebar

	s.Move(-5)
	assert.Equal(t, 0, s.Cursor())
	s.Move(50)
	assert.Equal(t, 2, s.Cursor())
	s.Top()
	assert.Equal(t, 0, s.Cursor())
	s.Bottom()
	assert.Equal(t, fx.health, s.SelectedID())
}

func TestSidebarState_EnsureVisible(t *testing.T) {
	fx := newSidebarFixture(t)
	s := fx.sidebar
	s.Select(fx.users)
	// project, api, v1, users, health
	require.Equal(t, 3, s.Cursor())

	s.EnsureVisible(2)
	assert.Equal(t, 2, s.Offset())

	s.Top()
	s.EnsureVisible(2)
	assert.Equal(t, 0, s.Offset())

	s.EnsureVisible(10)
	assert.Equal(t, 0, s.Offset())
}
