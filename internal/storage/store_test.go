package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/perseus/internal/types"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	root := filepath.Join(t.TempDir(), "api")
	require.NoError(t, os.MkdirAll(root, 0o755))
	s, err := Open(root)
	require.NoError(t, err)
	return s
}

func TestOpenCreatesProject(t *testing.T) {
	s := openTemp(t)

	projects := s.Projects()
	require.Len(t, projects, 1)
	assert.Equal(t, "api", projects[0].Name)
	assert.True(t, validID(projects[0].ID))
	assert.FileExists(t, CollectionPath(s.Root))
	assert.Equal(t, SchemaURL, s.Collection.Info.Schema)
}

func TestOpenRepairsIDsAndOrder(t *testing.T) {
	root := t.TempDir()
	raw := `{
	  "info": {"name": "x", "_postman_id": "", "schema": ""},
	  "item": [{
	    "name": "p", "id": "bad",
	    "item": [
	      {"name": "zeta", "request": {"method": "GET", "url": {"raw": "http://z"}}},
	      {"name": "Alpha", "item": []}
	    ]
	  }]
	}`
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".perseus"), 0o755))
	require.NoError(t, os.WriteFile(CollectionPath(root), []byte(raw), 0o644))

	s, err := Open(root)
	require.NoError(t, err)

	p := s.Collection.Item[0]
	assert.True(t, validID(p.ID))
	require.Len(t, p.Item, 2)
	assert.Equal(t, "Alpha", p.Item[0].Name)
	assert.Equal(t, "http://z", p.Item[1].Request.URL.Raw)

	// repaired file is written back with the string URL form
	data, err := os.ReadFile(CollectionPath(root))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"url": "http://z"`)
}

func TestSaveRoundTrip(t *testing.T) {
	s := openTemp(t)
	project := s.Projects()[0].ID

	id, err := s.AddRequest(project, "Get users", &types.Request{
		Method:  types.MethodPost,
		URL:     "https://api.test/users",
		Headers: "Accept: application/json\nX-Trace: 1",
		Body:    `{"a":1}`,
		Auth:    &types.Auth{Type: types.AuthBearer, Token: "t0k"},
	})
	require.NoError(t, err)
	require.NoError(t, s.Save())

	reloaded, err := Open(s.Root)
	require.NoError(t, err)
	req, err := reloaded.Request(id)
	require.NoError(t, err)

	assert.Equal(t, "Get users", req.Name)
	assert.Equal(t, types.MethodPost, req.Method)
	assert.Equal(t, "https://api.test/users", req.URL)
	assert.Equal(t, "Accept: application/json\nX-Trace: 1", req.Headers)
	assert.Equal(t, `{"a":1}`, req.Body)
	require.NotNil(t, req.Auth)
	assert.Equal(t, "t0k", req.Auth.Token)

	matches, _ := filepath.Glob(filepath.Join(s.Root, ".perseus", "*.tmp"))
	assert.Empty(t, matches, "temp files are cleaned up")
}

func TestAddInsideRequestFails(t *testing.T) {
	s := openTemp(t)
	project := s.Projects()[0].ID
	req, err := s.AddRequest(project, "r", nil)
	require.NoError(t, err)

	_, err = s.AddFolder(req, "f")
	assert.ErrorIs(t, err, ErrNotContainer)

	_, err = s.AddFolder("missing", "f")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.AddFolder(project, "  ")
	assert.Error(t, err)
}

func TestRenameResorts(t *testing.T) {
	s := openTemp(t)
	project := s.Projects()[0].ID
	a, _ := s.AddFolder(project, "a")
	_, _ = s.AddFolder(project, "b")

	require.NoError(t, s.Rename(a, "c"))
	p, _ := s.Item(project)
	assert.Equal(t, "b", p.Item[0].Name)
	assert.Equal(t, "c", p.Item[1].Name)

	assert.ErrorIs(t, s.Rename("nope", "x"), ErrNotFound)
}

func TestDeleteRemovesSubtree(t *testing.T) {
	s := openTemp(t)
	project := s.Projects()[0].ID
	folder, _ := s.AddFolder(project, "f")
	req, _ := s.AddRequest(folder, "r", nil)

	require.NoError(t, s.Delete(folder))
	_, err := s.Item(req)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(folder), ErrNotFound)
}

func TestDuplicateIssuesNewIDs(t *testing.T) {
	s := openTemp(t)
	project := s.Projects()[0].ID
	folder, _ := s.AddFolder(project, "f")
	req, _ := s.AddRequest(folder, "r", &types.Request{URL: "http://x"})

	dup, err := s.Duplicate(folder)
	require.NoError(t, err)
	assert.NotEqual(t, folder, dup)

	d, _ := s.Item(dup)
	require.Len(t, d.Item, 1)
	assert.NotEqual(t, req, d.Item[0].ID)
	assert.Equal(t, "http://x", d.Item[0].Request.URL.Raw)

	// the copy is independent
	d.Item[0].Request.URL.Raw = "http://changed"
	orig, _ := s.Item(req)
	assert.Equal(t, "http://x", orig.Request.URL.Raw)
}

func TestMove(t *testing.T) {
	s := openTemp(t)
	project := s.Projects()[0].ID
	a, _ := s.AddFolder(project, "a")
	b, _ := s.AddFolder(a, "b")
	r, _ := s.AddRequest(project, "r", nil)

	require.NoError(t, s.Move(r, b))
	tree, err := s.Tree(project)
	require.NoError(t, err)
	assert.Equal(t, []string{"api", "a", "b", "r"}, tree.PathFor(r))

	assert.ErrorIs(t, s.Move(a, b), ErrInvalidMove, "into own descendant")
	assert.ErrorIs(t, s.Move(a, a), ErrInvalidMove, "into itself")
	assert.ErrorIs(t, s.Move(b, r), ErrInvalidMove, "into a request")
	assert.ErrorIs(t, s.Move("missing", a), ErrNotFound)
}

func TestUpdateRequest(t *testing.T) {
	s := openTemp(t)
	project := s.Projects()[0].ID
	id, _ := s.AddRequest(project, "r", nil)

	require.NoError(t, s.UpdateRequest(id, &types.Request{Method: types.MethodDelete, URL: "http://d"}))
	req, err := s.Request(id)
	require.NoError(t, err)
	assert.Equal(t, "r", req.Name)
	assert.Equal(t, types.MethodDelete, req.Method)

	assert.ErrorIs(t, s.UpdateRequest(project, &types.Request{}), ErrNotFound)
}

func TestImportAndFindByPath(t *testing.T) {
	s := openTemp(t)
	existing := s.Projects()[0].ID

	col := &Collection{Item: []*Item{
		{Name: "Other", ID: existing, Item: []*Item{
			{Name: "Ping", Request: &Request{Method: "GET", URL: URL{Raw: "http://ping"}}},
		}},
		{Name: "Loose", Request: &Request{Method: "POST", URL: URL{Raw: "http://loose"}}},
	}}
	path := filepath.Join(t.TempDir(), "export.json")
	data, err := json.Marshal(col)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	n, err := s.ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, s.Projects(), 3)

	id, err := s.FindByPath("other/ping")
	require.NoError(t, err)
	assert.NotEqual(t, existing, id)
	req, _ := s.Request(id)
	assert.Equal(t, "http://ping", req.URL)

	_, err = s.FindByPath("Loose/Loose")
	assert.NoError(t, err)

	_, err = s.FindByPath("nope/x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthConversion(t *testing.T) {
	tests := []struct {
		name string
		auth *types.Auth
	}{
		{"bearer", &types.Auth{Type: types.AuthBearer, Token: "abc"}},
		{"basic", &types.Auth{Type: types.AuthBasic, Username: "u", Password: "p"}},
		{"apikey query", &types.Auth{Type: types.AuthAPIKey, Key: "k", Value: "v", In: "query"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &Item{Request: FromRequest(&types.Request{Auth: tt.auth})}
			assert.Equal(t, tt.auth, item.ToRequest().Auth)
		})
	}

	item := &Item{Request: FromRequest(&types.Request{Auth: &types.Auth{Type: types.AuthAPIKey, Key: "k"}})}
	assert.Equal(t, "header", item.ToRequest().Auth.In)
}

func TestHeaderTextSkipsDisabledAndBlank(t *testing.T) {
	assert.Equal(t, "A: 1", headerText([]Header{{Key: "A", Value: "1"}, {Key: "B", Value: "2", Disabled: true}}))
	assert.Equal(t, []Header{{Key: "A", Value: "1"}, {Key: "B", Value: ""}},
		parseHeaderText("A: 1\n\n: orphan\nB"))
}
