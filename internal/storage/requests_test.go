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

func TestSaveMirrorsRequestFiles(t *testing.T) {
	s := openTemp(t)
	project := s.Projects()[0].ID
	folder, err := s.AddFolder(project, "users")
	require.NoError(t, err)
	list, err := s.AddRequest(folder, "list", &types.Request{Method: types.MethodGet, URL: "http://x/users"})
	require.NoError(t, err)
	ping, err := s.AddRequest(project, "ping", nil)
	require.NoError(t, err)
	require.NoError(t, s.Save())

	data, err := os.ReadFile(filepath.Join(RequestsDir(s.Root), list+".json"))
	require.NoError(t, err)
	var file RequestFile
	require.NoError(t, json.Unmarshal(data, &file))
	assert.Equal(t, list, file.ID)
	assert.Equal(t, folder, file.ParentID)
	assert.Equal(t, project, file.ProjectID)
	require.NotNil(t, file.Item)
	assert.Equal(t, "http://x/users", file.Item.Request.URL.Raw)

	pingPath := filepath.Join(RequestsDir(s.Root), ping+".json")
	require.FileExists(t, pingPath)
	data, err = os.ReadFile(pingPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &file))
	assert.Equal(t, project, file.ParentID, "top-level requests belong to the project")

	entries, err := os.ReadDir(RequestsDir(s.Root))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "folders and projects get no file")
}

func TestSaveRemovesStaleRequestFiles(t *testing.T) {
	s := openTemp(t)
	id, err := s.AddRequest(s.Projects()[0].ID, "gone", nil)
	require.NoError(t, err)
	require.NoError(t, s.Save())
	path := filepath.Join(RequestsDir(s.Root), id+".json")
	require.FileExists(t, path)

	notes := filepath.Join(RequestsDir(s.Root), "README.txt")
	require.NoError(t, os.WriteFile(notes, []byte("kept"), 0o644))

	require.NoError(t, s.Delete(id))
	require.NoError(t, s.Save())

	assert.NoFileExists(t, path)
	assert.FileExists(t, notes, "only request json files are managed")
}
