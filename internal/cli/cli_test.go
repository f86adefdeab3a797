package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/perseus/internal/config"
	"github.com/studiowebux/perseus/internal/history"
	"github.com/studiowebux/perseus/internal/storage"
	"github.com/studiowebux/perseus/internal/types"
)

func init() {
	color.NoColor = true
}

func newWorkspace(t *testing.T) (*Workspace, string) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.Open(root)
	require.NoError(t, err)

	settings := config.Default()
	settings.History.Enabled = false

	return &Workspace{Root: root, Settings: settings, Store: store}, store.Projects()[0].ID
}

func addRequest(t *testing.T, ws *Workspace, parent, name string, req *types.Request) string {
	t.Helper()
	id, err := ws.Store.AddRequest(parent, name, req)
	require.NoError(t, err)
	return id
}

func TestSend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
		}
		fmt.Fprintf(w, `{"path":%q,"token":%q}`, r.URL.Path, r.Header.Get("X-Token"))
	}))
	defer server.Close()

	ws, project := newWorkspace(t)
	folder, err := ws.Store.AddFolder(project, "users")
	require.NoError(t, err)
	addRequest(t, ws, folder, "get", &types.Request{
		Method:  types.MethodGet,
		URL:     "{{host}}/users/{{id}}",
		Headers: "X-Token: {{token}}",
	})
	addRequest(t, ws, project, "missing", &types.Request{Method: types.MethodGet, URL: server.URL + "/missing"})

	env := &storage.Environment{Name: "dev"}
	env.Set("host", server.URL)
	env.Set("token", "secret")
	ws.Environments = []*storage.Environment{env}

	t.Run("resolves environment and extra vars", func(t *testing.T) {
		var out bytes.Buffer
		err := Send(context.Background(), ws, SendOptions{
			Path:         "users/get",
			Environment:  "dev",
			OutputFormat: "body",
			ExtraVars:    []string{"id=42"},
		}, &out)
		require.NoError(t, err)
		assert.Contains(t, out.String(), `"path":"/users/42"`)
		assert.Contains(t, out.String(), `"token":"secret"`)
	})

	t.Run("absolute path and filter", func(t *testing.T) {
		projectName := ws.Store.Projects()[0].Name
		var out bytes.Buffer
		err := Send(context.Background(), ws, SendOptions{
			Path:         projectName + "/users/get",
			Environment:  "dev",
			OutputFormat: "body",
			ExtraVars:    []string{"id=7"},
			Filter:       "path",
		}, &out)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "/users/7")
		assert.NotContains(t, out.String(), "token")
	})

	t.Run("error status", func(t *testing.T) {
		var out bytes.Buffer
		err := Send(context.Background(), ws, SendOptions{Path: "missing", OutputFormat: "text"}, &out)
		assert.ErrorIs(t, err, ErrRequestFailed)
		assert.Contains(t, out.String(), "404")
	})

	t.Run("save to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		err := Send(context.Background(), ws, SendOptions{
			Path:         "users/get",
			Environment:  "dev",
			OutputFormat: "json",
			SavePath:     path,
			ExtraVars:    []string{"id=1"},
		}, &bytes.Buffer{})
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"status": 200`)
	})

	t.Run("unknown environment", func(t *testing.T) {
		err := Send(context.Background(), ws, SendOptions{Path: "missing", Environment: "prod"}, &bytes.Buffer{})
		assert.ErrorContains(t, err, `environment "prod" not found`)
	})
}

func TestResolveRequestPath(t *testing.T) {
	ws, project := newWorkspace(t)
	folder, err := ws.Store.AddFolder(project, "api")
	require.NoError(t, err)
	id := addRequest(t, ws, folder, "ping", nil)

	got, err := resolveRequestPath(ws, "api/ping")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = resolveRequestPath(ws, "API/Ping")
	require.NoError(t, err)
	assert.Equal(t, id, got, "names match case-insensitively")

	_, err = resolveRequestPath(ws, "api")
	assert.ErrorContains(t, err, "is a folder")

	_, err = resolveRequestPath(ws, "api/pong")
	assert.ErrorContains(t, err, "no request at api/pong")
}

func TestParseExtraVars(t *testing.T) {
	vars := parseExtraVars([]string{"a=1", "b=x=y", "empty", "=skipped", " c = 2"})

	assert.Equal(t, map[string]string{
		"a":     "1",
		"b":     "x=y",
		"empty": "",
		"c":     " 2",
	}, vars)
}

func TestFormatOutput(t *testing.T) {
	resp := &types.Response{
		Status:       201,
		StatusText:   "Created",
		Headers:      []types.Header{{Key: "Location", Value: "/items/1"}},
		Body:         `{"id":1}`,
		Duration:     1500 * time.Millisecond,
		ResponseSize: 2048,
	}

	text, err := formatOutput(resp, "text", false)
	require.NoError(t, err)
	assert.Contains(t, text, "201 Created")
	assert.Contains(t, text, "2.0 kB")
	assert.NotContains(t, text, "Location")
	assert.Contains(t, text, `"id": 1`)

	full, err := formatOutput(resp, "text", true)
	require.NoError(t, err)
	assert.Contains(t, full, "Location: /items/1")

	body, err := formatOutput(resp, "body", false)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, body)

	yml, err := formatOutput(resp, "yaml", false)
	require.NoError(t, err)
	assert.Contains(t, yml, "status: 201")
}

func TestPrintTree(t *testing.T) {
	ws, project := newWorkspace(t)
	folder, err := ws.Store.AddFolder(project, "api")
	require.NoError(t, err)
	addRequest(t, ws, folder, "list", &types.Request{Method: types.MethodPost, URL: "http://x"})

	var out bytes.Buffer
	require.NoError(t, PrintTree(&out, ws.Store))

	assert.Contains(t, out.String(), ws.Store.Projects()[0].Name)
	assert.Contains(t, out.String(), "api/")
	assert.Contains(t, out.String(), "[POST]  list")
}

func TestImport(t *testing.T) {
	ws, _ := newWorkspace(t)
	path := filepath.Join(t.TempDir(), "postman.json")
	collection := `{
		"info": {"name": "Shop", "schema": "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"},
		"item": [
			{"name": "Shop", "item": [
				{"name": "products", "request": {"method": "GET", "url": {"raw": "https://shop.example/products"}}},
				{"name": "order", "request": {"method": "POST", "url": "https://shop.example/orders"}}
			]}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(collection), 0o644))

	var out bytes.Buffer
	require.NoError(t, Import(&out, ws, path, ImportOptions{}))
	assert.Contains(t, out.String(), "Imported 2 requests")

	id, err := ws.Store.FindByPath("Shop/products")
	require.NoError(t, err)
	req, err := ws.Store.Request(id)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/products", req.URL)

	reopened, err := storage.Open(ws.Root)
	require.NoError(t, err)
	assert.Len(t, reopened.Projects(), 2, "the import is saved")
}

func TestImportHAR(t *testing.T) {
	ws, _ := newWorkspace(t)
	path := filepath.Join(t.TempDir(), "capture.har")
	har := `{"log": {"version": "1.2", "entries": [
		{"request": {"method": "GET", "url": "https://api.example/users",
			"headers": [{"name": "Authorization", "value": "Bearer abc"}, {"name": "Cookie", "value": "s=1"}]}},
		{"request": {"method": "GET", "url": "wss://api.example/socket", "headers": []}}
	]}}`
	require.NoError(t, os.WriteFile(path, []byte(har), 0o644))

	var out bytes.Buffer
	require.NoError(t, Import(&out, ws, path, ImportOptions{}))
	assert.Contains(t, out.String(), "Imported 1 requests")
	assert.Contains(t, out.String(), "1 entries skipped")
	assert.Contains(t, out.String(), "environment capture")

	id, err := ws.Store.FindByPath("capture/api.example/get-users")
	require.NoError(t, err)
	req, err := ws.Store.Request(id)
	require.NoError(t, err)
	assert.Contains(t, req.Headers, "Authorization: Bearer {{token}}")
	assert.NotContains(t, req.Headers, "Cookie")

	envs, err := storage.LoadEnvironments(ws.Root)
	require.NoError(t, err)
	require.Len(t, envs, 1)
	assert.Equal(t, "abc", envs[0].Variables()["token"])
}

func TestPrintHistory(t *testing.T) {
	hist, err := history.NewManager(filepath.Join(t.TempDir(), "history.db"), "project")
	require.NoError(t, err)
	defer hist.Close()

	var out bytes.Buffer
	require.NoError(t, PrintHistory(&out, hist, 10))
	assert.Contains(t, out.String(), "No history yet")

	req := &types.Request{Method: types.MethodGet, URL: "http://example.com/a"}
	_, err = hist.Save(history.NewEntry(req, &types.Response{Status: 200, StatusText: "OK", ResponseSize: 10}, nil))
	require.NoError(t, err)
	_, err = hist.Save(history.NewEntry(req, nil, fmt.Errorf("dial tcp: connection refused")))
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, PrintHistory(&out, hist, 10))
	assert.Contains(t, out.String(), "http://example.com/a")
	assert.Contains(t, out.String(), "200")
	assert.Contains(t, out.String(), "error")
}

func TestKeybindsInitAndCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.json")

	var out bytes.Buffer
	require.NoError(t, InitKeybinds(&out, path))
	assert.FileExists(t, path)
	assert.Error(t, InitKeybinds(&out, path), "an existing file is not overwritten")

	out.Reset()
	require.NoError(t, CheckKeybinds(&out, path))
	assert.Contains(t, out.String(), "is valid")

	bad := `{
		// comments are allowed
		"sidebar": {"j": "no_such_action"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))
	assert.Error(t, CheckKeybinds(&out, path))
}
