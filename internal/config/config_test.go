package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), DirPermissions))
	require.NoError(t, os.WriteFile(path, []byte(content), FilePermissions))
}

func TestDefaults(t *testing.T) {
	s, err := LoadFrom("", "")
	require.NoError(t, err)

	assert.Equal(t, 30, s.HTTP.Timeout)
	assert.Equal(t, 30*time.Second, s.HTTP.TimeoutDuration())
	assert.True(t, s.HTTP.FollowRedirects)
	assert.Equal(t, 10, s.HTTP.MaxRedirects)
	assert.True(t, s.SSL.Verify)
	assert.Equal(t, 32, s.UI.SidebarWidth)
	assert.Equal(t, 2, s.Editor.TabSize)
	assert.True(t, s.History.Enabled)
	assert.Equal(t, "info", s.Log.Level)
}

func TestProjectOverlayMergesFieldByField(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "global", ConfigFileName)
	project := filepath.Join(dir, "project", ConfigFileName)

	writeFile(t, global, "[http]\ntimeout = 60\nmax_redirects = 5\n\n[proxy]\nurl = \"http://proxy:8080\"\n")
	writeFile(t, project, "[http]\ntimeout = 5\n\n[proxy]\nno_proxy = \"localhost\"\n")

	s, err := LoadFrom(global, project)
	require.NoError(t, err)

	assert.Equal(t, 5, s.HTTP.Timeout)
	assert.Equal(t, 5, s.HTTP.MaxRedirects, "global value survives when project omits it")
	assert.Equal(t, "http://proxy:8080", s.Proxy.URL)
	assert.Equal(t, "localhost", s.Proxy.NoProxy)
}

func TestMissingFilesAreSkipped(t *testing.T) {
	dir := t.TempDir()
	s, err := LoadFrom(filepath.Join(dir, "nope.toml"), filepath.Join(dir, "also-nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, 30, s.HTTP.Timeout)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PERSEUS_HTTP_TIMEOUT", "12")

	s, err := LoadFrom("", "")
	require.NoError(t, err)
	assert.Equal(t, 12, s.HTTP.Timeout)
}

func TestParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, "[http\ntimeout = ")

	_, err := LoadFrom(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		want   string
	}{
		{"timeout", func(s *Settings) { s.HTTP.Timeout = 601 }, "http.timeout"},
		{"redirects", func(s *Settings) { s.HTTP.MaxRedirects = 101 }, "http.max_redirects"},
		{"sidebar", func(s *Settings) { s.UI.SidebarWidth = 10 }, "ui.sidebar_width"},
		{"tab size", func(s *Settings) { s.Editor.TabSize = 0 }, "editor.tab_size"},
		{"proxy", func(s *Settings) { s.Proxy.URL = "not a url" }, "proxy.url"},
		{"ca cert", func(s *Settings) { s.SSL.CACert = "/does/not/exist.pem" }, "ssl.ca_cert"},
		{"cert without key", func(s *Settings) { s.SSL.ClientCert = "/does/not/exist.pem" }, "both be set"},
		{"log level", func(s *Settings) { s.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			require.NoError(t, s.Validate())

			tt.mutate(s)
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateBoundaries(t *testing.T) {
	s := Default()
	s.HTTP.Timeout = 0
	s.HTTP.MaxRedirects = 100
	s.UI.SidebarWidth = 60
	s.Editor.TabSize = 8
	assert.NoError(t, s.Validate())
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, StorageDirName), DirPermissions))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, DirPermissions))

	found, err := FindProjectRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, ProjectKey(root), ProjectKey(found))
}

func TestInitializeAt(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "home")
	require.NoError(t, InitializeAt(dir))

	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "perseus.db"), DatabasePath)
	assert.Equal(t, filepath.Join(dir, ConfigFileName), GlobalConfigFile)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "certs/ca.pem"), ExpandHome("~/certs/ca.pem"))
	assert.Equal(t, "/abs/ca.pem", ExpandHome("/abs/ca.pem"))
	assert.Equal(t, "~user/x", ExpandHome("~user/x"))
}
