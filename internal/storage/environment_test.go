package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/perseus/internal/types"
)

func TestSubstitute(t *testing.T) {
	vars := map[string]string{"host": "localhost", "port": "3000"}

	tests := []struct {
		name       string
		template   string
		want       string
		unresolved []string
	}{
		{"simple", "http://{{host}}:{{port}}/", "http://localhost:3000/", nil},
		{"unknown", "{{host}}/{{missing}}", "localhost/{{missing}}", []string{"missing"}},
		{"unclosed", "a {{host", "a {{host", nil},
		{"empty name", "{{}}x", "{{}}x", nil},
		{"no vars", "plain", "plain", nil},
		{"triple braces", "{{{host}}}", "{{{host}}}", []string{"{host"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, unresolved := Substitute(tt.template, vars)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.unresolved, unresolved)
		})
	}
}

func TestResolve(t *testing.T) {
	vars := map[string]string{"base": "http://x", "tok": "secret"}
	req := &types.Request{
		URL:     "{{base}}/users",
		Headers: "X-Id: {{id}}",
		Body:    `{"id": "{{id}}"}`,
		Auth:    &types.Auth{Type: types.AuthBearer, Token: "{{tok}}"},
	}

	out, missing := Resolve(req, vars)
	assert.Equal(t, "http://x/users", out.URL)
	assert.Equal(t, "secret", out.Auth.Token)
	assert.Equal(t, []string{"id"}, missing)
	assert.Equal(t, "{{tok}}", req.Auth.Token, "input is not modified")
}

func TestEnvironmentFiles(t *testing.T) {
	root := t.TempDir()

	envs, err := LoadEnvironments(root)
	require.NoError(t, err)
	assert.Empty(t, envs)

	dev := &Environment{Name: "dev"}
	dev.Set("base", "http://localhost")
	dev.Set("base", "http://127.0.0.1")
	require.NoError(t, SaveEnvironment(root, dev))
	require.NoError(t, SaveEnvironment(root, &Environment{Name: "a-prod"}))
	assert.Error(t, SaveEnvironment(root, &Environment{Name: "../evil"}))

	// hand-written file: enabled defaults to true
	raw := "name: staging\nvalues:\n  - key: alpha\n    value: \"1\"\n  - key: beta\n    value: \"2\"\n    enabled: false\n"
	require.NoError(t, os.WriteFile(filepath.Join(EnvironmentsDir(root), "staging.yaml"), []byte(raw), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(EnvironmentsDir(root), "broken.yaml"), []byte("name: [\n"), 0o644))

	envs, err = LoadEnvironments(root)
	require.NoError(t, err)
	require.Len(t, envs, 3)
	assert.Equal(t, "a-prod", envs[0].Name)

	got := FindEnvironment(envs, "dev")
	require.NotNil(t, got)
	assert.Equal(t, map[string]string{"base": "http://127.0.0.1"}, got.Variables())

	staging := FindEnvironment(envs, "staging")
	require.NotNil(t, staging)
	assert.Equal(t, map[string]string{"alpha": "1"}, staging.Variables())

	require.NoError(t, DeleteEnvironment(root, "dev"))
	require.NoError(t, DeleteEnvironment(root, "dev"))
	envs, _ = LoadEnvironments(root)
	assert.Nil(t, FindEnvironment(envs, "dev"))

	var none *Environment
	assert.Empty(t, none.Variables())
}
