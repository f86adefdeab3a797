package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHAR = `{"log": {"version": "1.2", "creator": {"name": "browser", "version": "1"}, "entries": [
	{"request": {"method": "GET", "url": "https://api.example/users?page=2", "headers": [
		{"name": ":authority", "value": "api.example"},
		{"name": "Accept", "value": "application/json"},
		{"name": "Authorization", "value": "Bearer abc"},
		{"name": "Cookie", "value": "session=1"}
	]}},
	{"request": {"method": "POST", "url": "https://api.example/users", "headers": [
		{"name": "Authorization", "value": "Bearer abc"}
	], "postData": {"mimeType": "application/json", "text": "{\"name\":\"a\"}"}}},
	{"request": {"method": "GET", "url": "https://api.example/users", "headers": []}},
	{"request": {"method": "GET", "url": "https://cdn.example/", "headers": []}},
	{"request": {"method": "GET", "url": "data:image/png;base64,xyz", "headers": []}}
]}}`

func TestIsHAR(t *testing.T) {
	assert.True(t, IsHAR([]byte(sampleHAR)))
	assert.False(t, IsHAR([]byte(`{"info": {"name": "x"}, "item": []}`)))
	assert.False(t, IsHAR([]byte(`not json`)))
}

func TestHAR(t *testing.T) {
	result, err := HAR([]byte(sampleHAR), HAROptions{Name: "My Capture"})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped, "non-http entries are skipped")
	require.Len(t, result.Collection.Item, 1)
	project := result.Collection.Item[0]
	assert.Equal(t, "My Capture", project.Name)

	require.Len(t, project.Item, 2)
	api, cdn := project.Item[0], project.Item[1]
	assert.Equal(t, "api.example", api.Name)
	assert.Equal(t, "cdn.example", cdn.Name)

	require.Len(t, api.Item, 3)
	assert.Equal(t, "get-users", api.Item[0].Name)
	assert.Equal(t, "post-users", api.Item[1].Name)
	assert.Equal(t, "get-users-2", api.Item[2].Name, "duplicate names get a suffix")
	assert.Equal(t, "get-request-3", cdn.Item[0].Name)

	get := api.Item[0].ToRequest()
	assert.Equal(t, "https://api.example/users?page=2", get.URL)
	assert.Contains(t, get.Headers, "Accept: application/json")
	assert.Contains(t, get.Headers, "Authorization: Bearer {{token}}")
	assert.NotContains(t, get.Headers, "Cookie")
	assert.NotContains(t, get.Headers, ":authority")

	post := api.Item[1].ToRequest()
	assert.Equal(t, `{"name":"a"}`, post.Body)

	require.NotNil(t, result.Environment)
	assert.Equal(t, "my-capture", result.Environment.Name)
	assert.Equal(t, "abc", result.Environment.Variables()["token"])
}

func TestHARImportHeaders(t *testing.T) {
	result, err := HAR([]byte(sampleHAR), HAROptions{ImportHeaders: true, Filter: "api.example"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Skipped)
	project := result.Collection.Item[0]
	assert.Equal(t, "Imported", project.Name)
	require.Len(t, project.Item, 1)
	assert.Contains(t, project.Item[0].Item[0].ToRequest().Headers, "Cookie: session=1")
}

func TestHARErrors(t *testing.T) {
	_, err := HAR([]byte(`{"log": {"entries": []}}`), HAROptions{})
	assert.ErrorContains(t, err, "no entries")

	_, err = HAR([]byte(`{"log": {"entries": [{"request": {"method": "GET", "url": "ws://x/"}}]}}`), HAROptions{})
	assert.ErrorContains(t, err, "no HTTP entries")

	_, err = HAR([]byte(`{`), HAROptions{})
	assert.Error(t, err)
}
