package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMethod(t *testing.T) {
	assert.Equal(t, MethodGet, ParseMethod(""))
	assert.Equal(t, MethodPost, ParseMethod("post"))
	assert.Equal(t, Method("PURGE"), ParseMethod("PURGE"))
	assert.False(t, ParseMethod("PURGE").IsStandard())
}

func TestMethodCycle(t *testing.T) {
	m := MethodGet
	for range StandardMethods {
		m = m.Next()
	}
	assert.Equal(t, MethodGet, m)
	assert.Equal(t, MethodOptions, MethodGet.Prev())
	assert.Equal(t, MethodGet, Method("PURGE").Next())
}

func TestSendsBody(t *testing.T) {
	assert.False(t, MethodGet.SendsBody())
	assert.False(t, MethodHead.SendsBody())
	assert.True(t, MethodDelete.SendsBody())
	assert.True(t, Method("PURGE").SendsBody())
}

func TestResponseHeaders(t *testing.T) {
	r := &Response{Headers: []Header{
		{Key: "Content-Type", Value: "application/json"},
		{Key: "X-Id", Value: "1"},
	}}

	assert.Equal(t, "application/json", r.ContentType())
	assert.Equal(t, "1", r.Header("x-id"))
	assert.Equal(t, "", r.Header("missing"))
	assert.Equal(t, "Content-Type: application/json\nX-Id: 1", r.HeaderText())
}
