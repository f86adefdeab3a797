package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(slog.LevelInfo, &buf)

	Info("request sent", "method", "GET", "status", 200)
	Debug("hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "request sent", rec["msg"])
	assert.Equal(t, "GET", rec["method"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestCountsAndRecent(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(slog.LevelDebug, &buf)

	Warn("slow")
	Error("boom")
	With("component", "tui").Error("nested")
	Info("fine")

	warn, errs := Counts()
	assert.Equal(t, 1, warn)
	assert.Equal(t, 2, errs)

	entries := Recent()
	require.Len(t, entries, 3)
	assert.Equal(t, "slow", entries[0].Message)
	assert.Equal(t, "nested", entries[2].Message)
}

func TestRingWrapsAround(t *testing.T) {
	r := newRing(2)
	r.add(Entry{Message: "a", Level: slog.LevelWarn})
	r.add(Entry{Message: "b", Level: slog.LevelWarn})
	r.add(Entry{Message: "c", Level: slog.LevelWarn})

	all := r.all()
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].Message)
	assert.Equal(t, "c", all[1].Message)

	warn, _ := r.counts()
	assert.Equal(t, 3, warn)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perseus.log")
	Init(slog.LevelInfo, path)
	defer Close()

	Info("hello")

	assert.Equal(t, path, LogPath)
	assert.FileExists(t, path)
}
