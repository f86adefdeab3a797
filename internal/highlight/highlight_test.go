package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/perseus/internal/wrap"
)

func texts(lines []wrap.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

func TestLinesPreservesText(t *testing.T) {
	body := "{\n  \"name\": \"perseus\",\n  \"ok\": true\n}"

	lines := Lines(body, "application/json; charset=utf-8", DefaultTheme)

	assert.Equal(t, []string{"{", "  \"name\": \"perseus\",", "  \"ok\": true", "}"}, texts(lines))
}

func TestLinesAreStyled(t *testing.T) {
	lines := Lines(`{"a": 1}`, "application/json", DefaultTheme)

	require.Len(t, lines, 1)
	styled := false
	for _, span := range lines[0] {
		if !span.Style.IsZero() {
			styled = true
		}
	}
	assert.True(t, styled)
}

func TestTrailingNewlineKeepsEmptyLine(t *testing.T) {
	lines := Lines("{}\n", "application/json", DefaultTheme)
	assert.Equal(t, []string{"{}", ""}, texts(lines))
}

func TestUnknownThemeFallsBack(t *testing.T) {
	lines := Lines("[1]", "application/json", "no-such-theme")
	assert.Equal(t, []string{"[1]"}, texts(lines))
}

func TestLexerFor(t *testing.T) {
	assert.Equal(t, "JSON", LexerFor("application/json", "").Config().Name)
	assert.Equal(t, "XML", LexerFor("application/xml", "").Config().Name)
	assert.Equal(t, "HTML", LexerFor("text/html; charset=utf-8", "").Config().Name)
}

func TestExpandTabs(t *testing.T) {
	assert.Equal(t, "a   b", ExpandTabs("a\tb"))
	assert.Equal(t, "    x\nab  y", ExpandTabs("\tx\nab\ty"))
	assert.Equal(t, "plain", ExpandTabs("plain"))
}
