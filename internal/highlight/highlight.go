// Package highlight turns response bodies into styled lines for the wrap cache.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/studiowebux/perseus/internal/wrap"
)

// DefaultTheme is the chroma style used when none is configured
const DefaultTheme = "monokai"

// tabWidth is the number of spaces a tab expands to
const tabWidth = 4

// LexerFor picks a lexer from a Content-Type header, falling back to content
// analysis. Returns nil when nothing matches.
func LexerFor(contentType, body string) chroma.Lexer {
	ct := strings.ToLower(contentType)
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.TrimSpace(ct)

	var name string
	switch {
	case strings.Contains(ct, "json"):
		name = "json"
	case strings.Contains(ct, "html"):
		name = "html"
	case strings.Contains(ct, "xml"):
		name = "xml"
	case strings.Contains(ct, "yaml"):
		name = "yaml"
	case strings.Contains(ct, "javascript"):
		name = "javascript"
	case strings.Contains(ct, "css"):
		name = "css"
	}
	if name != "" {
		if l := lexers.Get(name); l != nil {
			return l
		}
	}
	if ct != "" && ct != "text/plain" {
		if l := lexers.MatchMimeType(ct); l != nil {
			return l
		}
	}
	return lexers.Analyse(body)
}

// Lines highlights body and returns one wrap.Line per logical line. Without a
// matching lexer, or if tokenising fails, the lines are returned unstyled.
func Lines(body, contentType, theme string) []wrap.Line {
	body = ExpandTabs(body)
	lexer := LexerFor(contentType, body)
	if lexer == nil {
		return wrap.PlainLines(strings.Split(body, "\n"))
	}

	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}

	it, err := chroma.Coalesce(lexer).Tokenise(nil, body)
	if err != nil {
		return wrap.PlainLines(strings.Split(body, "\n"))
	}

	var out []wrap.Line
	for _, tokens := range chroma.SplitTokensIntoLines(it.Tokens()) {
		line := wrap.Line{}
		for _, tok := range tokens {
			text := strings.TrimSuffix(tok.Value, "\n")
			if text == "" {
				continue
			}
			line = append(line, wrap.Span{Text: text, Style: styleFor(style, tok.Type)})
		}
		out = append(out, line)
	}

	// the tokenizer drops a trailing empty line
	want := strings.Count(body, "\n") + 1
	for len(out) < want {
		out = append(out, wrap.Line{})
	}
	return out[:want]
}

func styleFor(style *chroma.Style, t chroma.TokenType) wrap.Style {
	entry := style.Get(t)
	var s wrap.Style
	if entry.Colour.IsSet() {
		s.Fg = entry.Colour.String()
	}
	s.Bold = entry.Bold == chroma.Yes
	s.Italic = entry.Italic == chroma.Yes
	s.Underline = entry.Underline == chroma.Yes
	return s
}

// ExpandTabs replaces tabs with spaces up to the next tab stop
func ExpandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}
