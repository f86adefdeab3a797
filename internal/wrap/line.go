package wrap

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Style is a comparable description of how a run of text is painted.
// Colors use lipgloss color strings ("205", "#ff8800").
type Style struct {
	Fg        string
	Bg        string
	Bold      bool
	Italic    bool
	Underline bool
	Reverse   bool
	Faint     bool
}

// IsZero reports whether s carries no styling
func (s Style) IsZero() bool {
	return s == Style{}
}

// Lipgloss converts s into a lipgloss style
func (s Style) Lipgloss() lipgloss.Style {
	st := lipgloss.NewStyle()
	if s.Fg != "" {
		st = st.Foreground(lipgloss.Color(s.Fg))
	}
	if s.Bg != "" {
		st = st.Background(lipgloss.Color(s.Bg))
	}
	return st.
		Bold(s.Bold).
		Italic(s.Italic).
		Underline(s.Underline).
		Reverse(s.Reverse).
		Faint(s.Faint)
}

// Render paints text with s
func (s Style) Render(text string) string {
	if s.IsZero() || text == "" {
		return text
	}
	return s.Lipgloss().Render(text)
}

// Span is a run of text sharing one style
type Span struct {
	Text  string
	Style Style
}

// Line is a sequence of styled spans without line breaks
type Line []Span

// Plain wraps s in an unstyled line
func Plain(s string) Line {
	if s == "" {
		return Line{}
	}
	return Line{{Text: s}}
}

// PlainLines converts raw text lines into unstyled lines
func PlainLines(lines []string) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = Plain(l)
	}
	return out
}

// String returns the unstyled text
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Width returns the display width in terminal cells
func (l Line) Width() int {
	w := 0
	for _, s := range l {
		w += runewidth.StringWidth(s.Text)
	}
	return w
}

// Render paints the line
func (l Line) Render() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Style.Render(s.Text))
	}
	return b.String()
}

// WithCursor returns a copy of l where the cell at display column x is
// restyled by f. A cursor past the end of the line is drawn as a space.
func (l Line) WithCursor(x int, f func(Style) Style) Line {
	out := make(Line, 0, len(l)+2)
	col := 0
	placed := false
	for _, s := range l {
		if placed {
			out = append(out, s)
			continue
		}
		runes := []rune(s.Text)
		for i, r := range runes {
			w := runewidth.RuneWidth(r)
			if col == x || (w > 1 && col < x && x < col+w) {
				if i > 0 {
					out = append(out, Span{Text: string(runes[:i]), Style: s.Style})
				}
				out = append(out, Span{Text: string(r), Style: f(s.Style)})
				if i+1 < len(runes) {
					out = append(out, Span{Text: string(runes[i+1:]), Style: s.Style})
				}
				placed = true
				break
			}
			col += w
		}
		if !placed {
			out = append(out, s)
		}
	}
	if !placed {
		out = append(out, Span{Text: " ", Style: f(Style{})})
	}
	return out
}

// Pos is a logical position: line index and character index within the line
type Pos struct {
	Row int
	Col int
}

func (p Pos) less(o Pos) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Col < o.Col
}

// Range is a half-open logical selection [Start, End)
type Range struct {
	Start Pos
	End   Pos
}

func (r Range) contains(p Pos) bool {
	return !p.less(r.Start) && p.less(r.End)
}

// Point is a display cell: X is the column within a row, Y the row index
type Point struct {
	X int
	Y int
}
