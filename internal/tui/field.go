package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/perseus/internal/clipboard"
	"github.com/studiowebux/perseus/internal/textbuf"
	"github.com/studiowebux/perseus/internal/vim"
	"github.com/studiowebux/perseus/internal/wrap"
)

// Field is one editable request field. The engine only exists while the
// field is being edited; it is created fresh on every StartEdit.
type Field struct {
	Label      string
	SingleLine bool

	area   *textbuf.TextArea
	engine *vim.Engine
	cache  wrap.Cache
	scroll wrap.Scroll

	// total wrapped rows at the last draw, used by half-page scrolling
	rows int
	// last yank text pushed to the clipboard
	lastYank string

	// display lines of the buffer at linesVersion
	lines        []wrap.Line
	linesVersion uint64
	linesValid   bool
	lineBuilds   int
}

// NewField creates a field holding text
func NewField(label string, singleLine bool, text string, tabSize int) *Field {
	area := textbuf.New(text)
	area.SetTabSize(tabSize)
	return &Field{
		Label:      label,
		SingleLine: singleLine,
		area:       area,
		cache:      wrap.Cache{SelectionStyle: wrap.Style{Reverse: true}},
	}
}

// Text returns the field content
func (f *Field) Text() string {
	return f.area.Text()
}

// SetText replaces the content and leaves editing
func (f *Field) SetText(text string) {
	f.area.SetText(text)
	f.area.SetCursor(vim.Pos{})
	f.engine = nil
	f.scroll.Reset()
}

// Version is the content generation of the field
func (f *Field) Version() uint64 {
	return f.area.Version()
}

// IsEditing reports whether the field owns an engine
func (f *Field) IsEditing() bool {
	return f.engine != nil
}

// Mode returns the engine mode, Normal when not editing
func (f *Field) Mode() vim.Mode {
	if f.engine == nil {
		return vim.Normal
	}
	return f.engine.Mode()
}

// StartEdit gives the field a fresh engine in Normal mode
func (f *Field) StartEdit() {
	f.engine = vim.New()
}

// StopEdit discards the engine and any selection
func (f *Field) StopEdit() {
	f.area.CancelSelection()
	f.engine = nil
}

// HandleKey feeds msg to the engine. exit is true when the engine asked to
// leave the field. The clipboard is read before a paste and written whenever
// the yank text changes; a failed write is returned after the key is handled.
func (f *Field) HandleKey(msg tea.KeyMsg, clip *clipboard.Provider) (exit bool, err error) {
	if f.engine == nil {
		return false, nil
	}
	for _, key := range vim.KeysFromMsg(msg) {
		if clip != nil && key.Is('p') && f.engine.Mode().Kind != vim.KindInsert {
			if text := clip.Get(); text != "" {
				f.area.SetYankText(text)
				f.lastYank = text
			}
		}

		t := f.engine.Handle(key, f.area, f.SingleLine)

		switch t.Scroll {
		case vim.ScrollHalfPageDown:
			f.scroll.HalfPage(true, f.rows)
		case vim.ScrollHalfPageUp:
			f.scroll.HalfPage(false, f.rows)
		}

		if clip != nil {
			if yank := f.area.YankText(); yank != f.lastYank {
				f.lastYank = yank
				if setErr := clip.Set(yank); setErr != nil {
					err = setErr
				}
			}
		}

		if t.Kind == vim.ExitField {
			f.StopEdit()
			return true, err
		}
	}
	return false, err
}

// displayLines converts the buffer once per content version
func (f *Field) displayLines() []wrap.Line {
	if v := f.area.Version(); !f.linesValid || v != f.linesVersion {
		f.lines = wrap.PlainLines(f.area.Lines())
		f.linesVersion = v
		f.linesValid = true
		f.lineBuilds++
	}
	return f.lines
}

func (f *Field) request(width int) wrap.Request {
	req := wrap.Request{
		Lines:      f.displayLines(),
		Generation: f.area.Version(),
		Width:      width,
	}
	if f.engine == nil {
		return req
	}
	cur := f.area.Cursor()
	req.Cursor = &wrap.Pos{Row: cur.Row, Col: cur.Col}
	if start, end, ok := f.area.SelectionRange(); ok {
		req.Selection = &wrap.Range{
			Start: wrap.Pos{Row: start.Row, Col: start.Col},
			End:   wrap.Pos{Row: end.Row, Col: end.Col},
		}
	}
	return req
}

// View draws the field into width x height cells. The cursor cell is drawn
// as a block in Normal and Visual mode and underlined in Insert mode.
func (f *Field) View(width, height int) []string {
	if height < 1 {
		height = 1
	}
	f.scroll.Height = height

	req := f.request(width)
	visible, cursor := f.cache.Render(req, &f.scroll)
	all, _, _ := f.cache.Wrap(req)
	f.rows = len(all)

	out := make([]string, 0, height)
	for i, row := range visible {
		if cursor != nil && cursor.Y == i {
			row = row.WithCursor(cursor.X, f.cursorStyle())
		}
		out = append(out, row.Render())
	}
	return out
}

func (f *Field) cursorStyle() func(wrap.Style) wrap.Style {
	insert := f.Mode().Kind == vim.KindInsert
	return func(s wrap.Style) wrap.Style {
		if insert {
			s.Underline = true
			return s
		}
		s.Reverse = !s.Reverse
		return s
	}
}

// Summary returns the first line, for collapsed display
func (f *Field) Summary() string {
	text := f.area.Text()
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i] + " …"
	}
	return text
}
