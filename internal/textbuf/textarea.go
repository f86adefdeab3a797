package textbuf

import (
	"strings"

	"github.com/studiowebux/perseus/internal/vim"
)

// maxHistory bounds the undo stack
const maxHistory = 100

// DefaultTabSize is used when no tab size is configured
const DefaultTabSize = 2

type snapshot struct {
	lines [][]rune
	row   int
	col   int
}

// TextArea is an in-memory multi-line text buffer with a cursor, an optional
// selection anchor, a yank slot and snapshot undo. It satisfies vim.Buffer.
//
// The cursor column is insert-style: it ranges over [0, len(line)] so that
// the cursor can sit after the last character.
type TextArea struct {
	lines [][]rune
	row   int
	col   int

	anchor    vim.Pos
	selecting bool

	yank string

	undo []snapshot
	redo []snapshot

	version uint64
	tabSize int
}

var _ vim.Buffer = (*TextArea)(nil)

// New creates a buffer holding text with the cursor at the origin
func New(text string) *TextArea {
	t := &TextArea{tabSize: DefaultTabSize}
	t.lines = split(text)
	return t
}

func split(text string) [][]rune {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return lines
}

// SetText replaces the whole content, clearing selection and history
func (t *TextArea) SetText(text string) {
	t.lines = split(text)
	t.row, t.col = 0, 0
	t.selecting = false
	t.undo = nil
	t.redo = nil
	t.version++
}

// Text returns the content joined with newlines
func (t *TextArea) Text() string {
	return strings.Join(t.Lines(), "\n")
}

// Lines returns the content, one string per logical line
func (t *TextArea) Lines() []string {
	out := make([]string, len(t.lines))
	for i, l := range t.lines {
		out[i] = string(l)
	}
	return out
}

// LineCount returns the number of logical lines (always >= 1)
func (t *TextArea) LineCount() int {
	return len(t.lines)
}

// Version is bumped on every content mutation and never otherwise
func (t *TextArea) Version() uint64 {
	return t.version
}

// SetTabSize sets how many spaces the tab key inserts
func (t *TextArea) SetTabSize(n int) {
	if n < 1 {
		n = DefaultTabSize
	}
	t.tabSize = n
}

// Cursor returns the cursor position
func (t *TextArea) Cursor() vim.Pos {
	return vim.Pos{Row: t.row, Col: t.col}
}

// SetCursor moves the cursor, clamping to the content
func (t *TextArea) SetCursor(p vim.Pos) {
	t.row, t.col = t.clamp(p)
}

func (t *TextArea) clamp(p vim.Pos) (int, int) {
	row := p.Row
	if row < 0 {
		row = 0
	}
	if row >= len(t.lines) {
		row = len(t.lines) - 1
	}
	col := p.Col
	if col < 0 {
		col = 0
	}
	if col > len(t.lines[row]) {
		col = len(t.lines[row])
	}
	return row, col
}

// MoveCursor applies a motion, clamping at buffer edges
func (t *TextArea) MoveCursor(m vim.CursorMove) {
	switch m {
	case vim.MoveBack:
		if t.col > 0 {
			t.col--
		} else if t.row > 0 {
			t.row--
			t.col = len(t.lines[t.row])
		}
	case vim.MoveForward:
		if t.col < len(t.lines[t.row]) {
			t.col++
		} else if t.row < len(t.lines)-1 {
			t.row++
			t.col = 0
		}
	case vim.MoveUp:
		if t.row > 0 {
			t.row--
			t.col = min(t.col, len(t.lines[t.row]))
		}
	case vim.MoveDown:
		if t.row < len(t.lines)-1 {
			t.row++
			t.col = min(t.col, len(t.lines[t.row]))
		}
	case vim.MoveHead:
		t.col = 0
	case vim.MoveEnd:
		t.col = len(t.lines[t.row])
	case vim.MoveTop:
		t.row = 0
		t.col = min(t.col, len(t.lines[0]))
	case vim.MoveBottom:
		t.row = len(t.lines) - 1
		t.col = min(t.col, len(t.lines[t.row]))
	case vim.MoveWordForward:
		t.row, t.col = t.wordForward()
	case vim.MoveWordBack:
		t.row, t.col = t.wordBack()
	case vim.MoveWordEnd:
		t.row, t.col = t.wordEnd()
	}
}

// StartSelection anchors a selection at the cursor
func (t *TextArea) StartSelection() {
	t.anchor = t.Cursor()
	t.selecting = true
}

// CancelSelection drops the selection anchor
func (t *TextArea) CancelSelection() {
	t.selecting = false
}

// IsSelecting reports whether a selection anchor is set
func (t *TextArea) IsSelecting() bool {
	return t.selecting
}

// SelectionRange returns the selection as a half-open range in reading order
func (t *TextArea) SelectionRange() (vim.Pos, vim.Pos, bool) {
	if !t.selecting {
		return vim.Pos{}, vim.Pos{}, false
	}
	ar, ac := t.clamp(t.anchor)
	a := vim.Pos{Row: ar, Col: ac}
	c := t.Cursor()
	if c.Less(a) {
		return c, a, true
	}
	return a, c, true
}

func (t *TextArea) textBetween(start, end vim.Pos) string {
	if start.Row == end.Row {
		return string(t.lines[start.Row][start.Col:end.Col])
	}
	var b strings.Builder
	b.WriteString(string(t.lines[start.Row][start.Col:]))
	for r := start.Row + 1; r < end.Row; r++ {
		b.WriteByte('\n')
		b.WriteString(string(t.lines[r]))
	}
	b.WriteByte('\n')
	b.WriteString(string(t.lines[end.Row][:end.Col]))
	return b.String()
}

func (t *TextArea) deleteBetween(start, end vim.Pos) {
	head := t.lines[start.Row][:start.Col]
	tail := t.lines[end.Row][end.Col:]
	joined := make([]rune, 0, len(head)+len(tail))
	joined = append(joined, head...)
	joined = append(joined, tail...)

	lines := make([][]rune, 0, len(t.lines)-(end.Row-start.Row))
	lines = append(lines, t.lines[:start.Row]...)
	lines = append(lines, joined)
	lines = append(lines, t.lines[end.Row+1:]...)
	t.lines = lines
	t.row, t.col = start.Row, start.Col
}

// Cut moves the selected text into the yank slot. An empty selection only
// clears the anchor.
func (t *TextArea) Cut() bool {
	start, end, ok := t.SelectionRange()
	t.selecting = false
	if !ok || start == end {
		return false
	}
	t.pushUndo()
	t.yank = t.textBetween(start, end)
	t.deleteBetween(start, end)
	t.changed()
	return true
}

// Copy stores the selected text in the yank slot and leaves the cursor at
// the start of the selection
func (t *TextArea) Copy() {
	start, end, ok := t.SelectionRange()
	t.selecting = false
	if !ok {
		return
	}
	if start != end {
		t.yank = t.textBetween(start, end)
	}
	t.row, t.col = start.Row, start.Col
}

// Paste inserts the yank slot at the cursor, replacing any selection
func (t *TextArea) Paste() bool {
	if t.yank == "" {
		return false
	}
	t.pushUndo()
	if start, end, ok := t.SelectionRange(); ok && start != end {
		t.deleteBetween(start, end)
	}
	t.selecting = false
	t.insertString(t.yank)
	t.changed()
	return true
}

// SetYankText replaces the yank slot
func (t *TextArea) SetYankText(text string) {
	t.yank = strings.ReplaceAll(text, "\r\n", "\n")
}

// YankText returns the yank slot
func (t *TextArea) YankText() string {
	return t.yank
}

func (t *TextArea) insertString(s string) {
	parts := split(s)
	line := t.lines[t.row]
	head := append([]rune{}, line[:t.col]...)
	tail := append([]rune{}, line[t.col:]...)

	if len(parts) == 1 {
		t.lines[t.row] = append(append(head, parts[0]...), tail...)
		t.col += len(parts[0])
		return
	}

	inserted := make([][]rune, 0, len(parts))
	inserted = append(inserted, append(head, parts[0]...))
	for _, p := range parts[1 : len(parts)-1] {
		inserted = append(inserted, append([]rune{}, p...))
	}
	last := parts[len(parts)-1]
	inserted = append(inserted, append(append([]rune{}, last...), tail...))

	lines := make([][]rune, 0, len(t.lines)+len(parts)-1)
	lines = append(lines, t.lines[:t.row]...)
	lines = append(lines, inserted...)
	lines = append(lines, t.lines[t.row+1:]...)
	t.lines = lines
	t.row += len(parts) - 1
	t.col = len(last)
}

// InsertChar inserts r at the cursor
func (t *TextArea) InsertChar(r rune) {
	if r == '\n' {
		t.InsertNewline()
		return
	}
	t.pushUndo()
	t.insertString(string(r))
	t.changed()
}

// InsertNewline splits the current line at the cursor
func (t *TextArea) InsertNewline() {
	t.pushUndo()
	t.insertString("\n")
	t.changed()
}

// InsertString inserts s at the cursor as a single undoable edit
func (t *TextArea) InsertString(s string) {
	if s == "" {
		return
	}
	t.pushUndo()
	t.insertString(s)
	t.changed()
}

// Input applies a raw editing key
func (t *TextArea) Input(k vim.Key) bool {
	switch k.Type {
	case vim.KeyRune:
		if k.Ctrl || k.Alt {
			return false
		}
		t.InsertChar(k.Rune)
	case vim.KeyEnter:
		t.InsertNewline()
	case vim.KeyTab:
		t.InsertString(strings.Repeat(" ", t.tabSize))
	case vim.KeyBackspace:
		return t.backspace()
	case vim.KeyDelete:
		return t.deleteForward()
	case vim.KeyLeft:
		t.MoveCursor(vim.MoveBack)
	case vim.KeyRight:
		t.MoveCursor(vim.MoveForward)
	case vim.KeyUp:
		t.MoveCursor(vim.MoveUp)
	case vim.KeyDown:
		t.MoveCursor(vim.MoveDown)
	case vim.KeyHome:
		t.MoveCursor(vim.MoveHead)
	case vim.KeyEnd:
		t.MoveCursor(vim.MoveEnd)
	default:
		return false
	}
	return true
}

func (t *TextArea) backspace() bool {
	if t.row == 0 && t.col == 0 {
		return false
	}
	end := t.Cursor()
	t.MoveCursor(vim.MoveBack)
	t.pushUndo()
	t.deleteBetween(t.Cursor(), end)
	t.changed()
	return true
}

func (t *TextArea) deleteForward() bool {
	start := t.Cursor()
	if start.Row == len(t.lines)-1 && start.Col == len(t.lines[start.Row]) {
		return false
	}
	t.MoveCursor(vim.MoveForward)
	end := t.Cursor()
	t.row, t.col = start.Row, start.Col
	t.pushUndo()
	t.deleteBetween(start, end)
	t.changed()
	return true
}

func (t *TextArea) capture() snapshot {
	lines := make([][]rune, len(t.lines))
	for i, l := range t.lines {
		lines[i] = append([]rune(nil), l...)
	}
	return snapshot{lines: lines, row: t.row, col: t.col}
}

func (t *TextArea) restore(s snapshot) {
	t.lines = s.lines
	t.row, t.col = t.clamp(vim.Pos{Row: s.row, Col: s.col})
	t.selecting = false
	t.changed()
}

func (t *TextArea) pushUndo() {
	t.undo = append(t.undo, t.capture())
	if len(t.undo) > maxHistory {
		t.undo = t.undo[len(t.undo)-maxHistory:]
	}
	t.redo = nil
}

// Undo restores the state before the last edit
func (t *TextArea) Undo() bool {
	if len(t.undo) == 0 {
		return false
	}
	prev := t.undo[len(t.undo)-1]
	t.undo = t.undo[:len(t.undo)-1]
	t.redo = append(t.redo, t.capture())
	t.restore(prev)
	return true
}

// Redo re-applies the last undone edit
func (t *TextArea) Redo() bool {
	if len(t.redo) == 0 {
		return false
	}
	next := t.redo[len(t.redo)-1]
	t.redo = t.redo[:len(t.redo)-1]
	t.undo = append(t.undo, t.capture())
	t.restore(next)
	return true
}

func (t *TextArea) changed() {
	t.version++
}
