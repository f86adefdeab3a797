package textbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/perseus/internal/vim"
)

func TestNewSplitsLines(t *testing.T) {
	buf := New("a\r\nb\nc")
	assert.Equal(t, []string{"a", "b", "c"}, buf.Lines())
	assert.Equal(t, "a\nb\nc", buf.Text())

	empty := New("")
	assert.Equal(t, []string{""}, empty.Lines())
	assert.Equal(t, 1, empty.LineCount())
}

func TestMotionsClamp(t *testing.T) {
	buf := New("abc\nde")

	buf.MoveCursor(vim.MoveBack)
	assert.Equal(t, vim.Pos{}, buf.Cursor())

	buf.MoveCursor(vim.MoveEnd)
	assert.Equal(t, vim.Pos{Row: 0, Col: 3}, buf.Cursor())

	buf.MoveCursor(vim.MoveDown)
	assert.Equal(t, vim.Pos{Row: 1, Col: 2}, buf.Cursor(), "column clamps to shorter line")

	buf.MoveCursor(vim.MoveDown)
	assert.Equal(t, vim.Pos{Row: 1, Col: 2}, buf.Cursor())

	buf.MoveCursor(vim.MoveForward)
	assert.Equal(t, vim.Pos{Row: 1, Col: 2}, buf.Cursor())

	buf.MoveCursor(vim.MoveHead)
	buf.MoveCursor(vim.MoveBack)
	assert.Equal(t, vim.Pos{Row: 0, Col: 3}, buf.Cursor(), "back wraps to previous line end")

	buf.MoveCursor(vim.MoveForward)
	assert.Equal(t, vim.Pos{Row: 1, Col: 0}, buf.Cursor(), "forward wraps to next line head")
}

func TestWordMotions(t *testing.T) {
	tests := []struct {
		name string
		text string
		from vim.Pos
		move vim.CursorMove
		want vim.Pos
	}{
		{"forward over word", "hello world", vim.Pos{}, vim.MoveWordForward, vim.Pos{Col: 6}},
		{"forward stops at punct", "foo.bar", vim.Pos{}, vim.MoveWordForward, vim.Pos{Col: 3}},
		{"forward to next line", "foo\nbar", vim.Pos{}, vim.MoveWordForward, vim.Pos{Row: 1}},
		{"forward on last word", "foo", vim.Pos{}, vim.MoveWordForward, vim.Pos{Col: 3}},
		{"end of word", "hello world", vim.Pos{}, vim.MoveWordEnd, vim.Pos{Col: 4}},
		{"end of next word", "hello world", vim.Pos{Col: 4}, vim.MoveWordEnd, vim.Pos{Col: 10}},
		{"end across lines", "ab\n  cd", vim.Pos{Col: 1}, vim.MoveWordEnd, vim.Pos{Row: 1, Col: 3}},
		{"back to word start", "hello world", vim.Pos{Col: 8}, vim.MoveWordBack, vim.Pos{Col: 6}},
		{"back to previous word", "hello world", vim.Pos{Col: 6}, vim.MoveWordBack, vim.Pos{Col: 0}},
		{"back across lines", "ab cd\n  x", vim.Pos{Row: 1, Col: 2}, vim.MoveWordBack, vim.Pos{Col: 3}},
		{"back at origin", "ab", vim.Pos{}, vim.MoveWordBack, vim.Pos{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := New(tt.text)
			buf.SetCursor(tt.from)
			buf.MoveCursor(tt.move)
			assert.Equal(t, tt.want, buf.Cursor())
		})
	}
}

func TestSelectionIsNormalised(t *testing.T) {
	buf := New("hello")
	buf.MoveCursor(vim.MoveEnd)
	buf.StartSelection()
	buf.MoveCursor(vim.MoveHead)

	start, end, ok := buf.SelectionRange()
	require.True(t, ok)
	assert.Equal(t, vim.Pos{}, start)
	assert.Equal(t, vim.Pos{Col: 5}, end)

	buf.CancelSelection()
	_, _, ok = buf.SelectionRange()
	assert.False(t, ok)
}

func TestCutAcrossLines(t *testing.T) {
	buf := New("abc\ndef\nghi")
	buf.SetCursor(vim.Pos{Row: 0, Col: 1})
	buf.StartSelection()
	buf.SetCursor(vim.Pos{Row: 2, Col: 1})

	require.True(t, buf.Cut())

	assert.Equal(t, []string{"ahi"}, buf.Lines())
	assert.Equal(t, "bc\ndef\ng", buf.YankText())
	assert.Equal(t, vim.Pos{Row: 0, Col: 1}, buf.Cursor())
	assert.False(t, buf.IsSelecting())
}

func TestEmptyCutIsNoOp(t *testing.T) {
	buf := New("abc")
	v := buf.Version()
	buf.StartSelection()

	assert.False(t, buf.Cut())
	assert.Equal(t, v, buf.Version())
	assert.False(t, buf.Undo())
}

func TestCopyMovesCursorToStart(t *testing.T) {
	buf := New("abc")
	buf.StartSelection()
	buf.MoveCursor(vim.MoveEnd)
	v := buf.Version()

	buf.Copy()

	assert.Equal(t, "abc", buf.YankText())
	assert.Equal(t, vim.Pos{}, buf.Cursor())
	assert.Equal(t, v, buf.Version(), "copy does not change content")
}

func TestPasteMultiLine(t *testing.T) {
	buf := New("ac")
	buf.SetYankText("1\r\n2")
	buf.SetCursor(vim.Pos{Col: 1})

	require.True(t, buf.Paste())

	assert.Equal(t, []string{"a1", "2c"}, buf.Lines())
	assert.Equal(t, vim.Pos{Row: 1, Col: 1}, buf.Cursor())
}

func TestPasteReplacesSelection(t *testing.T) {
	buf := New("hello")
	buf.SetYankText("J")
	buf.StartSelection()
	buf.MoveCursor(vim.MoveForward)

	buf.Paste()

	assert.Equal(t, "Jello", buf.Text())
}

func TestPasteEmptyYank(t *testing.T) {
	buf := New("abc")
	assert.False(t, buf.Paste())
	assert.Equal(t, uint64(0), buf.Version())
}

func TestInputKeys(t *testing.T) {
	buf := New("ab")
	buf.SetTabSize(4)
	buf.MoveCursor(vim.MoveEnd)

	assert.True(t, buf.Input(vim.Special(vim.KeyTab)))
	assert.Equal(t, "ab    ", buf.Text())

	assert.True(t, buf.Input(vim.Special(vim.KeyHome)))
	assert.True(t, buf.Input(vim.Special(vim.KeyDelete)))
	assert.Equal(t, "b    ", buf.Text())

	assert.False(t, buf.Input(vim.Special(vim.KeyBackspace)), "backspace at origin")
	assert.False(t, buf.Input(vim.Ctrl('x')))
	assert.False(t, buf.Input(vim.Key{}))

	buf.Input(vim.Special(vim.KeyEnter))
	assert.Equal(t, []string{"", "b    "}, buf.Lines())

	assert.True(t, buf.Input(vim.Special(vim.KeyBackspace)), "backspace joins lines")
	assert.Equal(t, []string{"b    "}, buf.Lines())
}

func TestDeleteForwardJoinsLines(t *testing.T) {
	buf := New("ab\ncd")
	buf.MoveCursor(vim.MoveEnd)

	assert.True(t, buf.Input(vim.Special(vim.KeyDelete)))
	assert.Equal(t, "abcd", buf.Text())
	assert.Equal(t, vim.Pos{Col: 2}, buf.Cursor())

	buf.MoveCursor(vim.MoveEnd)
	assert.False(t, buf.Input(vim.Special(vim.KeyDelete)))
}

func TestVersionTracksContentOnly(t *testing.T) {
	buf := New("abc")
	v0 := buf.Version()

	buf.MoveCursor(vim.MoveForward)
	buf.StartSelection()
	buf.MoveCursor(vim.MoveEnd)
	buf.CancelSelection()
	assert.Equal(t, v0, buf.Version())

	buf.InsertChar('x')
	assert.Greater(t, buf.Version(), v0)
}

func TestUndoRedo(t *testing.T) {
	buf := New("")
	buf.InsertChar('a')
	buf.InsertChar('b')
	require.Equal(t, "ab", buf.Text())

	require.True(t, buf.Undo())
	assert.Equal(t, "a", buf.Text())
	require.True(t, buf.Undo())
	assert.Equal(t, "", buf.Text())
	assert.False(t, buf.Undo())

	require.True(t, buf.Redo())
	assert.Equal(t, "a", buf.Text())

	buf.InsertChar('z')
	assert.False(t, buf.Redo(), "new edit clears redo")
}

func TestUndoDepthIsBounded(t *testing.T) {
	buf := New("")
	for i := 0; i < maxHistory+20; i++ {
		buf.InsertChar('x')
	}

	undone := 0
	for buf.Undo() {
		undone++
	}
	assert.Equal(t, maxHistory, undone)
	assert.Len(t, buf.Text(), 20)
}

func TestSetTextResetsState(t *testing.T) {
	buf := New("abc")
	buf.InsertChar('x')
	buf.StartSelection()

	buf.SetText("new\ntext")

	assert.Equal(t, []string{"new", "text"}, buf.Lines())
	assert.Equal(t, vim.Pos{}, buf.Cursor())
	assert.False(t, buf.IsSelecting())
	assert.False(t, buf.Undo())
}

func TestWideRunesCountAsOneColumn(t *testing.T) {
	buf := New("日本語")
	buf.MoveCursor(vim.MoveEnd)
	assert.Equal(t, 3, buf.Cursor().Col)

	buf.Input(vim.Special(vim.KeyBackspace))
	assert.Equal(t, "日本", buf.Text())
}
