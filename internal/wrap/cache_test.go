package wrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(rows []Line) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.String()
	}
	return out
}

func TestWrapAtWidth(t *testing.T) {
	var c Cache
	rows, cur, recomputed := c.Wrap(Request{
		Lines:  PlainLines([]string{"abc", "def"}),
		Width:  2,
		Cursor: &Pos{Row: 1, Col: 2},
	})

	require.True(t, recomputed)
	assert.Equal(t, []string{"ab", "c", "de", "f"}, texts(rows))
	require.NotNil(t, cur)
	assert.Equal(t, Point{X: 0, Y: 3}, *cur)
}

func TestCacheIsIdempotent(t *testing.T) {
	var c Cache
	req := Request{
		Lines:      PlainLines([]string{"hello", "world"}),
		Generation: 7,
		Width:      3,
		Cursor:     &Pos{Row: 0, Col: 1},
	}

	first, _, _ := c.Wrap(req)
	second, _, recomputed := c.Wrap(Request{
		Lines:      req.Lines,
		Generation: 7,
		Width:      3,
		Cursor:     &Pos{Row: 0, Col: 1},
	})

	assert.False(t, recomputed)
	assert.Equal(t, 1, c.Recomputes())
	assert.True(t, &first[0] == &second[0], "same rows slice is returned")
}

func TestCacheRecomputesOnKeyChange(t *testing.T) {
	lines := PlainLines([]string{"hello"})
	base := Request{Lines: lines, Generation: 1, Width: 10}

	tests := []struct {
		name   string
		change func(Request) Request
	}{
		{"width", func(r Request) Request { r.Width = 4; return r }},
		{"generation", func(r Request) Request { r.Generation = 2; return r }},
		{"cursor", func(r Request) Request { r.Cursor = &Pos{Col: 3}; return r }},
		{"selection", func(r Request) Request { r.Selection = &Range{End: Pos{Col: 2}}; return r }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Cache
			c.Wrap(base)
			c.Wrap(base)
			require.Equal(t, 1, c.Recomputes())

			_, _, recomputed := c.Wrap(tt.change(base))
			assert.True(t, recomputed)
			assert.Equal(t, 2, c.Recomputes())
		})
	}
}

func TestCacheDoesNotInspectContent(t *testing.T) {
	var c Cache
	c.Wrap(Request{Lines: PlainLines([]string{"old"}), Generation: 1, Width: 10})

	rows, _, recomputed := c.Wrap(Request{Lines: PlainLines([]string{"new"}), Generation: 1, Width: 10})

	assert.False(t, recomputed)
	assert.Equal(t, []string{"old"}, texts(rows))
}

func TestEmptyInputs(t *testing.T) {
	var c Cache
	rows, cur, _ := c.Wrap(Request{Width: 5, Cursor: &Pos{}})
	assert.Equal(t, []string{""}, texts(rows))
	require.NotNil(t, cur)
	assert.Equal(t, Point{}, *cur)

	var c2 Cache
	rows, _, _ = c2.Wrap(Request{Lines: PlainLines([]string{"a", "", "b"}), Width: 5})
	assert.Equal(t, []string{"a", "", "b"}, texts(rows))
}

func TestWidthBelowOne(t *testing.T) {
	var c Cache
	rows, _, _ := c.Wrap(Request{Lines: PlainLines([]string{"ab"}), Width: 0})
	assert.Equal(t, []string{"a", "b"}, texts(rows))
}

func TestWideRunes(t *testing.T) {
	var c Cache
	rows, cur, _ := c.Wrap(Request{
		Lines:  PlainLines([]string{"日本語"}),
		Width:  5,
		Cursor: &Pos{Col: 2},
	})

	assert.Equal(t, []string{"日本", "語"}, texts(rows))
	require.NotNil(t, cur)
	assert.Equal(t, Point{X: 0, Y: 1}, *cur)
}

func TestCursorAfterFullRow(t *testing.T) {
	var c Cache
	rows, cur, _ := c.Wrap(Request{
		Lines:  PlainLines([]string{"abcd"}),
		Width:  2,
		Cursor: &Pos{Col: 4},
	})

	assert.Equal(t, []string{"ab", "cd", ""}, texts(rows))
	assert.Equal(t, Point{X: 0, Y: 2}, *cur)
}

func TestCursorAtLineEnd(t *testing.T) {
	var c Cache
	_, cur, _ := c.Wrap(Request{
		Lines:  PlainLines([]string{"abc"}),
		Width:  10,
		Cursor: &Pos{Col: 3},
	})

	assert.Equal(t, Point{X: 3, Y: 0}, *cur)
}

func TestCursorIsClamped(t *testing.T) {
	var c Cache
	_, cur, _ := c.Wrap(Request{
		Lines:  PlainLines([]string{"abc", "de"}),
		Width:  10,
		Cursor: &Pos{Row: 9, Col: 9},
	})

	assert.Equal(t, Point{X: 2, Y: 1}, *cur)
}

func TestSelectionStyleAndMerging(t *testing.T) {
	sel := Style{Reverse: true}
	kw := Style{Fg: "205"}
	c := Cache{SelectionStyle: sel}

	rows, _, _ := c.Wrap(Request{
		Lines: []Line{{
			{Text: "ab", Style: kw},
			{Text: "cd", Style: kw},
			{Text: "ef"},
		}},
		Width:     20,
		Selection: &Range{Start: Pos{Col: 3}, End: Pos{Col: 1}},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, Line{
		{Text: "a", Style: kw},
		{Text: "bc", Style: sel},
		{Text: "d", Style: kw},
		{Text: "ef"},
	}, rows[0])
}

func TestSelectionAcrossLines(t *testing.T) {
	sel := Style{Reverse: true}
	c := Cache{SelectionStyle: sel}

	rows, _, _ := c.Wrap(Request{
		Lines:     PlainLines([]string{"abc", "def"}),
		Width:     20,
		Selection: &Range{Start: Pos{Row: 0, Col: 2}, End: Pos{Row: 1, Col: 1}},
	})

	assert.Equal(t, Line{{Text: "ab"}, {Text: "c", Style: sel}}, rows[0])
	assert.Equal(t, Line{{Text: "d", Style: sel}, {Text: "ef"}}, rows[1])
}

func TestRenderKeepsCursorVisible(t *testing.T) {
	lines := PlainLines([]string{"0", "1", "2", "3", "4", "5", "6", "7"})
	var c Cache
	s := &Scroll{Height: 3}

	visible, cur := c.Render(Request{Lines: lines, Width: 10, Cursor: &Pos{Row: 5}}, s)

	assert.Equal(t, 3, s.Offset)
	assert.Equal(t, []string{"3", "4", "5"}, texts(visible))
	assert.Equal(t, &Point{X: 0, Y: 2}, cur)

	_, _ = c.Render(Request{Lines: lines, Width: 10, Cursor: &Pos{Row: 4}}, s)
	assert.Equal(t, 3, s.Offset, "no re-centring while visible")

	_, _ = c.Render(Request{Lines: lines, Width: 10, Cursor: &Pos{Row: 1}}, s)
	assert.Equal(t, 1, s.Offset)
}

func TestRenderScrollIsIndependentOfCursor(t *testing.T) {
	lines := PlainLines([]string{"0", "1", "2", "3", "4", "5", "6", "7"})
	var c Cache
	s := &Scroll{Height: 4}
	req := Request{Lines: lines, Width: 10, Cursor: &Pos{}}

	c.Render(req, s)
	s.HalfPage(true, 8)
	visible, cur := c.Render(req, s)

	assert.Equal(t, 2, s.Offset)
	assert.Equal(t, []string{"2", "3", "4", "5"}, texts(visible))
	assert.Nil(t, cur, "cursor scrolled out of view")
}

func TestRenderKeepsCursorVisibleWhenViewportShrinks(t *testing.T) {
	lines := PlainLines([]string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"})
	var c Cache
	s := &Scroll{Height: 10}
	req := Request{Lines: lines, Generation: 1, Width: 10, Cursor: &Pos{Row: 9}}

	_, cur := c.Render(req, s)
	require.NotNil(t, cur)
	assert.Equal(t, 0, s.Offset)

	s.Height = 4
	visible, cur := c.Render(req, s)

	assert.Equal(t, 1, c.Recomputes(), "a height change reuses the rows")
	assert.Equal(t, 6, s.Offset)
	assert.Equal(t, []string{"6", "7", "8", "9"}, texts(visible))
	assert.Equal(t, &Point{X: 0, Y: 3}, cur)

	s.HalfPage(false, 10)
	_, cur = c.Render(req, s)
	assert.Equal(t, 4, s.Offset, "explicit scrolling at a stable height is kept")
	assert.Nil(t, cur)
}

func TestRenderWithoutScroll(t *testing.T) {
	var c Cache
	rows, cur := c.Render(Request{Lines: PlainLines([]string{"a", "b"}), Width: 10}, nil)

	assert.Len(t, rows, 2)
	assert.Nil(t, cur)
}

func TestWithCursor(t *testing.T) {
	rev := func(s Style) Style { s.Reverse = true; return s }

	l := Line{{Text: "abc"}}
	assert.Equal(t, Line{{Text: "a"}, {Text: "b", Style: Style{Reverse: true}}, {Text: "c"}}, l.WithCursor(1, rev))
	assert.Equal(t, Line{{Text: "abc"}, {Text: " ", Style: Style{Reverse: true}}}, l.WithCursor(3, rev))
	assert.Equal(t, 3, l.Width())
}
