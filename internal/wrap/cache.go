package wrap

import "github.com/mattn/go-runewidth"

// Request is everything a view hands the cache for one draw
type Request struct {
	Lines []Line
	// Generation must change whenever Lines change. The cache never looks at
	// the content to detect staleness.
	Generation uint64
	Width      int
	// Cursor is nil when the view is not being edited
	Cursor *Pos
	// Selection is nil when nothing is selected
	Selection *Range
}

type key struct {
	width      int
	generation uint64
	hasCursor  bool
	cursor     Pos
	hasSel     bool
	sel        Range
}

func keyOf(req Request) key {
	k := key{width: req.Width, generation: req.Generation}
	if req.Cursor != nil {
		k.hasCursor = true
		k.cursor = *req.Cursor
	}
	if req.Selection != nil {
		k.hasSel = true
		k.sel = *req.Selection
	}
	return k
}

// Cache memoises the wrapped rows of one view. It is valid while width,
// generation, cursor and selection all match the last computation.
type Cache struct {
	// SelectionStyle replaces the style of selected characters
	SelectionStyle Style

	valid      bool
	last       key
	rows       []Line
	cursor     Point
	hasCursor  bool
	recomputes int
	// height of the viewport the cursor was last kept visible in
	checkedHeight int
}

// Recomputes returns how many times the rows were rebuilt
func (c *Cache) Recomputes() int {
	return c.recomputes
}

// Invalidate forces the next call to recompute
func (c *Cache) Invalidate() {
	c.valid = false
}

// Wrap returns all display rows and the absolute display position of the
// cursor (nil without a cursor). recomputed reports whether the rows were
// rebuilt on this call.
func (c *Cache) Wrap(req Request) (rows []Line, cursor *Point, recomputed bool) {
	if req.Width < 1 {
		req.Width = 1
	}
	k := keyOf(req)
	if !c.valid || k != c.last {
		c.rows, c.cursor, c.hasCursor = c.compute(req)
		c.last = k
		c.valid = true
		c.recomputes++
		recomputed = true
	}
	if c.hasCursor {
		p := c.cursor
		cursor = &p
	}
	return c.rows, cursor, recomputed
}

// Render returns the rows visible through s and the cursor cell relative to
// the viewport. After a recompute, or when the viewport height changed, the
// scroll offset is shifted by the minimum amount that keeps the cursor row
// visible. A nil s returns every row.
func (c *Cache) Render(req Request, s *Scroll) ([]Line, *Point) {
	rows, cursor, recomputed := c.Wrap(req)
	if s == nil {
		return rows, cursor
	}
	if (recomputed || s.Height != c.checkedHeight) && cursor != nil {
		s.EnsureVisible(cursor.Y)
	}
	c.checkedHeight = s.Height
	s.Clamp(len(rows))

	end := len(rows)
	if s.Height > 0 && s.Offset+s.Height < end {
		end = s.Offset + s.Height
	}
	visible := rows[s.Offset:end]

	if cursor == nil || cursor.Y < s.Offset || cursor.Y >= end {
		return visible, nil
	}
	return visible, &Point{X: cursor.X, Y: cursor.Y - s.Offset}
}

type rowBuilder struct {
	line  Line
	run   []rune
	style Style
	width int
}

func (b *rowBuilder) add(r rune, st Style, w int) {
	if len(b.run) > 0 && st != b.style {
		b.flushRun()
	}
	b.style = st
	b.run = append(b.run, r)
	b.width += w
}

func (b *rowBuilder) flushRun() {
	if len(b.run) > 0 {
		b.line = append(b.line, Span{Text: string(b.run), Style: b.style})
		b.run = b.run[:0]
	}
}

func (b *rowBuilder) take() Line {
	b.flushRun()
	l := b.line
	if l == nil {
		l = Line{}
	}
	b.line = nil
	b.width = 0
	return l
}

func (c *Cache) compute(req Request) ([]Line, Point, bool) {
	lines := req.Lines
	if len(lines) == 0 {
		lines = []Line{{}}
	}

	cursorRow, cursorCol := -1, -1
	if req.Cursor != nil {
		cursorRow = clamp(req.Cursor.Row, 0, len(lines)-1)
		cursorCol = clamp(req.Cursor.Col, 0, lineLen(lines[cursorRow]))
	}

	var sel *Range
	if req.Selection != nil {
		r := *req.Selection
		if r.End.less(r.Start) {
			r.Start, r.End = r.End, r.Start
		}
		sel = &r
	}

	var (
		rows      []Line
		cursor    Point
		hasCursor bool
		b         rowBuilder
	)
	for li, line := range lines {
		idx := 0
		for _, span := range line {
			for _, r := range span.Text {
				w := runewidth.RuneWidth(r)
				if b.width > 0 && b.width+w > req.Width {
					rows = append(rows, b.take())
				}
				if li == cursorRow && idx == cursorCol {
					cursor = Point{X: b.width, Y: len(rows)}
					hasCursor = true
				}
				st := span.Style
				if sel != nil && sel.contains(Pos{Row: li, Col: idx}) {
					st = c.SelectionStyle
				}
				b.add(r, st, w)
				idx++
			}
		}
		if li == cursorRow && idx == cursorCol {
			if b.width >= req.Width {
				// cursor after a full row goes to the start of a new row
				rows = append(rows, b.take())
			}
			cursor = Point{X: b.width, Y: len(rows)}
			hasCursor = true
		}
		rows = append(rows, b.take())
	}
	return rows, cursor, hasCursor
}

func lineLen(l Line) int {
	n := 0
	for _, s := range l {
		n += len([]rune(s.Text))
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
