package tui

import (
	"github.com/studiowebux/perseus/internal/wrap"
)

// TextView is a read-only scrollable view over styled lines, used for the
// response body and headers. Each view owns its own cache.
type TextView struct {
	lines      []wrap.Line
	generation uint64
	cache      wrap.Cache
	scroll     wrap.Scroll
	rows       int
}

// SetLines replaces the content and scrolls back to the top
func (v *TextView) SetLines(lines []wrap.Line) {
	v.lines = lines
	v.generation++
	v.scroll.Reset()
}

// Generation is bumped on every SetLines
func (v *TextView) Generation() uint64 {
	return v.generation
}

// Offset returns the first visible row
func (v *TextView) Offset() int {
	return v.scroll.Offset
}

// View returns the rendered rows visible in width x height
func (v *TextView) View(width, height int) []string {
	if height < 1 {
		height = 1
	}
	v.scroll.Height = height
	req := wrap.Request{Lines: v.lines, Generation: v.generation, Width: width}
	visible, _ := v.cache.Render(req, &v.scroll)
	all, _, _ := v.cache.Wrap(req)
	v.rows = len(all)

	out := make([]string, len(visible))
	for i, row := range visible {
		out[i] = row.Render()
	}
	return out
}

// ScrollBy moves the viewport by delta rows
func (v *TextView) ScrollBy(delta int) {
	v.scroll.By(delta, v.rows)
}

// HalfPage scrolls half the visible height
func (v *TextView) HalfPage(down bool) {
	v.scroll.HalfPage(down, v.rows)
}

// Top scrolls to the first row
func (v *TextView) Top() {
	v.scroll.Reset()
}

// Bottom scrolls to the last page
func (v *TextView) Bottom() {
	v.scroll.By(v.rows, v.rows)
}
