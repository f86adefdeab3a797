package wrap

// Scroll is the viewport state a view owns alongside its Cache. Scrolling is
// independent of the cursor: By moves the window without touching it.
type Scroll struct {
	Offset int
	Height int
}

// By moves the viewport by delta rows, clamped to total rows
func (s *Scroll) By(delta, total int) {
	s.Offset += delta
	s.Clamp(total)
}

// HalfPage scrolls half the viewport height down (or up)
func (s *Scroll) HalfPage(down bool, total int) {
	step := s.Height / 2
	if step < 1 {
		step = 1
	}
	if !down {
		step = -step
	}
	s.By(step, total)
}

// EnsureVisible shifts the offset by the minimum amount that puts row inside
// [Offset, Offset+Height)
func (s *Scroll) EnsureVisible(row int) {
	if s.Height <= 0 {
		return
	}
	if row < s.Offset {
		s.Offset = row
	} else if row >= s.Offset+s.Height {
		s.Offset = row - s.Height + 1
	}
}

// Clamp keeps the offset within the scrollable range for total rows
func (s *Scroll) Clamp(total int) {
	maxOffset := total - s.Height
	if s.Height <= 0 {
		maxOffset = total - 1
	}
	if s.Offset > maxOffset {
		s.Offset = maxOffset
	}
	if s.Offset < 0 {
		s.Offset = 0
	}
}

// Reset returns to the top
func (s *Scroll) Reset() {
	s.Offset = 0
}
