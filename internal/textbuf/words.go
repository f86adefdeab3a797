package textbuf

import "unicode"

type charClass int

const (
	classSpace charClass = iota
	classPunct
	classWord
)

func classOf(r rune) charClass {
	switch {
	case unicode.IsSpace(r):
		return classSpace
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return classWord
	}
	return classPunct
}

// isWordStart reports whether line[i] begins a word
func isWordStart(line []rune, i int) bool {
	c := classOf(line[i])
	if c == classSpace {
		return false
	}
	return i == 0 || classOf(line[i-1]) != c
}

// isWordEnd reports whether line[i] ends a word
func isWordEnd(line []rune, i int) bool {
	c := classOf(line[i])
	if c == classSpace {
		return false
	}
	return i == len(line)-1 || classOf(line[i+1]) != c
}

// wordForward finds the next word start. Without one on the current line the
// cursor goes to the head of the next line, or to line end on the last line.
func (t *TextArea) wordForward() (int, int) {
	line := t.lines[t.row]
	for i := t.col + 1; i < len(line); i++ {
		if isWordStart(line, i) {
			return t.row, i
		}
	}
	if t.row < len(t.lines)-1 {
		return t.row + 1, 0
	}
	return t.row, len(line)
}

// wordEnd finds the next word end, searching following lines
func (t *TextArea) wordEnd() (int, int) {
	from := t.col + 1
	for r := t.row; r < len(t.lines); r++ {
		line := t.lines[r]
		for i := from; i < len(line); i++ {
			if isWordEnd(line, i) {
				return r, i
			}
		}
		from = 0
	}
	return t.row, t.col
}

// wordBack finds the previous word start, searching preceding lines
func (t *TextArea) wordBack() (int, int) {
	from := t.col - 1
	for r := t.row; r >= 0; r-- {
		line := t.lines[r]
		if r != t.row {
			from = len(line) - 1
		}
		for i := min(from, len(line)-1); i >= 0; i-- {
			if isWordStart(line, i) {
				return r, i
			}
		}
	}
	return 0, 0
}
