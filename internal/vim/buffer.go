package vim

// CursorMove is a cursor motion primitive a Buffer must support
type CursorMove int

const (
	MoveBack CursorMove = iota
	MoveForward
	MoveUp
	MoveDown
	MoveWordForward
	MoveWordBack
	MoveWordEnd
	MoveHead
	MoveEnd
	MoveTop
	MoveBottom
)

// Pos is a logical buffer position in characters
type Pos struct {
	Row int
	Col int
}

// Less reports whether p comes before o in reading order
func (p Pos) Less(o Pos) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Col < o.Col
}

// Buffer is the text widget the engine edits. Implementations must be
// infallible: out-of-range motions are clamped and operations on an empty
// selection are no-ops.
type Buffer interface {
	MoveCursor(m CursorMove)
	Cursor() Pos
	Lines() []string

	// StartSelection anchors a selection at the cursor, replacing any
	// existing anchor.
	StartSelection()
	CancelSelection()
	IsSelecting() bool
	// SelectionRange returns the normalised selection (start <= end).
	SelectionRange() (start, end Pos, ok bool)

	// Cut removes the selected text into the yank slot.
	Cut() bool
	// Copy stores the selected text in the yank slot.
	Copy()
	// Paste inserts the yank slot at the cursor.
	Paste() bool
	SetYankText(text string)
	YankText() string

	InsertChar(r rune)
	InsertNewline()
	// Input applies a raw editing key (printable, backspace, arrows...)
	// and reports whether it was understood.
	Input(k Key) bool

	Undo() bool
	Redo() bool
}
