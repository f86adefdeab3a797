package vim

import "fmt"

// TransitionKind identifies the outcome of a keystroke
type TransitionKind int

const (
	NoOp TransitionKind = iota
	ModeChanged
	PendingKey
	ExitField
)

// ScrollHint asks the host to move its viewport without touching the cursor
type ScrollHint int

const (
	ScrollNone ScrollHint = iota
	ScrollHalfPageDown
	ScrollHalfPageUp
)

// Transition is the result of feeding one key to the engine
type Transition struct {
	Kind TransitionKind
	// Mode is set for ModeChanged
	Mode Mode
	// Key is set for PendingKey
	Key Key
	// Scroll accompanies a NoOp produced by ctrl+d / ctrl+u
	Scroll ScrollHint
}

func noOp() Transition { return Transition{Kind: NoOp} }

func exitField() Transition { return Transition{Kind: ExitField} }

func changeMode(m Mode) Transition { return Transition{Kind: ModeChanged, Mode: m} }

func pending(k Key) Transition { return Transition{Kind: PendingKey, Key: k} }

func scroll(h ScrollHint) Transition { return Transition{Kind: NoOp, Scroll: h} }

func (t Transition) String() string {
	switch t.Kind {
	case NoOp:
		return "NoOp"
	case ModeChanged:
		return fmt.Sprintf("ModeChanged(%s)", t.Mode)
	case PendingKey:
		return fmt.Sprintf("PendingKey(%s)", t.Key)
	case ExitField:
		return "ExitField"
	}
	return "Transition(?)"
}

// Engine holds the per-field modal state: the current mode and a single
// pending key for two-key chords. It never stores the buffer it edits.
type Engine struct {
	mode    Mode
	pending Key
}

// New creates an engine in Normal mode with an empty pending slot
func New() *Engine {
	return &Engine{mode: Normal}
}

// NewWithMode creates an engine starting in the given mode
func NewWithMode(m Mode) *Engine {
	return &Engine{mode: m}
}

// Mode returns the current mode
func (e *Engine) Mode() Mode {
	return e.mode
}

// Pending returns the buffered key, if any
func (e *Engine) Pending() (Key, bool) {
	return e.pending, !e.pending.IsZero()
}

// Handle runs Transition and commits the result with Apply
func (e *Engine) Handle(key Key, buf Buffer, singleLine bool) Transition {
	t := e.Transition(key, buf, singleLine)
	e.Apply(t)
	return t
}

// Apply commits a transition: ModeChanged replaces the mode, PendingKey
// fills the pending slot, and every transition other than PendingKey clears it.
func (e *Engine) Apply(t Transition) {
	switch t.Kind {
	case ModeChanged:
		e.mode = t.Mode
		e.pending = Key{}
	case PendingKey:
		e.pending = t.Key
	default:
		e.pending = Key{}
	}
}

// Transition interprets key against the current mode, mutating buf as a side
// effect. singleLine forbids anything that would add a line. The engine's own
// state is left untouched until Apply.
func (e *Engine) Transition(key Key, buf Buffer, singleLine bool) Transition {
	if key.IsZero() {
		return noOp()
	}
	if e.mode.Kind == KindInsert {
		return e.insert(key, buf, singleLine)
	}
	return e.command(key, buf, singleLine)
}

func (e *Engine) insert(key Key, buf Buffer, singleLine bool) Transition {
	switch key.Type {
	case KeyEsc:
		return changeMode(Normal)
	case KeyEnter:
		if singleLine {
			return noOp()
		}
		buf.InsertNewline()
		return changeMode(Insert)
	}
	buf.Input(key)
	return changeMode(Insert)
}

// command handles Normal, Visual and OperatorPending, which share one table
func (e *Engine) command(key Key, buf Buffer, singleLine bool) Transition {
	mode := e.mode

	if key.Type == KeyEsc {
		if mode.Kind == KindNormal {
			return exitField()
		}
		buf.CancelSelection()
		return changeMode(Normal)
	}
	if key.Type != KeyRune || key.Alt {
		return pending(key)
	}
	if key.Ctrl {
		switch key.Rune {
		case 'r':
			buf.Redo()
			return changeMode(Normal)
		case 'd':
			return scroll(ScrollHalfPageDown)
		case 'u':
			return scroll(ScrollHalfPageUp)
		}
		return pending(key)
	}

	switch key.Rune {
	case 'h':
		return e.motion(buf, MoveBack)
	case 'j':
		return e.motion(buf, MoveDown)
	case 'k':
		return e.motion(buf, MoveUp)
	case 'l':
		return e.motion(buf, MoveForward)
	case 'w':
		return e.motion(buf, MoveWordForward)
	case 'b':
		return e.motion(buf, MoveWordBack)
	case 'e':
		buf.MoveCursor(MoveWordEnd)
		if mode.Kind == KindOperatorPending {
			// operators on e include the last character of the word
			buf.MoveCursor(MoveForward)
		}
		return e.afterMotion(buf)
	case '0', '^':
		return e.motion(buf, MoveHead)
	case '$':
		return e.motion(buf, MoveEnd)
	case 'G':
		return e.motion(buf, MoveBottom)
	case 'g':
		if e.pending.Is('g') {
			return e.motion(buf, MoveTop)
		}
	case 'x':
		buf.StartSelection()
		buf.MoveCursor(MoveForward)
		buf.Cut()
		return changeMode(Normal)
	case 'X':
		buf.StartSelection()
		buf.MoveCursor(MoveBack)
		buf.Cut()
		return changeMode(Normal)
	case 'D', 'C':
		buf.StartSelection()
		before := buf.Cursor()
		buf.MoveCursor(MoveEnd)
		if buf.Cursor() == before {
			buf.MoveCursor(MoveForward)
		}
		buf.Cut()
		if key.Rune == 'C' {
			return changeMode(Insert)
		}
		return changeMode(Normal)
	case 'p':
		buf.Paste()
		return changeMode(Normal)
	case 'u':
		buf.Undo()
		return changeMode(Normal)
	}

	switch mode.Kind {
	case KindNormal:
		if t, ok := e.normalOnly(key.Rune, buf, singleLine); ok {
			return t
		}
	case KindVisual:
		if t, ok := e.visualOnly(key.Rune, buf); ok {
			return t
		}
	case KindOperatorPending:
		if key.Rune == mode.Op.Rune() {
			selectLine(buf)
			return e.completeOperator(mode.Op, buf)
		}
	}

	return pending(key)
}

// normalOnly holds the keys that are only valid from Normal mode
func (e *Engine) normalOnly(r rune, buf Buffer, singleLine bool) (Transition, bool) {
	switch r {
	case 'i':
		buf.CancelSelection()
		return changeMode(Insert), true
	case 'a':
		buf.CancelSelection()
		buf.MoveCursor(MoveForward)
		return changeMode(Insert), true
	case 'A':
		buf.CancelSelection()
		buf.MoveCursor(MoveEnd)
		return changeMode(Insert), true
	case 'I':
		buf.CancelSelection()
		buf.MoveCursor(MoveHead)
		return changeMode(Insert), true
	case 'o':
		if singleLine {
			return Transition{}, false
		}
		buf.MoveCursor(MoveEnd)
		buf.InsertNewline()
		return changeMode(Insert), true
	case 'O':
		if singleLine {
			return Transition{}, false
		}
		buf.MoveCursor(MoveHead)
		buf.InsertNewline()
		buf.MoveCursor(MoveUp)
		return changeMode(Insert), true
	case 'v':
		buf.StartSelection()
		return changeMode(Visual), true
	case 'V':
		buf.MoveCursor(MoveHead)
		buf.StartSelection()
		buf.MoveCursor(MoveEnd)
		return changeMode(Visual), true
	}
	if op, ok := operatorFor(r); ok {
		return e.enterOperator(op, buf), true
	}
	return Transition{}, false
}

// visualOnly completes or cancels a visual selection
func (e *Engine) visualOnly(r rune, buf Buffer) (Transition, bool) {
	if r == 'v' {
		buf.CancelSelection()
		return changeMode(Normal), true
	}
	op, ok := operatorFor(r)
	if !ok {
		return Transition{}, false
	}
	// make the selection include the character under the cursor
	buf.MoveCursor(MoveForward)
	return e.completeOperator(op, buf), true
}

func (e *Engine) motion(buf Buffer, m CursorMove) Transition {
	buf.MoveCursor(m)
	return e.afterMotion(buf)
}

// afterMotion finishes a pending operator once its motion has run
func (e *Engine) afterMotion(buf Buffer) Transition {
	if e.mode.Kind == KindOperatorPending {
		return e.completeOperator(e.mode.Op, buf)
	}
	return noOp()
}

// enterOperator anchors the operator's selection at the cursor
func (e *Engine) enterOperator(op Operator, buf Buffer) Transition {
	buf.StartSelection()
	return changeMode(OperatorPending(op))
}

// completeOperator applies op to the current selection
func (e *Engine) completeOperator(op Operator, buf Buffer) Transition {
	switch op {
	case Yank:
		buf.Copy()
		return changeMode(Normal)
	case Delete:
		buf.Cut()
		return changeMode(Normal)
	case Change:
		buf.Cut()
		return changeMode(Insert)
	}
	buf.CancelSelection()
	return changeMode(Normal)
}

// selectLine selects the cursor's line including its line break. On the last
// line there is no break to take, so the selection stops at line end.
func selectLine(buf Buffer) {
	buf.MoveCursor(MoveHead)
	buf.StartSelection()
	before := buf.Cursor()
	buf.MoveCursor(MoveDown)
	if buf.Cursor() == before {
		buf.MoveCursor(MoveEnd)
	}
}
