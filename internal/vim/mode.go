package vim

import "fmt"

// Operator is the action applied to a selection once its extent is known
type Operator int

const (
	OpNone Operator = iota
	Yank
	Delete
	Change
)

// operatorFor maps an operator key to its Operator
func operatorFor(r rune) (Operator, bool) {
	switch r {
	case 'y':
		return Yank, true
	case 'd':
		return Delete, true
	case 'c':
		return Change, true
	}
	return OpNone, false
}

// Rune returns the key that enters the operator
func (o Operator) Rune() rune {
	switch o {
	case Yank:
		return 'y'
	case Delete:
		return 'd'
	case Change:
		return 'c'
	}
	return 0
}

func (o Operator) String() string {
	switch o {
	case Yank:
		return "yank"
	case Delete:
		return "delete"
	case Change:
		return "change"
	}
	return "none"
}

// ModeKind identifies the variant of a Mode
type ModeKind int

const (
	KindNormal ModeKind = iota
	KindInsert
	KindVisual
	KindOperatorPending
)

// Mode is the editing mode of an Engine. Op is only meaningful when Kind is
// KindOperatorPending.
type Mode struct {
	Kind ModeKind
	Op   Operator
}

var (
	Normal = Mode{Kind: KindNormal}
	Insert = Mode{Kind: KindInsert}
	Visual = Mode{Kind: KindVisual}
)

// OperatorPending returns the mode waiting for a motion to complete op
func OperatorPending(op Operator) Mode {
	return Mode{Kind: KindOperatorPending, Op: op}
}

// IsEditing reports whether keys are inserted as text
func (m Mode) IsEditing() bool {
	return m.Kind == KindInsert
}

func (m Mode) String() string {
	switch m.Kind {
	case KindNormal:
		return "NORMAL"
	case KindInsert:
		return "INSERT"
	case KindVisual:
		return "VISUAL"
	case KindOperatorPending:
		return fmt.Sprintf("OPERATOR(%c)", m.Op.Rune())
	}
	return "UNKNOWN"
}
