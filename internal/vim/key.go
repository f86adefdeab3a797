package vim

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyType classifies a Key
type KeyType int

const (
	KeyNull KeyType = iota
	KeyRune
	KeyEsc
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyTab
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
)

// Key is a single keystroke as seen by the engine
type Key struct {
	Type KeyType
	Rune rune
	Ctrl bool
	Alt  bool
}

// Rune returns a plain printable key
func Rune(r rune) Key {
	return Key{Type: KeyRune, Rune: r}
}

// Ctrl returns the control chord for r (e.g. Ctrl('r'))
func Ctrl(r rune) Key {
	return Key{Type: KeyRune, Rune: r, Ctrl: true}
}

// Special returns a non-printable key
func Special(t KeyType) Key {
	return Key{Type: t}
}

// Is reports whether k is the unmodified printable key r
func (k Key) Is(r rune) bool {
	return k.Type == KeyRune && !k.Ctrl && !k.Alt && k.Rune == r
}

// IsZero reports whether k is the empty key
func (k Key) IsZero() bool {
	return k.Type == KeyNull
}

func (k Key) String() string {
	switch k.Type {
	case KeyNull:
		return ""
	case KeyRune:
		prefix := ""
		if k.Ctrl {
			prefix += "ctrl+"
		}
		if k.Alt {
			prefix += "alt+"
		}
		return prefix + string(k.Rune)
	case KeyEsc:
		return "esc"
	case KeyEnter:
		return "enter"
	case KeyBackspace:
		return "backspace"
	case KeyDelete:
		return "delete"
	case KeyTab:
		return "tab"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyHome:
		return "home"
	case KeyEnd:
		return "end"
	}
	return fmt.Sprintf("key(%d)", k.Type)
}

// KeysFromMsg converts a bubbletea key message into engine keys. Pasted or
// buffered input may carry several runes, which become one Key each.
func KeysFromMsg(msg tea.KeyMsg) []Key {
	if msg.Type == tea.KeyRunes {
		keys := make([]Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			keys = append(keys, Key{Type: KeyRune, Rune: r, Alt: msg.Alt})
		}
		return keys
	}
	k := KeyFromMsg(msg)
	if k.IsZero() {
		return nil
	}
	return []Key{k}
}

// KeyFromMsg converts a bubbletea key message into a single engine key.
// Unsupported keys map to the zero Key.
func KeyFromMsg(msg tea.KeyMsg) Key {
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return Key{}
		}
		return Key{Type: KeyRune, Rune: msg.Runes[0], Alt: msg.Alt}
	case tea.KeySpace:
		return Key{Type: KeyRune, Rune: ' ', Alt: msg.Alt}
	case tea.KeyEsc:
		return Special(KeyEsc)
	case tea.KeyEnter:
		return Special(KeyEnter)
	case tea.KeyBackspace, tea.KeyCtrlH:
		return Special(KeyBackspace)
	case tea.KeyDelete:
		return Special(KeyDelete)
	case tea.KeyTab:
		return Special(KeyTab)
	case tea.KeyLeft:
		return Special(KeyLeft)
	case tea.KeyRight:
		return Special(KeyRight)
	case tea.KeyUp:
		return Special(KeyUp)
	case tea.KeyDown:
		return Special(KeyDown)
	case tea.KeyHome:
		return Special(KeyHome)
	case tea.KeyEnd:
		return Special(KeyEnd)
	}
	if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
		return Ctrl(rune('a' + int(msg.Type-tea.KeyCtrlA)))
	}
	return Key{}
}
