package shortcuts

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Modifiers is the set of modifier keys held with a key press.
type Modifiers struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
}

func (m Modifiers) prefix() string {
	var b strings.Builder
	if m.Ctrl {
		b.WriteString("ctrl+")
	}
	if m.Alt {
		b.WriteString("alt+")
	}
	if m.Shift {
		b.WriteString("shift+")
	}
	if m.Meta {
		b.WriteString("meta+")
	}
	return b.String()
}

// KeyEvent is a normalized key press.
type KeyEvent struct {
	Key string
	Modifiers
	// InTextInput is set when a text field has focus. Shortcuts never fire
	// while the user is typing.
	InTextInput bool

	prevented bool
	stopped   bool
}

// PreventDefault marks the key as consumed so the focused model ignores it.
func (e *KeyEvent) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *KeyEvent) DefaultPrevented() bool { return e.prevented }

// StopPropagation marks the event as not to be forwarded to child models.
func (e *KeyEvent) StopPropagation() { e.stopped = true }

// PropagationStopped reports whether StopPropagation was called.
func (e *KeyEvent) PropagationStopped() bool { return e.stopped }

// String renders the event the same way Shortcut.String does.
func (e *KeyEvent) String() string {
	return e.Modifiers.prefix() + e.Key
}

// FromKeyMsg converts a bubbletea key message ("ctrl+k", "alt+x", "K")
// into a KeyEvent. Uppercase letters are reported as shift plus the
// lowercase letter.
func FromKeyMsg(msg tea.KeyMsg, inTextInput bool) *KeyEvent {
	ev := &KeyEvent{InTextInput: inTextInput}
	s := msg.String()
	for {
		switch {
		case strings.HasPrefix(s, "ctrl+") && len(s) > len("ctrl+"):
			ev.Ctrl = true
			s = s[len("ctrl+"):]
			continue
		case strings.HasPrefix(s, "alt+") && len(s) > len("alt+"):
			ev.Alt = true
			s = s[len("alt+"):]
			continue
		case strings.HasPrefix(s, "shift+") && len(s) > len("shift+"):
			ev.Shift = true
			s = s[len("shift+"):]
			continue
		case strings.HasPrefix(s, "meta+") && len(s) > len("meta+"):
			ev.Meta = true
			s = s[len("meta+"):]
			continue
		}
		break
	}
	if r := []rune(s); len(r) == 1 && r[0] >= 'A' && r[0] <= 'Z' {
		ev.Shift = true
	}
	ev.Key = normalizeKey(s)
	return ev
}

func normalizeKey(k string) string {
	if k == " " {
		return "space"
	}
	return strings.ToLower(strings.TrimSpace(k))
}
