// Package shortcuts is a context-scoped keyboard shortcut registry. Keys are
// dispatched to the first registered shortcut whose key, context and exact
// modifier set match.
package shortcuts

import (
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/gravitrone/shopos/cli/internal/logging"
)

// GlobalContext scopes a shortcut to every context. An empty Context means
// the same thing.
const GlobalContext = "global"

var (
	// ErrConflict is returned when an enabled shortcut already claims the same
	// key, modifiers and context.
	ErrConflict = errors.New("shortcut conflict")
	// ErrNotFound is returned by Update for an unknown id.
	ErrNotFound = errors.New("shortcut not found")
)

// Shortcut binds a key combination to a handler.
type Shortcut struct {
	ID          string
	Key         string
	Description string
	Handler     func() tea.Cmd
	Modifiers   Modifiers
	Context     string
	Disabled    bool
}

// String renders the combination as "ctrl+shift+k".
func (s Shortcut) String() string {
	return s.Modifiers.prefix() + normalizeKey(s.Key)
}

func (s Shortcut) global() bool {
	return s.Context == "" || s.Context == GlobalContext
}

func (s Shortcut) sameCombo(other Shortcut) bool {
	return normalizeKey(s.Key) == normalizeKey(other.Key) &&
		s.Modifiers == other.Modifiers &&
		(s.Context == other.Context || (s.global() && other.global()))
}

// Registry holds shortcuts in registration order. It is driven from the TUI
// update loop and is not safe for concurrent use.
type Registry struct {
	order     []string
	shortcuts map[string]Shortcut
	context   string
	enabled   bool
	pressed   map[string]struct{}
	log       *logrus.Entry
}

// NewRegistry returns an enabled registry in the global context.
func NewRegistry() *Registry {
	return &Registry{
		shortcuts: make(map[string]Shortcut),
		context:   GlobalContext,
		enabled:   true,
		pressed:   make(map[string]struct{}),
		log:       logging.NewLogger("shortcuts"),
	}
}

// Register adds s. Registering an existing id, or a combination an enabled
// shortcut already owns in the same context, fails.
func (r *Registry) Register(s Shortcut) error {
	if s.ID == "" || normalizeKey(s.Key) == "" {
		return fmt.Errorf("register shortcut: id and key are required")
	}
	if _, exists := r.shortcuts[s.ID]; exists {
		return fmt.Errorf("register %q: %w: id already registered", s.ID, ErrConflict)
	}
	if owner, ok := r.conflict(s); ok {
		return fmt.Errorf("register %q: %w with %q on %s", s.ID, ErrConflict, owner, s.String())
	}
	r.shortcuts[s.ID] = s
	r.order = append(r.order, s.ID)
	return nil
}

// Unregister removes a shortcut. It reports whether one was removed.
func (r *Registry) Unregister(id string) bool {
	if _, ok := r.shortcuts[id]; !ok {
		return false
	}
	delete(r.shortcuts, id)
	for i, candidate := range r.order {
		if candidate == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Update replaces the shortcut with the given id, keeping its position.
func (r *Registry) Update(id string, s Shortcut) error {
	if _, ok := r.shortcuts[id]; !ok {
		return fmt.Errorf("update %q: %w", id, ErrNotFound)
	}
	s.ID = id
	if owner, ok := r.conflict(s); ok {
		return fmt.Errorf("update %q: %w with %q on %s", id, ErrConflict, owner, s.String())
	}
	r.shortcuts[id] = s
	return nil
}

func (r *Registry) conflict(s Shortcut) (string, bool) {
	if s.Disabled {
		return "", false
	}
	for _, id := range r.order {
		existing := r.shortcuts[id]
		if id == s.ID || existing.Disabled {
			continue
		}
		if existing.sameCombo(s) {
			return id, true
		}
	}
	return "", false
}

// SetContext changes which context-scoped shortcuts are live.
func (r *Registry) SetContext(ctx string) {
	if ctx == "" {
		ctx = GlobalContext
	}
	r.context = ctx
}

// Context returns the current context.
func (r *Registry) Context() string { return r.context }

// Enable turns dispatch on.
func (r *Registry) Enable() { r.enabled = true }

// Disable turns dispatch off.
func (r *Registry) Disable() { r.enabled = false }

// Enabled reports whether dispatch is on.
func (r *Registry) Enabled() bool { return r.enabled }

// Shortcuts returns every shortcut in registration order.
func (r *Registry) Shortcuts() []Shortcut {
	out := make([]Shortcut, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.shortcuts[id])
	}
	return out
}

// HandleKeyDown dispatches ev. It returns true and the handler's command when
// a shortcut fired.
func (r *Registry) HandleKeyDown(ev *KeyEvent) (bool, tea.Cmd) {
	pressed := normalizeKey(ev.Key)
	r.pressed[pressed] = struct{}{}

	if !r.enabled || ev.InTextInput {
		return false, nil
	}

	for _, id := range r.order {
		s := r.shortcuts[id]
		if !r.live(s) || normalizeKey(s.Key) != pressed {
			continue
		}
		if s.Modifiers != ev.Modifiers {
			continue
		}

		ev.PreventDefault()
		ev.StopPropagation()
		r.log.WithFields(logrus.Fields{
			"shortcut": id,
			"keys":     ev.String(),
			"context":  r.context,
		}).Debug("shortcut fired")
		if s.Handler == nil {
			return true, nil
		}
		return true, s.Handler()
	}
	return false, nil
}

// HandleKeyUp clears a key from the pressed set.
func (r *Registry) HandleKeyUp(k string) {
	delete(r.pressed, normalizeKey(k))
}

// Pressed returns the keys currently held, sorted.
func (r *Registry) Pressed() []string {
	out := make([]string, 0, len(r.pressed))
	for k := range r.pressed {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) live(s Shortcut) bool {
	if s.Disabled {
		return false
	}
	return s.global() || s.Context == r.context
}

// Bindings returns help bindings for the shortcuts live in the current
// context, in registration order.
func (r *Registry) Bindings() []key.Binding {
	var out []key.Binding
	for _, id := range r.order {
		s := r.shortcuts[id]
		if !r.live(s) {
			continue
		}
		combo := s.String()
		out = append(out, key.NewBinding(
			key.WithKeys(combo),
			key.WithHelp(combo, s.Description),
		))
	}
	return out
}
