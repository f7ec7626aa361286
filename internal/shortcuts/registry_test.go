package shortcuts

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type firedMsg string

func handlerFor(name string, fired *[]string) func() tea.Cmd {
	return func() tea.Cmd {
		*fired = append(*fired, name)
		return func() tea.Msg { return firedMsg(name) }
	}
}

func TestFromKeyMsg(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want KeyEvent
	}{
		{"ctrl", tea.KeyMsg{Type: tea.KeyCtrlK}, KeyEvent{Key: "k", Modifiers: Modifiers{Ctrl: true}}},
		{"alt rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true}, KeyEvent{Key: "x", Modifiers: Modifiers{Alt: true}}},
		{"uppercase", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'K'}}, KeyEvent{Key: "k", Modifiers: Modifiers{Shift: true}}},
		{"shift tab", tea.KeyMsg{Type: tea.KeyShiftTab}, KeyEvent{Key: "tab", Modifiers: Modifiers{Shift: true}}},
		{"question", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}}, KeyEvent{Key: "?"}},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, KeyEvent{Key: "esc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromKeyMsg(tt.msg, false)
			assert.Equal(t, tt.want.Key, got.Key)
			assert.Equal(t, tt.want.Modifiers, got.Modifiers)
		})
	}
}

func TestHandleKeyDownExactModifiers(t *testing.T) {
	var fired []string
	r := NewRegistry()
	require.NoError(t, r.Register(Shortcut{
		ID:        "palette",
		Key:       "k",
		Modifiers: Modifiers{Ctrl: true},
		Handler:   handlerFor("palette", &fired),
	}))

	ev := &KeyEvent{Key: "k", Modifiers: Modifiers{Ctrl: true}}
	handled, cmd := r.HandleKeyDown(ev)
	assert.True(t, handled)
	require.NotNil(t, cmd)
	assert.Equal(t, firedMsg("palette"), cmd())
	assert.True(t, ev.DefaultPrevented())
	assert.True(t, ev.PropagationStopped())

	ev = &KeyEvent{Key: "k", Modifiers: Modifiers{Ctrl: true, Shift: true}}
	handled, cmd = r.HandleKeyDown(ev)
	assert.False(t, handled)
	assert.Nil(t, cmd)
	assert.False(t, ev.DefaultPrevented())

	handled, _ = r.HandleKeyDown(&KeyEvent{Key: "k"})
	assert.False(t, handled)
	assert.Equal(t, []string{"palette"}, fired)
}

func TestHandleKeyDownIsCaseInsensitive(t *testing.T) {
	var fired []string
	r := NewRegistry()
	require.NoError(t, r.Register(Shortcut{ID: "help", Key: "H", Handler: handlerFor("help", &fired)}))

	handled, _ := r.HandleKeyDown(&KeyEvent{Key: "h"})
	assert.True(t, handled)
	assert.Equal(t, []string{"help"}, fired)
}

func TestHandleKeyDownSkipsTextInputAndDisabledRegistry(t *testing.T) {
	var fired []string
	r := NewRegistry()
	require.NoError(t, r.Register(Shortcut{ID: "next", Key: "n", Handler: handlerFor("next", &fired)}))

	handled, _ := r.HandleKeyDown(&KeyEvent{Key: "n", InTextInput: true})
	assert.False(t, handled)

	r.Disable()
	assert.False(t, r.Enabled())
	handled, _ = r.HandleKeyDown(&KeyEvent{Key: "n"})
	assert.False(t, handled)

	r.Enable()
	handled, _ = r.HandleKeyDown(&KeyEvent{Key: "n"})
	assert.True(t, handled)
	assert.Equal(t, []string{"next"}, fired)
}

func TestHandleKeyDownRespectsContext(t *testing.T) {
	var fired []string
	r := NewRegistry()
	require.NoError(t, r.Register(Shortcut{ID: "waiting", Key: "w", Context: "jobs", Handler: handlerFor("waiting", &fired)}))
	require.NoError(t, r.Register(Shortcut{ID: "dock", Key: "b", Modifiers: Modifiers{Ctrl: true}, Context: GlobalContext, Handler: handlerFor("dock", &fired)}))

	handled, _ := r.HandleKeyDown(&KeyEvent{Key: "w"})
	assert.False(t, handled)

	r.SetContext("jobs")
	handled, _ = r.HandleKeyDown(&KeyEvent{Key: "w"})
	assert.True(t, handled)
	handled, _ = r.HandleKeyDown(&KeyEvent{Key: "b", Modifiers: Modifiers{Ctrl: true}})
	assert.True(t, handled)

	r.SetContext("")
	assert.Equal(t, GlobalContext, r.Context())
	assert.Equal(t, []string{"waiting", "dock"}, fired)
}

func TestHandleKeyDownFirstMatchWins(t *testing.T) {
	var fired []string
	r := NewRegistry()
	require.NoError(t, r.Register(Shortcut{ID: "jobs-next", Key: "n", Context: "jobs", Handler: handlerFor("jobs-next", &fired)}))
	require.NoError(t, r.Register(Shortcut{ID: "global-new", Key: "n", Handler: handlerFor("global-new", &fired)}))

	r.SetContext("jobs")
	handled, _ := r.HandleKeyDown(&KeyEvent{Key: "n"})
	assert.True(t, handled)
	assert.Equal(t, []string{"jobs-next"}, fired)
}

func TestHandleKeyDownSkipsDisabledShortcut(t *testing.T) {
	var fired []string
	r := NewRegistry()
	require.NoError(t, r.Register(Shortcut{ID: "old", Key: "x", Disabled: true, Handler: handlerFor("old", &fired)}))
	require.NoError(t, r.Register(Shortcut{ID: "new", Key: "x", Handler: handlerFor("new", &fired)}))

	handled, _ := r.HandleKeyDown(&KeyEvent{Key: "x"})
	assert.True(t, handled)
	assert.Equal(t, []string{"new"}, fired)
}

func TestHandleKeyDownNilHandler(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Shortcut{ID: "noop", Key: "z"}))
	handled, cmd := r.HandleKeyDown(&KeyEvent{Key: "z"})
	assert.True(t, handled)
	assert.Nil(t, cmd)
}

func TestRegisterConflicts(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Shortcut{ID: "help", Key: "?"}))

	err := r.Register(Shortcut{ID: "help", Key: "h"})
	assert.True(t, errors.Is(err, ErrConflict))

	err = r.Register(Shortcut{ID: "help2", Key: "?", Context: GlobalContext})
	assert.True(t, errors.Is(err, ErrConflict))

	assert.NoError(t, r.Register(Shortcut{ID: "jobs-help", Key: "?", Context: "jobs"}))
	assert.NoError(t, r.Register(Shortcut{ID: "ctrl-help", Key: "?", Modifiers: Modifiers{Ctrl: true}}))

	assert.Error(t, r.Register(Shortcut{ID: "", Key: "a"}))
	assert.Error(t, r.Register(Shortcut{ID: "blank", Key: ""}))
}

func TestUnregisterAndUpdate(t *testing.T) {
	var fired []string
	r := NewRegistry()
	require.NoError(t, r.Register(Shortcut{ID: "a", Key: "a", Handler: handlerFor("a", &fired)}))
	require.NoError(t, r.Register(Shortcut{ID: "b", Key: "b", Handler: handlerFor("b", &fired)}))

	require.NoError(t, r.Update("a", Shortcut{Key: "c", Handler: handlerFor("a2", &fired)}))
	shortcuts := r.Shortcuts()
	require.Len(t, shortcuts, 2)
	assert.Equal(t, "a", shortcuts[0].ID)
	assert.Equal(t, "c", shortcuts[0].Key)

	assert.ErrorIs(t, r.Update("a", Shortcut{Key: "b"}), ErrConflict)
	assert.ErrorIs(t, r.Update("missing", Shortcut{Key: "q"}), ErrNotFound)

	handled, _ := r.HandleKeyDown(&KeyEvent{Key: "c"})
	assert.True(t, handled)
	assert.Equal(t, []string{"a2"}, fired)

	assert.True(t, r.Unregister("a"))
	assert.False(t, r.Unregister("a"))
	handled, _ = r.HandleKeyDown(&KeyEvent{Key: "c"})
	assert.False(t, handled)
	assert.Len(t, r.Shortcuts(), 1)
}

func TestPressedKeys(t *testing.T) {
	r := NewRegistry()
	r.HandleKeyDown(&KeyEvent{Key: "Shift"})
	r.HandleKeyDown(&KeyEvent{Key: "a"})
	assert.Equal(t, []string{"a", "shift"}, r.Pressed())

	r.HandleKeyUp("A")
	assert.Equal(t, []string{"shift"}, r.Pressed())
}

func TestBindingsFollowContext(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Shortcut{ID: "palette", Key: "k", Modifiers: Modifiers{Ctrl: true}, Description: "command palette"}))
	require.NoError(t, r.Register(Shortcut{ID: "waiting", Key: "w", Context: "jobs", Description: "waiting on parts"}))

	bindings := r.Bindings()
	require.Len(t, bindings, 1)
	assert.Equal(t, "ctrl+k", bindings[0].Help().Key)
	assert.Equal(t, "command palette", bindings[0].Help().Desc)

	r.SetContext("jobs")
	bindings = r.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, []string{"w"}, bindings[1].Keys())
}
