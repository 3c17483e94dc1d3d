package shortcut

import (
	"testing"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDispatchInvokesRegisteredCommand(t *testing.T) {
	bindings := []Binding{
		{Modifiers: 8, Codes: []xproto.Keycode{44}, Command: "focus_next"},
	}
	d := New(bindings, zerolog.Nop())

	called := false
	d.RegisterCommand("focus_next", func() error {
		called = true
		return nil
	})

	err, matched := d.Dispatch(8, 44)
	assert.NoError(t, err)
	assert.True(t, matched)
	assert.True(t, called)
}

func TestDispatchUnmatchedReturnsFalse(t *testing.T) {
	d := New(nil, zerolog.Nop())
	err, matched := d.Dispatch(8, 44)
	assert.NoError(t, err)
	assert.False(t, matched)
}

func TestDispatchRequiresExactModifierMatch(t *testing.T) {
	bindings := []Binding{
		{Modifiers: 8, Codes: []xproto.Keycode{44}, Command: "focus_next"},
	}
	d := New(bindings, zerolog.Nop())
	d.RegisterCommand("focus_next", func() error { return nil })

	err, matched := d.Dispatch(9, 44)
	assert.NoError(t, err)
	assert.False(t, matched)
}

func TestDispatchFallsBackToSubprocessSpawn(t *testing.T) {
	bindings := []Binding{
		{Modifiers: 8, Codes: []xproto.Keycode{44}, Command: "true"},
	}
	d := New(bindings, zerolog.Nop())

	err, matched := d.Dispatch(8, 44)
	assert.NoError(t, err)
	assert.True(t, matched)
	// give the detached Wait goroutine a moment to reap the child
	time.Sleep(20 * time.Millisecond)
}

func TestContainsCode(t *testing.T) {
	codes := []xproto.Keycode{1, 2, 3}
	assert.True(t, containsCode(codes, 2))
	assert.False(t, containsCode(codes, 9))
}
