// Package keysym resolves human-readable key-combination strings (as
// written in the configuration file, e.g. "Mod4-j") to the modifier mask
// and physical keycodes the display server understands. This is explicitly
// an external collaborator per the core's scope: the BSP/workspace/render
// packages never see a keysym, only the resolved (modifier, keycode) pairs
// the shortcut dispatcher grabs on the root window.
package keysym

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
)

// Resolver parses shortcut-grammar strings using a short-lived xgbutil
// connection opened solely for that purpose; it is closed once startup
// finishes resolving the configured shortcut table; it does not share the
// main xgb.Conn used by the event loop (the display connection stays
// exclusively owned by the reconciler, per the concurrency model).
type Resolver struct {
	xu *xgbutil.XUtil
}

// NewResolver opens an auxiliary connection to display (empty string
// selects $DISPLAY) for key-combination parsing.
func NewResolver(display string) (*Resolver, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("keysym: open resolver connection: %w", err)
	}
	if err := keybind.Initialize(xu); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("keysym: initialize keybind: %w", err)
	}
	return &Resolver{xu: xu}, nil
}

// Close releases the resolver's auxiliary connection.
func (r *Resolver) Close() {
	if r.xu != nil {
		r.xu.Conn().Close()
	}
}

// Binding is one resolved key combination: the modifier mask plus every
// keycode that currently maps to the combination's keysym (a keysym can sit
// on more than one physical key).
type Binding struct {
	Modifiers uint16
	Codes     []xproto.Keycode
}

// Parse resolves a grammar string like "Mod4-Shift-j" into its modifier
// mask and keycodes.
func (r *Resolver) Parse(combo string) (Binding, error) {
	mods, keycodes, err := keybind.ParseString(r.xu, combo)
	if err != nil {
		return Binding{}, fmt.Errorf("keysym: parse %q: %w", combo, err)
	}
	return Binding{Modifiers: mods, Codes: keycodes}, nil
}

// Keymap resolves a keycode pressed under the loaded keyboard mapping back
// to its keysyms. The reconciler consults it only to log unmatched key
// presses; shortcut matching uses the resolved Bindings.
type Keymap map[xproto.Keycode][]xproto.Keysym
