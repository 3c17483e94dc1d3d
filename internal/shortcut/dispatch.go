// Package shortcut resolves configured key combinations into either a
// dispatch to a registered internal command token or a fire-and-forget
// external subprocess, and owns grabbing the resolved keycodes on the root
// window.
package shortcut

import (
	"os/exec"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"

	"github.com/tmclane/bspwm/internal/x11"
)

// Action is an internal command handler, invoked with no arguments: every
// command token it can be bound to only ever acts on the manager's current
// focus/workspace state, which the caller closes over.
type Action func() error

// Dispatcher holds the resolved shortcut table and the internal command
// registry it is checked against before falling back to a subprocess spawn.
type Dispatcher struct {
	bindings []Binding
	commands map[string]Action
	log      zerolog.Logger
}

// New builds a Dispatcher from already-compiled bindings.
func New(bindings []Binding, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		bindings: bindings,
		commands: make(map[string]Action),
		log:      log,
	}
}

// RegisterCommand binds an internal command token (e.g. "focus_next") to
// action. A shortcut whose command string matches a registered token
// invokes action instead of spawning a subprocess.
func (d *Dispatcher) RegisterCommand(token string, action Action) {
	d.commands[token] = action
}

// GrabAll grabs every resolved binding's keycodes on the root window so the
// display server reports their KeyPressEvents to the manager.
func (d *Dispatcher) GrabAll(conn *x11.Conn) error {
	for _, b := range d.bindings {
		for _, code := range b.Codes {
			if err := conn.GrabKey(b.Modifiers, code); err != nil {
				return err
			}
		}
	}
	return nil
}

// Dispatch looks up the binding matching mods and code and either invokes
// its registered internal command or spawns its command string as an
// external subprocess. It returns nil, false if no binding matches.
func (d *Dispatcher) Dispatch(mods uint16, code xproto.Keycode) (err error, matched bool) {
	for _, b := range d.bindings {
		if b.Modifiers != mods || !containsCode(b.Codes, code) {
			continue
		}
		if action, ok := d.commands[b.Command]; ok {
			return action(), true
		}
		return d.spawn(b.Command), true
	}
	return nil, false
}

// spawn runs command as a detached shell command line and does not wait for
// it to complete; a command string may include arguments and pipelines, so
// it is handed to the shell rather than exec'd directly.
func (d *Dispatcher) spawn(command string) error {
	cmd := exec.Command("sh", "-c", command)
	if err := cmd.Start(); err != nil {
		d.log.Warn().Err(err).Str("command", command).Msg("shortcut: spawn failed")
		return err
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			d.log.Debug().Err(err).Str("command", command).Msg("shortcut: subprocess exited with error")
		}
	}()
	return nil
}

func containsCode(codes []xproto.Keycode, code xproto.Keycode) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
