package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Atom resolves name to an interned atom, caching the result for the life
// of the connection.
func (c *Conn) Atom(name string) (xproto.Atom, error) {
	if a, ok := c.atoms[name]; ok {
		return a, nil
	}
	reply, err := xproto.InternAtom(c.X, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("x11: intern atom %q: %w", name, err)
	}
	c.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// SetWMName advertises the manager's name via _NET_WM_NAME on the root
// window, as EWMH-aware panels expect.
func (c *Conn) SetWMName(name string) error {
	atom, err := c.Atom("_NET_WM_NAME")
	if err != nil {
		return err
	}
	utf8, err := c.Atom("UTF8_STRING")
	if err != nil {
		return err
	}
	return xproto.ChangePropertyChecked(
		c.X, xproto.PropModeReplace, c.root, atom, utf8, 8,
		uint32(len(name)), []byte(name),
	).Check()
}
