package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/tmclane/bspwm/internal/keysym"
)

// QueryKeymap loads the full keycode-to-keysym mapping for the connected
// keyboard, covering the valid keycode range advertised by the connection
// setup. The reconciler uses this table only to log the keysyms of a key
// press that matches no shortcut binding.
func (c *Conn) QueryKeymap() (keysym.Keymap, error) {
	setup := xproto.Setup(c.X)
	lo := setup.MinKeycode
	hi := setup.MaxKeycode
	count := int(hi-lo) + 1

	reply, err := xproto.GetKeyboardMapping(c.X, lo, byte(count)).Reply()
	if err != nil {
		return nil, fmt.Errorf("x11: get keyboard mapping: %w", err)
	}
	if reply == nil {
		return nil, fmt.Errorf("x11: keyboard mapping returned no reply")
	}

	per := int(reply.KeysymsPerKeycode)
	out := make(keysym.Keymap, count)
	for i := 0; i < count; i++ {
		code := xproto.Keycode(int(lo) + i)
		out[code] = reply.Keysyms[i*per : (i+1)*per]
	}
	return out, nil
}
