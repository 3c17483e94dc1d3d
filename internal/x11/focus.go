package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/tmclane/bspwm/internal/bsp"
)

// Protocols atoms needed for ICCCM courtesy handling.
type Protocols struct {
	WMProtocols    xproto.Atom
	WMDeleteWindow xproto.Atom
	WMTakeFocus    xproto.Atom
}

// LoadProtocols interns the three ICCCM atoms the reconciler needs.
func (c *Conn) LoadProtocols() (Protocols, error) {
	var p Protocols
	var err error
	if p.WMProtocols, err = c.Atom("WM_PROTOCOLS"); err != nil {
		return p, err
	}
	if p.WMDeleteWindow, err = c.Atom("WM_DELETE_WINDOW"); err != nil {
		return p, err
	}
	if p.WMTakeFocus, err = c.Atom("WM_TAKE_FOCUS"); err != nil {
		return p, err
	}
	return p, nil
}

// Supports reports whether w advertises support for wantProtocol in its
// WM_PROTOCOLS property.
func (c *Conn) Supports(w bsp.Window, protocols Protocols, wantProtocol xproto.Atom) bool {
	reply, err := xproto.GetProperty(c.X, false, toXWindow(w), protocols.WMProtocols, xproto.GetPropertyTypeAny, 0, 64).Reply()
	if err != nil || reply == nil {
		return false
	}
	for v := reply.Value; len(v) >= 4; v = v[4:] {
		atom := xproto.Atom(uint32(v[0]) | uint32(v[1])<<8 | uint32(v[2])<<16 | uint32(v[3])<<24)
		if atom == wantProtocol {
			return true
		}
	}
	return false
}

// SendProtocolMessage sends a WM_PROTOCOLS client message of the given
// sub-type (WM_DELETE_WINDOW or WM_TAKE_FOCUS) carrying t as its timestamp.
func (c *Conn) SendProtocolMessage(w bsp.Window, protocols Protocols, msg xproto.Atom, t xproto.Timestamp) error {
	xw := toXWindow(w)
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: xw,
		Type:   protocols.WMProtocols,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(msg), uint32(t), 0, 0, 0,
		}),
	}
	if err := xproto.SendEventChecked(c.X, false, xw, xproto.EventMaskNoEvent, string(ev.Bytes())).Check(); err != nil {
		return fmt.Errorf("x11: send protocol message to %d: %w", w, err)
	}
	return nil
}

// SetFocus gives w input focus, honoring WM_TAKE_FOCUS if the client
// advertises it, and otherwise setting input focus on w directly (reverting
// to PointerRoot).
func (c *Conn) SetFocus(w bsp.Window, protocols Protocols, t xproto.Timestamp) error {
	if c.Supports(w, protocols, protocols.WMTakeFocus) {
		return c.SendProtocolMessage(w, protocols, protocols.WMTakeFocus, t)
	}
	if err := xproto.SetInputFocusChecked(c.X, xproto.InputFocusPointerRoot, toXWindow(w), t).Check(); err != nil {
		return fmt.Errorf("x11: set input focus %d: %w", w, err)
	}
	return nil
}

// RequestClose asks w to close gracefully via WM_DELETE_WINDOW if
// supported, falling back to KillClient otherwise.
func (c *Conn) RequestClose(w bsp.Window, protocols Protocols, t xproto.Timestamp) error {
	if c.Supports(w, protocols, protocols.WMDeleteWindow) {
		return c.SendProtocolMessage(w, protocols, protocols.WMDeleteWindow, t)
	}
	return c.KillClient(w)
}
