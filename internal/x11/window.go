package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/tmclane/bspwm/internal/bsp"
)

func toXWindow(w bsp.Window) xproto.Window { return xproto.Window(w) }

// Configure applies rect's geometry to w and tells the client its new size
// and position via a synthetic ConfigureNotify — a workaround for clients
// that otherwise recompute their own position incorrectly after a tiling
// resize.
func (c *Conn) Configure(w bsp.Window, rect bsp.Rect) error {
	xw := toXWindow(w)
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{
		uint32(rect.X),
		uint32(rect.Y),
		uint32(rect.W),
		uint32(rect.H),
	}
	if err := xproto.ConfigureWindowChecked(c.X, xw, mask, values).Check(); err != nil {
		return fmt.Errorf("x11: configure %d: %w", w, err)
	}

	ev := xproto.ConfigureNotifyEvent{
		Event:            xw,
		Window:           xw,
		X:                int16(rect.X),
		Y:                int16(rect.Y),
		Width:            uint16(rect.W),
		Height:           uint16(rect.H),
		BorderWidth:      0,
		AboveSibling:     0,
		OverrideRedirect: false,
	}
	return xproto.SendEventChecked(c.X, false, xw, xproto.EventMaskStructureNotify, string(ev.Bytes())).Check()
}

// SetBorderWidth sets the window's border width in pixels.
func (c *Conn) SetBorderWidth(w bsp.Window, width uint32) error {
	xw := toXWindow(w)
	mask := uint16(xproto.ConfigWindowBorderWidth)
	if err := xproto.ConfigureWindowChecked(c.X, xw, mask, []uint32{width}).Check(); err != nil {
		return fmt.Errorf("x11: set border width %d: %w", w, err)
	}
	return nil
}

// SetBorderPixel paints the window's border with pixel.
func (c *Conn) SetBorderPixel(w bsp.Window, pixel uint32) error {
	xw := toXWindow(w)
	if err := xproto.ChangeWindowAttributesChecked(c.X, xw, xproto.CwBorderPixel, []uint32{pixel}).Check(); err != nil {
		return fmt.Errorf("x11: set border pixel %d: %w", w, err)
	}
	return nil
}

// Map ensures w is mapped (visible).
func (c *Conn) Map(w bsp.Window) error {
	if err := xproto.MapWindowChecked(c.X, toXWindow(w)).Check(); err != nil {
		return fmt.Errorf("x11: map %d: %w", w, err)
	}
	return nil
}

// Unmap ensures w is unmapped (hidden).
func (c *Conn) Unmap(w bsp.Window) error {
	if err := xproto.UnmapWindowChecked(c.X, toXWindow(w)).Check(); err != nil {
		return fmt.Errorf("x11: unmap %d: %w", w, err)
	}
	return nil
}

// Raise restacks w above its siblings.
func (c *Conn) Raise(w bsp.Window) error {
	mask := uint16(xproto.ConfigWindowStackMode)
	if err := xproto.ConfigureWindowChecked(c.X, toXWindow(w), mask, []uint32{uint32(xproto.StackModeAbove)}).Check(); err != nil {
		return fmt.Errorf("x11: raise %d: %w", w, err)
	}
	return nil
}

// Destroy destroys w at the protocol level, used by delete_workspace to
// tear down every window in the workspace being removed.
func (c *Conn) Destroy(w bsp.Window) error {
	if err := xproto.DestroyWindowChecked(c.X, toXWindow(w)).Check(); err != nil {
		return fmt.Errorf("x11: destroy %d: %w", w, err)
	}
	return nil
}

// KillClient forcibly terminates a client that does not support graceful
// deletion via WM_DELETE_WINDOW.
func (c *Conn) KillClient(w bsp.Window) error {
	if err := xproto.KillClientChecked(c.X, uint32(w)).Check(); err != nil {
		return fmt.Errorf("x11: kill client %d: %w", w, err)
	}
	return nil
}

// ProtectFromOrphan adds w to the server's save-set, so that if this
// process exits unexpectedly the window stays mapped rather than
// disappearing with it.
func (c *Conn) ProtectFromOrphan(w bsp.Window) error {
	xproto.ChangeSaveSet(c.X, xfixes.SaveSetModeInsert, toXWindow(w))
	return nil
}

// SelectTitleEvents asks the server to notify this connection of property
// changes on w, so a later title update (_NET_WM_NAME or WM_NAME) arrives
// as a PropertyNotifyEvent. Called once when a window is first managed.
func (c *Conn) SelectTitleEvents(w bsp.Window) error {
	mask := []uint32{uint32(xproto.EventMaskPropertyChange)}
	if err := xproto.ChangeWindowAttributesChecked(c.X, toXWindow(w), xproto.CwEventMask, mask).Check(); err != nil {
		return fmt.Errorf("x11: select property events %d: %w", w, err)
	}
	return nil
}

// GetWindowTitle reads _NET_WM_NAME, falling back to the core WM_NAME
// property if the client sets only the older one; it has no effect on
// layout, existing purely for informational logging and diagnostics.
func (c *Conn) GetWindowTitle(w bsp.Window) (string, error) {
	title, err := c.getTextProperty(w, "_NET_WM_NAME")
	if err != nil {
		return "", err
	}
	if title != "" {
		return title, nil
	}
	return c.getTextProperty(w, "WM_NAME")
}

func (c *Conn) getTextProperty(w bsp.Window, propertyName string) (string, error) {
	atom, err := c.Atom(propertyName)
	if err != nil {
		return "", err
	}
	reply, err := xproto.GetProperty(c.X, false, toXWindow(w), atom, xproto.GetPropertyTypeAny, 0, 256).Reply()
	if err != nil {
		return "", fmt.Errorf("x11: get window title %d: %w", w, err)
	}
	if reply == nil || len(reply.Value) == 0 {
		return "", nil
	}
	return string(reply.Value), nil
}
