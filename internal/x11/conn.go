// Package x11 is the display-server collaborator: it owns the wire
// connection to the X server and translates core-level requests
// (configure, map, focus, ...) into xgb/xproto calls. None of the layout
// or workspace logic lives here; this package is the "external
// collaborator" the rest of the core talks to only through narrow
// interfaces (see render.Target).
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Conn wraps a single X11 connection. The event loop in
// internal/reconcile is its only caller once the manager is running; no
// other component may issue requests on it (concurrency model, §5).
type Conn struct {
	X      *xgb.Conn
	Screen *xproto.ScreenInfo
	root   xproto.Window

	atoms map[string]xproto.Atom
}

// Connect opens a new connection to display (empty string selects
// $DISPLAY) and loads the default screen's setup info.
func Connect(display string) (*Conn, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("x11: connect: %w", err)
	}
	setup := xproto.Setup(conn)
	if setup == nil || len(setup.Roots) == 0 {
		conn.Close()
		return nil, fmt.Errorf("x11: could not parse connection setup")
	}
	screen := setup.Roots[0]
	return &Conn{
		X:      conn,
		Screen: &screen,
		root:   screen.Root,
		atoms:  make(map[string]xproto.Atom),
	}, nil
}

// Close releases the connection's resources.
func (c *Conn) Close() {
	if c.X != nil {
		c.X.Close()
	}
}

// Root returns the root window.
func (c *Conn) Root() xproto.Window { return c.root }

// ScreenRect returns the full screen area in screen-pixel coordinates.
func (c *Conn) ScreenRect() (x, y int, w, h uint32) {
	return 0, 0, uint32(c.Screen.WidthInPixels), uint32(c.Screen.HeightInPixels)
}

// BecomeWM requests substructure-redirect and substructure-notify on the
// root window. It fails with an xproto.AccessError if another window
// manager already holds them.
func (c *Conn) BecomeWM() error {
	evtMask := []uint32{
		xproto.EventMaskKeyPress |
			xproto.EventMaskKeyRelease |
			xproto.EventMaskButtonPress |
			xproto.EventMaskButtonRelease |
			xproto.EventMaskPropertyChange |
			xproto.EventMaskFocusChange |
			xproto.EventMaskStructureNotify |
			xproto.EventMaskSubstructureRedirect |
			xproto.EventMaskSubstructureNotify,
	}
	return xproto.ChangeWindowAttributesChecked(c.X, c.root, xproto.CwEventMask, evtMask).Check()
}

// GrabKey requests sole ownership of one modifier/keycode combination on
// the root window.
func (c *Conn) GrabKey(mods uint16, code xproto.Keycode) error {
	return xproto.GrabKeyChecked(
		c.X, false, c.root, mods, code,
		xproto.GrabModeAsync, xproto.GrabModeAsync,
	).Check()
}

// WaitForEvent blocks for the next event on the connection. It is the
// cooperative event loop's sole suspension point (§5). A non-nil xgb.Error
// is a protocol-level error on some prior request, not a connection
// failure; a nil event with a nil error signals the connection closed.
func (c *Conn) WaitForEvent() (xgb.Event, xgb.Error) {
	return c.X.WaitForEvent()
}

// QueryTree returns the current top-level children of the root window,
// used to adopt pre-existing windows on startup.
func (c *Conn) QueryTree() ([]xproto.Window, error) {
	reply, err := xproto.QueryTree(c.X, c.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("x11: query tree: %w", err)
	}
	if reply == nil {
		return nil, fmt.Errorf("x11: query tree returned no reply")
	}
	return reply.Children, nil
}

// GetWindowAttributes fetches a window's current attributes, used to skip
// override-redirect windows on map-request.
func (c *Conn) GetWindowAttributes(w xproto.Window) (*xproto.GetWindowAttributesReply, error) {
	reply, err := xproto.GetWindowAttributes(c.X, w).Reply()
	if err != nil {
		return nil, fmt.Errorf("x11: get window attributes: %w", err)
	}
	return reply, nil
}
