// Package reconcile drives the cooperative event loop: it receives
// protocol events from the display server, mutates workspace state, and
// triggers re-rendering. It is the only caller of internal/x11.Conn once
// the manager is running.
package reconcile

import (
	"fmt"
	"os"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"

	"github.com/tmclane/bspwm/internal/bsp"
	"github.com/tmclane/bspwm/internal/keysym"
	"github.com/tmclane/bspwm/internal/layout"
	"github.com/tmclane/bspwm/internal/render"
	"github.com/tmclane/bspwm/internal/shortcut"
	"github.com/tmclane/bspwm/internal/workspace"
	"github.com/tmclane/bspwm/internal/x11"
)

// Options carries the configured values the reconciler needs but does not
// own the loading of: split ratio, layout gaps/border, and whether entering
// a window under the pointer should steal focus.
type Options struct {
	SplitRatio          float64
	Layout              layout.Params
	PointerFollowsFocus bool
}

// Reconciler is the event-driven core: one BSP-backed workspace registry,
// one renderer, one shortcut dispatcher, wired to a single display-server
// connection.
type Reconciler struct {
	conn       *x11.Conn
	registry   *workspace.Registry
	renderer   *render.Renderer
	dispatcher *shortcut.Dispatcher
	protocols  x11.Protocols
	keymap     keysym.Keymap
	opts       Options
	log        zerolog.Logger

	screenRect bsp.Rect
}

// New builds a Reconciler. The dispatcher's command tokens are registered
// by the caller (normally cmd/bspwmd) before Run is called, closing over
// this Reconciler's methods.
func New(conn *x11.Conn, registry *workspace.Registry, renderer *render.Renderer, dispatcher *shortcut.Dispatcher, protocols x11.Protocols, keymap keysym.Keymap, opts Options, log zerolog.Logger) *Reconciler {
	x, y, w, h := conn.ScreenRect()
	return &Reconciler{
		conn:       conn,
		registry:   registry,
		renderer:   renderer,
		dispatcher: dispatcher,
		protocols:  protocols,
		keymap:     keymap,
		opts:       opts,
		log:        log,
		screenRect: bsp.Rect{X: int(x), Y: int(y), W: int(w), H: int(h)},
	}
}

// AdoptExisting queries the root window's current children and adds every
// manageable one (non override-redirect) to the current workspace, for
// windows that were already mapped before the manager started.
func (r *Reconciler) AdoptExisting() error {
	children, err := r.conn.QueryTree()
	if err != nil {
		return err
	}
	for _, child := range children {
		attr, err := r.conn.GetWindowAttributes(child)
		if err != nil || attr == nil || attr.OverrideRedirect || attr.MapState != xproto.MapStateViewable {
			continue
		}
		w := bsp.Window(child)
		if err := r.registry.Current().AddWindow(w, r.opts.SplitRatio, r.screenRect); err != nil {
			r.log.Warn().Err(err).Uint32("window", uint32(child)).Msg("reconcile: adopt existing window")
			continue
		}
		r.trackTitle(w, r.registry.Current())
	}
	r.renderCurrent()
	return nil
}

// Run is the single suspension point of the manager: it blocks for the next
// protocol event, processes it to completion (including any render), and
// loops. It returns only on a connection-level failure.
func (r *Reconciler) Run() error {
	for {
		xev, xerr := r.conn.WaitForEvent()
		if xev == nil && xerr == nil {
			return fmt.Errorf("reconcile: display connection closed")
		}
		if xerr != nil {
			r.log.Error().Str("error", xerr.Error()).Msg("reconcile: protocol error")
			continue
		}
		r.handle(xev)
	}
}

func (r *Reconciler) handle(xev xgb.Event) {
	switch e := xev.(type) {
	case xproto.MapRequestEvent:
		r.onMapRequest(e)
	case xproto.UnmapNotifyEvent:
		r.onUnmapNotify(e)
	case xproto.DestroyNotifyEvent:
		r.onDestroyNotify(e)
	case xproto.ConfigureRequestEvent:
		r.onConfigureRequest(e)
	case xproto.EnterNotifyEvent:
		r.onEnterNotify(e)
	case xproto.KeyPressEvent:
		r.onKeyPress(e)
	case xproto.PropertyNotifyEvent:
		r.onPropertyNotify(e)
	default:
		r.log.Debug().Msg("reconcile: unhandled event")
	}
}

func (r *Reconciler) onMapRequest(e xproto.MapRequestEvent) {
	if attr, err := r.conn.GetWindowAttributes(e.Window); err == nil && attr != nil && attr.OverrideRedirect {
		return
	}
	w := bsp.Window(e.Window)
	if err := r.registry.Current().AddWindow(w, r.opts.SplitRatio, r.screenRect); err != nil {
		r.log.Error().Err(err).Uint32("window", uint32(e.Window)).Msg("reconcile: add window")
		return
	}
	r.trackTitle(w, r.registry.Current())
	if err := r.conn.Map(w); err != nil {
		r.log.Error().Err(err).Msg("reconcile: map")
	}
	r.renderCurrent()
}

// trackTitle selects property-change events on w and records its initial
// title on ws, so later edits in §9's title supplement have an up-to-date
// starting point.
func (r *Reconciler) trackTitle(w bsp.Window, ws *workspace.Workspace) {
	if err := r.conn.SelectTitleEvents(w); err != nil {
		r.log.Warn().Err(err).Uint32("window", uint32(w)).Msg("reconcile: select title events")
		return
	}
	if title, err := r.conn.GetWindowTitle(w); err == nil && title != "" {
		ws.SetTitle(w, title)
	}
}

func (r *Reconciler) onPropertyNotify(e xproto.PropertyNotifyEvent) {
	w := bsp.Window(e.Window)
	ws, _, ok := r.registry.FindWorkspace(w)
	if !ok {
		return
	}
	netWMName, err := r.conn.Atom("_NET_WM_NAME")
	if err != nil {
		return
	}
	wmName, err := r.conn.Atom("WM_NAME")
	if err != nil {
		return
	}
	if e.Atom != netWMName && e.Atom != wmName {
		return
	}
	title, err := r.conn.GetWindowTitle(w)
	if err != nil {
		r.log.Warn().Err(err).Uint32("window", uint32(w)).Msg("reconcile: get window title")
		return
	}
	ws.SetTitle(w, title)
}

func (r *Reconciler) onUnmapNotify(e xproto.UnmapNotifyEvent) {
	w := bsp.Window(e.Window)
	if r.registry.IsPending(w) {
		r.registry.ClearPending(w)
		return
	}
	r.removeFromOwningWorkspace(w)
}

func (r *Reconciler) onDestroyNotify(e xproto.DestroyNotifyEvent) {
	r.removeFromOwningWorkspace(bsp.Window(e.Window))
}

func (r *Reconciler) removeFromOwningWorkspace(w bsp.Window) {
	ws, idx, ok := r.registry.FindWorkspace(w)
	if !ok {
		return
	}
	ws.RemoveWindow(w)
	if idx == r.registry.CurrentIndex() {
		r.renderCurrent()
	}
}

func (r *Reconciler) onConfigureRequest(e xproto.ConfigureRequestEvent) {
	w := bsp.Window(e.Window)
	if !r.registry.Current().Tree().Contains(w) {
		// not yet tracked: pass the request through unmodified
		ev := xproto.ConfigureNotifyEvent{
			Event: e.Window, Window: e.Window,
			X: e.X, Y: e.Y, Width: e.Width, Height: e.Height,
			BorderWidth: e.BorderWidth, OverrideRedirect: false,
		}
		xproto.SendEventChecked(r.conn.X, false, e.Window, xproto.EventMaskStructureNotify, string(ev.Bytes()))
		return
	}
	// tiling is authoritative: re-render to reassert the resolver's geometry
	r.renderCurrent()
}

func (r *Reconciler) onEnterNotify(e xproto.EnterNotifyEvent) {
	if !r.opts.PointerFollowsFocus {
		return
	}
	w := bsp.Window(e.Event)
	ws := r.registry.Current()
	if !ws.Tree().Contains(w) {
		return
	}
	if err := ws.SetFocus(w); err != nil {
		r.log.Error().Err(err).Msg("reconcile: set focus on enter")
		return
	}
	if err := r.conn.SetFocus(w, r.protocols, e.Time); err != nil {
		r.log.Warn().Err(err).Msg("reconcile: set input focus")
	}
	r.renderCurrent()
}

func (r *Reconciler) onKeyPress(e xproto.KeyPressEvent) {
	err, matched := r.dispatcher.Dispatch(e.State, e.Detail)
	if !matched {
		r.log.Debug().
			Uint16("state", e.State).
			Uint32("keycode", uint32(e.Detail)).
			Interface("keysyms", r.keymap[e.Detail]).
			Msg("reconcile: no binding for key press")
		return
	}
	if err != nil {
		r.log.Error().Err(err).Msg("reconcile: command failed")
	}
}

func (r *Reconciler) renderCurrent() {
	r.renderer.Workspace(r.registry, r.registry.Current(), r.screenRect, r.opts.Layout)
}

// --- command tokens (§4.6), registered with the shortcut.Dispatcher ---

// FocusNext moves focus to the next window in the current workspace's
// focus-cycle order.
func (r *Reconciler) FocusNext() error { return r.focusNeighbor(bsp.Next) }

// FocusPrev moves focus to the previous window in the focus-cycle order.
func (r *Reconciler) FocusPrev() error { return r.focusNeighbor(bsp.Prev) }

func (r *Reconciler) focusNeighbor(dir bsp.NeighborDir) error {
	ws := r.registry.Current()
	focused := ws.Focused()
	if focused == nil {
		return nil
	}
	next, ok := ws.Tree().Neighbor(*focused, dir)
	if !ok {
		return nil
	}
	if err := ws.SetFocus(next); err != nil {
		return err
	}
	r.renderCurrent()
	return nil
}

// SwapNext exchanges the focused window with its focus-cycle successor.
func (r *Reconciler) SwapNext() error { return r.swapNeighbor(bsp.Next) }

// SwapPrev exchanges the focused window with its focus-cycle predecessor.
func (r *Reconciler) SwapPrev() error { return r.swapNeighbor(bsp.Prev) }

func (r *Reconciler) swapNeighbor(dir bsp.NeighborDir) error {
	ws := r.registry.Current()
	focused := ws.Focused()
	if focused == nil {
		return nil
	}
	other, ok := ws.Tree().Neighbor(*focused, dir)
	if !ok {
		return nil
	}
	if err := ws.Tree().Swap(*focused, other); err != nil {
		return err
	}
	r.renderCurrent()
	return nil
}

// Rotate flips the split direction of the focused window's nearest
// internal ancestor.
func (r *Reconciler) Rotate() error {
	ws := r.registry.Current()
	focused := ws.Focused()
	if focused == nil {
		return nil
	}
	if err := ws.Tree().Rotate(*focused); err != nil {
		return err
	}
	r.renderCurrent()
	return nil
}

// DestroyWindow asks the focused window to close, via WM_DELETE_WINDOW if
// supported, else KillClient; removal from the tree happens when the
// resulting destroy-notify/unmap-notify arrives.
func (r *Reconciler) DestroyWindow() error {
	ws := r.registry.Current()
	focused := ws.Focused()
	if focused == nil {
		return nil
	}
	return r.conn.RequestClose(*focused, r.protocols, xproto.TimeCurrentTime)
}

// ToggleFullscreen toggles fullscreen mode on the focused window.
func (r *Reconciler) ToggleFullscreen() error {
	ws := r.registry.Current()
	focused := ws.Focused()
	if focused == nil {
		return nil
	}
	ws.ToggleFullscreen(*focused)
	r.renderCurrent()
	return nil
}

// ToggleZoom toggles zoom-to-parent mode on the focused window.
func (r *Reconciler) ToggleZoom() error {
	ws := r.registry.Current()
	focused := ws.Focused()
	if focused == nil {
		return nil
	}
	ws.ToggleZoom(*focused)
	r.renderCurrent()
	return nil
}

// CreateWorkspace appends and switches to a new empty workspace, forcing
// the outgoing one back to normal tiled geometry.
func (r *Reconciler) CreateWorkspace() error {
	r.registry.Current().ForceNormal()
	r.registry.Create()
	r.renderCurrent()
	return nil
}

// DeleteWorkspace drops the current workspace and destroys every one of its
// windows at the protocol level, unless it is the last remaining workspace.
// The workspace that becomes current is forced back to normal tiled
// geometry.
func (r *Reconciler) DeleteWorkspace() error {
	windows, err := r.registry.Delete()
	if err != nil {
		r.log.Info().Err(err).Msg("reconcile: delete workspace")
		return nil
	}
	r.registry.Current().ForceNormal()
	for _, w := range windows {
		if err := r.conn.Destroy(w); err != nil {
			r.log.Error().Err(err).Uint32("window", uint32(w)).Msg("reconcile: destroy window on workspace delete")
		}
	}
	r.renderCurrent()
	return nil
}

// SwitchWorkspaceNext cycles to the next workspace, hiding the current
// one's windows and showing the new one's.
func (r *Reconciler) SwitchWorkspaceNext() error { return r.switchWorkspace(1) }

// SwitchWorkspacePrev cycles to the previous workspace.
func (r *Reconciler) SwitchWorkspacePrev() error { return r.switchWorkspace(-1) }

func (r *Reconciler) switchWorkspace(delta int) error {
	r.registry.Current().ForceNormal()
	result := r.registry.Cycle(delta)
	for _, w := range result.Unmap {
		if err := r.conn.Unmap(w); err != nil {
			r.log.Error().Err(err).Msg("reconcile: unmap on workspace switch")
		}
	}
	for _, w := range result.Map {
		if err := r.conn.Map(w); err != nil {
			r.log.Error().Err(err).Msg("reconcile: map on workspace switch")
		}
	}
	r.registry.ClearPendingAll(result.Map)
	if focused := result.Workspace.Focused(); focused != nil {
		if err := r.conn.SetFocus(*focused, r.protocols, xproto.TimeCurrentTime); err != nil {
			r.log.Warn().Err(err).Msg("reconcile: restore focus on workspace switch")
		}
	}
	r.renderCurrent()
	return nil
}

// Shutdown logs a single informational diagnostic and terminates the
// process immediately with exit status 0; the display connection releases
// its resources on process exit and no workspace state is persisted.
func (r *Reconciler) Shutdown() error {
	r.log.Info().Msg("reconcile: shutdown requested")
	r.conn.Close()
	os.Exit(0)
	return nil
}
