// Package workspace holds the per-desktop state machine: one BSP tree plus
// the transient focus, fullscreen, and zoom state layered on top of it, and
// the registry that multiplexes many workspaces over a single screen.
package workspace

import (
	"fmt"

	"github.com/tmclane/bspwm/internal/bsp"
)

// Workspace is a virtual desktop: one BSP tree plus transient mode state.
type Workspace struct {
	tree       bsp.Tree
	focused    *bsp.Window
	fullscreen *bsp.Window
	zoomed     *bsp.Window
	titles     map[bsp.Window]string
}

// New returns an empty workspace.
func New() *Workspace {
	return &Workspace{titles: make(map[bsp.Window]string)}
}

// Tree exposes read access to the underlying BSP tree.
func (w *Workspace) Tree() *bsp.Tree { return &w.tree }

// Focused returns the focused window, or nil if none (always nil when the
// tree is empty).
func (w *Workspace) Focused() *bsp.Window { return w.focused }

// Fullscreen returns the fullscreen window, or nil if the workspace is not
// in fullscreen mode.
func (w *Workspace) Fullscreen() *bsp.Window { return w.fullscreen }

// Zoomed returns the zoomed window, or nil if the workspace is not zoomed.
func (w *Workspace) Zoomed() *bsp.Window { return w.zoomed }

// Title returns the last-observed _NET_WM_NAME/WM_NAME title for win, or
// "" if none has been recorded. Purely informational: it has no effect on
// layout or any tree invariant.
func (w *Workspace) Title(win bsp.Window) string { return w.titles[win] }

// SetTitle records win's title, as reported by a PropertyNotify on
// _NET_WM_NAME or WM_NAME.
func (w *Workspace) SetTitle(win bsp.Window, title string) { w.titles[win] = title }

// AddWindow inserts win into the tree anchored at the current focus,
// focuses it, and clears zoom. Fullscreen is left unchanged: a newly mapped
// window does not kick the workspace out of fullscreen.
func (w *Workspace) AddWindow(win bsp.Window, ratio float64, screenRect bsp.Rect) error {
	if err := w.tree.Insert(win, w.focused, ratio, screenRect); err != nil {
		return fmt.Errorf("workspace: add window: %w", err)
	}
	focused := win
	w.focused = &focused
	w.zoomed = nil
	return nil
}

// RemoveWindow removes win from the tree. If win was focused, focus moves
// to its in-order successor computed before removal (or is cleared if the
// tree becomes empty). fullscreen/zoomed are cleared if they named win.
func (w *Workspace) RemoveWindow(win bsp.Window) {
	if !w.tree.Contains(win) {
		return
	}

	var nextFocus *bsp.Window
	if w.focused != nil && *w.focused == win {
		if succ, ok := w.tree.Neighbor(win, bsp.Next); ok {
			s := succ
			nextFocus = &s
		}
	} else {
		nextFocus = w.focused
	}

	w.tree.Remove(win)

	if w.tree.Empty() {
		nextFocus = nil
	}
	w.focused = nextFocus

	if w.fullscreen != nil && *w.fullscreen == win {
		w.fullscreen = nil
	}
	if w.zoomed != nil && *w.zoomed == win {
		w.zoomed = nil
	}
	delete(w.titles, win)
}

// ToggleFullscreen puts win into fullscreen mode, or clears fullscreen if
// win is already the fullscreen window. Entering fullscreen clears zoom.
func (w *Workspace) ToggleFullscreen(win bsp.Window) {
	if w.fullscreen != nil && *w.fullscreen == win {
		w.fullscreen = nil
		return
	}
	fs := win
	w.fullscreen = &fs
	w.zoomed = nil
}

// ToggleZoom puts win into zoom-to-parent mode, or clears zoom if win is
// already zoomed. Entering zoom clears fullscreen.
func (w *Workspace) ToggleZoom(win bsp.Window) {
	if w.zoomed != nil && *w.zoomed == win {
		w.zoomed = nil
		return
	}
	z := win
	w.zoomed = &z
	w.fullscreen = nil
}

// ForceNormal clears both fullscreen and zoom, returning the workspace to
// normal tiled geometry. Used when switching, creating, or deleting a
// workspace; RemoveWindow clears either mode itself when it removes the
// subject window.
func (w *Workspace) ForceNormal() {
	w.fullscreen = nil
	w.zoomed = nil
}

// SetFocus sets the focused window. win must already be a leaf of the tree.
func (w *Workspace) SetFocus(win bsp.Window) error {
	if !w.tree.Contains(win) {
		return fmt.Errorf("workspace: cannot focus window %d: not in tree", win)
	}
	f := win
	w.focused = &f
	return nil
}

// RecomputeFocus recovers from an invariant violation (focused window no
// longer present in the tree) by refocusing on the first leaf in traversal
// order, or clearing focus if the tree is empty.
func (w *Workspace) RecomputeFocus() {
	leaves := w.tree.Leaves()
	if len(leaves) == 0 {
		w.focused = nil
		return
	}
	if w.focused != nil && w.tree.Contains(*w.focused) {
		return
	}
	f := leaves[0]
	w.focused = &f
}
