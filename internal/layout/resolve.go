// Package layout computes window geometry from workspace state. Resolve is
// a pure function: no display-server I/O, no mutation of its inputs.
package layout

import (
	"github.com/tmclane/bspwm/internal/bsp"
	"github.com/tmclane/bspwm/internal/workspace"
)

// Params carries the layout knobs loaded from configuration.
type Params struct {
	OuterGap    int // inset from the screen edge
	InnerGap    int // gap between sibling windows
	BorderWidth int // window border width, drawn inside the allocated rect
}

// Placement is one window's resolved geometry.
type Placement struct {
	Window    bsp.Window
	Rect      bsp.Rect
	IsFocused bool
}

// Resolve computes the full set of (window, rect) placements for ws within
// screenRect under params. Given the same inputs it always returns
// bit-identical output.
func Resolve(ws *workspace.Workspace, screenRect bsp.Rect, params Params) []Placement {
	tree := ws.Tree()
	if tree.Empty() {
		return nil
	}

	if fs := ws.Fullscreen(); fs != nil {
		return []Placement{{
			Window:    *fs,
			Rect:      screenRect,
			IsFocused: isFocused(ws, *fs),
		}}
	}

	inner := insetRect(screenRect, params.OuterGap)

	if z := ws.Zoomed(); z != nil {
		root, ok := tree.ZoomParent(*z)
		if !ok {
			return nil
		}
		var out []Placement
		resolveNode(root, inner, ws, params, &out)
		return out
	}

	var out []Placement
	resolveNode(tree.Root(), inner, ws, params, &out)
	return out
}

func isFocused(ws *workspace.Workspace, w bsp.Window) bool {
	f := ws.Focused()
	return f != nil && *f == w
}

func insetRect(r bsp.Rect, inset int) bsp.Rect {
	out := bsp.Rect{
		X: r.X + inset,
		Y: r.Y + inset,
		W: r.W - 2*inset,
		H: r.H - 2*inset,
	}
	return floorRect(out)
}

func floorRect(r bsp.Rect) bsp.Rect {
	if r.W < 1 {
		r.W = 1
	}
	if r.H < 1 {
		r.H = 1
	}
	return r
}

func resolveNode(n *bsp.Node, rect bsp.Rect, ws *workspace.Workspace, params Params, out *[]Placement) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		w := n.Window()
		bordered := insetRect(rect, params.BorderWidth)
		*out = append(*out, Placement{
			Window:    w,
			Rect:      bordered,
			IsFocused: isFocused(ws, w),
		})
		return
	}

	leftRect, rightRect := splitWithGap(rect, n.Direction(), n.Ratio(), params.InnerGap)
	resolveNode(n.Left(), leftRect, ws, params, out)
	resolveNode(n.Right(), rightRect, ws, params, out)
}

// splitWithGap divides rect along dir at ratio, leaving gap between the two
// halves (the left half loses gap/2 on the shared edge, the right half the
// rest of gap). The split point uses floor(available*ratio).
func splitWithGap(rect bsp.Rect, dir bsp.Direction, ratio float64, gap int) (left, right bsp.Rect) {
	half := gap / 2
	if dir == bsp.Horizontal {
		lw := int(float64(rect.W) * ratio)
		left = floorRect(bsp.Rect{X: rect.X, Y: rect.Y, W: lw - half, H: rect.H})
		right = floorRect(bsp.Rect{X: rect.X + lw + (gap - half), Y: rect.Y, W: rect.W - lw - (gap - half), H: rect.H})
		return left, right
	}
	lh := int(float64(rect.H) * ratio)
	left = floorRect(bsp.Rect{X: rect.X, Y: rect.Y, W: rect.W, H: lh - half})
	right = floorRect(bsp.Rect{X: rect.X, Y: rect.Y + lh + (gap - half), W: rect.W, H: rect.H - lh - (gap - half)})
	return left, right
}
