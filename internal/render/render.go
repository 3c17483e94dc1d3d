// Package render converges the display server onto a computed geometry
// set. It keeps no copy of workspace state between calls: each render
// resolves the workspace afresh and unmaps the tree's leaves that the
// resolved geometry leaves out.
package render

import (
	"github.com/rs/zerolog"

	"github.com/tmclane/bspwm/internal/bsp"
	"github.com/tmclane/bspwm/internal/layout"
	"github.com/tmclane/bspwm/internal/workspace"
)

// Target is the display-server contract the renderer needs. internal/x11's
// Conn satisfies it against a real X11 connection; tests satisfy it with a
// recording fake.
type Target interface {
	Configure(w bsp.Window, rect bsp.Rect) error
	SetBorderWidth(w bsp.Window, width uint32) error
	SetBorderPixel(w bsp.Window, pixel uint32) error
	Map(w bsp.Window) error
	Unmap(w bsp.Window) error
	Raise(w bsp.Window) error
}

// Colors names the two border pixel values the renderer paints with.
type Colors struct {
	Focused   uint32
	Unfocused uint32
}

// Renderer applies computed geometry to a Target, logging and skipping any
// window that the display server rejects rather than aborting the batch.
type Renderer struct {
	target Target
	colors Colors
	log    zerolog.Logger
}

// New returns a Renderer writing to target.
func New(target Target, colors Colors, log zerolog.Logger) *Renderer {
	return &Renderer{target: target, colors: colors, log: log.With().Str("component", "render").Logger()}
}

// Workspace renders ws within screenRect under params, against reg for
// pending-unmap bookkeeping of windows excluded by fullscreen/zoom.
func (r *Renderer) Workspace(reg *workspace.Registry, ws *workspace.Workspace, screenRect bsp.Rect, params layout.Params) {
	placements := layout.Resolve(ws, screenRect, params)

	visible := make(map[bsp.Window]struct{}, len(placements))
	for _, p := range placements {
		visible[p.Window] = struct{}{}
	}

	var hidden []bsp.Window
	for _, w := range ws.Tree().Leaves() {
		if _, ok := visible[w]; !ok {
			hidden = append(hidden, w)
		}
	}
	for _, w := range hidden {
		if err := r.target.Unmap(w); err != nil {
			r.log.Error().Err(err).Uint32("window", uint32(w)).Msg("failed to unmap hidden window")
			continue
		}
	}
	if len(hidden) > 0 {
		reg.AddPending(hidden)
	}

	for _, p := range placements {
		r.renderOne(p, params.BorderWidth)
	}

	r.applyStacking(ws, placements)
}

func (r *Renderer) renderOne(p layout.Placement, borderWidth int) {
	if err := r.target.Configure(p.Window, p.Rect); err != nil {
		r.log.Error().Err(err).Uint32("window", uint32(p.Window)).Msg("failed to configure window")
		return
	}
	if err := r.target.SetBorderWidth(p.Window, uint32(borderWidth)); err != nil {
		r.log.Error().Err(err).Uint32("window", uint32(p.Window)).Msg("failed to set border width")
	}
	border := r.colors.Unfocused
	if p.IsFocused {
		border = r.colors.Focused
	}
	if err := r.target.SetBorderPixel(p.Window, border); err != nil {
		r.log.Error().Err(err).Uint32("window", uint32(p.Window)).Msg("failed to set border color")
	}
	if err := r.target.Map(p.Window); err != nil {
		r.log.Error().Err(err).Uint32("window", uint32(p.Window)).Msg("failed to map window")
	}
}

// applyStacking raises the focused window, then raises the fullscreen or
// zoomed window (if any) last, so it always sits above the focused one.
func (r *Renderer) applyStacking(ws *workspace.Workspace, placements []layout.Placement) {
	if focused := ws.Focused(); focused != nil {
		if err := r.target.Raise(*focused); err != nil {
			r.log.Error().Err(err).Uint32("window", uint32(*focused)).Msg("failed to raise focused window")
		}
	}
	top := ws.Fullscreen()
	if top == nil {
		top = ws.Zoomed()
	}
	if top == nil {
		return
	}
	for _, p := range placements {
		if p.Window == *top {
			if err := r.target.Raise(*top); err != nil {
				r.log.Error().Err(err).Uint32("window", uint32(*top)).Msg("failed to raise overriding window")
			}
			return
		}
	}
}
