package render

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmclane/bspwm/internal/bsp"
	"github.com/tmclane/bspwm/internal/layout"
	"github.com/tmclane/bspwm/internal/workspace"
)

var screen = bsp.Rect{X: 0, Y: 0, W: 1200, H: 800}

type fakeTarget struct {
	configured   map[bsp.Window]bsp.Rect
	borders      map[bsp.Window]uint32
	borderWidths map[bsp.Window]uint32
	mapped       map[bsp.Window]bool
	raised       []bsp.Window
	failMap      map[bsp.Window]bool
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{
		configured:   map[bsp.Window]bsp.Rect{},
		borders:      map[bsp.Window]uint32{},
		borderWidths: map[bsp.Window]uint32{},
		mapped:       map[bsp.Window]bool{},
		failMap:      map[bsp.Window]bool{},
	}
}

func (f *fakeTarget) Configure(w bsp.Window, rect bsp.Rect) error {
	f.configured[w] = rect
	return nil
}
func (f *fakeTarget) SetBorderWidth(w bsp.Window, width uint32) error {
	f.borderWidths[w] = width
	return nil
}
func (f *fakeTarget) SetBorderPixel(w bsp.Window, pixel uint32) error {
	f.borders[w] = pixel
	return nil
}
func (f *fakeTarget) Map(w bsp.Window) error {
	if f.failMap[w] {
		return assertErr{}
	}
	f.mapped[w] = true
	return nil
}
func (f *fakeTarget) Unmap(w bsp.Window) error {
	f.mapped[w] = false
	return nil
}
func (f *fakeTarget) Raise(w bsp.Window) error {
	f.raised = append(f.raised, w)
	return nil
}

type assertErr struct{}

func (assertErr) Error() string { return "simulated failure" }

func TestWorkspaceRendersFocusedWithFocusedColor(t *testing.T) {
	ws := workspace.New()
	require.NoError(t, ws.AddWindow(1, 0.5, screen))
	require.NoError(t, ws.AddWindow(2, 0.5, screen))

	target := newFakeTarget()
	reg := workspace.NewRegistry()
	r := New(target, Colors{Focused: 0xff0000, Unfocused: 0x00ff00}, zerolog.Nop())

	r.Workspace(reg, ws, screen, layout.Params{BorderWidth: 2})

	assert.Equal(t, uint32(0xff0000), target.borders[2])
	assert.Equal(t, uint32(0x00ff00), target.borders[1])
	assert.Equal(t, uint32(2), target.borderWidths[1])
	assert.Equal(t, uint32(2), target.borderWidths[2])
	assert.True(t, target.mapped[1])
	assert.True(t, target.mapped[2])
}

func TestWorkspaceUnmapsAndTracksPendingForHiddenWindows(t *testing.T) {
	ws := workspace.New()
	require.NoError(t, ws.AddWindow(1, 0.5, screen))
	require.NoError(t, ws.AddWindow(2, 0.5, screen))
	ws.ToggleFullscreen(1)

	target := newFakeTarget()
	target.mapped[2] = true
	reg := workspace.NewRegistry()
	r := New(target, Colors{}, zerolog.Nop())

	r.Workspace(reg, ws, screen, layout.Params{})

	assert.False(t, target.mapped[2])
	assert.True(t, reg.IsPending(2))
	_, stillConfigured := target.configured[2]
	assert.False(t, stillConfigured)
}

func TestWorkspaceStackingRaisesFullscreenLast(t *testing.T) {
	ws := workspace.New()
	require.NoError(t, ws.AddWindow(1, 0.5, screen))
	ws.ToggleFullscreen(1)

	target := newFakeTarget()
	reg := workspace.NewRegistry()
	r := New(target, Colors{}, zerolog.Nop())
	r.Workspace(reg, ws, screen, layout.Params{})

	require.NotEmpty(t, target.raised)
	assert.Equal(t, bsp.Window(1), target.raised[len(target.raised)-1])
}

func TestOneFailedWindowDoesNotAbortTheRest(t *testing.T) {
	ws := workspace.New()
	require.NoError(t, ws.AddWindow(1, 0.5, screen))
	require.NoError(t, ws.AddWindow(2, 0.5, screen))

	target := newFakeTarget()
	target.failMap[1] = true
	reg := workspace.NewRegistry()
	r := New(target, Colors{}, zerolog.Nop())

	r.Workspace(reg, ws, screen, layout.Params{})

	assert.False(t, target.mapped[1])
	assert.True(t, target.mapped[2])
	// both still got configured even though one failed to map
	assert.Contains(t, target.configured, bsp.Window(1))
	assert.Contains(t, target.configured, bsp.Window(2))
}
