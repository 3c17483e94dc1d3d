package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmclane/bspwm/internal/bsp"
)

var screen = bsp.Rect{X: 0, Y: 0, W: 1200, H: 800}

func TestAddWindowFocusesAndClearsZoom(t *testing.T) {
	ws := New()
	require.NoError(t, ws.AddWindow(0x100, 0.5, screen))
	require.NotNil(t, ws.Focused())
	assert.Equal(t, bsp.Window(0x100), *ws.Focused())

	require.NoError(t, ws.AddWindow(0x101, 0.5, screen))
	ws.ToggleZoom(0x101)
	require.NotNil(t, ws.Zoomed())

	require.NoError(t, ws.AddWindow(0x102, 0.5, screen))
	assert.Nil(t, ws.Zoomed())
	assert.Equal(t, bsp.Window(0x102), *ws.Focused())
}

func TestAddWindowDoesNotClearFullscreen(t *testing.T) {
	ws := New()
	require.NoError(t, ws.AddWindow(1, 0.5, screen))
	ws.ToggleFullscreen(1)
	require.NoError(t, ws.AddWindow(2, 0.5, screen))
	require.NotNil(t, ws.Fullscreen())
	assert.Equal(t, bsp.Window(1), *ws.Fullscreen())
}

func TestRemoveWindowRefocusesOnSuccessor(t *testing.T) {
	ws := New()
	require.NoError(t, ws.AddWindow(1, 0.5, screen))
	require.NoError(t, ws.AddWindow(2, 0.5, screen))
	require.NoError(t, ws.AddWindow(3, 0.5, screen))
	require.NoError(t, ws.SetFocus(2))

	ws.RemoveWindow(2)
	require.NotNil(t, ws.Focused())
	assert.NotEqual(t, bsp.Window(2), *ws.Focused())
	assert.False(t, ws.Tree().Contains(2))
}

func TestRemoveLastWindowClearsFocus(t *testing.T) {
	ws := New()
	require.NoError(t, ws.AddWindow(1, 0.5, screen))
	ws.RemoveWindow(1)
	assert.Nil(t, ws.Focused())
	assert.True(t, ws.Tree().Empty())
}

func TestRemoveWindowClearsFullscreenAndZoom(t *testing.T) {
	ws := New()
	require.NoError(t, ws.AddWindow(1, 0.5, screen))
	require.NoError(t, ws.AddWindow(2, 0.5, screen))
	ws.ToggleFullscreen(2)
	ws.RemoveWindow(2)
	assert.Nil(t, ws.Fullscreen())

	require.NoError(t, ws.AddWindow(3, 0.5, screen))
	ws.ToggleZoom(3)
	ws.RemoveWindow(3)
	assert.Nil(t, ws.Zoomed())
}

func TestToggleFullscreenIsIdempotentPair(t *testing.T) {
	ws := New()
	require.NoError(t, ws.AddWindow(1, 0.5, screen))
	ws.ToggleFullscreen(1)
	require.NotNil(t, ws.Fullscreen())
	ws.ToggleFullscreen(1)
	assert.Nil(t, ws.Fullscreen())
}

func TestToggleFullscreenWhileZoomedEntersFullscreen(t *testing.T) {
	ws := New()
	require.NoError(t, ws.AddWindow(1, 0.5, screen))
	require.NoError(t, ws.AddWindow(2, 0.5, screen))
	ws.ToggleZoom(1)
	require.NotNil(t, ws.Zoomed())

	ws.ToggleFullscreen(1)
	assert.Nil(t, ws.Zoomed())
	require.NotNil(t, ws.Fullscreen())
	assert.Equal(t, bsp.Window(1), *ws.Fullscreen())
}

func TestFullscreenAndZoomMutuallyExclusive(t *testing.T) {
	ws := New()
	require.NoError(t, ws.AddWindow(1, 0.5, screen))
	require.NoError(t, ws.AddWindow(2, 0.5, screen))

	ws.ToggleFullscreen(1)
	ws.ToggleZoom(2)
	assert.Nil(t, ws.Fullscreen())
	require.NotNil(t, ws.Zoomed())
}

func TestSetFocusRequiresMembership(t *testing.T) {
	ws := New()
	require.NoError(t, ws.AddWindow(1, 0.5, screen))
	assert.Error(t, ws.SetFocus(404))
	assert.NoError(t, ws.SetFocus(1))
}

func TestForceNormalClearsBothModes(t *testing.T) {
	ws := New()
	require.NoError(t, ws.AddWindow(1, 0.5, screen))
	ws.ToggleFullscreen(1)
	ws.ForceNormal()
	assert.Nil(t, ws.Fullscreen())
	assert.Nil(t, ws.Zoomed())
}

func TestSetTitleAndClearOnRemove(t *testing.T) {
	ws := New()
	require.NoError(t, ws.AddWindow(1, 0.5, screen))
	assert.Equal(t, "", ws.Title(1))

	ws.SetTitle(1, "xterm")
	assert.Equal(t, "xterm", ws.Title(1))

	ws.RemoveWindow(1)
	assert.Equal(t, "", ws.Title(1))
}

func TestRecomputeFocusRecoversFromInvariantViolation(t *testing.T) {
	ws := New()
	require.NoError(t, ws.AddWindow(1, 0.5, screen))
	require.NoError(t, ws.AddWindow(2, 0.5, screen))

	stale := bsp.Window(999)
	ws.focused = &stale

	ws.RecomputeFocus()
	require.NotNil(t, ws.Focused())
	assert.True(t, ws.Tree().Contains(*ws.Focused()))
}
