package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFallsBackToDefaultsWithoutConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Modifier, cfg.Modifier)
	assert.Equal(t, Default().BspSplitRatio, cfg.BspSplitRatio)
	assert.Equal(t, "focus_next", cfg.Shortcuts["Mod4-j"])
}

func TestLoadReadsConfigFileOverridingDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	configDir := filepath.Join(home, ".config", "bspwm")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	toml := `
modifier = "Mod1"
gap = 12
border_width = 3
bsp_split_ratio = 0.6
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(toml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Mod1", cfg.Modifier)
	assert.Equal(t, 12, cfg.Gap)
	assert.Equal(t, 3, cfg.BorderWidth)
	assert.Equal(t, 0.6, cfg.BspSplitRatio)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	configDir := filepath.Join(dir, "bspwm")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("gap = 12\n"), 0o644))
	t.Setenv("BSPWM_GAP", "20")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Gap)
}

func TestValidateRejectsNegativeGap(t *testing.T) {
	cfg := Default()
	cfg.Gap = -1
	assert.Error(t, validate(cfg))
}

func TestValidateRejectsEmptyModifier(t *testing.T) {
	cfg := Default()
	cfg.Modifier = ""
	assert.Error(t, validate(cfg))
}

func TestValidateAllowsOutOfRangeSplitRatio(t *testing.T) {
	// the BSP tree clamps at insertion time; the loader does not reject it
	cfg := Default()
	cfg.BspSplitRatio = 1.5
	assert.NoError(t, validate(cfg))
}
