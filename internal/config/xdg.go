package config

import (
	"os"
	"path/filepath"
)

const appName = "bspwm"

// ConfigDir returns the XDG config directory for the manager:
// $XDG_CONFIG_HOME/bspwm, defaulting to ~/.config/bspwm.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appName), nil
}
