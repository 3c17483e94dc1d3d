package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads the configuration file from the XDG config directory (or the
// current directory during development), layering in BSPWM_-prefixed
// environment variables, and falling back to Default() for anything unset.
// A missing config file is not an error: the defaults alone are valid.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")

	dir, err := ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("config: determine config directory: %w", err)
	}
	v.AddConfigPath(dir)
	v.AddConfigPath(".")

	v.SetEnvPrefix("BSPWM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: parse config file at %s: %w", v.ConfigFileUsed(), err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("modifier", d.Modifier)
	v.SetDefault("gap", d.Gap)
	v.SetDefault("border_width", d.BorderWidth)
	v.SetDefault("focused_border_color", d.FocusedBorderColor)
	v.SetDefault("unfocused_border_color", d.UnfocusedBorderColor)
	v.SetDefault("bsp_split_ratio", d.BspSplitRatio)
	v.SetDefault("pointer_follows_focus", d.PointerFollowsFocus)
	v.SetDefault("shortcuts", d.Shortcuts)
	v.SetDefault("default_display", d.DefaultDisplay)
}

// validate rejects configuration values that would be silently
// misinterpreted downstream rather than clamped: gap/border_width must be
// non-negative (the resolver floors degenerate results but a negative
// input is a configuration mistake, not a layout edge case). bsp_split_ratio
// outside (0,1) is allowed through — the BSP tree clamps it to [0.1, 0.9]
// on insertion, so it is not a configuration error.
func validate(cfg *Config) error {
	if cfg.Gap < 0 {
		return fmt.Errorf("gap must be >= 0, got %d", cfg.Gap)
	}
	if cfg.BorderWidth < 0 {
		return fmt.Errorf("border_width must be >= 0, got %d", cfg.BorderWidth)
	}
	if cfg.Modifier == "" {
		return fmt.Errorf("modifier must not be empty")
	}
	return nil
}
