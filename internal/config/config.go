// Package config defines the core's typed configuration record and the
// defaults applied when a value is absent from the configuration file.
package config

// Config is the typed record handed to the core by the external loader
// (§6). It never touches viper or the filesystem directly.
type Config struct {
	Modifier             string            `mapstructure:"modifier"`
	Gap                  int               `mapstructure:"gap"`
	BorderWidth          int               `mapstructure:"border_width"`
	FocusedBorderColor   uint32            `mapstructure:"focused_border_color"`
	UnfocusedBorderColor uint32            `mapstructure:"unfocused_border_color"`
	BspSplitRatio        float64           `mapstructure:"bsp_split_ratio"`
	PointerFollowsFocus  bool              `mapstructure:"pointer_follows_focus"`
	Shortcuts            map[string]string `mapstructure:"shortcuts"`
	DefaultDisplay       string            `mapstructure:"default_display"`
}

// Default returns the configuration applied before the file and
// environment are layered on top.
func Default() *Config {
	return &Config{
		Modifier:             "Mod4",
		Gap:                  8,
		BorderWidth:          2,
		FocusedBorderColor:   0xff8800,
		UnfocusedBorderColor: 0x444444,
		BspSplitRatio:        0.5,
		PointerFollowsFocus:  true,
		DefaultDisplay:       "",
		Shortcuts: map[string]string{
			"Mod4-j":       "focus_next",
			"Mod4-k":       "focus_prev",
			"Mod4-Shift-j": "swap_next",
			"Mod4-Shift-k": "swap_prev",
			"Mod4-r":       "rotate",
			"Mod4-q":       "destroy_window",
			"Mod4-f":       "toggle_fullscreen",
			"Mod4-z":       "toggle_zoom",
			"Mod4-n":       "create_workspace",
			"Mod4-Shift-n": "delete_workspace",
			"Mod4-l":       "switch_workspace_next",
			"Mod4-h":       "switch_workspace_prev",
			"Mod4-Shift-q": "shutdown",
			"Mod4-Return":  "xterm",
		},
	}
}
