// Command bspwmd is the tiling window manager entrypoint: it loads
// configuration, connects to the display server, and runs the reconciler's
// event loop until shutdown or a connection failure.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/spf13/cobra"

	"github.com/tmclane/bspwm/internal/config"
	"github.com/tmclane/bspwm/internal/keysym"
	"github.com/tmclane/bspwm/internal/layout"
	"github.com/tmclane/bspwm/internal/logging"
	"github.com/tmclane/bspwm/internal/reconcile"
	"github.com/tmclane/bspwm/internal/render"
	"github.com/tmclane/bspwm/internal/shortcut"
	"github.com/tmclane/bspwm/internal/workspace"
	"github.com/tmclane/bspwm/internal/x11"
)

var (
	logLevel string
	pretty   bool
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bspwmd",
		Short: "A binary space-partitioning tiling window manager for X11",
		RunE: func(_ *cobra.Command, _ []string) error {
			return run()
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&pretty, "pretty", isTerminal(), "write human-readable logs instead of JSON")
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("bspwmd (development build)")
		},
	}
}

func isTerminal() bool {
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log := logging.New(logging.ParseLevel(logLevel), pretty)

	conn, err := x11.Connect(cfg.DefaultDisplay)
	if err != nil {
		return fmt.Errorf("connect to display: %w", err)
	}
	defer conn.Close()

	if err := conn.BecomeWM(); err != nil {
		var accessErr xproto.AccessError
		if errors.As(err, &accessErr) {
			return fmt.Errorf("could not become window manager, another one is likely running: %w", err)
		}
		return fmt.Errorf("become window manager: %w", err)
	}

	protocols, err := conn.LoadProtocols()
	if err != nil {
		return fmt.Errorf("load ICCCM protocol atoms: %w", err)
	}

	keymap, err := conn.QueryKeymap()
	if err != nil {
		return fmt.Errorf("query keyboard mapping: %w", err)
	}

	resolver, err := keysym.NewResolver(cfg.DefaultDisplay)
	if err != nil {
		return fmt.Errorf("open shortcut-grammar resolver: %w", err)
	}
	bindings, parseErrs := shortcut.Compile(resolver, shortcut.ApplyDefaultModifier(cfg.Shortcuts, cfg.Modifier))
	for _, e := range parseErrs {
		log.Warn().Err(e).Msg("shortcut: skipping unparseable binding")
	}
	resolver.Close()

	dispatcher := shortcut.New(bindings, log.With().Str("component", "shortcut").Logger())

	registry := workspace.NewRegistry()
	colors := render.Colors{Focused: cfg.FocusedBorderColor, Unfocused: cfg.UnfocusedBorderColor}
	renderer := render.New(conn, colors, log.With().Str("component", "render").Logger())

	opts := reconcile.Options{
		SplitRatio: cfg.BspSplitRatio,
		Layout: layout.Params{
			OuterGap:    cfg.Gap,
			InnerGap:    cfg.Gap,
			BorderWidth: cfg.BorderWidth,
		},
		PointerFollowsFocus: cfg.PointerFollowsFocus,
	}
	r := reconcile.New(conn, registry, renderer, dispatcher, protocols, keymap, opts, log.With().Str("component", "reconcile").Logger())

	dispatcher.RegisterCommand("focus_next", r.FocusNext)
	dispatcher.RegisterCommand("focus_prev", r.FocusPrev)
	dispatcher.RegisterCommand("swap_next", r.SwapNext)
	dispatcher.RegisterCommand("swap_prev", r.SwapPrev)
	dispatcher.RegisterCommand("rotate", r.Rotate)
	dispatcher.RegisterCommand("destroy_window", r.DestroyWindow)
	dispatcher.RegisterCommand("toggle_fullscreen", r.ToggleFullscreen)
	dispatcher.RegisterCommand("toggle_zoom", r.ToggleZoom)
	dispatcher.RegisterCommand("create_workspace", r.CreateWorkspace)
	dispatcher.RegisterCommand("delete_workspace", r.DeleteWorkspace)
	dispatcher.RegisterCommand("switch_workspace_next", r.SwitchWorkspaceNext)
	dispatcher.RegisterCommand("switch_workspace_prev", r.SwitchWorkspacePrev)
	dispatcher.RegisterCommand("shutdown", r.Shutdown)

	if err := dispatcher.GrabAll(conn); err != nil {
		return fmt.Errorf("grab configured shortcuts: %w", err)
	}

	if err := conn.SetWMName("bspwm"); err != nil {
		log.Warn().Err(err).Msg("set WM name")
	}

	if err := r.AdoptExisting(); err != nil {
		log.Warn().Err(err).Msg("adopt pre-existing windows")
	}

	log.Info().Msg("bspwmd: running")
	return r.Run()
}
