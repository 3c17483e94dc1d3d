// Package logging builds the structured zerolog.Logger the rest of the
// core attaches to a context and narrows with a component field.
package logging

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds the root logger at the given level, writing human-readable
// output to stderr when pretty is true (interactive terminal use) and
// newline-delimited JSON otherwise (the shape a log collector expects).
func New(level zerolog.Level, pretty bool) zerolog.Logger {
	var w io.Writer = os.Stderr
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// FromContext extracts the logger attached to ctx, or a disabled no-op
// logger if none was attached.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext attaches logger to ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent returns a context carrying a child logger tagged with a
// "component" field, for per-subsystem log scoping.
func WithComponent(ctx context.Context, component string) context.Context {
	logger := FromContext(ctx).With().Str("component", component).Logger()
	return WithContext(ctx, logger)
}

// ParseLevel parses a configuration-supplied level name, defaulting to
// info for an empty or unrecognized string.
func ParseLevel(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
