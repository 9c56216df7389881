package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/tigerwill90/bestmatch/internal/ansi"
	"github.com/tigerwill90/bestmatch/internal/config"
	"github.com/tigerwill90/bestmatch/internal/slogpretty"
	"golang.org/x/term"
)

// env carries the process streams, so that commands can run against in-memory buffers.
type env struct {
	ctx    context.Context
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// loadConfig returns the configuration at the -f/--config location, or the default one.
func (o *Options) loadConfig() (*config.Config, error) {
	if o.Config == "" {
		return config.Default(), nil
	}
	return config.Load(o.env.ctx, o.Config)
}

// newLogger returns a pretty logger writing to stderr. Colours follow the configured mode; in auto mode they are
// enabled only when stderr is a terminal.
func (o *Options) newLogger(cfg *config.Config, lvl slog.Leveler) *slog.Logger {
	color := false
	switch cfg.Log.Color {
	case config.ColorAlways:
		color = true
		if f, ok := o.env.stderr.(*os.File); ok {
			ansi.EnableVirtualTerminal(f)
		}
	case config.ColorNever:
	default:
		if f, ok := o.env.stderr.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			color = ansi.EnableVirtualTerminal(f)
		}
	}
	return slog.New(slogpretty.New(o.env.stderr, o.env.stderr, lvl, color))
}
