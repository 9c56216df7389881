package cli

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/tigerwill90/bestmatch"
	"github.com/tigerwill90/bestmatch/internal/config"
	"github.com/tigerwill90/bestmatch/internal/driver"
	"github.com/viant/afs"
)

const outputFileMode = 0o644

// MatchCmd reads patterns and paths and prints the best matching pattern of every path.
type MatchCmd struct {
	Input    string `short:"i" long:"input" description:"Input path or URL (stdin if empty)"`
	Output   string `short:"o" long:"output" description:"Output path or URL (stdout if empty)"`
	Wildcard string `short:"w" long:"wildcard" description:"Wildcard token, overrides the config file"`
	Strict   bool   `long:"strict" description:"Reject patterns with an empty field and never match paths with an empty field"`
	All      bool   `short:"a" long:"all" description:"Print every matching pattern, separated by '|'"`
	Verbose  bool   `short:"v" long:"verbose" description:"Log every registration and lookup"`

	root *Options
}

func (c *MatchCmd) Execute(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: unexpected argument %q", bestmatch.ErrInvalidConfig, args[0])
	}

	cfg, err := c.root.loadConfig()
	if err != nil {
		return err
	}
	if c.Wildcard != "" {
		cfg.Wildcard = c.Wildcard
	}
	if c.Strict {
		cfg.Strict = true
	}
	if c.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := c.root.newLogger(cfg, cfg.Level())
	opts := cfg.Options()
	if c.Verbose {
		opts = append(opts, bestmatch.WithLogger(logger.Handler()))
	}

	ctx := c.root.env.ctx
	fs := afs.New()

	var r io.Reader = c.root.env.stdin
	if c.Input != "" {
		rc, err := fs.OpenURL(ctx, config.NormalizeURL(c.Input))
		if err != nil {
			return fmt.Errorf("failed to open input %q: %w", c.Input, err)
		}
		defer rc.Close()
		r = rc
	}

	w := c.root.env.stdout
	var out *bytes.Buffer
	if c.Output != "" {
		out = bytes.NewBuffer(nil)
		w = out
	}

	summary, err := driver.Run(ctx, r, w, driver.Config{
		Logger:  logger,
		Options: opts,
		All:     c.All,
	})
	if err != nil {
		return err
	}

	if out != nil {
		if err := fs.Upload(ctx, config.NormalizeURL(c.Output), outputFileMode, out); err != nil {
			return fmt.Errorf("failed to write output %q: %w", c.Output, err)
		}
		logger.Debug("output written", slog.String("location", c.Output), slog.Int("paths", summary.Paths))
	}

	return nil
}
