package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tigerwill90/bestmatch"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Log struct {
	Level string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Color string `yaml:"color,omitempty" validate:"omitempty,oneof=auto always never"`
}

type Config struct {
	Wildcard string `yaml:"wildcard,omitempty" validate:"omitempty,len=1,excludesall=/0x2C"`
	Strict   bool   `yaml:"strict,omitempty"`
	Log      Log    `yaml:"log,omitempty"`
}

var validate = validator.New()

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Wildcard: bestmatch.DefaultWildcard,
		Log: Log{
			Level: "info",
			Color: ColorAuto,
		},
	}
}

// Load reads and validates the configuration at location. Fields missing from the file keep their default value.
func Load(ctx context.Context, location string) (*Config, error) {
	URL := NormalizeURL(location)
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", location, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config file %q: %s", bestmatch.ErrInvalidConfig, location, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid field of c as an error wrapping [bestmatch.ErrInvalidConfig].
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %s", bestmatch.ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: value %q fails %q", fe.Namespace(), fmt.Sprint(fe.Value()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", bestmatch.ErrInvalidConfig, strings.Join(msgs, "; "))
}

// Level returns the slog level of the configured log level. Unknown levels map to info.
func (c *Config) Level() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Options returns the index options described by c.
func (c *Config) Options() []bestmatch.Option {
	opts := []bestmatch.Option{bestmatch.WithStrictFields(c.Strict)}
	if c.Wildcard != "" {
		opts = append(opts, bestmatch.WithWildcard(c.Wildcard))
	}
	return opts
}

// Encode returns the YAML representation of c.
func (c *Config) Encode() ([]byte, error) {
	return yaml.Marshal(c)
}

// NormalizeURL turns a plain file path into a file URL understood by afs. Locations that already carry a scheme
// are returned unchanged.
func NormalizeURL(location string) string {
	if strings.Contains(location, "://") {
		return location
	}
	if abs, err := filepath.Abs(location); err == nil {
		location = abs
	}
	return "file://" + filepath.ToSlash(location)
}
