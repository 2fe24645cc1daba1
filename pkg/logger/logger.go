package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format is the log output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config describes a logger in environment terms.
type Config struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	Format  string `env:"LOG_FORMAT" envDefault:"json"`
	Service string `env:"SERVICE_NAME" envDefault:"cashier"`
}

// Option configures logger creation.
type Option func(*config)

type config struct {
	level  slog.Level
	format Format
	output io.Writer
	attrs  []slog.Attr
}

func WithLevel(l slog.Level) Option {
	return func(c *config) { c.level = l }
}

// WithFormat sets the output format. Panics on unknown formats so a
// misconfigured service fails at startup.
func WithFormat(f Format) Option {
	return func(c *config) {
		switch f {
		case FormatJSON, FormatText:
			c.format = f
		default:
			panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
		}
	}
}

// WithOutput sets the destination. Nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithAttr adds static attrs to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) {
		c.attrs = append(c.attrs, attrs...)
	}
}

// FromConfig translates a Config into options.
// Unknown levels fall back to info; unknown formats to JSON.
func FromConfig(cfg Config) Option {
	return func(c *config) {
		c.level = ParseLevel(cfg.Level)
		if Format(strings.ToLower(cfg.Format)) == FormatText {
			c.format = FormatText
		} else {
			c.format = FormatJSON
		}
		if cfg.Service != "" {
			c.attrs = append(c.attrs, slog.String("service", cfg.Service))
		}
	}
}

// ParseLevel maps debug, info, warn and error (any case) to a slog level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a logger. Defaults to JSON at info level on stdout.
// The handler adds attrs stored in the context with WithAttrs.
func New(opts ...Option) *slog.Logger {
	cfg := &config{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.level}
	var handler slog.Handler
	if cfg.format == FormatText {
		handler = slog.NewTextHandler(cfg.output, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(cfg.output, handlerOpts)
	}
	if len(cfg.attrs) > 0 {
		handler = handler.WithAttrs(cfg.attrs)
	}
	return slog.New(NewContextHandler(handler))
}
