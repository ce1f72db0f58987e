package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config configures New.
type Config struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `mapstructure:"level" default:"info"`
	// Format is json or text. Defaults to json.
	Format string `mapstructure:"format" default:"json"`
	// SentryDSN enables Sentry reporting when set.
	SentryDSN string `mapstructure:"sentry_dsn" default:""`
	// Environment is reported to Sentry.
	Environment string `mapstructure:"environment" default:"production"`
	// Output defaults to os.Stdout.
	Output io.Writer `mapstructure:"-"`
}

// New creates a logger from cfg. The returned flush function waits for
// buffered Sentry events and must be called before exit.
func New(cfg Config, extractors ...ContextExtractor) (*slog.Logger, func()) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var local slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		local = slog.NewTextHandler(out, opts)
	} else {
		local = slog.NewJSONHandler(out, opts)
	}

	handler, flush := withSentry(local, cfg)
	return slog.New(NewContextHandler(handler, extractors...)), flush
}

// NewNope creates a logger that discards all output.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel converts a level name to slog.Level. Unknown names map to info.
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
