package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// sentryFlushTimeout bounds how long flush waits for pending events.
const sentryFlushTimeout = 2 * time.Second

// withSentry adds a Sentry handler next to local when cfg.SentryDSN is set.
func withSentry(local slog.Handler, cfg Config) (slog.Handler, func()) {
	noop := func() {}
	if cfg.SentryDSN == "" {
		return local, noop
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(local).Error("failed to initialize sentry", slog.String("error", err.Error()))
		return local, noop
	}

	remote := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(context.Background())

	return fanout{local, remote}, func() { sentry.Flush(sentryFlushTimeout) }
}
