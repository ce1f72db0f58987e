// Package logger builds the service's slog logger.
//
// New returns a JSON or text logger at the configured level. Request-scoped
// values such as request and user ids are added to every record through
// ContextExtractor functions:
//
//	log, flush := logger.New(logger.Config{Level: "info", Format: "json"},
//		middlewares.RequestIDExtractor(),
//		middlewares.UserIDExtractor(),
//	)
//	defer flush()
//
// When SentryDSN is set, warnings and errors are also sent to Sentry; errors
// become issues. An empty DSN, or a failing Sentry init, falls back to
// local output only.
//
// NewNope returns a logger that discards everything, for tests and defaults.
package logger
