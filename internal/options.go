package internal

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/photostore/pkg/health"
	"github.com/dmitrymomot/photostore/pkg/session"
	"github.com/dmitrymomot/photostore/pkg/storage"
)

// Option configures the application.
type Option func(*App)

// WithMiddleware adds global middleware. Middleware runs in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHTTPMiddleware adds plain net/http middleware. It runs before any
// Middleware added with WithMiddleware.
//
// Example:
//
//	photostore.WithHTTPMiddleware(metrics.Middleware)
func WithHTTPMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(a *App) {
		a.httpMiddlewares = append(a.httpMiddlewares, mw...)
	}
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithMount attaches an http.Handler at pattern, outside the Context machinery.
//
// Example:
//
//	photostore.WithMount("/metrics", metrics.Handler())
func WithMount(pattern string, h http.Handler) Option {
	return func(a *App) {
		if pattern != "" && h != nil {
			a.mounts = append(a.mounts, mount{handler: h, pattern: pattern})
		}
	}
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		if h != nil {
			a.errorHandler = h
		}
	}
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithHealthChecks enables /health/live and /health/ready.
//
// Example:
//
//	photostore.WithHealthChecks(
//	    photostore.WithReadinessCheck("storage", health.Optional(storage.Healthcheck(svc))),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(health.Checks),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithSession enables reading sessions from store via the session cookie.
//
// Example:
//
//	photostore.WithSession(session.NewRedisStore(client, ""),
//	    photostore.WithSessionCookieName("session"),
//	)
func WithSession(store session.Store, opts ...SessionOption) Option {
	return func(a *App) {
		if store != nil {
			a.sessionManager = NewSessionManager(store, opts...)
		}
	}
}

// WithStorage makes svc available to handlers through Context.Storage.
func WithStorage(svc *storage.Service) Option {
	return func(a *App) {
		a.storage = svc
	}
}
