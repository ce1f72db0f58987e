package photostore

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/photostore/internal"
	"github.com/dmitrymomot/photostore/pkg/health"
	"github.com/dmitrymomot/photostore/pkg/logger"
	"github.com/dmitrymomot/photostore/pkg/session"
	"github.com/dmitrymomot/photostore/pkg/storage"
)

// Type aliases - public API
type (
	// App wires routing, middleware, sessions and storage, and runs the
	// HTTP server with graceful shutdown.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// SessionOption configures the session manager.
	SessionOption = internal.SessionOption

	// HTTPError is an error carrying a status code and a client-facing message.
	HTTPError = internal.HTTPError

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor

	// Session is an authenticated browser session.
	Session = session.Session

	// SessionStore persists sessions.
	SessionStore = session.Store

	// UserIDKey is the context key holding the authenticated user id.
	UserIDKey = internal.UserIDKey
)

// New creates a new application with the given options.
//
// Example:
//
//	app := photostore.New(
//	    photostore.WithLogger(log),
//	    photostore.WithStorage(svc),
//	    photostore.WithHandlers(handlers.NewStorage()),
//	)
//
//	err := app.Run(":8080", photostore.ShutdownTimeout(30*time.Second))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// App options

// WithMiddleware adds global middleware. The first one runs outermost.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHTTPMiddleware adds plain net/http middleware in front of the router,
// such as the metrics collector.
func WithHTTPMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return internal.WithHTTPMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithMount mounts a plain http.Handler, e.g. "/metrics".
func WithMount(pattern string, h http.Handler) Option {
	return internal.WithMount(pattern, h)
}

// WithErrorHandler replaces the plain-text error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithHealthChecks enables /health/live and /health/ready.
//
// Example:
//
//	photostore.WithHealthChecks(
//	    photostore.WithReadinessCheck("storage", health.Optional(storage.Healthcheck(svc))),
//	    photostore.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithSession enables cookie sessions backed by store.
func WithSession(store SessionStore, opts ...SessionOption) Option {
	return internal.WithSession(store, opts...)
}

// WithSessionCookieName sets the session cookie name. Defaults to "session".
func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

// WithStorage makes svc available to handlers through Context.Storage.
func WithStorage(svc *storage.Service) Option {
	return internal.WithStorage(svc)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the server logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown, hooks included.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// ReadHeaderTimeout sets http.Server.ReadHeaderTimeout.
func ReadHeaderTimeout(d time.Duration) RunOption {
	return internal.ReadHeaderTimeout(d)
}

// ShutdownHook registers a cleanup function run after the server stops.
//
//	photostore.ShutdownHook(redis.Shutdown(client))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context; cancelling it stops the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// ContextValue retrieves a typed value from the context.
// Returns the zero value of T if the key is not found or type assertion fails.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// HTTP errors

// ErrUnauthorized returns a 401 error with message as the body.
func ErrUnauthorized(message string) *HTTPError {
	return internal.ErrUnauthorized(message)
}

// ErrInternal returns a 500 error wrapping err, which is logged but not sent.
func ErrInternal(err error) *HTTPError {
	return internal.ErrInternal(http.StatusText(http.StatusInternalServerError), internal.WithError(err))
}

// Session errors for checking return values.
var (
	ErrSessionNotConfigured = session.ErrNotConfigured
	ErrSessionNotFound      = session.ErrNotFound
	ErrSessionExpired       = session.ErrExpired
)
