package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultTimeout = 5 * time.Second

	// StatusHealthy indicates all checks passed.
	StatusHealthy = "healthy"
	// StatusDegraded indicates only optional checks failed.
	StatusDegraded = "degraded"
	// StatusUnhealthy indicates a required check failed.
	StatusUnhealthy = "unhealthy"
)

// CheckFunc matches the Healthcheck closures of the redis and storage packages.
type CheckFunc func(ctx context.Context) error

// Checks is a map of named health check functions.
type Checks map[string]CheckFunc

// Optional wraps fn so that its failure reports StatusDegraded.
func Optional(fn CheckFunc) CheckFunc {
	return func(ctx context.Context) error {
		return &optionalError{err: fn(ctx)}
	}
}

// optionalError carries the result of an optional check. A nil err is success.
type optionalError struct {
	err error
}

func (e *optionalError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *optionalError) Unwrap() error { return e.err }

// Response represents a health check response.
type Response struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

// Check represents the status of a single health check.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type config struct {
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures health check behavior.
type Option func(*config)

// WithTimeout sets the timeout for all checks.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger for failed checks.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		timeout: defaultTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Run executes all checks in parallel and aggregates the result.
func Run(ctx context.Context, checks Checks, opts ...Option) *Response {
	return runChecks(ctx, checks, newConfig(opts...))
}

func runChecks(ctx context.Context, checks Checks, cfg *config) *Response {
	if len(checks) == 0 {
		return &Response{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]Check, len(checks))
		g       errgroup.Group
	)

	for name, check := range checks {
		g.Go(func() error {
			result := evaluate(ctx, check)
			if result.Status != StatusHealthy {
				cfg.logger.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("status", result.Status),
					slog.String("error", result.Error),
				)
			}
			mu.Lock()
			results[name] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	status := StatusHealthy
	for _, r := range results {
		switch r.Status {
		case StatusUnhealthy:
			status = StatusUnhealthy
		case StatusDegraded:
			if status == StatusHealthy {
				status = StatusDegraded
			}
		}
	}

	return &Response{Status: status, Checks: results}
}

func evaluate(ctx context.Context, check CheckFunc) Check {
	err := check(ctx)
	if oe, ok := err.(*optionalError); ok {
		if oe.err == nil {
			return Check{Status: StatusHealthy}
		}
		return Check{Status: StatusDegraded, Error: oe.err.Error()}
	}
	if err != nil {
		if ctx.Err() != nil {
			return Check{Status: StatusUnhealthy, Error: ErrCheckTimeout.Error()}
		}
		return Check{Status: StatusUnhealthy, Error: err.Error()}
	}
	return Check{Status: StatusHealthy}
}
