package storage

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/photostore/pkg/id"
)

// ProviderOption configures a Provider built by NewProvider.
type ProviderOption func(*providerOptions)

type providerOptions struct {
	httpClient *http.Client
	newID      func() string
	now        func() time.Time
}

func defaultProviderOptions() *providerOptions {
	return &providerOptions{
		httpClient: http.DefaultClient,
		newID:      id.NewStorageID,
		now:        time.Now,
	}
}

// WithHTTPClient sets the HTTP client used to talk to the provider.
func WithHTTPClient(c *http.Client) ProviderOption {
	return func(o *providerOptions) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithIDGenerator sets the generator used for random key suffixes.
func WithIDGenerator(fn func() string) ProviderOption {
	return func(o *providerOptions) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithClock sets the time source used for signature expiry.
func WithClock(fn func() time.Time) ProviderOption {
	return func(o *providerOptions) {
		if fn != nil {
			o.now = fn
		}
	}
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used by the Service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver sets an Observer notified after each operation.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observer = o
	}
}

// WithProviderOptions sets options applied to every provider the Service builds.
func WithProviderOptions(opts ...ProviderOption) Option {
	return func(s *Service) {
		s.providerOpts = append(s.providerOpts, opts...)
	}
}

// WithFactory replaces the provider factory. Tests use it to inject mocks.
func WithFactory(f Factory) Option {
	return func(s *Service) {
		if f != nil {
			s.factory = f
		}
	}
}
