package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/photostore/pkg/id"
)

// Service dispatches storage operations to the active provider.
//
// Configuration is re-read from the Source on every call and a fresh
// provider is built for each operation, so credential or preference
// changes take effect without a restart. Concurrent calls share nothing;
// writes to the same key follow last-writer-wins.
type Service struct {
	src          Source
	factory      Factory
	providerOpts []ProviderOption
	logger       *slog.Logger
	observer     Observer
}

// New creates a Service reading configuration from src.
func New(src Source, opts ...Option) *Service {
	s := &Service{
		src:     src,
		factory: NewProvider,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Settings returns a fresh snapshot of the storage settings.
func (s *Service) Settings() Settings {
	return LoadSettings(s.src)
}

// Capabilities resolves the current capabilities.
func (s *Service) Capabilities() Capabilities {
	return Resolve(s.src)
}

// Active returns the active provider id.
func (s *Service) Active() ProviderID {
	return s.Capabilities().Active
}

// PublicConfig returns the client-safe configuration view.
func (s *Service) PublicConfig() PublicConfig {
	settings := s.Settings()
	return settings.Capabilities().Public(settings)
}

// Provider builds the provider id from the current settings
// without checking its capabilities.
func (s *Service) Provider(id ProviderID) (Provider, error) {
	return s.factory(id, s.Settings(), s.providerOpts...)
}

// serverProvider builds provider id for an authenticated operation.
// It fails with ErrNotConfigured when id lacks credentials.
func (s *Service) serverProvider(id ProviderID) (Provider, error) {
	settings := s.Settings()
	if !id.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, string(id))
	}
	if !settings.Capabilities().Provider(id).ServerUsable {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, id.Label())
	}
	return s.factory(id, settings, s.providerOpts...)
}

// activeProvider builds the active provider for an authenticated operation.
func (s *Service) activeProvider() (Provider, error) {
	return s.serverProvider(s.Active())
}

// URLForKey returns the public URL of key on the active provider.
func (s *Service) URLForKey(key string) (string, error) {
	p, err := s.Provider(s.Active())
	if err != nil {
		return "", err
	}
	return p.URLForKey(key), nil
}

// PutCommand builds an unsent upload descriptor for key on the active provider.
func (s *Service) PutCommand(key string) (PutCommand, error) {
	if key == "" {
		return PutCommand{}, ErrEmptyKey
	}
	p, err := s.Provider(s.Active())
	if err != nil {
		return PutCommand{}, err
	}
	return p.PutCommand(key), nil
}

// Put uploads body under key on the active provider and returns its public URL.
func (s *Service) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	p, err := s.activeProvider()
	if err != nil {
		return "", err
	}

	start := time.Now()
	u, err := p.Put(ctx, key, body, size, contentType)
	s.observe(ctx, p.ID(), OpPut, start, err, slog.String("key", key))
	return u, err
}

// Copy duplicates src to dst on the active provider.
func (s *Service) Copy(ctx context.Context, src, dst string, randomSuffix bool) (string, error) {
	p, err := s.activeProvider()
	if err != nil {
		return "", err
	}
	return s.copy(ctx, p, src, dst, randomSuffix)
}

func (s *Service) copy(ctx context.Context, p Provider, src, dst string, randomSuffix bool) (string, error) {
	if src == "" || (dst == "" && !randomSuffix) {
		return "", ErrEmptyKey
	}

	start := time.Now()
	u, err := p.Copy(ctx, src, dst, randomSuffix)
	s.observe(ctx, p.ID(), OpCopy, start, err, slog.String("src", src), slog.String("url", u))
	return u, err
}

// List returns the objects under prefix on the active provider.
func (s *Service) List(ctx context.Context, prefix string) ([]Object, error) {
	p, err := s.activeProvider()
	if err != nil {
		return nil, err
	}
	return s.list(ctx, p, prefix)
}

func (s *Service) list(ctx context.Context, p Provider, prefix string) ([]Object, error) {
	start := time.Now()
	objects, err := p.List(ctx, prefix)
	s.observe(ctx, p.ID(), OpList, start, err, slog.String("prefix", prefix), slog.Int("count", len(objects)))
	return objects, err
}

// ListAll lists prefix on every server-usable provider concurrently.
// The first failure cancels the remaining listings.
func (s *Service) ListAll(ctx context.Context, prefix string) (map[ProviderID][]Object, error) {
	ids := s.Capabilities().ServerUsable()
	results := make([][]Object, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, pid := range ids {
		g.Go(func() error {
			p, err := s.serverProvider(pid)
			if err != nil {
				return err
			}
			objects, err := s.list(ctx, p, prefix)
			if err != nil {
				return err
			}
			results[i] = objects
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[ProviderID][]Object, len(ids))
	for i, pid := range ids {
		out[pid] = results[i]
	}
	return out, nil
}

// Delete removes key from the active provider. A missing key is not an error.
func (s *Service) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	p, err := s.activeProvider()
	if err != nil {
		return err
	}
	return s.delete(ctx, p, key)
}

func (s *Service) delete(ctx context.Context, p Provider, key string) error {
	start := time.Now()
	err := p.Delete(ctx, key)
	s.observe(ctx, p.ID(), OpDelete, start, err, slog.String("key", key))
	return err
}

// DeletePrefix removes every object under prefix on the active provider
// and returns how many were deleted. It stops at the first failure.
func (s *Service) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if prefix == "" {
		return 0, ErrEmptyKey
	}
	p, err := s.activeProvider()
	if err != nil {
		return 0, err
	}

	objects, err := s.list(ctx, p, prefix)
	if err != nil {
		return 0, err
	}
	for i, obj := range objects {
		if err := s.delete(ctx, p, obj.Key); err != nil {
			return i, err
		}
	}
	return len(objects), nil
}

// Move copies src to dst on the active provider, then deletes src.
func (s *Service) Move(ctx context.Context, src, dst string) (string, error) {
	p, err := s.activeProvider()
	if err != nil {
		return "", err
	}
	u, err := s.copy(ctx, p, src, dst, false)
	if err != nil {
		return "", err
	}
	if err := s.delete(ctx, p, src); err != nil {
		return u, err
	}
	return u, nil
}

// Presign returns a one hour upload URL for key on the active provider.
func (s *Service) Presign(ctx context.Context, key string) (SignedURL, error) {
	if key == "" {
		return SignedURL{}, ErrEmptyKey
	}

	caps := s.Capabilities()
	var (
		p   Provider
		err error
	)
	// Blob tokens are derived locally, so the default provider can sign
	// before any credential is configured.
	if caps.Active == ProviderBlob && !caps.Override {
		p, err = s.Provider(ProviderBlob)
	} else {
		p, err = s.serverProvider(caps.Active)
	}
	if err != nil {
		return SignedURL{}, err
	}

	start := time.Now()
	signed, err := p.Presign(ctx, p.PutCommand(key), PresignExpiry)
	s.observe(ctx, p.ID(), OpPresign, start, err, slog.String("key", key))
	return signed, err
}

// ProviderForURL finds the provider that produced rawURL, trying all of them.
// Objects written before the active provider changed stay addressable.
func (s *Service) ProviderForURL(rawURL string) (ProviderID, bool) {
	settings := s.Settings()
	for _, pid := range priority {
		if urlHasBase(settings.BaseURL(pid), rawURL) {
			return pid, true
		}
	}
	return "", false
}

// KeyForURL returns the provider and object key of rawURL.
func (s *Service) KeyForURL(rawURL string) (ProviderID, string, bool) {
	settings := s.Settings()
	for _, pid := range priority {
		if key, ok := keyFromURL(settings.BaseURL(pid), rawURL); ok {
			return pid, key, true
		}
	}
	return "", "", false
}

// DeleteURL deletes the object behind rawURL on the provider that produced it.
func (s *Service) DeleteURL(ctx context.Context, rawURL string) error {
	pid, key, ok := s.KeyForURL(rawURL)
	if !ok {
		return fmt.Errorf("%w: %s", ErrURLNotRecognized, rawURL)
	}
	p, err := s.serverProvider(pid)
	if err != nil {
		return err
	}
	return s.delete(ctx, p, key)
}

// CopyURL copies the object behind rawURL within the provider that produced it.
func (s *Service) CopyURL(ctx context.Context, rawURL, dst string, randomSuffix bool) (string, error) {
	pid, key, ok := s.KeyForURL(rawURL)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrURLNotRecognized, rawURL)
	}
	p, err := s.serverProvider(pid)
	if err != nil {
		return "", err
	}
	return s.copy(ctx, p, key, dst, randomSuffix)
}

// UploadKey returns a fresh key for a new upload with the given extension.
func UploadKey(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return "upload-" + id.NewStorageID()
	}
	return fmt.Sprintf("upload-%s.%s", id.NewStorageID(), ext)
}

// observe logs and reports an operation result.
func (s *Service) observe(ctx context.Context, pid ProviderID, op string, start time.Time, err error, attrs ...slog.Attr) {
	took := time.Since(start)
	if s.observer != nil {
		s.observer.ObserveOperation(pid, op, took, err)
	}

	attrs = append(attrs,
		slog.String("provider", string(pid)),
		slog.String("op", op),
		slog.Duration("took", took),
	)
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, ErrNotFound) {
			level = slog.LevelWarn
		}
		attrs = append(attrs, slog.Any("error", err))
		s.logger.LogAttrs(ctx, level, "storage operation failed", attrs...)
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, "storage operation", attrs...)
}
