// Package mocks provides testify mocks of storage interfaces.
package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/photostore/pkg/storage"
)

// Provider is a mock storage.Provider.
type Provider struct {
	mock.Mock
}

// NewProvider returns a Provider mock registered for cleanup assertions.
func NewProvider(t interface {
	mock.TestingT
	Cleanup(func())
},
) *Provider {
	m := &Provider{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Provider) ID() storage.ProviderID {
	args := m.Called()
	return args.Get(0).(storage.ProviderID)
}

func (m *Provider) BaseURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *Provider) URLForKey(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *Provider) IsURLFromProvider(rawURL string) bool {
	args := m.Called(rawURL)
	return args.Bool(0)
}

func (m *Provider) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, key, body, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *Provider) Copy(ctx context.Context, src, dst string, randomSuffix bool) (string, error) {
	args := m.Called(ctx, src, dst, randomSuffix)
	return args.String(0), args.Error(1)
}

func (m *Provider) List(ctx context.Context, prefix string) ([]storage.Object, error) {
	args := m.Called(ctx, prefix)
	if objects := args.Get(0); objects != nil {
		return objects.([]storage.Object), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Provider) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *Provider) PutCommand(key string) storage.PutCommand {
	args := m.Called(key)
	return args.Get(0).(storage.PutCommand)
}

func (m *Provider) Presign(ctx context.Context, cmd storage.PutCommand, ttl time.Duration) (storage.SignedURL, error) {
	args := m.Called(ctx, cmd, ttl)
	return args.Get(0).(storage.SignedURL), args.Error(1)
}

var _ storage.Provider = (*Provider)(nil)
