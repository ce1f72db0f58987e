package storage

import (
	"context"
	"io"
	"math"
	"time"
)

// PresignExpiry is the validity window of presigned upload URLs.
const PresignExpiry = time.Hour

// Provider is the operation set every storage backend implements.
type Provider interface {
	// ID returns the provider identity.
	ID() ProviderID
	// BaseURL returns the public base URL, or "" when it cannot be built.
	BaseURL() string
	// URLForKey returns the public URL of key. No network call is made.
	URLForKey(key string) string
	// IsURLFromProvider reports whether rawURL was produced by this provider.
	IsURLFromProvider(rawURL string) bool

	// Put uploads body under key with public-read visibility and returns its public URL.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	// Copy duplicates src to dst and returns the public URL of the written key.
	// With randomSuffix the destination is derived from src with a random suffix
	// before the extension and dst is ignored.
	Copy(ctx context.Context, src, dst string, randomSuffix bool) (string, error)
	// List returns every object whose key starts with prefix.
	List(ctx context.Context, prefix string) ([]Object, error)
	// Delete removes key. Deleting a missing key succeeds.
	Delete(ctx context.Context, key string) error

	// PutCommand builds an unsent upload descriptor for key.
	PutCommand(key string) PutCommand
	// Presign signs cmd for ttl. Signing is local; no request is sent.
	Presign(ctx context.Context, cmd PutCommand, ttl time.Duration) (SignedURL, error)
}

// ACL is a canned object visibility.
type ACL string

// Supported ACL values.
const (
	ACLNone       ACL = ""
	ACLPublicRead ACL = "public-read"
)

// PutCommand describes an upload without executing it.
// It is built per call and never reused: signatures are time sensitive.
type PutCommand struct {
	Provider    ProviderID
	Bucket      string
	Key         string
	ACL         ACL
	ContentType string
}

// SignedURL is a time limited upload authorization.
type SignedURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Object is a listed object. It is a read-only view of the remote store.
type Object struct {
	Key          string    `json:"key" yaml:"key"`
	URL          string    `json:"url" yaml:"url"`
	Size         int64     `json:"size" yaml:"size"`
	SizeMB       float64   `json:"size_mb" yaml:"size_mb"`
	LastModified time.Time `json:"last_modified,omitzero" yaml:"last_modified,omitempty"`
}

// FileName returns the last segment of the object key.
func (o Object) FileName() string {
	for i := len(o.Key) - 1; i >= 0; i-- {
		if o.Key[i] == '/' {
			return o.Key[i+1:]
		}
	}
	return o.Key
}

// BytesToMB converts a byte count to megabytes rounded to two decimals.
func BytesToMB(size int64) float64 {
	mb := float64(size) / (1024 * 1024)
	return math.Round(mb*100) / 100
}

// newObject builds an Object with derived fields filled.
func newObject(p Provider, key string, size int64, modified time.Time) Object {
	return Object{
		Key:          key,
		URL:          p.URLForKey(key),
		Size:         size,
		SizeMB:       BytesToMB(size),
		LastModified: modified,
	}
}
