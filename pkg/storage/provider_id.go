package storage

import (
	"fmt"
	"strings"
)

// ProviderID identifies a storage backend.
type ProviderID string

// Supported providers.
const (
	ProviderBlob ProviderID = "vercel-blob"
	ProviderR2   ProviderID = "cloudflare-r2"
	ProviderS3   ProviderID = "aws-s3"
	ProviderOSS  ProviderID = "aliyun-oss"
)

// DefaultProvider is selected when nothing else is configured.
const DefaultProvider = ProviderBlob

// priority is the selection order used when no preference is configured.
var priority = []ProviderID{ProviderR2, ProviderS3, ProviderOSS, ProviderBlob}

// Providers returns all provider ids in selection priority order.
func Providers() []ProviderID {
	out := make([]ProviderID, len(priority))
	copy(out, priority)
	return out
}

// ParseProviderID converts a configured name into a ProviderID.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseProviderID(s string) (ProviderID, error) {
	id := ProviderID(strings.ToLower(strings.TrimSpace(s)))
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
	}
	return id, nil
}

// Valid reports whether id is one of the supported providers.
func (id ProviderID) Valid() bool {
	switch id {
	case ProviderBlob, ProviderR2, ProviderS3, ProviderOSS:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (id ProviderID) String() string {
	return string(id)
}

// Label returns a human readable provider name.
func (id ProviderID) Label() string {
	switch id {
	case ProviderBlob:
		return "Vercel Blob"
	case ProviderR2:
		return "Cloudflare R2"
	case ProviderS3:
		return "AWS S3"
	case ProviderOSS:
		return "Aliyun OSS"
	}
	return string(id)
}
