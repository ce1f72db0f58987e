package storage

import (
	"os"
	"strings"
)

// Source is a flat key/value configuration input.
// Implementations must return ok=false for unknown keys.
type Source interface {
	Lookup(key string) (string, bool)
}

// EnvSource reads configuration from the process environment.
type EnvSource struct{}

// Lookup implements Source.
func (EnvSource) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapSource is an in-memory Source, mostly useful for tests.
type MapSource map[string]string

// Lookup implements Source.
func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(key string) (string, bool)

// Lookup implements Source.
func (f SourceFunc) Lookup(key string) (string, bool) {
	return f(key)
}

// Configuration keys.
const (
	KeyPreference = "STORAGE_PREFERENCE"

	KeyR2Bucket       = "CLOUDFLARE_R2_BUCKET"
	KeyR2AccountID    = "CLOUDFLARE_R2_ACCOUNT_ID"
	KeyR2PublicDomain = "CLOUDFLARE_R2_PUBLIC_DOMAIN"
	KeyR2AccessKey    = "CLOUDFLARE_R2_ACCESS_KEY"
	KeyR2SecretKey    = "CLOUDFLARE_R2_SECRET_ACCESS_KEY"
	KeyR2Endpoint     = "CLOUDFLARE_R2_ENDPOINT"

	KeyS3Bucket    = "AWS_S3_BUCKET"
	KeyS3Region    = "AWS_S3_REGION"
	KeyS3AccessKey = "AWS_S3_ACCESS_KEY"
	KeyS3SecretKey = "AWS_S3_SECRET_ACCESS_KEY"
	KeyS3Endpoint  = "AWS_S3_ENDPOINT"

	KeyOSSBucket    = "ALIYUN_OSS_BUCKET"
	KeyOSSRegion    = "ALIYUN_OSS_REGION"
	KeyOSSAccessKey = "ALIYUN_OSS_ACCESS_KEY"
	KeyOSSSecretKey = "ALIYUN_OSS_SECRET_ACCESS_KEY"
	KeyOSSEndpoint  = "ALIYUN_OSS_ENDPOINT"

	KeyBlobToken  = "BLOB_READ_WRITE_TOKEN"
	KeyBlobAPIURL = "VERCEL_BLOB_API_URL"
)

// publicPrefix is the prefix the web front end uses for values it exposes to browsers.
const publicPrefix = "NEXT_PUBLIC_"

// lookup returns a trimmed value. Absent and blank values are both reported as "".
func lookup(src Source, key string) string {
	if src == nil {
		return ""
	}
	v, ok := src.Lookup(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// lookupPublic resolves a public identifier, falling back to its NEXT_PUBLIC_ form.
func lookupPublic(src Source, key string) string {
	if v := lookup(src, key); v != "" {
		return v
	}
	return lookup(src, publicPrefix+key)
}
