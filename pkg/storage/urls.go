package storage

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// BaseURL returns the public base URL of provider id, without a trailing slash.
// It returns "" when the identifiers needed to build it are missing.
func (s Settings) BaseURL(id ProviderID) string {
	switch id {
	case ProviderS3:
		return s.S3.baseURL()
	case ProviderR2:
		return s.R2.baseURL()
	case ProviderOSS:
		return s.OSS.baseURL()
	case ProviderBlob:
		return s.Blob.baseURL()
	}
	return ""
}

func (s S3Settings) baseURL() string {
	if s.Bucket == "" {
		return ""
	}
	// Custom endpoints (MinIO, localstack) are addressed path-style.
	if s.Endpoint != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.Endpoint, "/"), s.Bucket)
	}
	if s.Region == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.Bucket, s.Region)
}

func (s R2Settings) baseURL() string {
	domain := trimDomain(s.PublicDomain)
	if domain == "" {
		return ""
	}
	return "https://" + domain
}

func (s OSSSettings) baseURL() string {
	if s.Bucket == "" || s.Region == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.%s.aliyuncs.com", s.Bucket, s.Region)
}

func (s BlobSettings) baseURL() string {
	storeID := blobStoreID(s.Token)
	if storeID == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.public.blob.vercel-storage.com", storeID)
}

// joinURL appends key to base.
func joinURL(base, key string) string {
	return base + "/" + strings.TrimLeft(key, "/")
}

// urlHasBase reports whether rawURL lives under base.
// An empty base never matches.
func urlHasBase(base, rawURL string) bool {
	if base == "" || rawURL == "" {
		return false
	}
	return rawURL == base || strings.HasPrefix(rawURL, base+"/")
}

// keyFromURL strips base from rawURL and decodes the remaining path.
func keyFromURL(base, rawURL string) (string, bool) {
	if !urlHasBase(base, rawURL) {
		return "", false
	}
	rest := strings.TrimPrefix(rawURL, base)
	rest = strings.TrimPrefix(rest, "/")
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "", false
	}
	if decoded, err := url.PathUnescape(rest); err == nil {
		rest = decoded
	}
	return rest, true
}

// randomizedKey returns key with a random suffix inserted before its extension.
// "photos/a.jpg" becomes "photos/a-<id>.jpg".
func randomizedKey(key, suffix string) string {
	ext := path.Ext(key)
	return strings.TrimSuffix(key, ext) + "-" + suffix + ext
}

// FileNameFromURL returns the last path segment of a storage URL.
func FileNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return ""
	}
	return path.Base(u.Path)
}
