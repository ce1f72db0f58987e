package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ossACLHeader is the S3-compatible ACL header OSS accepts on writes.
const ossACLHeader = "x-amz-acl"

// ossProvider implements Provider for Aliyun OSS through its S3-compatible API.
type ossProvider struct {
	client  *minio.Client
	bucket  string
	baseURL string
	opts    *providerOptions
}

// newAliyunOSS builds the OSS provider. It performs no I/O.
func newAliyunOSS(s OSSSettings, o *providerOptions) (*ossProvider, error) {
	endpoint, secure := ossEndpoint(s)
	if endpoint == "" {
		return nil, fmt.Errorf("%w: aliyun oss region is empty", ErrNotConfigured)
	}

	mo := &minio.Options{
		Creds:      credentials.NewStaticV4(s.AccessKey, s.SecretKey, ""),
		Secure:     secure,
		Region:     s.Region,
		MaxRetries: 1,
	}
	if o.httpClient != nil && o.httpClient.Transport != nil {
		mo.Transport = o.httpClient.Transport
	}
	// OSS only serves virtual-hosted requests; custom endpoints keep auto detection.
	if s.Endpoint == "" {
		mo.BucketLookup = minio.BucketLookupDNS
	}

	client, err := minio.New(endpoint, mo)
	if err != nil {
		return nil, fmt.Errorf("storage: create oss client: %w", err)
	}

	return &ossProvider{
		client:  client,
		bucket:  s.Bucket,
		baseURL: s.baseURL(),
		opts:    o,
	}, nil
}

// ossEndpoint returns the host minio should dial and whether to use TLS.
func ossEndpoint(s OSSSettings) (string, bool) {
	if s.Endpoint != "" {
		switch {
		case strings.HasPrefix(s.Endpoint, "http://"):
			return strings.TrimRight(strings.TrimPrefix(s.Endpoint, "http://"), "/"), false
		default:
			return strings.TrimRight(strings.TrimPrefix(s.Endpoint, "https://"), "/"), true
		}
	}
	if s.Region == "" {
		return "", true
	}
	return s.Region + ".aliyuncs.com", true
}

func (p *ossProvider) ID() ProviderID { return ProviderOSS }

func (p *ossProvider) BaseURL() string { return p.baseURL }

func (p *ossProvider) URLForKey(key string) string {
	return joinURL(p.baseURL, key)
}

func (p *ossProvider) IsURLFromProvider(rawURL string) bool {
	return urlHasBase(p.baseURL, rawURL)
}

func (p *ossProvider) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	opts := minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{ossACLHeader: string(ACLPublicRead)},
	}
	if size < 0 {
		size = -1
	}

	if _, err := p.client.PutObject(ctx, p.bucket, key, body, size, opts); err != nil {
		return "", wrapMinioError(err, ErrUploadFailed)
	}

	return p.URLForKey(key), nil
}

// Copy duplicates src as a public-read object. Metadata is replaced so the
// ACL header is sent; the content type is re-derived from the source key.
func (p *ossProvider) Copy(ctx context.Context, src, dst string, randomSuffix bool) (string, error) {
	if randomSuffix {
		dst = randomizedKey(src, p.opts.newID())
	}

	meta := map[string]string{ossACLHeader: string(ACLPublicRead)}
	if ct := ContentTypeForKey(src); ct != "" {
		meta["Content-Type"] = ct
	}

	_, err := p.client.CopyObject(ctx,
		minio.CopyDestOptions{
			Bucket:          p.bucket,
			Object:          dst,
			ReplaceMetadata: true,
			UserMetadata:    meta,
		},
		minio.CopySrcOptions{Bucket: p.bucket, Object: src},
	)
	if err != nil {
		return "", wrapMinioError(err, ErrCopyFailed)
	}

	return p.URLForKey(dst), nil
}

func (p *ossProvider) List(ctx context.Context, prefix string) ([]Object, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := make([]Object, 0)
	for info := range p.client.ListObjects(ctx, p.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, wrapMinioError(info.Err, ErrListFailed)
		}
		objects = append(objects, newObject(p, info.Key, info.Size, info.LastModified))
	}

	return objects, nil
}

func (p *ossProvider) Delete(ctx context.Context, key string) error {
	if err := p.client.RemoveObject(ctx, p.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		err = wrapMinioError(err, ErrDeleteFailed)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

func (p *ossProvider) PutCommand(key string) PutCommand {
	return PutCommand{
		Provider: ProviderOSS,
		Bucket:   p.bucket,
		Key:      key,
		ACL:      ACLPublicRead,
	}
}

// Presign signs a PUT request. The ACL header is part of the signature,
// so uploaders must send it unchanged.
func (p *ossProvider) Presign(ctx context.Context, cmd PutCommand, ttl time.Duration) (SignedURL, error) {
	headers := http.Header{}
	if cmd.ACL != ACLNone {
		headers.Set(ossACLHeader, string(cmd.ACL))
	}
	if cmd.ContentType != "" {
		headers.Set("Content-Type", cmd.ContentType)
	}

	signedAt := p.opts.now()
	u, err := p.client.PresignHeader(ctx, http.MethodPut, cmd.Bucket, cmd.Key, ttl, nil, headers)
	if err != nil {
		return SignedURL{}, wrapMinioError(err, ErrPresignFailed)
	}

	return SignedURL{URL: u.String(), ExpiresAt: signedAt.Add(ttl)}, nil
}

var _ Provider = (*ossProvider)(nil)
