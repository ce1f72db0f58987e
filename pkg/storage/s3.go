package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3Config holds the inputs of an S3-compatible provider.
type s3Config struct {
	ID        ProviderID
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
	PathStyle bool
	BaseURL   string
	ACL       ACL
}

// s3Provider implements Provider on the S3 API. AWS S3 and Cloudflare R2 use it.
type s3Provider struct {
	client    *s3.Client
	presigner *s3.PresignClient
	cfg       s3Config
	opts      *providerOptions
}

// newS3Provider builds the client handle. It performs no I/O.
func newS3Provider(cfg s3Config, o *providerOptions) *s3Provider {
	opts := []func(*s3.Options){
		func(so *s3.Options) {
			so.Region = cfg.Region
			so.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
			so.HTTPClient = o.httpClient
			// Single attempt; retry policy belongs to the caller.
			so.Retryer = aws.NopRetryer{}
		},
	}

	if cfg.Endpoint != "" {
		opts = append(opts, func(so *s3.Options) {
			so.BaseEndpoint = aws.String(cfg.Endpoint)
			so.UsePathStyle = cfg.PathStyle
		})
	}

	client := s3.New(s3.Options{}, opts...)

	return &s3Provider{
		client:    client,
		presigner: s3.NewPresignClient(client),
		cfg:       cfg,
		opts:      o,
	}
}

// newAWSS3 builds the AWS S3 provider.
func newAWSS3(s S3Settings, o *providerOptions) *s3Provider {
	return newS3Provider(s3Config{
		ID:        ProviderS3,
		Bucket:    s.Bucket,
		Region:    s.Region,
		AccessKey: s.AccessKey,
		SecretKey: s.SecretKey,
		Endpoint:  s.Endpoint,
		PathStyle: s.Endpoint != "",
		BaseURL:   s.baseURL(),
		ACL:       ACLPublicRead,
	}, o)
}

// r2Region is the signing region Cloudflare R2 expects.
const r2Region = "auto"

// newCloudflareR2 builds the Cloudflare R2 provider.
// R2 has no canned ACLs; public access is granted per bucket through the public domain.
func newCloudflareR2(s R2Settings, o *providerOptions) *s3Provider {
	endpoint := s.Endpoint
	if endpoint == "" && s.AccountID != "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", s.AccountID)
	}
	return newS3Provider(s3Config{
		ID:        ProviderR2,
		Bucket:    s.Bucket,
		Region:    r2Region,
		AccessKey: s.AccessKey,
		SecretKey: s.SecretKey,
		Endpoint:  endpoint,
		PathStyle: true,
		BaseURL:   s.baseURL(),
		ACL:       ACLNone,
	}, o)
}

func (p *s3Provider) ID() ProviderID { return p.cfg.ID }

func (p *s3Provider) BaseURL() string { return p.cfg.BaseURL }

func (p *s3Provider) URLForKey(key string) string {
	return joinURL(p.cfg.BaseURL, key)
}

func (p *s3Provider) IsURLFromProvider(rawURL string) bool {
	return urlHasBase(p.cfg.BaseURL, rawURL)
}

func (p *s3Provider) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	// Plain HTTP endpoints cannot stream unseekable bodies with checksums.
	rs, ok := body.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("%w: read body: %v", ErrUploadFailed, err)
		}
		rs = bytes.NewReader(data)
		size = int64(len(data))
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
		Body:   rs,
		ACL:    p.cannedACL(),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := p.client.PutObject(ctx, input); err != nil {
		return "", wrapS3Error(err, ErrUploadFailed)
	}

	return p.URLForKey(key), nil
}

func (p *s3Provider) Copy(ctx context.Context, src, dst string, randomSuffix bool) (string, error) {
	if randomSuffix {
		dst = randomizedKey(src, p.opts.newID())
	}

	input := &s3.CopyObjectInput{
		Bucket:     aws.String(p.cfg.Bucket),
		Key:        aws.String(dst),
		CopySource: aws.String(copySource(p.cfg.Bucket, src)),
		ACL:        p.cannedACL(),
	}

	if _, err := p.client.CopyObject(ctx, input); err != nil {
		return "", wrapS3Error(err, ErrCopyFailed)
	}

	return p.URLForKey(dst), nil
}

func (p *s3Provider) List(ctx context.Context, prefix string) ([]Object, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(p.cfg.Bucket),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	objects := make([]Object, 0)
	pages := s3.NewListObjectsV2Paginator(p.client, input)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, wrapS3Error(err, ErrListFailed)
		}
		for _, obj := range page.Contents {
			objects = append(objects, newObject(p,
				aws.ToString(obj.Key),
				aws.ToInt64(obj.Size),
				aws.ToTime(obj.LastModified),
			))
		}
	}

	return objects, nil
}

func (p *s3Provider) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
	}

	if _, err := p.client.DeleteObject(ctx, input); err != nil {
		err = wrapS3Error(err, ErrDeleteFailed)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	return nil
}

func (p *s3Provider) PutCommand(key string) PutCommand {
	return PutCommand{
		Provider: p.cfg.ID,
		Bucket:   p.cfg.Bucket,
		Key:      key,
		ACL:      p.cfg.ACL,
	}
}

func (p *s3Provider) Presign(ctx context.Context, cmd PutCommand, ttl time.Duration) (SignedURL, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(cmd.Bucket),
		Key:    aws.String(cmd.Key),
	}
	if cmd.ACL == ACLPublicRead {
		input.ACL = types.ObjectCannedACLPublicRead
	}
	if cmd.ContentType != "" {
		input.ContentType = aws.String(cmd.ContentType)
	}

	signedAt := p.opts.now()
	req, err := p.presigner.PresignPutObject(ctx, input, func(po *s3.PresignOptions) {
		po.Expires = ttl
	})
	if err != nil {
		return SignedURL{}, wrapS3Error(err, ErrPresignFailed)
	}

	return SignedURL{URL: req.URL, ExpiresAt: signedAt.Add(ttl)}, nil
}

func (p *s3Provider) cannedACL() types.ObjectCannedACL {
	if p.cfg.ACL == ACLPublicRead {
		return types.ObjectCannedACLPublicRead
	}
	return ""
}

// copySource formats the x-amz-copy-source value: bucket/key, URL-encoded.
func copySource(bucket, key string) string {
	return (&url.URL{Path: bucket + "/" + key}).EscapedPath()
}

var _ Provider = (*s3Provider)(nil)
