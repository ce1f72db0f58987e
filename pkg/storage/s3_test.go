package storage

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestS3(t *testing.T, endpoint string) *s3Provider {
	t.Helper()
	o := defaultProviderOptions()
	o.newID = func() string { return "fixedid" }
	return newAWSS3(S3Settings{
		Bucket:    "photos",
		Region:    "us-east-1",
		AccessKey: "AKIDEXAMPLE",
		SecretKey: "secret",
		Endpoint:  endpoint,
	}, o)
}

func TestAWSS3BaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		s    S3Settings
		want string
	}{
		{"virtual hosted", S3Settings{Bucket: "photos", Region: "eu-west-1"}, "https://photos.s3.eu-west-1.amazonaws.com"},
		{"custom endpoint", S3Settings{Bucket: "photos", Endpoint: "http://localhost:9000/"}, "http://localhost:9000/photos"},
		{"missing region", S3Settings{Bucket: "photos"}, ""},
		{"missing bucket", S3Settings{Region: "eu-west-1"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := newAWSS3(tt.s, defaultProviderOptions())
			assert.Equal(t, tt.want, p.BaseURL())
		})
	}
}

func TestCloudflareR2BaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		domain string
		want   string
	}{
		{"cdn.example.com", "https://cdn.example.com"},
		{"https://cdn.example.com/", "https://cdn.example.com"},
		{"http://cdn.example.com", "https://cdn.example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			t.Parallel()
			p := newCloudflareR2(R2Settings{Bucket: "b", AccountID: "acc", PublicDomain: tt.domain}, defaultProviderOptions())
			assert.Equal(t, tt.want, p.BaseURL())
		})
	}
}

func TestS3ProviderPut(t *testing.T) {
	t.Parallel()

	fake, srv := newFakeS3(t, "photos")
	p := newTestS3(t, srv.URL)

	u, err := p.Put(context.Background(), "photos/a.jpg", bytes.NewReader([]byte("jpeg-data")), 9, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/photos/photos/a.jpg", u)

	data, ok := fake.object("photos/a.jpg")
	require.True(t, ok)
	assert.Equal(t, "jpeg-data", string(data))
	assert.Equal(t, "public-read", fake.header("photos/a.jpg").Get("x-amz-acl"))
	assert.Equal(t, "image/jpeg", fake.header("photos/a.jpg").Get("Content-Type"))
}

func TestS3ProviderPutUnseekable(t *testing.T) {
	t.Parallel()

	fake, srv := newFakeS3(t, "photos")
	p := newTestS3(t, srv.URL)

	_, err := p.Put(context.Background(), "a.txt", io.LimitReader(strings.NewReader("hello"), 64), -1, "")
	require.NoError(t, err)

	data, ok := fake.object("a.txt")
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))
}

func TestS3ProviderCopy(t *testing.T) {
	t.Parallel()

	t.Run("literal destination", func(t *testing.T) {
		t.Parallel()
		fake, srv := newFakeS3(t, "photos")
		fake.seed("a.jpg", []byte("x"))
		p := newTestS3(t, srv.URL)

		u, err := p.Copy(context.Background(), "a.jpg", "b.jpg", false)
		require.NoError(t, err)
		assert.Equal(t, p.URLForKey("b.jpg"), u)

		_, ok := fake.object("b.jpg")
		assert.True(t, ok)
	})

	t.Run("random suffix keeps extension", func(t *testing.T) {
		t.Parallel()
		fake, srv := newFakeS3(t, "photos")
		fake.seed("dir/a.jpg", []byte("x"))
		p := newTestS3(t, srv.URL)

		u, err := p.Copy(context.Background(), "dir/a.jpg", "ignored.jpg", true)
		require.NoError(t, err)
		assert.Equal(t, p.URLForKey("dir/a-fixedid.jpg"), u)

		_, ok := fake.object("dir/a-fixedid.jpg")
		assert.True(t, ok)
		_, ok = fake.object("ignored.jpg")
		assert.False(t, ok)
	})

	t.Run("missing source", func(t *testing.T) {
		t.Parallel()
		_, srv := newFakeS3(t, "photos")
		p := newTestS3(t, srv.URL)

		_, err := p.Copy(context.Background(), "nope.jpg", "b.jpg", false)
		require.ErrorIs(t, err, ErrCopyFailed)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestS3ProviderList(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		_, srv := newFakeS3(t, "photos")
		p := newTestS3(t, srv.URL)

		objects, err := p.List(context.Background(), "nothing/")
		require.NoError(t, err)
		assert.NotNil(t, objects)
		assert.Empty(t, objects)
	})

	t.Run("prefix filter", func(t *testing.T) {
		t.Parallel()
		fake, srv := newFakeS3(t, "photos")
		fake.seed("photos/a.jpg", make([]byte, 1536*1024))
		fake.seed("photos/b.jpg", []byte("b"))
		fake.seed("other/c.jpg", []byte("c"))
		p := newTestS3(t, srv.URL)

		objects, err := p.List(context.Background(), "photos/")
		require.NoError(t, err)
		require.Len(t, objects, 2)

		assert.Equal(t, "photos/a.jpg", objects[0].Key)
		assert.Equal(t, p.URLForKey("photos/a.jpg"), objects[0].URL)
		assert.Equal(t, int64(1536*1024), objects[0].Size)
		assert.InDelta(t, 1.5, objects[0].SizeMB, 0.001)
		assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), objects[0].LastModified.UTC())
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()
		fake, srv := newFakeS3(t, "photos")
		fake.fail(403)
		p := newTestS3(t, srv.URL)

		_, err := p.List(context.Background(), "")
		require.ErrorIs(t, err, ErrListFailed)
		require.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestS3ProviderDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	fake, srv := newFakeS3(t, "photos")
	fake.seed("a.jpg", []byte("x"))
	p := newTestS3(t, srv.URL)

	require.NoError(t, p.Delete(context.Background(), "a.jpg"))
	require.NoError(t, p.Delete(context.Background(), "a.jpg"))

	_, ok := fake.object("a.jpg")
	assert.False(t, ok)
}

func TestS3ProviderPresign(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	o := defaultProviderOptions()
	o.now = func() time.Time { return now }
	p := newAWSS3(S3Settings{Bucket: "photos", Region: "us-east-1", AccessKey: "AKIDEXAMPLE", SecretKey: "secret"}, o)

	cmd := p.PutCommand("upload-abc.jpg")
	assert.Equal(t, PutCommand{Provider: ProviderS3, Bucket: "photos", Key: "upload-abc.jpg", ACL: ACLPublicRead}, cmd)

	signed, err := p.Presign(context.Background(), cmd, PresignExpiry)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), signed.ExpiresAt)

	u, err := url.Parse(signed.URL)
	require.NoError(t, err)
	assert.Equal(t, "photos.s3.us-east-1.amazonaws.com", u.Host)
	assert.Equal(t, "/upload-abc.jpg", u.Path)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestCloudflareR2(t *testing.T) {
	t.Parallel()

	fake, srv := newFakeS3(t, "gallery")
	p := newCloudflareR2(R2Settings{
		Bucket:       "gallery",
		AccountID:    "acc",
		PublicDomain: "cdn.example.com",
		AccessKey:    "ak",
		SecretKey:    "sk",
		Endpoint:     srv.URL,
	}, defaultProviderOptions())

	u, err := p.Put(context.Background(), "a.jpg", bytes.NewReader([]byte("x")), 1, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.jpg", u)
	assert.Empty(t, fake.header("a.jpg").Get("x-amz-acl"), "R2 rejects canned ACLs")

	cmd := p.PutCommand("a.jpg")
	assert.Equal(t, ACLNone, cmd.ACL)
	assert.Equal(t, ProviderR2, cmd.Provider)
}

func TestCloudflareR2DefaultEndpoint(t *testing.T) {
	t.Parallel()

	p := newCloudflareR2(R2Settings{Bucket: "gallery", AccountID: "acc123", PublicDomain: "cdn.example.com", AccessKey: "ak", SecretKey: "sk"}, defaultProviderOptions())

	signed, err := p.Presign(context.Background(), p.PutCommand("a.jpg"), time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(signed.URL)
	require.NoError(t, err)
	assert.Equal(t, "acc123.r2.cloudflarestorage.com", u.Host)
	assert.Equal(t, "/gallery/a.jpg", u.Path)
}

func TestCopySource(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "photos/dir/a.jpg", copySource("photos", "dir/a.jpg"))
	assert.Equal(t, "photos/my%20photo.jpg", copySource("photos", "my photo.jpg"))
}
