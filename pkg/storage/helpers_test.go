package storage

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeS3Service(t *testing.T) (*fakeS3, *Service) {
	t.Helper()
	fake, srv := newFakeS3(t, "photos")
	svc := New(MapSource{
		KeyS3Bucket:    "photos",
		KeyS3Region:    "us-east-1",
		KeyS3AccessKey: "ak",
		KeyS3SecretKey: "sk",
		KeyS3Endpoint:  srv.URL,
	})
	return fake, svc
}

func TestPutBytes(t *testing.T) {
	t.Parallel()

	t.Run("generates key from content", func(t *testing.T) {
		t.Parallel()
		fake, svc := newFakeS3Service(t)

		png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
		u, err := PutBytes(context.Background(), svc, "", png)
		require.NoError(t, err)
		assert.Regexp(t, `/photos/upload-[0-9a-z]{16}\.png$`, u)

		_, key, ok := svc.KeyForURL(u)
		require.True(t, ok)
		assert.Equal(t, "image/png", fake.header(key).Get("Content-Type"))
	})

	t.Run("empty data", func(t *testing.T) {
		t.Parallel()
		_, svc := newFakeS3Service(t)
		_, err := PutBytes(context.Background(), svc, "a.jpg", nil)
		require.ErrorIs(t, err, ErrEmptyFile)
	})
}

func TestPutFile(t *testing.T) {
	t.Parallel()

	fake, svc := newFakeS3Service(t)
	name := filepath.Join(t.TempDir(), "cover.jpg")
	require.NoError(t, os.WriteFile(name, []byte("jpeg"), 0o600))

	_, err := PutFile(context.Background(), svc, name, "")
	require.NoError(t, err)

	data, ok := fake.object("cover.jpg")
	require.True(t, ok)
	assert.Equal(t, "jpeg", string(data))
	assert.Equal(t, "image/jpeg", fake.header("cover.jpg").Get("Content-Type"))
}

func TestPutFromURL(t *testing.T) {
	t.Parallel()

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/big.jpg":
			_, _ = w.Write(bytes.Repeat([]byte("x"), 64))
		case "/a.jpg":
			_, _ = w.Write([]byte("jpeg"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(origin.Close)

	t.Run("copies remote file", func(t *testing.T) {
		t.Parallel()
		fake, svc := newFakeS3Service(t)
		_, err := PutFromURL(context.Background(), svc, origin.URL+"/a.jpg", "", 0)
		require.NoError(t, err)
		_, ok := fake.object("a.jpg")
		assert.True(t, ok)
	})

	t.Run("too large", func(t *testing.T) {
		t.Parallel()
		_, svc := newFakeS3Service(t)
		_, err := PutFromURL(context.Background(), svc, origin.URL+"/big.jpg", "", 16)
		require.ErrorIs(t, err, ErrDownloadTooLarge)
	})

	t.Run("bad status", func(t *testing.T) {
		t.Parallel()
		_, svc := newFakeS3Service(t)
		_, err := PutFromURL(context.Background(), svc, origin.URL+"/missing.jpg", "", 0)
		require.ErrorIs(t, err, ErrDownloadFailed)
	})

	t.Run("invalid scheme", func(t *testing.T) {
		t.Parallel()
		_, svc := newFakeS3Service(t)
		_, err := PutFromURL(context.Background(), svc, "ftp://example.com/a.jpg", "", 0)
		require.ErrorIs(t, err, ErrInvalidURL)
	})
}

func TestContentTypeDetection(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "image/heic", ContentTypeForKey("IMG_0001.HEIC"))
	assert.Equal(t, "image/jpeg", ContentTypeForKey("a.jpeg"))
	assert.Empty(t, ContentTypeForKey("noext"))
	assert.Equal(t, ".jpg", ExtFromMIME("image/jpeg; charset=binary"))
	assert.True(t, IsImage("IMAGE/PNG"))
	assert.False(t, IsImage("video/mp4"))

	ct, r := DetectContentType("", bytes.NewReader([]byte("%PDF-1.4 rest")))
	assert.Equal(t, "application/pdf", ct)
	rest := new(bytes.Buffer)
	_, err := rest.ReadFrom(r)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 rest", rest.String())
}
