package storage

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBlobToken = "vercel_blob_rw_AbCStore_secretpart"

// fakeBlob is a minimal Vercel Blob API.
type fakeBlob struct {
	mu      sync.Mutex
	base    string
	objects map[string][]byte
	types   map[string]string
	pageLen int
}

func newFakeBlob(t *testing.T) (*fakeBlob, *httptest.Server) {
	t.Helper()
	f := &fakeBlob{
		base:    "https://abcstore.public.blob.vercel-storage.com",
		objects: make(map[string][]byte),
		types:   make(map[string]string),
		pageLen: 2,
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeBlob) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer "+testBlobToken {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":"forbidden","message":"Access denied"}}`)
		return
	}

	q := r.URL.Query()
	switch {
	case r.Method == http.MethodPut && q.Get("fromUrl") != "":
		src := strings.TrimPrefix(q.Get("fromUrl"), f.base+"/")
		data, ok := f.objects[src]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":{"code":"not_found","message":"The requested blob does not exist"}}`)
			return
		}
		f.objects[q.Get("pathname")] = data
		f.writeResult(w, q.Get("pathname"))
	case r.Method == http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		f.objects[q.Get("pathname")] = data
		f.types[q.Get("pathname")] = r.Header.Get("x-content-type")
		f.writeResult(w, q.Get("pathname"))
	case r.Method == http.MethodGet:
		f.list(w, q.Get("prefix"), q.Get("cursor"))
	case r.Method == http.MethodPost && r.URL.Path == "/delete":
		var body struct {
			URLs []string `json:"urls"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		for _, u := range body.URLs {
			delete(f.objects, strings.TrimPrefix(u, f.base+"/"))
		}
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func (f *fakeBlob) writeResult(w http.ResponseWriter, pathname string) {
	_ = json.NewEncoder(w).Encode(map[string]string{
		"url":      f.base + "/" + pathname,
		"pathname": pathname,
	})
}

func (f *fakeBlob) list(w http.ResponseWriter, prefix, cursor string) {
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) && k > cursor {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	hasMore := len(keys) > f.pageLen
	if hasMore {
		keys = keys[:f.pageLen]
	}

	type entry struct {
		URL        string    `json:"url"`
		Pathname   string    `json:"pathname"`
		Size       int       `json:"size"`
		UploadedAt time.Time `json:"uploadedAt"`
	}
	res := struct {
		Blobs   []entry `json:"blobs"`
		Cursor  string  `json:"cursor,omitempty"`
		HasMore bool    `json:"hasMore"`
	}{Blobs: []entry{}, HasMore: hasMore}
	for _, k := range keys {
		res.Blobs = append(res.Blobs, entry{
			URL:        f.base + "/" + k,
			Pathname:   k,
			Size:       len(f.objects[k]),
			UploadedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		})
	}
	if hasMore {
		res.Cursor = keys[len(keys)-1]
	}
	_ = json.NewEncoder(w).Encode(res)
}

func newTestBlob(t *testing.T, api, token string) *blobProvider {
	t.Helper()
	o := defaultProviderOptions()
	o.newID = func() string { return "fixedid" }
	return newVercelBlob(BlobSettings{Token: token, APIURL: api}, o)
}

func TestBlobStoreID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token string
		want  string
	}{
		{testBlobToken, "abcstore"},
		{"vercel_blob_rw_store_with_underscores", "store"},
		{"", ""},
		{"not-a-token", ""},
		{"vercel_blob_rw_only", ""},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, blobStoreID(tt.token))
		})
	}
}

func TestBlobProviderOperations(t *testing.T) {
	t.Parallel()

	fake, srv := newFakeBlob(t)
	p := newTestBlob(t, srv.URL, testBlobToken)
	ctx := context.Background()

	assert.Equal(t, fake.base, p.BaseURL())

	u, err := p.Put(ctx, "photos/a.jpg", bytes.NewReader([]byte("jpeg")), 4, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, fake.base+"/photos/a.jpg", u)
	assert.Equal(t, "image/jpeg", fake.types["photos/a.jpg"])

	u, err = p.Copy(ctx, "photos/a.jpg", "", true)
	require.NoError(t, err)
	assert.Equal(t, fake.base+"/photos/a-fixedid.jpg", u)

	_, err = p.Put(ctx, "photos/c.jpg", bytes.NewReader([]byte("c")), 1, "")
	require.NoError(t, err)

	// three objects over a page size of two exercises cursor paging
	objects, err := p.List(ctx, "photos/")
	require.NoError(t, err)
	require.Len(t, objects, 3)
	assert.Equal(t, "photos/a-fixedid.jpg", objects[0].Key)
	assert.Equal(t, fake.base+"/photos/c.jpg", objects[2].URL)

	require.NoError(t, p.Delete(ctx, "photos/a.jpg"))
	require.NoError(t, p.Delete(ctx, "photos/a.jpg"))

	objects, err = p.List(ctx, "nothing/")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestBlobProviderErrors(t *testing.T) {
	t.Parallel()

	_, srv := newFakeBlob(t)

	t.Run("bad token", func(t *testing.T) {
		t.Parallel()
		p := newTestBlob(t, srv.URL, "vercel_blob_rw_other_secret")
		_, err := p.List(context.Background(), "")
		require.ErrorIs(t, err, ErrListFailed)
		require.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("copy missing source", func(t *testing.T) {
		t.Parallel()
		p := newTestBlob(t, srv.URL, testBlobToken)
		_, err := p.Copy(context.Background(), "missing.jpg", "b.jpg", false)
		require.ErrorIs(t, err, ErrCopyFailed)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBlobProviderPresign(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("signs with the read write token", func(t *testing.T) {
		t.Parallel()
		p := newTestBlob(t, "", testBlobToken)
		p.opts.now = func() time.Time { return now }

		signed, err := p.Presign(context.Background(), p.PutCommand("upload-abc.jpg"), PresignExpiry)
		require.NoError(t, err)
		assert.Equal(t, now.Add(time.Hour), signed.ExpiresAt)

		u, err := url.Parse(signed.URL)
		require.NoError(t, err)
		assert.Equal(t, "blob.vercel-storage.com", u.Host)
		assert.Equal(t, "upload-abc.jpg", u.Query().Get("pathname"))

		token := u.Query().Get("token")
		require.True(t, strings.HasPrefix(token, "vercel_blob_client_abcstore_"))

		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(token, "vercel_blob_client_abcstore_"))
		require.NoError(t, err)
		signature, payload, ok := strings.Cut(string(raw), ".")
		require.True(t, ok)

		mac := hmac.New(sha256.New, []byte(testBlobToken))
		mac.Write([]byte(payload))
		assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), signature)

		claimsJSON, err := base64.StdEncoding.DecodeString(payload)
		require.NoError(t, err)
		var claims blobClientTokenPayload
		require.NoError(t, json.Unmarshal(claimsJSON, &claims))
		assert.Equal(t, "upload-abc.jpg", claims.Pathname)
		assert.Equal(t, now.Add(time.Hour).UnixMilli(), claims.ValidUntil)
	})

	t.Run("works without a token", func(t *testing.T) {
		t.Parallel()
		p := newTestBlob(t, "", "")

		signed, err := p.Presign(context.Background(), p.PutCommand("a.jpg"), PresignExpiry)
		require.NoError(t, err)
		assert.NotEmpty(t, signed.URL)
	})
}
