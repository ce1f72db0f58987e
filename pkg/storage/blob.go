package storage

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBlobAPIURL is the Vercel Blob API endpoint.
	DefaultBlobAPIURL = "https://blob.vercel-storage.com"

	blobAPIVersion = "7"
	blobListLimit  = 1000
)

// blobProvider implements Provider over the Vercel Blob HTTP API.
type blobProvider struct {
	token   string
	apiURL  string
	baseURL string
	opts    *providerOptions
}

// newVercelBlob builds the Blob provider. It performs no I/O.
func newVercelBlob(s BlobSettings, o *providerOptions) *blobProvider {
	api := strings.TrimRight(s.APIURL, "/")
	if api == "" {
		api = DefaultBlobAPIURL
	}
	return &blobProvider{
		token:   s.Token,
		apiURL:  api,
		baseURL: s.baseURL(),
		opts:    o,
	}
}

// blobStoreID extracts the store id from a read/write token
// of the form vercel_blob_rw_<store>_<secret>.
func blobStoreID(token string) string {
	parts := strings.Split(token, "_")
	if len(parts) < 5 || parts[0] != "vercel" || parts[1] != "blob" {
		return ""
	}
	return strings.ToLower(parts[3])
}

func (p *blobProvider) ID() ProviderID { return ProviderBlob }

func (p *blobProvider) BaseURL() string { return p.baseURL }

func (p *blobProvider) URLForKey(key string) string {
	return joinURL(p.baseURL, key)
}

func (p *blobProvider) IsURLFromProvider(rawURL string) bool {
	return urlHasBase(p.baseURL, rawURL)
}

// blobPutResult is the API response of put and copy.
type blobPutResult struct {
	URL         string `json:"url"`
	DownloadURL string `json:"downloadUrl"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType"`
}

func (p *blobProvider) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	q := url.Values{"pathname": {key}}
	req, err := p.newRequest(ctx, http.MethodPut, "/", q, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if size >= 0 {
		req.ContentLength = size
	}
	p.setWriteHeaders(req, contentType)

	var res blobPutResult
	if err := p.do(req, &res); err != nil {
		return "", wrapBlobError(err, ErrUploadFailed)
	}

	return p.resultURL(res, key), nil
}

func (p *blobProvider) Copy(ctx context.Context, src, dst string, randomSuffix bool) (string, error) {
	if randomSuffix {
		dst = randomizedKey(src, p.opts.newID())
	}

	q := url.Values{
		"pathname": {dst},
		"fromUrl":  {p.URLForKey(src)},
	}
	req, err := p.newRequest(ctx, http.MethodPut, "/", q, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCopyFailed, err)
	}
	p.setWriteHeaders(req, "")

	var res blobPutResult
	if err := p.do(req, &res); err != nil {
		return "", wrapBlobError(err, ErrCopyFailed)
	}

	return p.resultURL(res, dst), nil
}

// blobListResult is one page of the list API.
type blobListResult struct {
	Blobs []struct {
		URL        string    `json:"url"`
		Pathname   string    `json:"pathname"`
		Size       int64     `json:"size"`
		UploadedAt time.Time `json:"uploadedAt"`
	} `json:"blobs"`
	Cursor  string `json:"cursor"`
	HasMore bool   `json:"hasMore"`
}

func (p *blobProvider) List(ctx context.Context, prefix string) ([]Object, error) {
	objects := make([]Object, 0)
	cursor := ""

	for {
		q := url.Values{"limit": {fmt.Sprint(blobListLimit)}}
		if prefix != "" {
			q.Set("prefix", prefix)
		}
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		req, err := p.newRequest(ctx, http.MethodGet, "/", q, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrListFailed, err)
		}

		var page blobListResult
		if err := p.do(req, &page); err != nil {
			return nil, wrapBlobError(err, ErrListFailed)
		}

		for _, b := range page.Blobs {
			obj := newObject(p, b.Pathname, b.Size, b.UploadedAt)
			if b.URL != "" {
				obj.URL = b.URL
			}
			objects = append(objects, obj)
		}

		if !page.HasMore || page.Cursor == "" {
			return objects, nil
		}
		cursor = page.Cursor
	}
}

func (p *blobProvider) Delete(ctx context.Context, key string) error {
	payload, err := json.Marshal(map[string][]string{"urls": {p.URLForKey(key)}})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}

	req, err := p.newRequest(ctx, http.MethodPost, "/delete", nil, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := p.do(req, nil); err != nil {
		err = wrapBlobError(err, ErrDeleteFailed)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	return nil
}

func (p *blobProvider) PutCommand(key string) PutCommand {
	return PutCommand{
		Provider: ProviderBlob,
		Key:      key,
		ACL:      ACLPublicRead,
	}
}

// blobClientTokenPayload is the claim set of a client upload token.
type blobClientTokenPayload struct {
	Pathname        string   `json:"pathname"`
	ValidUntil      int64    `json:"validUntil"`
	AddRandomSuffix bool     `json:"addRandomSuffix"`
	AllowOverwrite  bool     `json:"allowOverwrite"`
	ContentTypes    []string `json:"allowedContentTypes,omitempty"`
}

// Presign derives a client upload token from the read/write token.
// The token is an HMAC over the claims, so no request is sent. The
// returned URL targets the upload API and carries the token in its query;
// uploaders pass it as a bearer token.
func (p *blobProvider) Presign(_ context.Context, cmd PutCommand, ttl time.Duration) (SignedURL, error) {
	expiresAt := p.opts.now().Add(ttl)

	claims := blobClientTokenPayload{
		Pathname:       cmd.Key,
		ValidUntil:     expiresAt.UnixMilli(),
		AllowOverwrite: true,
	}
	if cmd.ContentType != "" {
		claims.ContentTypes = []string{cmd.ContentType}
	}

	raw, err := json.Marshal(claims)
	if err != nil {
		return SignedURL{}, fmt.Errorf("%w: %v", ErrPresignFailed, err)
	}
	payload := base64.StdEncoding.EncodeToString(raw)

	mac := hmac.New(sha256.New, []byte(p.token))
	mac.Write([]byte(payload))
	signature := hex.EncodeToString(mac.Sum(nil))

	token := fmt.Sprintf("vercel_blob_client_%s_%s",
		blobStoreID(p.token),
		base64.StdEncoding.EncodeToString([]byte(signature+"."+payload)),
	)

	q := url.Values{
		"pathname": {cmd.Key},
		"token":    {token},
	}

	return SignedURL{
		URL:       p.apiURL + "/?" + q.Encode(),
		ExpiresAt: expiresAt,
	}, nil
}

func (p *blobProvider) newRequest(ctx context.Context, method, path string, q url.Values, body io.Reader) (*http.Request, error) {
	target := p.apiURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("x-api-version", blobAPIVersion)
	return req, nil
}

func (p *blobProvider) setWriteHeaders(req *http.Request, contentType string) {
	req.Header.Set("x-add-random-suffix", "0")
	req.Header.Set("x-allow-overwrite", "1")
	if contentType != "" {
		req.Header.Set("x-content-type", contentType)
	}
}

// do sends req and decodes a JSON response into out when out is non-nil.
func (p *blobProvider) do(req *http.Request, out any) error {
	resp, err := p.opts.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeBlobError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeBlobError(resp *http.Response) error {
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	be := &blobError{Status: resp.StatusCode}
	if json.Unmarshal(data, &body) == nil && body.Error.Code != "" {
		be.Code = body.Error.Code
		be.Message = body.Error.Message
	} else {
		be.Message = strings.TrimSpace(string(data))
	}
	return be
}

func (p *blobProvider) resultURL(res blobPutResult, key string) string {
	if res.URL != "" {
		return res.URL
	}
	return p.URLForKey(key)
}

var _ Provider = (*blobProvider)(nil)
