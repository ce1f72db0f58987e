package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// DefaultMaxDownloadSize caps PutFromURL downloads.
const DefaultMaxDownloadSize = 50 << 20

// PutBytes uploads data under key. An empty key gets a generated upload key.
func PutBytes(ctx context.Context, s *Service, key string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}

	contentType, body := DetectContentType(key, bytes.NewReader(data))
	if key == "" {
		key = UploadKey(ExtFromMIME(contentType))
	}
	return s.Put(ctx, key, body, int64(len(data)), contentType)
}

// PutFile uploads the file at name. An empty key uses the file's base name.
func PutFile(ctx context.Context, s *Service, name, key string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", fmt.Errorf("storage: open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("storage: stat file: %w", err)
	}
	if info.Size() == 0 {
		return "", ErrEmptyFile
	}

	if key == "" {
		key = filepath.Base(name)
	}
	contentType, body := DetectContentType(key, f)
	return s.Put(ctx, key, body, info.Size(), contentType)
}

// PutFromURL downloads sourceURL and uploads it under key.
// maxSize limits the download size; 0 uses DefaultMaxDownloadSize.
func PutFromURL(ctx context.Context, s *Service, sourceURL, key string, maxSize int64) (string, error) {
	parsed, err := url.Parse(sourceURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", ErrInvalidURL
	}
	if maxSize == 0 {
		maxSize = DefaultMaxDownloadSize
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrDownloadFailed, resp.StatusCode)
	}
	if resp.ContentLength > maxSize {
		return "", ErrDownloadTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	if int64(len(data)) > maxSize {
		return "", ErrDownloadTooLarge
	}

	if key == "" {
		key = FileNameFromURL(sourceURL)
	}
	return PutBytes(ctx, s, key, data)
}
