package storage

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
)

// MIME type constants.
const (
	MIMEOctetStream    = "application/octet-stream"
	mimeDetectionBytes = 512 // http.DetectContentType reads at most 512 bytes
)

// photoExtensions maps photo MIME types to preferred extensions.
// http.DetectContentType misses HEIC and AVIF, so key extensions are consulted first.
var photoExtensions = map[string]string{
	"image/jpeg":       ".jpg",
	"image/png":        ".png",
	"image/gif":        ".gif",
	"image/webp":       ".webp",
	"image/svg+xml":    ".svg",
	"image/bmp":        ".bmp",
	"image/tiff":       ".tiff",
	"image/heic":       ".heic",
	"image/heif":       ".heif",
	"image/avif":       ".avif",
	"video/mp4":        ".mp4",
	"video/quicktime":  ".mov",
	"application/json": ".json",
}

// extensionTypes is the reverse of photoExtensions plus common aliases.
var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",
	".avif": "image/avif",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".json": "application/json",
}

// ExtFromMIME returns the preferred extension for a MIME type, or "".
func ExtFromMIME(mimeType string) string {
	return photoExtensions[normalizeMIME(mimeType)]
}

// ContentTypeForKey guesses a content type from the key extension.
func ContentTypeForKey(key string) string {
	ext := strings.ToLower(path.Ext(key))
	if ext == "" {
		return ""
	}
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return mime.TypeByExtension(ext)
}

// IsImage reports whether the MIME type is an image type.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(normalizeMIME(mimeType), "image/")
}

// DetectContentType returns the content type of the data in r, preferring
// the extension of key, and a reader positioned at the start of the data.
func DetectContentType(key string, r io.Reader) (string, io.Reader) {
	if t := ContentTypeForKey(key); t != "" {
		return t, r
	}

	if rs, ok := r.(io.ReadSeeker); ok {
		buf := make([]byte, mimeDetectionBytes)
		n, _ := io.ReadFull(rs, buf)
		if _, err := rs.Seek(0, io.SeekStart); err == nil {
			return sniff(buf[:n]), rs
		}
		return sniff(buf[:n]), io.MultiReader(bytes.NewReader(buf[:n]), rs)
	}

	buf := make([]byte, mimeDetectionBytes)
	n, _ := io.ReadFull(r, buf)
	return sniff(buf[:n]), io.MultiReader(bytes.NewReader(buf[:n]), r)
}

func sniff(head []byte) string {
	if len(head) == 0 {
		return MIMEOctetStream
	}
	return http.DetectContentType(head)
}

// normalizeMIME extracts the lowercase base MIME type, dropping parameters.
func normalizeMIME(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(mimeType))
}
