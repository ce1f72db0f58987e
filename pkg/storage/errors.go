package storage

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"
)

// Sentinel errors for storage operations.
var (
	// Configuration errors.
	ErrNotConfigured   = errors.New("storage: provider not configured")
	ErrUnknownProvider = errors.New("storage: unknown provider")

	// Input errors.
	ErrEmptyKey         = errors.New("storage: key is empty")
	ErrURLNotRecognized = errors.New("storage: url does not belong to any provider")

	// Remote errors.
	ErrNotFound      = errors.New("storage: object not found")
	ErrAccessDenied  = errors.New("storage: access denied")
	ErrUploadFailed  = errors.New("storage: upload failed")
	ErrCopyFailed    = errors.New("storage: copy failed")
	ErrListFailed    = errors.New("storage: list failed")
	ErrDeleteFailed  = errors.New("storage: delete failed")
	ErrPresignFailed = errors.New("storage: presign failed")

	// Upload helper errors.
	ErrEmptyFile        = errors.New("storage: file is empty")
	ErrInvalidURL       = errors.New("storage: invalid URL")
	ErrDownloadFailed   = errors.New("storage: failed to download from URL")
	ErrDownloadTooLarge = errors.New("storage: download exceeds size limit")
)

// IsTransport reports whether err is a failure talking to a provider.
func IsTransport(err error) bool {
	return errors.Is(err, ErrUploadFailed) ||
		errors.Is(err, ErrCopyFailed) ||
		errors.Is(err, ErrListFailed) ||
		errors.Is(err, ErrDeleteFailed) ||
		errors.Is(err, ErrPresignFailed)
}

// wrapS3Error wraps aws-sdk errors with the fallback sentinel and,
// when the error code is recognized, ErrNotFound or ErrAccessDenied.
// The original error is formatted with %v so callers match on sentinels only.
func wrapS3Error(err error, fallback error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %w: %v", fallback, ErrNotFound, err)
		case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return fmt.Errorf("%w: %w: %v", fallback, ErrAccessDenied, err)
		}
	}

	var notFound *types.NoSuchKey
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %w: %v", fallback, ErrNotFound, err)
	}

	return fmt.Errorf("%w: %v", fallback, err)
}

// wrapMinioError is wrapS3Error for minio-go responses.
func wrapMinioError(err error, fallback error) error {
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w: %v", fallback, ErrNotFound, err)
	case resp.Code == "AccessDenied" || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %w: %v", fallback, ErrAccessDenied, err)
	}
	return fmt.Errorf("%w: %v", fallback, err)
}

// blobError is an error response from the Vercel Blob API.
type blobError struct {
	Status  int
	Code    string
	Message string
}

func (e *blobError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("blob api: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("blob api: %d %s", e.Status, e.Message)
}

// wrapBlobError wraps Vercel Blob API errors.
func wrapBlobError(err error, fallback error) error {
	var be *blobError
	if errors.As(err, &be) {
		switch {
		case be.Status == http.StatusNotFound || be.Code == "not_found":
			return fmt.Errorf("%w: %w: %v", fallback, ErrNotFound, err)
		case be.Status == http.StatusForbidden || be.Status == http.StatusUnauthorized:
			return fmt.Errorf("%w: %w: %v", fallback, ErrAccessDenied, err)
		}
	}
	return fmt.Errorf("%w: %v", fallback, err)
}
