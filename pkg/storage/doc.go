// Package storage provides one object storage contract over AWS S3,
// Cloudflare R2, Aliyun OSS and Vercel Blob.
//
// # Provider selection
//
// Resolve derives per-provider capabilities from a flat key/value Source:
// a provider is client-usable when its public identifiers are set and
// server-usable when its secrets are set as well. The active provider is the
// configured STORAGE_PREFERENCE when present, otherwise the first
// client-usable provider in the order R2, S3, OSS, Blob, with Blob as the
// fallback.
//
//	caps := storage.Resolve(storage.EnvSource{})
//	fmt.Println(caps.Active, caps.MultipleAvailable)
//
// # Operations
//
// Service re-resolves configuration on every call and dispatches to a
// freshly built Provider:
//
//	svc := storage.New(storage.EnvSource{}, storage.WithLogger(log))
//
//	url, err := svc.Put(ctx, "photos/a.jpg", f, size, "image/jpeg")
//	url, err = svc.Copy(ctx, "photos/a.jpg", "", true) // photos/a-<id>.jpg
//	objects, err := svc.List(ctx, "photos/")
//	err = svc.Delete(ctx, "photos/a.jpg")                // missing keys are fine
//
// Operations that need credentials fail with ErrNotConfigured when the active
// provider is not server-usable. Transport failures wrap ErrUploadFailed,
// ErrCopyFailed, ErrListFailed, ErrDeleteFailed or ErrPresignFailed and are
// never retried.
//
// # Presigned uploads
//
// Presign builds the active provider's PutCommand and signs it locally for
// PresignExpiry:
//
//	signed, err := svc.Presign(ctx, "upload-abc.jpg")
//
// # Stored URLs
//
// ProviderForURL, KeyForURL, DeleteURL and CopyURL try every provider, so
// objects written before the active provider changed stay addressable.
package storage
