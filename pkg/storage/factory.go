package storage

import "fmt"

// Factory builds a Provider for id from settings.
type Factory func(id ProviderID, s Settings, opts ...ProviderOption) (Provider, error)

// NewProvider is the default Factory. It never performs I/O, so it is cheap
// enough to call for every operation.
func NewProvider(id ProviderID, s Settings, opts ...ProviderOption) (Provider, error) {
	o := defaultProviderOptions()
	for _, opt := range opts {
		opt(o)
	}

	switch id {
	case ProviderS3:
		return newAWSS3(s.S3, o), nil
	case ProviderR2:
		return newCloudflareR2(s.R2, o), nil
	case ProviderOSS:
		return newAliyunOSS(s.OSS, o)
	case ProviderBlob:
		return newVercelBlob(s.Blob, o), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, string(id))
}
