package storage

import "strings"

// Settings holds every raw storage configuration value.
// It is a snapshot: load it again to observe configuration changes.
type Settings struct {
	Preference string
	R2         R2Settings
	S3         S3Settings
	OSS        OSSSettings
	Blob       BlobSettings
}

// R2Settings configures Cloudflare R2.
type R2Settings struct {
	Bucket       string
	AccountID    string
	PublicDomain string
	AccessKey    string
	SecretKey    string
	// Endpoint overrides the account-scoped API endpoint.
	Endpoint string
}

// S3Settings configures AWS S3.
type S3Settings struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	// Endpoint overrides the regional API endpoint and switches to path-style addressing.
	Endpoint string
}

// OSSSettings configures Aliyun OSS.
type OSSSettings struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	// Endpoint overrides the regional API endpoint.
	Endpoint string
}

// BlobSettings configures Vercel Blob.
type BlobSettings struct {
	Token  string
	APIURL string
}

// LoadSettings reads all storage keys from src.
func LoadSettings(src Source) Settings {
	return Settings{
		Preference: lookupPublic(src, KeyPreference),
		R2: R2Settings{
			Bucket:       lookupPublic(src, KeyR2Bucket),
			AccountID:    lookupPublic(src, KeyR2AccountID),
			PublicDomain: lookupPublic(src, KeyR2PublicDomain),
			AccessKey:    lookup(src, KeyR2AccessKey),
			SecretKey:    lookup(src, KeyR2SecretKey),
			Endpoint:     lookup(src, KeyR2Endpoint),
		},
		S3: S3Settings{
			Bucket:    lookupPublic(src, KeyS3Bucket),
			Region:    lookupPublic(src, KeyS3Region),
			AccessKey: lookup(src, KeyS3AccessKey),
			SecretKey: lookup(src, KeyS3SecretKey),
			Endpoint:  lookup(src, KeyS3Endpoint),
		},
		OSS: OSSSettings{
			Bucket:    lookupPublic(src, KeyOSSBucket),
			Region:    lookupPublic(src, KeyOSSRegion),
			AccessKey: lookup(src, KeyOSSAccessKey),
			SecretKey: lookup(src, KeyOSSSecretKey),
			Endpoint:  lookup(src, KeyOSSEndpoint),
		},
		Blob: BlobSettings{
			Token:  lookup(src, KeyBlobToken),
			APIURL: lookupPublic(src, KeyBlobAPIURL),
		},
	}
}

func (s R2Settings) clientUsable() bool {
	return s.Bucket != "" && s.AccountID != "" && s.PublicDomain != ""
}

func (s R2Settings) serverUsable() bool {
	return s.clientUsable() && s.AccessKey != "" && s.SecretKey != ""
}

func (s S3Settings) clientUsable() bool {
	return s.Bucket != "" && s.Region != ""
}

func (s S3Settings) serverUsable() bool {
	return s.clientUsable() && s.AccessKey != "" && s.SecretKey != ""
}

func (s OSSSettings) clientUsable() bool {
	return s.Bucket != "" && s.Region != ""
}

func (s OSSSettings) serverUsable() bool {
	return s.clientUsable() && s.AccessKey != "" && s.SecretKey != ""
}

// Blob needs a single credential; the public store id is derived from it.
func (s BlobSettings) clientUsable() bool {
	return s.Token != ""
}

func (s BlobSettings) serverUsable() bool {
	return s.clientUsable()
}

// trimDomain strips scheme and trailing slashes from a configured domain.
func trimDomain(domain string) string {
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimRight(domain, "/")
}
