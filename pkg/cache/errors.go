package cache

import "errors"

var (
	// ErrNotFound is returned for missing and expired keys.
	ErrNotFound = errors.New("cache: entry not found")

	// ErrClosed is returned by writes after Close.
	ErrClosed = errors.New("cache: closed")
)
