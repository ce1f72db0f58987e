// Package id generates short random identifiers used to keep object keys unique.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// alphabet is lowercase so generated keys stay valid on case-insensitive stores.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// StorageIDLength is the length of identifiers returned by NewStorageID.
const StorageIDLength = 16

// maxByte is the largest multiple of len(alphabet) that fits in a byte.
// Bytes at or above it are rejected so every symbol is equally likely.
const maxByte = 256 - (256 % len(alphabet))

// NewStorageID returns a 16 character lowercase alphanumeric identifier.
// It carries about 82 bits of entropy.
func NewStorageID() string {
	return New(StorageIDLength)
}

// New returns a random lowercase alphanumeric identifier of length n.
func New(n int) string {
	if n <= 0 {
		return ""
	}

	out := make([]byte, 0, n)
	buf := make([]byte, n*2)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			// Degraded entropy, still unique enough for key suffixes.
			binary.BigEndian.PutUint64(buf, uint64(time.Now().UnixNano()))
		}
		for _, b := range buf {
			if int(b) >= maxByte {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}

	return string(out)
}
