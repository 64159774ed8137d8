package file

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
)

// FingerprintLen is the length of a hex sha256 fingerprint.
const FingerprintLen = sha256.Size * 2

// Fingerprint returns the lowercase hex sha256 of data.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NewHasher returns the hash backing Fingerprint, for streaming writers.
func NewHasher() hash.Hash {
	return sha256.New()
}

// FingerprintReader streams r through the hasher and returns the fingerprint
// and the number of bytes read.
func FingerprintReader(r io.Reader) (string, int64, error) {
	h := NewHasher()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// IsFingerprint reports whether s is shaped like a fingerprint.
func IsFingerprint(s string) bool {
	if len(s) != FingerprintLen {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
