package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const (
	// SigningKeyBytes is the size of a generated HS256 signing key.
	// 64 bytes matches the SHA-256 block size.
	SigningKeyBytes = 64

	// MinSigningKeyBytes is the smallest key the session manager accepts.
	MinSigningKeyBytes = 32

	// fingerprintChars is the number of hex characters kept in a fingerprint.
	fingerprintChars = 16
)

// GenerateSigningKey returns SigningKeyBytes random bytes from crypto/rand.
func GenerateSigningKey() ([]byte, error) {
	return GenerateBytes(SigningKeyBytes)
}

// GenerateBytes returns n random bytes. n must be at least MinSigningKeyBytes.
func GenerateBytes(n int) ([]byte, error) {
	if n < MinSigningKeyBytes {
		return nil, fmt.Errorf("key length must be at least %d bytes", MinSigningKeyBytes)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}

// Fingerprint returns a short, stable identifier of raw under key.
func Fingerprint(raw string, key []byte) string {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))[:fingerprintChars]
}

// ValidateSigningKey checks a key read from storage.
func ValidateSigningKey(key []byte) error {
	if len(key) < MinSigningKeyBytes {
		return fmt.Errorf("signing key too short: got %d bytes, need at least %d", len(key), MinSigningKeyBytes)
	}
	return nil
}
