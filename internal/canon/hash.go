package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hash computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func Hash(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Key marshals v and hashes it under domain.
func Key(domain string, v Value) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("key %s: %w", domain, err)
	}
	return Hash(domain, data), nil
}
