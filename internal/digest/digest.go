// Package digest computes the one-way password digest the CLI sends in
// place of the clear-text password.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
)

// Password returns the lowercase hex SHA-256 digest of the clear-text password.
func Password(clear string) string {
	h := sha256.Sum256([]byte(clear))
	return hex.EncodeToString(h[:])
}

// IsPassword reports whether s has the shape of a Password result.
func IsPassword(s string) bool {
	if len(s) != hex.EncodedLen(sha256.Size) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
