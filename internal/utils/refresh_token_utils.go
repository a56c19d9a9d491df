package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashRefreshToken returns the hex SHA256 digest of a refresh token. Only
// the digest is persisted; the raw token lives in the client cookie.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// CompareRefreshTokenHash reports whether the raw token matches the stored
// digest.
func CompareRefreshTokenHash(token string, storedHash string) bool {
	return HashRefreshToken(token) == storedHash
}
