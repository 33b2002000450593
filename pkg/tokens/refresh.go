package tokens

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"time"
)

const (
	DefaultRefreshTTL = 7 * 24 * time.Hour
	refreshTokenBytes = 192
)

// IssueRefreshToken returns 192 random bytes, base64 encoded, and the expiry of the token.
func (e *Engine) IssueRefreshToken() (string, time.Time, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, err
	}
	return base64.StdEncoding.EncodeToString(buf), e.now().Add(e.refreshTTL), nil
}

// Digest is what gets persisted in place of a refresh token.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
