package spotify

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

const (
	verifierLength  = 128
	verifierCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateVerifier returns a fresh 128-character alphanumeric PKCE verifier.
func GenerateVerifier() (string, error) {
	buf := make([]byte, verifierLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate verifier: %w", err)
	}

	out := make([]byte, verifierLength)
	for i, b := range buf {
		out[i] = verifierCharset[int(b)%len(verifierCharset)]
	}

	return string(out), nil
}

// ChallengeS256 derives the S256 code challenge for a verifier: the
// unpadded base64url encoding of its SHA-256 digest.
func ChallengeS256(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
