package spotify

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"
)

func TestGenerateVerifier(t *testing.T) {
	t.Run("returns 128 alphanumeric characters", func(t *testing.T) {
		verifier, err := GenerateVerifier()
		if err != nil {
			t.Fatalf("GenerateVerifier failed: %v", err)
		}

		if len(verifier) != 128 {
			t.Errorf("expected 128 characters, got %d", len(verifier))
		}
		for _, c := range verifier {
			if !strings.ContainsRune(verifierCharset, c) {
				t.Errorf("unexpected character %q in verifier", c)
			}
		}
	})

	t.Run("successive verifiers differ", func(t *testing.T) {
		a, err := GenerateVerifier()
		if err != nil {
			t.Fatalf("GenerateVerifier failed: %v", err)
		}
		b, err := GenerateVerifier()
		if err != nil {
			t.Fatalf("GenerateVerifier failed: %v", err)
		}

		if a == b {
			t.Error("expected distinct verifiers")
		}
	})
}

func TestChallengeS256(t *testing.T) {
	verifier := "test-verifier"

	sum := sha256.Sum256([]byte(verifier))
	want := base64.RawURLEncoding.EncodeToString(sum[:])

	if got := ChallengeS256(verifier); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if strings.ContainsAny(ChallengeS256(verifier), "=+/") {
		t.Error("challenge must be unpadded base64url")
	}
}
