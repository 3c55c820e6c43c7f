package store

import (
	"context"
	"errors"
	"testing"

	"github.com/a-s-gorski/spotify-recommender-cli/internal/shared"
)

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get missing key returns ErrNotFound", func(t *testing.T) {
		_, err := s.Get(ctx, "absent")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Set then Get round-trips", func(t *testing.T) {
		if err := s.Set(ctx, KeyAccessToken, "token-1"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		value, err := s.Get(ctx, KeyAccessToken)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if value != "token-1" {
			t.Errorf("expected 'token-1', got %q", value)
		}
	})

	t.Run("Set replaces existing value", func(t *testing.T) {
		if err := s.Set(ctx, KeyAccessToken, "token-2"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		value, err := s.Get(ctx, KeyAccessToken)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if value != "token-2" {
			t.Errorf("expected 'token-2', got %q", value)
		}
	})

	t.Run("Delete removes value", func(t *testing.T) {
		if err := s.Set(ctx, KeySpotifyVerifier, "verifier"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		if err := s.Delete(ctx, KeySpotifyVerifier); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		if _, err := s.Get(ctx, KeySpotifyVerifier); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("Delete absent key is not an error", func(t *testing.T) {
		if err := s.Delete(ctx, "never-set"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	s, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	testStore(t, s)

	t.Run("schema creation is idempotent", func(t *testing.T) {
		if _, err := NewSQLiteStore(db); err != nil {
			t.Errorf("expected no error recreating store, got %v", err)
		}
	})
}
