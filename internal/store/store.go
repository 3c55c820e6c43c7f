// package store implements durable key/value persistence for credentials.
//
// Sessions read their tokens from a [Store] on startup and write back after
// every token mutation. The store holds only opaque strings; interpretation
// of each key belongs to the owning session.
package store

import (
	"context"
	"fmt"
)

// Well-known credential keys.
const (
	KeyAccessToken        = "access_token"
	KeyRefreshToken       = "refresh_token"
	KeySpotifyAccessToken = "spotify_access_token"
	KeySpotifyVerifier    = "spotify_verifier"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = fmt.Errorf("credential not found")

// Store reads and writes named credentials to persistent storage.
type Store interface {
	// Get returns the stored value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set persists the value for key, replacing any existing value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the value for key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
