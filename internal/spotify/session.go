// package spotify implements the provider-side session and Web API client.
//
// Authorization uses the authorization-code flow with PKCE: the session
// generates a verifier, sends the derived challenge with the authorization
// request, and proves possession of the verifier during the code exchange.
// No client secret is involved.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/a-s-gorski/spotify-recommender-cli/internal/shared"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/store"
	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
)

// Scopes requested during authorization.
var scopes = []string{
	"user-read-email",
	"user-read-private",
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-recently-played",
	"playlist-modify-private",
	"playlist-modify-public",
}

var spotifyEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.spotify.com/authorize",
	TokenURL: "https://accounts.spotify.com/api/token",
}

// State is the lifecycle phase of a [Session].
//
// A session starts Uninitialized, passes through Initializing exactly once
// while persisted credentials are restored, and then stays Ready.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Status reports whether a ready session holds a provider token.
type Status int

const (
	StatusUnauthenticated Status = iota
	StatusAuthenticated
)

func (s Status) String() string {
	if s == StatusAuthenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Session manages the Spotify access token and the PKCE authorization flow.
type Session struct {
	oauth  *oauth2.Config
	store  store.Store
	logger *log.Logger

	mu    sync.Mutex
	state State
	token string
}

// NewSession creates an uninitialized Session for the given application.
func NewSession(clientID, redirectURI string, credStore store.Store, logger *log.Logger) *Session {
	if credStore == nil {
		credStore = store.NewMemoryStore()
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Session{
		oauth: &oauth2.Config{
			ClientID:    clientID,
			RedirectURL: redirectURI,
			Scopes:      scopes,
			Endpoint:    spotifyEndpoint,
		},
		store:  credStore,
		logger: logger,
	}
}

// Init restores any persisted provider token and marks the session ready.
//
// Init may be called exactly once; later calls, including calls racing the
// first, fail with [shared.ErrAlreadyInitialized].
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateUninitialized {
		s.mu.Unlock()
		return shared.ErrAlreadyInitialized
	}
	s.state = StateInitializing
	s.mu.Unlock()

	token, err := s.store.Get(ctx, store.KeySpotifyAccessToken)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		// Still transition to ready; an unreadable token means unauthenticated,
		// not an unusable session.
		s.logger.Warn("failed to restore provider token", "error", err)
	}

	s.mu.Lock()
	s.token = token
	s.state = StateReady
	s.mu.Unlock()

	return nil
}

// State returns the lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status reports whether a provider token is held.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" {
		return StatusAuthenticated
	}
	return StatusUnauthenticated
}

// Token returns the held provider access token, or "" when unauthenticated.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// BeginAuthorization starts a PKCE flow.
//
// A fresh verifier is generated and persisted so that a later [Session.Exchange]
// can prove possession, and the full authorization URL, carrying the S256
// challenge and the caller's state value, is returned for the browser.
func (s *Session) BeginAuthorization(ctx context.Context, state string) (string, error) {
	verifier, err := GenerateVerifier()
	if err != nil {
		return "", err
	}

	if err := s.store.Set(ctx, store.KeySpotifyVerifier, verifier); err != nil {
		return "", fmt.Errorf("failed to persist verifier: %w", err)
	}

	url := s.oauth.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		oauth2.SetAuthURLParam("code_challenge", ChallengeS256(verifier)),
	)

	return url, nil
}

// Exchange redeems an authorization code for an access token.
//
// The persisted verifier is consumed whether or not the exchange succeeds,
// so a failed exchange requires a full new authorization round. On success
// the token is held and persisted, and also returned for immediate use.
func (s *Session) Exchange(ctx context.Context, code string) (string, error) {
	verifier, err := s.store.Get(ctx, store.KeySpotifyVerifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", shared.ErrMissingVerifier
		}
		return "", fmt.Errorf("failed to load verifier: %w", err)
	}

	defer func() {
		if err := s.store.Delete(ctx, store.KeySpotifyVerifier); err != nil {
			s.logger.Warn("failed to clear verifier", "error", err)
		}
	}()

	token, err := s.oauth.Exchange(ctx, code,
		oauth2.SetAuthURLParam("code_verifier", verifier),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrTokenExchangeFailed, err)
	}

	if err := s.SetToken(ctx, token.AccessToken); err != nil {
		return "", err
	}

	s.logger.Info("provider authorization complete")
	return token.AccessToken, nil
}

// SetToken holds and persists an access token obtained out of band.
func (s *Session) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := s.store.Set(ctx, store.KeySpotifyAccessToken, token); err != nil {
		return fmt.Errorf("failed to persist provider token: %w", err)
	}

	return nil
}

// Invalidate discards the held token from memory and storage.
func (s *Session) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.store.Delete(ctx, store.KeySpotifyAccessToken); err != nil {
		s.logger.Warn("failed to clear provider token", "error", err)
	}
}
