// package auth implements the session against the recommender backend.
//
// The backend issues short-lived access tokens paired with refresh tokens.
// A [Session] owns both, mirrors them into a [store.Store], and exposes an
// authorized-fetch operation that resolves expired access tokens with a
// single refresh-and-retry cycle.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/a-s-gorski/spotify-recommender-cli/internal/shared"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/store"
	"github.com/charmbracelet/log"
)

// attempt tracks which pass of the authorized-fetch cycle is executing.
// The two-value domain makes the at-most-one-retry guarantee structural.
type attempt int

const (
	firstAttempt attempt = iota
	retryAttempt
)

type signinResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// Session holds the credential pair for the recommender backend.
//
// Both tokens are absent when logged out. A non-empty access token is always
// issued together with, or refreshed against, the held refresh token; when a
// refresh is rejected both are cleared together.
type Session struct {
	baseURL    string
	httpClient *http.Client
	store      store.Store
	logger     *log.Logger

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// NewSession creates a Session for the backend at baseURL.
//
// No I/O is performed; call [Session.Load] to restore persisted tokens.
func NewSession(baseURL string, client *http.Client, credStore store.Store, logger *log.Logger) *Session {
	if client == nil {
		client = http.DefaultClient
	}
	if credStore == nil {
		credStore = store.NewMemoryStore()
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Session{
		baseURL:    baseURL,
		httpClient: client,
		store:      credStore,
		logger:     logger,
	}
}

// BaseURL returns the backend base URL this session targets.
func (s *Session) BaseURL() string {
	return s.baseURL
}

// Load restores the persisted credential pair, if any.
func (s *Session) Load(ctx context.Context) error {
	access, err := s.store.Get(ctx, store.KeyAccessToken)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to load access token: %w", err)
	}

	refresh, err := s.store.Get(ctx, store.KeyRefreshToken)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to load refresh token: %w", err)
	}

	s.mu.Lock()
	s.accessToken = access
	s.refreshToken = refresh
	s.mu.Unlock()

	return nil
}

// Authenticated reports whether an access token is currently held.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken != ""
}

// Login exchanges a username and password for a token pair.
//
// Returns false without error when the backend rejects the credentials; the
// error return is reserved for transport and persistence failures.
func (s *Session) Login(ctx context.Context, username, password string) (bool, error) {
	payload := map[string]string{"username": username, "password": password}

	resp, err := s.postJSON(ctx, "/signin", payload)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Debug("signin rejected", "status", resp.StatusCode)
		return false, nil
	}

	var tokens signinResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return false, fmt.Errorf("failed to decode signin response: %w", err)
	}

	if err := s.setTokens(ctx, tokens.AccessToken, tokens.RefreshToken); err != nil {
		return false, err
	}

	s.logger.Info("signed in", "username", username)
	return true, nil
}

// Register creates a new backend account.
//
// Success is determined solely by the response status; no tokens are issued.
func (s *Session) Register(ctx context.Context, username, email, password string) (bool, error) {
	payload := map[string]any{
		"username": username,
		"email":    email,
		"password": password,
		"role":     []string{"user"},
	}

	resp, err := s.postJSON(ctx, "/signup", payload)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

// Logout clears the credential pair from memory and storage unconditionally.
//
// Storage failures are logged, not returned: a logout never fails from the
// caller's point of view.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	s.mu.Unlock()

	for _, key := range []string{store.KeyAccessToken, store.KeyRefreshToken} {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to clear stored credential", "key", key, "error", err)
		}
	}
}

// AuthorizedFetch issues an authenticated request to the backend.
//
// Fails fast with [shared.ErrNotAuthenticated] when no access token is held.
// When the backend answers 401 on the first attempt, the refresh token is
// exchanged for a new access token and the request is reissued exactly once;
// if the refresh itself is rejected the session is logged out and the
// original unauthorized response is returned. Callers own the response body.
func (s *Session) AuthorizedFetch(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	token := s.currentAccessToken()
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	for att := firstAttempt; ; att = retryAttempt {
		resp, err := s.send(ctx, method, url, body, token)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusUnauthorized || att == retryAttempt {
			return resp, nil
		}

		refreshed, err := s.refresh(ctx)
		if err != nil {
			resp.Body.Close()
			return nil, err
		}
		if !refreshed {
			// Session is gone; hand the caller the original 401.
			return resp, nil
		}

		resp.Body.Close()
		token = s.currentAccessToken()
	}
}

// refresh exchanges the held refresh token for a new access token.
//
// Returns false when no refresh token is held or the backend rejects it; a
// rejected refresh token terminates the session. The error return is
// reserved for transport and persistence failures, which leave the session
// intact.
func (s *Session) refresh(ctx context.Context) (bool, error) {
	s.mu.Lock()
	refreshToken := s.refreshToken
	s.mu.Unlock()

	if refreshToken == "" {
		return false, nil
	}

	resp, err := s.postJSON(ctx, "/refresh", map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Info("refresh token rejected, ending session", "status", resp.StatusCode)
		s.Logout(ctx)
		return false, nil
	}

	var refreshed refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&refreshed); err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	s.mu.Lock()
	s.accessToken = refreshed.AccessToken
	s.mu.Unlock()

	if err := s.store.Set(ctx, store.KeyAccessToken, refreshed.AccessToken); err != nil {
		return false, fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	return true, nil
}

func (s *Session) currentAccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

func (s *Session) setTokens(ctx context.Context, access, refresh string) error {
	s.mu.Lock()
	s.accessToken = access
	s.refreshToken = refresh
	s.mu.Unlock()

	if err := s.store.Set(ctx, store.KeyAccessToken, access); err != nil {
		return fmt.Errorf("failed to persist access token: %w", err)
	}
	if err := s.store.Set(ctx, store.KeyRefreshToken, refresh); err != nil {
		return fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return nil
}

func (s *Session) send(ctx context.Context, method, url string, body []byte, token string) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, url, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

func (s *Session) postJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
