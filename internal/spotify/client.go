package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-s-gorski/spotify-recommender-cli/internal/models"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const defaultAPIBase = "https://api.spotify.com"

// tracksPerRequest is the Web API ceiling for the batch track endpoint.
const tracksPerRequest = 50

type apiImage struct {
	URL string `json:"url"`
}

type apiArtist struct {
	Name string `json:"name"`
}

type apiAlbum struct {
	Name   string     `json:"name"`
	Images []apiImage `json:"images"`
}

type apiTrack struct {
	URI     string      `json:"uri"`
	Name    string      `json:"name"`
	Artists []apiArtist `json:"artists"`
	Album   apiAlbum    `json:"album"`
}

type profileResponse struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email"`
	Images      []apiImage `json:"images"`
}

type recentlyPlayedResponse struct {
	Items []struct {
		Track apiTrack `json:"track"`
	} `json:"items"`
}

type tracksResponse struct {
	Tracks []apiTrack `json:"tracks"`
}

type playlistResponse struct {
	ID string `json:"id"`
}

// Client calls the Spotify Web API with the token held by a [Session].
//
// A token the API rejects is invalidated on the session before the error is
// returned, so callers can route the user back through authorization.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewClient creates a Client backed by session's token.
func NewClient(session *Session, logger *log.Logger) *Client {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL:    defaultAPIBase,
		httpClient: http.DefaultClient,
		session:    session,
		limiter:    rate.NewLimiter(rate.Limit(10), 5),
		logger:     logger,
	}
}

// Profile fetches the authorized user's profile.
func (c *Client) Profile(ctx context.Context) (models.Profile, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/v1/me", nil)
	if err != nil {
		return models.Profile{}, err
	}

	var resp profileResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return models.Profile{}, fmt.Errorf("failed to decode profile: %w", err)
	}

	profile := models.Profile{
		ID:          resp.ID,
		DisplayName: resp.DisplayName,
		Email:       resp.Email,
	}
	if len(resp.Images) > 0 {
		profile.ImageURL = resp.Images[0].URL
	}

	return profile, nil
}

// RecentlyPlayed fetches the user's listening history, most recent first.
//
// The raw history repeats a track for every play; the result keeps only the
// first occurrence of each URI, preserving order.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) ([]models.Track, error) {
	path := "/v1/me/player/recently-played"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	data, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp recentlyPlayedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode listening history: %w", err)
	}

	seen := make(map[string]bool, len(resp.Items))
	tracks := make([]models.Track, 0, len(resp.Items))
	for _, item := range resp.Items {
		if seen[item.Track.URI] {
			continue
		}
		seen[item.Track.URI] = true
		tracks = append(tracks, trackFromAPI(item.Track))
	}

	return tracks, nil
}

// TrackMetadata resolves track URIs to display metadata.
//
// An empty input returns an empty result without touching the network.
// Requests are batched at the API's per-call limit.
func (c *Client) TrackMetadata(ctx context.Context, uris []string) ([]models.Track, error) {
	if len(uris) == 0 {
		return []models.Track{}, nil
	}

	tracks := make([]models.Track, 0, len(uris))
	for start := 0; start < len(uris); start += tracksPerRequest {
		end := start + tracksPerRequest
		if end > len(uris) {
			end = len(uris)
		}

		ids := make([]string, 0, end-start)
		for _, uri := range uris[start:end] {
			ids = append(ids, models.TrackID(uri))
		}

		path := "/v1/tracks?ids=" + url.QueryEscape(strings.Join(ids, ","))
		data, err := c.doRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}

		var resp tracksResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode track metadata: %w", err)
		}

		for _, track := range resp.Tracks {
			tracks = append(tracks, trackFromAPI(track))
		}
	}

	return tracks, nil
}

// CreatePlaylist creates a playlist for userID and fills it with uris.
//
// Creation and population are separate API calls. When the playlist is
// created but population fails, the playlist ID is returned together with
// [shared.ErrPartialFailure] so the caller can surface the empty playlist.
func (c *Client) CreatePlaylist(ctx context.Context, userID, name string, uris []string) (string, error) {
	payload := map[string]any{
		"name":   name,
		"public": false,
	}

	data, err := c.doRequest(ctx, http.MethodPost, "/v1/users/"+url.PathEscape(userID)+"/playlists", payload)
	if err != nil {
		return "", err
	}

	var playlist playlistResponse
	if err := json.Unmarshal(data, &playlist); err != nil {
		return "", fmt.Errorf("failed to decode playlist: %w", err)
	}

	if _, err := c.doRequest(ctx, http.MethodPost, "/v1/playlists/"+playlist.ID+"/tracks", map[string]any{"uris": uris}); err != nil {
		return playlist.ID, fmt.Errorf("%w: playlist %s created empty: %v", shared.ErrPartialFailure, playlist.ID, err)
	}

	c.logger.Info("created playlist", "id", playlist.ID, "tracks", len(uris))
	return playlist.ID, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	token := c.session.Token()
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Info("provider token rejected, clearing it")
		c.session.Invalidate(ctx)
		return nil, fmt.Errorf("%w: provider token rejected", shared.ErrUnauthorized)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s %s returned %d", shared.ErrAPIRequest, method, path, resp.StatusCode)
	}

	return data, nil
}

func trackFromAPI(track apiTrack) models.Track {
	out := models.Track{
		URI:       track.URI,
		Name:      track.Name,
		AlbumName: track.Album.Name,
	}

	names := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		names = append(names, artist.Name)
	}
	out.ArtistName = strings.Join(names, ", ")

	if len(track.Album.Images) > 0 {
		out.AlbumImage = track.Album.Images[0].URL
	}

	return out
}
