package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/a-s-gorski/spotify-recommender-cli/internal/server"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/shared"
	"github.com/urfave/cli/v3"
)

// SpotifyAuth performs the OAuth2 + PKCE authorization flow for Spotify.
//
// Starts a local HTTP server, opens the browser for user authorization, and
// exchanges the captured code for an access token.
func (r *Runner) SpotifyAuth(ctx context.Context, cmd *cli.Command) error {
	if r.config.Spotify.ClientID == "" {
		return fmt.Errorf("%w: Spotify client_id must be set in config.toml", shared.ErrInvalidArgument)
	}

	code, err := r.doAuthorization(ctx)
	if err != nil {
		return err
	}

	if _, err := r.spotifySession.Exchange(ctx, code); err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	r.writePlainln("✓ Spotify authorization successful")
	r.writePlain("You can now use: sprecs spotify history\n")

	return nil
}

// SpotifyProfile prints the authorized user's profile.
func (r *Runner) SpotifyProfile(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	profile, err := r.spotify.Profile(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(profile, pretty)
	}

	r.writePlainHeader("Spotify Profile")
	r.writePlain("Name:  %s\n", profile.DisplayName)
	r.writePlain("ID:    %s\n", profile.ID)
	if profile.Email != "" {
		r.writePlain("Email: %s\n", profile.Email)
	}

	return nil
}

// SpotifyHistory lists the user's recently played tracks.
func (r *Runner) SpotifyHistory(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	r.logger.Infof("listing recently played tracks with limit %v", limit)

	tracks, err := r.spotify.RecentlyPlayed(ctx, limit)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	r.writePlain("Found %d unique tracks:\n\n", len(tracks))
	for i, track := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, track.ArtistName, track.Name)
		if track.AlbumName != "" {
			r.writePlain("   Album: %s\n", track.AlbumName)
		}
	}

	return nil
}

// SpotifyLogout discards the stored Spotify token.
func (r *Runner) SpotifyLogout(ctx context.Context, cmd *cli.Command) error {
	r.spotifySession.Invalidate(ctx)
	r.writePlain("✓ Spotify token discarded\n")
	return nil
}

// doAuthorization runs the browser round-trip and returns the authorization code.
func (r *Runner) doAuthorization(ctx context.Context) (string, error) {
	state := shared.GenerateState()

	authURL, err := r.spotifySession.BeginAuthorization(ctx, state)
	if err != nil {
		return "", fmt.Errorf("failed to start authorization: %w", err)
	}

	callbackHandler := server.NewCallbackHandler(state)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(callbackHandler)

	serverAddr := r.config.CallbackAddr()
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting authorization callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.CallbackResult

	select {
	case result = <-callbackHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return "", fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return "", fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return "", fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Code == "" {
		return "", fmt.Errorf("no authorization code received")
	}

	return result.Code, nil
}
