package main

import (
	"context"
	"fmt"

	"github.com/a-s-gorski/spotify-recommender-cli/internal/shared"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/spotify"
	"github.com/urfave/cli/v3"
)

// AccountLogin signs in against the backend and persists the token pair.
func (r *Runner) AccountLogin(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	password := cmd.String("password")

	ok, err := r.session.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: username or password rejected", shared.ErrUnauthorized)
	}

	r.writePlain("✓ Signed in as %s\n", username)
	return nil
}

// AccountRegister creates a new backend account.
func (r *Runner) AccountRegister(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	email := cmd.String("email")
	password := cmd.String("password")

	ok, err := r.session.Register(ctx, username, email, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: registration rejected", shared.ErrServerRejected)
	}

	r.writePlain("✓ Account created for %s\n", username)
	r.writePlain("You can now sign in: sprecs account login -u %s -p <password>\n", username)
	return nil
}

// AccountLogout clears the token pair unconditionally.
func (r *Runner) AccountLogout(ctx context.Context, cmd *cli.Command) error {
	r.session.Logout(ctx)
	r.writePlain("✓ Signed out\n")
	return nil
}

// AccountStatus reports authentication state for both services.
func (r *Runner) AccountStatus(ctx context.Context, cmd *cli.Command) error {
	r.writePlainHeader("Authentication Status")

	if r.session.Authenticated() {
		r.writePlain("Backend:  signed in\n")
	} else {
		r.writePlain("Backend:  signed out\n")
	}

	if r.spotifySession.Status() == spotify.StatusAuthenticated {
		r.writePlain("Spotify:  authorized\n")
	} else {
		r.writePlain("Spotify:  not authorized\n")
	}

	return nil
}
