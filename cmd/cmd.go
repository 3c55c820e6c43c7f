// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// accountCommand handles backend account operations
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "account",
		Aliases: []string{"acc"},
		Usage:   "Manage the recommender backend account",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with username and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AccountLogin,
			},
			{
				Name:  "register",
				Usage: "Create a new account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AccountRegister,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored token pair",
				Action: r.AccountLogout,
			},
			{
				Name:   "status",
				Usage:  "Show authentication state for both services",
				Action: r.AccountStatus,
			},
		},
	}
}

// spotifyCommand handles Spotify operations
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Spotify authorization and profile operations",
		Commands: []*cli.Command{
			{
				Name:   "auth",
				Usage:  "Authorize with Spotify using OAuth2 + PKCE",
				Action: r.SpotifyAuth,
			},
			{
				Name:  "profile",
				Usage: "Show the authorized Spotify profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SpotifyProfile,
			},
			{
				Name:  "history",
				Usage: "List recently played tracks",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of plays to request",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SpotifyHistory,
			},
			{
				Name:   "logout",
				Usage:  "Discard the stored Spotify token",
				Action: r.SpotifyLogout,
			},
		},
	}
}

// recommendCommand runs the recommendation pipeline
func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recommend",
		Aliases: []string{"rec"},
		Usage:   "Generate recommendations from listening history",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Usage:   "Recommendation strategy (clustering, collaborative, hybrid)",
				Value:   "hybrid",
			},
			&cli.StringFlag{
				Name:  "seed-playlist",
				Usage: "Playlist name for the clustering and hybrid strategies",
			},
			&cli.IntFlag{
				Name:  "neighbors",
				Usage: "Cluster neighbor count for clustering and hybrid",
				Value: 10,
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"k"},
				Usage:   "Number of recommendations to request",
				Value:   10,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Plays to request from listening history",
				Value: 50,
			},
			&cli.StringFlag{
				Name:  "save-playlist",
				Usage: "Save results as a new Spotify playlist with this name",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.RecommendRun,
	}
}

// apiCommand handles direct authorized calls to the backend
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct authorized calls to the recommender backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Authorized GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Authorized POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a starter config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the credential database",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive recommendations.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for recommendations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Usage:   "Recommendation strategy (clustering, collaborative, hybrid)",
				Value:   "hybrid",
			},
			&cli.StringFlag{
				Name:  "seed-playlist",
				Usage: "Playlist name for the clustering and hybrid strategies",
			},
			&cli.IntFlag{
				Name:  "neighbors",
				Usage: "Cluster neighbor count for clustering and hybrid",
				Value: 10,
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"k"},
				Usage:   "Number of recommendations to request",
				Value:   10,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Plays to request from listening history",
				Value: 50,
			},
			&cli.StringFlag{
				Name:  "save-playlist",
				Usage: "Save results as a new Spotify playlist with this name",
			},
		},
		Action: r.TUI,
	}
}
