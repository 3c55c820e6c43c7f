package main

import (
	"context"
	"os"

	"github.com/a-s-gorski/spotify-recommender-cli/internal/shared"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/store"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	ctx := context.Background()

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var credStore store.Store = store.NewMemoryStore()
	if config.Database.Path != "" {
		if db, err := shared.NewDatabase(config.Database.Path); err == nil {
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			if sqliteStore, err := store.NewSQLiteStore(db); err == nil {
				credStore = sqliteStore
			} else {
				logger.Warn("falling back to in-memory credentials", "error", err)
			}
		} else {
			logger.Warn("failed to open credential database", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Store:  credStore,
		Logger: logger,
	})

	if err := runner.session.Load(ctx); err != nil {
		logger.Warn("failed to restore backend session", "error", err)
	}
	if err := runner.spotifySession.Init(ctx); err != nil {
		logger.Warn("failed to initialize provider session", "error", err)
	}

	app := &cli.Command{
		Name:     "sprecs",
		Usage:    "Music recommendations from your Spotify listening history",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
