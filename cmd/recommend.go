package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/a-s-gorski/spotify-recommender-cli/internal/recommend"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/shared"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/tasks"
	"github.com/urfave/cli/v3"
)

// buildStrategy maps CLI flags to a recommendation strategy.
func buildStrategy(cmd *cli.Command) (recommend.Strategy, error) {
	name := cmd.String("strategy")
	seedPlaylist := cmd.String("seed-playlist")
	neighbors := cmd.Int("neighbors")

	switch name {
	case "clustering":
		if seedPlaylist == "" {
			return nil, fmt.Errorf("%w: --seed-playlist is required for the clustering strategy", shared.ErrMissingArgument)
		}
		return recommend.Clustering{PlaylistName: seedPlaylist, NNeighbors: neighbors}, nil
	case "collaborative":
		return recommend.Collaborative{}, nil
	case "hybrid":
		if seedPlaylist == "" {
			return nil, fmt.Errorf("%w: --seed-playlist is required for the hybrid strategy", shared.ErrMissingArgument)
		}
		return recommend.Hybrid{PlaylistName: seedPlaylist, NNeighbors: neighbors}, nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", shared.ErrInvalidArgument, name)
	}
}

// runOptions maps CLI flags to pipeline options.
func runOptions(cmd *cli.Command) (tasks.RunOptions, error) {
	strategy, err := buildStrategy(cmd)
	if err != nil {
		return tasks.RunOptions{}, err
	}

	return tasks.RunOptions{
		Strategy:     strategy,
		HistoryLimit: cmd.Int("limit"),
		Count:        cmd.Int("count"),
		PlaylistName: cmd.String("save-playlist"),
	}, nil
}

// RecommendRun executes the full recommendation pipeline.
func (r *Runner) RecommendRun(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	opts, err := runOptions(cmd)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.writePlain("→ %s\n", update.Message)
		}
	}()

	result, runErr := r.engine.Run(ctx, progress, opts)
	close(progress)
	wg.Wait()

	if runErr != nil && !errors.Is(runErr, shared.ErrPartialFailure) {
		return runErr
	}

	if useJSON {
		if err := r.writeJSON(result, pretty); err != nil {
			return err
		}
		return runErr
	}

	r.writePlainln("✓ %d recommendations", len(result.Recommended))
	for i, track := range result.Recommended {
		r.writePlain("%d. %s - %s\n", i+1, track.ArtistName, track.Name)
	}

	switch {
	case result.PlaylistEmpty:
		r.writePlainln("⚠ Playlist %s was created but could not be filled", result.PlaylistID)
	case result.PlaylistID != "":
		r.writePlainln("✓ Saved to playlist %s", result.PlaylistID)
	}

	return runErr
}
