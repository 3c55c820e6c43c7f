package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/a-s-gorski/spotify-recommender-cli/internal/models"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/recommend"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/shared"
	testhelpers "github.com/a-s-gorski/spotify-recommender-cli/internal/testing"
)

func TestPipelineRun(t *testing.T) {
	ctx := context.Background()

	history := []models.Track{
		{URI: "spotify:track:a", Name: "A"},
		{URI: "spotify:track:b", Name: "B"},
	}

	t.Run("runs history, recommendations, and metadata in order", func(t *testing.T) {
		spotify := &testhelpers.MockProfileService{
			HistoryValue:  history,
			MetadataValue: []models.Track{{URI: "spotify:track:r", Name: "R"}},
		}
		recommender := &testhelpers.MockRecommender{URIs: []string{"spotify:track:r"}}

		engine := NewPipelineEngine(spotify, recommender)

		result, err := engine.Run(ctx, nil, RunOptions{
			Strategy:     recommend.Collaborative{},
			HistoryLimit: 50,
			Count:        1,
		})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if len(result.History) != 2 {
			t.Errorf("expected 2 history tracks, got %d", len(result.History))
		}
		if len(recommender.GotSeeds) != 2 || recommender.GotSeeds[0] != "spotify:track:a" {
			t.Errorf("expected history URIs as seeds, got %v", recommender.GotSeeds)
		}
		if len(spotify.MetadataURIs) != 1 || spotify.MetadataURIs[0] != "spotify:track:r" {
			t.Errorf("expected recommendation URIs for metadata, got %v", spotify.MetadataURIs)
		}
		if len(result.Recommended) != 1 || result.Recommended[0].Name != "R" {
			t.Errorf("unexpected recommendations: %+v", result.Recommended)
		}
		if spotify.CreateCalls != 0 {
			t.Errorf("expected no playlist creation, got %d calls", spotify.CreateCalls)
		}
	})

	t.Run("creates playlist when a name is given", func(t *testing.T) {
		spotify := &testhelpers.MockProfileService{
			HistoryValue:  history,
			MetadataValue: []models.Track{{URI: "spotify:track:r"}},
			ProfileValue:  models.Profile{ID: "user-1"},
			PlaylistID:    "pl-1",
		}
		recommender := &testhelpers.MockRecommender{URIs: []string{"spotify:track:r"}}

		engine := NewPipelineEngine(spotify, recommender)

		result, err := engine.Run(ctx, nil, RunOptions{
			Strategy:     recommend.Hybrid{PlaylistName: "seed", NNeighbors: 10},
			Count:        1,
			PlaylistName: "My Mix",
		})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if result.PlaylistID != "pl-1" {
			t.Errorf("expected playlist id 'pl-1', got %q", result.PlaylistID)
		}
		if result.PlaylistEmpty {
			t.Error("expected playlist to be populated")
		}
		if spotify.CreateCalls != 1 {
			t.Errorf("expected 1 create call, got %d", spotify.CreateCalls)
		}
	})

	t.Run("partial playlist failure still returns recommendations", func(t *testing.T) {
		spotify := &testhelpers.MockProfileService{
			HistoryValue:  history,
			MetadataValue: []models.Track{{URI: "spotify:track:r"}},
			ProfileValue:  models.Profile{ID: "user-1"},
			PlaylistID:    "pl-2",
			PlaylistErr:   fmt.Errorf("%w: playlist pl-2 created empty", shared.ErrPartialFailure),
		}
		recommender := &testhelpers.MockRecommender{URIs: []string{"spotify:track:r"}}

		engine := NewPipelineEngine(spotify, recommender)

		result, err := engine.Run(ctx, nil, RunOptions{
			Strategy:     recommend.Collaborative{},
			Count:        1,
			PlaylistName: "My Mix",
		})
		if !errors.Is(err, shared.ErrPartialFailure) {
			t.Fatalf("expected ErrPartialFailure, got %v", err)
		}

		if result == nil {
			t.Fatal("expected a result alongside the partial failure")
		}
		if !result.PlaylistEmpty {
			t.Error("expected PlaylistEmpty to be set")
		}
		if result.PlaylistID != "pl-2" {
			t.Errorf("expected created playlist id, got %q", result.PlaylistID)
		}
		if len(result.Recommended) != 1 {
			t.Errorf("expected recommendations to survive, got %d", len(result.Recommended))
		}
	})

	t.Run("recommendation failure aborts the run", func(t *testing.T) {
		spotify := &testhelpers.MockProfileService{HistoryValue: history}
		recommender := &testhelpers.MockRecommender{Err: shared.ErrTimeout}

		engine := NewPipelineEngine(spotify, recommender)

		if _, err := engine.Run(ctx, nil, RunOptions{Strategy: recommend.Collaborative{}, Count: 1}); !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout to propagate, got %v", err)
		}
	})

	t.Run("progress updates never block", func(t *testing.T) {
		spotify := &testhelpers.MockProfileService{
			HistoryValue:  history,
			MetadataValue: []models.Track{},
		}
		recommender := &testhelpers.MockRecommender{URIs: []string{}}

		engine := NewPipelineEngine(spotify, recommender)

		// Unbuffered channel with no reader; sends must be dropped, not block.
		progress := make(chan ProgressUpdate)

		if _, err := engine.Run(ctx, progress, RunOptions{Strategy: recommend.Collaborative{}, Count: 1}); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	})

	t.Run("reports phases in order", func(t *testing.T) {
		spotify := &testhelpers.MockProfileService{
			HistoryValue:  history,
			MetadataValue: []models.Track{},
		}
		recommender := &testhelpers.MockRecommender{URIs: []string{}}

		engine := NewPipelineEngine(spotify, recommender)

		progress := make(chan ProgressUpdate, 16)
		if _, err := engine.Run(ctx, progress, RunOptions{Strategy: recommend.Collaborative{}, Count: 1}); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}

		if len(phases) == 0 {
			t.Fatal("expected progress updates")
		}
		for i := 1; i < len(phases); i++ {
			if phases[i] < phases[i-1] {
				t.Errorf("phases out of order: %v", phases)
				break
			}
		}
	})
}
