// package tasks implements the end-to-end recommendation pipeline.
//
// The core abstraction is RecommendEngine, which orchestrates listening
// history, recommendation fetch, metadata resolution, and playlist creation.
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/a-s-gorski/spotify-recommender-cli/internal/models"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/recommend"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/shared"
)

// ProfileService is the slice of the Spotify client the pipeline needs.
// This abstraction allows for easier testing and decoupling from concrete implementation.
type ProfileService interface {
	Profile(ctx context.Context) (models.Profile, error)
	RecentlyPlayed(ctx context.Context, limit int) ([]models.Track, error)
	TrackMetadata(ctx context.Context, uris []string) ([]models.Track, error)
	CreatePlaylist(ctx context.Context, userID, name string, uris []string) (string, error)
}

// Recommender fetches recommendations from the backend.
type Recommender interface {
	FetchRecommendations(ctx context.Context, strategy recommend.Strategy, trackURIs []string, k int) ([]string, error)
}

// RunOptions configures a pipeline run.
type RunOptions struct {
	Strategy     recommend.Strategy // Recommendation strategy to use
	HistoryLimit int                // Plays to request from the history endpoint
	Count        int                // Requested number of recommendations
	PlaylistName string             // When non-empty, save results as a Spotify playlist
}

// RunResult contains all data from a full pipeline run.
type RunResult struct {
	History         []models.Track // Deduplicated listening history
	RecommendedURIs []string       // Raw recommendation URIs from the backend
	Recommended     []models.Track // Recommendations with resolved metadata
	PlaylistID      string         // Created playlist, "" when none was requested
	PlaylistEmpty   bool           // Playlist was created but filling it failed
}

// RecommendEngine defines the recommendation pipeline operations.
type RecommendEngine interface {
	// Run executes history fetch, recommendation fetch, metadata resolution,
	// and optional playlist creation in order.
	Run(ctx context.Context, progress chan<- ProgressUpdate, opts RunOptions) (*RunResult, error)
}

// PipelineEngine implements RecommendEngine against the live services.
type PipelineEngine struct {
	spotify     ProfileService
	recommender Recommender
}

// NewPipelineEngine creates a PipelineEngine with the provided services.
func NewPipelineEngine(spotify ProfileService, recommender Recommender) *PipelineEngine {
	return &PipelineEngine{
		spotify:     spotify,
		recommender: recommender,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *PipelineEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run executes the full pipeline.
//
// A playlist population failure does not abort the run: the result still
// carries the recommendations and the empty playlist's ID, and the returned
// error wraps [shared.ErrPartialFailure].
func (e *PipelineEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, opts RunOptions) (*RunResult, error) {
	if e.spotify == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized", shared.ErrInvalidInput)
	}
	if e.recommender == nil {
		return nil, fmt.Errorf("%w: recommendation service not initialized", shared.ErrInvalidInput)
	}

	totalSteps := 3
	if opts.PlaylistName != "" {
		totalSteps = 4
	}

	result := &RunResult{}

	e.sendProgress(progress, fetchHistoryUpdate(1, totalSteps))
	history, err := e.spotify.RecentlyPlayed(ctx, opts.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listening history: %w", err)
	}
	result.History = history
	e.sendProgress(progress, historyFetchedUpdate(1, totalSteps, len(history)))

	e.sendProgress(progress, fetchRecommendationsUpdate(2, totalSteps, opts.Strategy.Name()))
	uris, err := e.recommender.FetchRecommendations(ctx, opts.Strategy, models.URIs(history), opts.Count)
	if err != nil {
		return nil, err
	}
	result.RecommendedURIs = uris
	e.sendProgress(progress, recommendationsFetchedUpdate(2, totalSteps, len(uris)))

	e.sendProgress(progress, fetchMetadataUpdate(3, totalSteps))
	recommended, err := e.spotify.TrackMetadata(ctx, uris)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve track metadata: %w", err)
	}
	result.Recommended = recommended

	if opts.PlaylistName == "" {
		return result, nil
	}

	e.sendProgress(progress, createPlaylistUpdate(4, totalSteps, opts.PlaylistName))
	profile, err := e.spotify.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile for playlist creation: %w", err)
	}

	playlistID, err := e.spotify.CreatePlaylist(ctx, profile.ID, opts.PlaylistName, uris)
	result.PlaylistID = playlistID
	if err != nil {
		if errors.Is(err, shared.ErrPartialFailure) {
			result.PlaylistEmpty = true
			e.sendProgress(progress, playlistEmptyUpdate(4, totalSteps, playlistID))
			return result, err
		}
		return nil, err
	}

	e.sendProgress(progress, playlistCreatedUpdate(4, totalSteps, playlistID, len(uris)))
	return result, nil
}
