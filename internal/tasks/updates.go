package tasks

import "fmt"

// ProgressUpdate represents a progress event during a pipeline run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchHistory Phase = iota
	FetchRecommendations
	FetchMetadata
	CreatePlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchHistory:
		return "fetch_history"
	case FetchRecommendations:
		return "fetch_recommendations"
	case FetchMetadata:
		return "fetch_metadata"
	case CreatePlaylist:
		return "create_playlist"
	default:
		return ""
	}
}

func fetchHistoryUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchHistory,
		Step:    step,
		Total:   total,
		Message: "Fetching listening history from Spotify...",
	}
}

func historyFetchedUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchHistory,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Found %d unique tracks in listening history", count),
	}
}

func fetchRecommendationsUpdate(step, total int, strategy string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRecommendations,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching %s recommendations...", strategy),
	}
}

func recommendationsFetchedUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRecommendations,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Received %d recommendations", count),
	}
}

func fetchMetadataUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMetadata,
		Step:    step,
		Total:   total,
		Message: "Resolving track metadata...",
	}
}

func createPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Creating playlist %q on Spotify...", name),
	}
}

func playlistCreatedUpdate(step, total int, id string, tracks int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Playlist created: %s (%d tracks)", id, tracks),
		Data:    id,
	}
}

func playlistEmptyUpdate(step, total int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Playlist %s was created but filling it failed", id),
		Data:    id,
	}
}
