// package recommend implements the recommendation-fetch client for the
// backend's strategy endpoints.
package recommend

import (
	"net/url"
	"strconv"
)

// Strategy selects a recommendation endpoint and contributes exactly the
// query parameters that endpoint requires. The set of strategies is closed;
// the unexported methods keep outside packages from adding their own.
type Strategy interface {
	// Name is the endpoint segment for the strategy.
	Name() string
	apply(trackURIs []string, query url.Values)
}

// Clustering recommends from the named playlist's audio-feature clusters.
// The seed track URIs are never sent.
type Clustering struct {
	PlaylistName string
	NNeighbors   int
}

func (Clustering) Name() string { return "clustering" }

func (s Clustering) apply(_ []string, query url.Values) {
	query.Set("playlistName", s.PlaylistName)
	query.Set("nNeighbors", strconv.Itoa(s.NNeighbors))
}

// Collaborative recommends from playlist co-occurrence of the seed tracks.
type Collaborative struct{}

func (Collaborative) Name() string { return "collaborative" }

func (Collaborative) apply(trackURIs []string, query url.Values) {
	for _, uri := range trackURIs {
		query.Add("queryUris", uri)
	}
}

// Hybrid combines the clustering and collaborative signals and so requires
// the parameters of both.
type Hybrid struct {
	PlaylistName string
	NNeighbors   int
}

func (Hybrid) Name() string { return "hybrid" }

func (s Hybrid) apply(trackURIs []string, query url.Values) {
	query.Set("playlistName", s.PlaylistName)
	query.Set("nNeighbors", strconv.Itoa(s.NNeighbors))
	for _, uri := range trackURIs {
		query.Add("queryUris", uri)
	}
}
