// package models defines the data model for the recommender client
package models

import "strings"

// Track represents a single track as shown in history and recommendation lists.
//
// Tracks are immutable values derived from provider responses; the URI is the
// unique key used for de-duplication within a single response.
type Track struct {
	URI        string `json:"uri"`
	Name       string `json:"name"`
	ArtistName string `json:"artist_name"`
	AlbumName  string `json:"album_name"`
	AlbumImage string `json:"album_image,omitempty"`
}

// ID returns the provider track ID, the last segment of the URI
// (e.g. "spotify:track:abc123" -> "abc123").
func (t Track) ID() string {
	return TrackID(t.URI)
}

// TrackID extracts the provider track ID from a track URI.
func TrackID(uri string) string {
	if idx := strings.LastIndex(uri, ":"); idx >= 0 {
		return uri[idx+1:]
	}
	return uri
}

// URIs returns the URIs of the given tracks, preserving order.
func URIs(tracks []Track) []string {
	uris := make([]string, len(tracks))
	for i, t := range tracks {
		uris[i] = t.URI
	}
	return uris
}

// Profile represents the authenticated provider user.
//
// Profiles are fetched fresh each session and never persisted.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}
