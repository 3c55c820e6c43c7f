package models

import "testing"

func TestTrackID(t *testing.T) {
	tc := []struct {
		name string
		uri  string
		want string
	}{
		{name: "spotify uri", uri: "spotify:track:4uLU6hMCjMI75M1A2tKUQC", want: "4uLU6hMCjMI75M1A2tKUQC"},
		{name: "bare id", uri: "4uLU6hMCjMI75M1A2tKUQC", want: "4uLU6hMCjMI75M1A2tKUQC"},
		{name: "empty", uri: "", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrackID(tt.uri); got != tt.want {
				t.Errorf("TrackID(%q) = %q, want %q", tt.uri, got, tt.want)
			}
		})
	}
}

func TestURIs(t *testing.T) {
	tracks := []Track{
		{URI: "spotify:track:a"},
		{URI: "spotify:track:b"},
	}

	uris := URIs(tracks)
	if len(uris) != 2 {
		t.Fatalf("expected 2 URIs, got %d", len(uris))
	}
	if uris[0] != "spotify:track:a" || uris[1] != "spotify:track:b" {
		t.Errorf("unexpected URIs: %v", uris)
	}
}
