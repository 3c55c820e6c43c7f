package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/a-s-gorski/spotify-recommender-cli/internal/auth"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/shared"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/store"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /signin", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"accessToken":  "access-1",
			"refreshToken": "refresh-1",
		})
	})
	mux.Handle("/recommendations/", handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	session := auth.NewSession(srv.URL, srv.Client(), store.NewMemoryStore(), shared.NewLogger(nil))
	if ok, err := session.Login(context.Background(), "alice", "secret"); err != nil || !ok {
		t.Fatalf("Login failed: ok=%v err=%v", ok, err)
	}

	return NewClient(session, shared.NewLogger(nil))
}

func TestStrategyParameters(t *testing.T) {
	seeds := []string{"spotify:track:a", "spotify:track:b"}

	tests := []struct {
		name          string
		strategy      Strategy
		wantPath      string
		wantQueryUris []string
		wantPlaylist  string
		wantNeighbors string
	}{
		{
			name:          "clustering omits seed URIs",
			strategy:      Clustering{PlaylistName: "mix", NNeighbors: 10},
			wantPath:      "/recommendations/clustering",
			wantQueryUris: nil,
			wantPlaylist:  "mix",
			wantNeighbors: "10",
		},
		{
			name:          "collaborative sends only seed URIs",
			strategy:      Collaborative{},
			wantPath:      "/recommendations/collaborative",
			wantQueryUris: seeds,
		},
		{
			name:          "hybrid sends both parameter sets",
			strategy:      Hybrid{PlaylistName: "mix", NNeighbors: 5},
			wantPath:      "/recommendations/hybrid",
			wantQueryUris: seeds,
			wantPlaylist:  "mix",
			wantNeighbors: "5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			var gotQuery url.Values

			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotQuery = r.URL.Query()
				json.NewEncoder(w).Encode([]string{"spotify:track:r"})
			}))

			uris, err := client.FetchRecommendations(context.Background(), tt.strategy, seeds, 2)
			if err != nil {
				t.Fatalf("FetchRecommendations failed: %v", err)
			}
			if len(uris) != 1 || uris[0] != "spotify:track:r" {
				t.Errorf("unexpected recommendations: %v", uris)
			}

			if gotPath != tt.wantPath {
				t.Errorf("expected path %q, got %q", tt.wantPath, gotPath)
			}
			if gotQuery.Get("k") != "2" {
				t.Errorf("expected k=2, got %q", gotQuery.Get("k"))
			}

			gotUris := gotQuery["queryUris"]
			if len(gotUris) != len(tt.wantQueryUris) {
				t.Errorf("expected queryUris %v, got %v", tt.wantQueryUris, gotUris)
			} else {
				for i := range gotUris {
					if gotUris[i] != tt.wantQueryUris[i] {
						t.Errorf("expected queryUris %v, got %v", tt.wantQueryUris, gotUris)
						break
					}
				}
			}

			if gotQuery.Get("playlistName") != tt.wantPlaylist {
				t.Errorf("expected playlistName %q, got %q", tt.wantPlaylist, gotQuery.Get("playlistName"))
			}
			if gotQuery.Get("nNeighbors") != tt.wantNeighbors {
				t.Errorf("expected nNeighbors %q, got %q", tt.wantNeighbors, gotQuery.Get("nNeighbors"))
			}
		})
	}
}

func TestFetchRecommendationsOutcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("unauthorized is distinguishable", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

		_, err := client.FetchRecommendations(ctx, Collaborative{}, []string{"spotify:track:a"}, 1)
		if !errors.Is(err, shared.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("server rejection is distinguishable", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		_, err := client.FetchRecommendations(ctx, Collaborative{}, []string{"spotify:track:a"}, 1)
		if !errors.Is(err, shared.ErrServerRejected) {
			t.Errorf("expected ErrServerRejected, got %v", err)
		}
	})

	t.Run("expired deadline reports timeout", func(t *testing.T) {
		prev := fetchTimeout
		fetchTimeout = 50 * time.Millisecond
		t.Cleanup(func() { fetchTimeout = prev })

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))

		_, err := client.FetchRecommendations(ctx, Collaborative{}, []string{"spotify:track:a"}, 1)
		if !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})
}

func TestClampK(t *testing.T) {
	tests := []struct {
		name  string
		k     int
		seeds int
		want  int
	}{
		{"within bounds", 3, 5, 3},
		{"above seed count", 10, 5, 5},
		{"below one", 0, 5, 1},
		{"no seeds still allows one", 4, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampK(tt.k, tt.seeds); got != tt.want {
				t.Errorf("clampK(%d, %d) = %d, want %d", tt.k, tt.seeds, got, tt.want)
			}
		})
	}
}
