// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/a-s-gorski/spotify-recommender-cli/internal/models"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/recommend"
)

// MockProfileService is a configurable test double for [tasks.ProfileService].
type MockProfileService struct {
	ProfileValue models.Profile
	ProfileErr   error

	HistoryValue []models.Track
	HistoryErr   error

	MetadataValue []models.Track
	MetadataErr   error
	MetadataURIs  []string

	PlaylistID  string
	PlaylistErr error

	CreateCalls int
}

func (m *MockProfileService) Profile(ctx context.Context) (models.Profile, error) {
	return m.ProfileValue, m.ProfileErr
}

func (m *MockProfileService) RecentlyPlayed(ctx context.Context, limit int) ([]models.Track, error) {
	return m.HistoryValue, m.HistoryErr
}

func (m *MockProfileService) TrackMetadata(ctx context.Context, uris []string) ([]models.Track, error) {
	m.MetadataURIs = uris
	return m.MetadataValue, m.MetadataErr
}

func (m *MockProfileService) CreatePlaylist(ctx context.Context, userID, name string, uris []string) (string, error) {
	m.CreateCalls++
	return m.PlaylistID, m.PlaylistErr
}

// MockRecommender is a test double for [tasks.Recommender].
type MockRecommender struct {
	URIs     []string
	Err      error
	GotSeeds []string
	GotK     int
}

func (m *MockRecommender) FetchRecommendations(ctx context.Context, strategy recommend.Strategy, trackURIs []string, k int) ([]string, error) {
	m.GotSeeds = trackURIs
	m.GotK = k
	return m.URIs, m.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
