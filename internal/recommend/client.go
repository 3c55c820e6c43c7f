package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/a-s-gorski/spotify-recommender-cli/internal/auth"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/shared"
	"github.com/charmbracelet/log"
)

// fetchTimeout bounds a single recommendation fetch. The backend computes
// recommendations on demand; past this point the call is abandoned rather
// than retried.
var fetchTimeout = 120 * time.Second

// Client fetches recommendations through an authorized backend session.
type Client struct {
	session *auth.Session
	logger  *log.Logger
}

// NewClient creates a Client on top of session.
func NewClient(session *auth.Session, logger *log.Logger) *Client {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Client{session: session, logger: logger}
}

// FetchRecommendations asks the backend for up to k track URIs.
//
// The strategy picks the endpoint and its parameters; trackURIs seed the
// strategies that use them. k is clamped to [1, max(len(trackURIs), 1)].
// Failure outcomes are distinguishable by cause: [shared.ErrTimeout] when the
// deadline passes, [shared.ErrUnauthorized] when the backend turns the
// request away, and [shared.ErrServerRejected] for any other non-success
// status. No partial results accompany an error.
func (c *Client) FetchRecommendations(ctx context.Context, strategy Strategy, trackURIs []string, k int) ([]string, error) {
	k = clampK(k, len(trackURIs))

	query := url.Values{}
	strategy.apply(trackURIs, query)
	query.Set("k", strconv.Itoa(k))

	endpoint := fmt.Sprintf("%s/recommendations/%s?%s", c.session.BaseURL(), strategy.Name(), query.Encode())

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	c.logger.Debug("fetching recommendations", "strategy", strategy.Name(), "k", k, "seeds", len(trackURIs))

	resp, err := c.session.AuthorizedFetch(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: recommendation fetch exceeded %s", shared.ErrTimeout, fetchTimeout)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: recommendation fetch rejected", shared.ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrServerRejected, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: recommendation fetch exceeded %s", shared.ErrTimeout, fetchTimeout)
		}
		return nil, fmt.Errorf("failed to read recommendations: %w", err)
	}

	var uris []string
	if err := json.Unmarshal(data, &uris); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}

	return uris, nil
}

// clampK bounds the requested result count to [1, max(seeds, 1)].
func clampK(k, seeds int) int {
	max := seeds
	if max < 1 {
		max = 1
	}

	if k < 1 {
		return 1
	}
	if k > max {
		return max
	}
	return k
}
