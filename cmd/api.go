package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/a-s-gorski/spotify-recommender-cli/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct authorized GET request to the backend
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")

	r.logger.Info("GET request", "path", path)

	body, err := r.authorizedCall(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err == nil {
		return r.writeJSON(parsed, true)
	}

	r.output.Write(body)
	r.output.Write([]byte("\n"))
	return nil
}

// APIPost makes a direct authorized POST request to the backend
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")

	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}

	var jsonTest any
	if err := json.Unmarshal([]byte(data), &jsonTest); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}

	r.logger.Info("POST request", "path", path)

	body, err := r.authorizedCall(ctx, http.MethodPost, path, []byte(data))
	if err != nil {
		return err
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err == nil {
		return r.writeJSON(parsed, true)
	}

	r.output.Write(body)
	r.output.Write([]byte("\n"))
	return nil
}

// authorizedCall issues a bearer-authenticated request against the backend
// and returns the response body on success.
func (r *Runner) authorizedCall(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	resp, err := r.session.AuthorizedFetch(ctx, method, r.session.BaseURL()+path, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(body))
	}

	return body, nil
}
