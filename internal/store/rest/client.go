// Package rest implements the inventory and board repositories over
// the corkboard backend's HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/borfus/corkboard-bot/internal/repository"
)

// DefaultBaseURL is where the backend listens in the stock deployment.
const DefaultBaseURL = "http://localhost:8000/api/v1"

const maxResponseBytes = 4 << 20

// StatusError is a non-2xx response that maps to no repository error.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rest: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client for baseURL.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Ping reports whether the backend answers HTTP at all.
func (c *Client) Ping(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("rest: failed to create request: %w", err)
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("rest: ping failed: %w", err)
	}
	response.Body.Close()
	return nil
}

// doRequest sends requestBody as JSON and decodes a 2xx response into
// out. 404 and 409 map to repository.ErrNotFound and ErrConflict.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, requestBody, out any) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("rest: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return fmt.Errorf("rest: failed to create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("rest: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("rest: failed to read response body: %w", err)
	}
	c.logger.Debug("backend request", "method", method, "path", path, "status", response.StatusCode, "duration", time.Since(start))

	switch {
	case response.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, repository.ErrNotFound)
	case response.StatusCode == http.StatusConflict:
		return fmt.Errorf("%s %s: %w", method, path, repository.ErrConflict)
	case response.StatusCode < 200 || response.StatusCode >= 300:
		return &StatusError{Method: method, Path: path, StatusCode: response.StatusCode, Body: strings.TrimSpace(string(responseBody))}
	}

	if out == nil || len(bytes.TrimSpace(responseBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("rest: failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
