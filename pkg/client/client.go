// Package client is a typed HTTP client for the Reportobello API.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/reportobello/rpb/pkg/types"
)

// DefaultHost is the public Reportobello instance.
const DefaultHost = "https://reportobello.com"

// DefaultTimeout bounds every API call. The original service sets no
// deadline at all; waiting forever is not an acceptable default for a CLI.
const DefaultTimeout = 30 * time.Second

// Client is an HTTP client for the Reportobello API. It is stateless apart
// from the held connection pool and configuration.
type Client struct {
	host       string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Reportobello API client.
func NewClient(host, apiKey string) *Client {
	return &Client{
		host:   strings.TrimSuffix(host, "/"),
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			// The build endpoint answers with a URL, not a redirect to
			// follow; keep redirects visible on every call.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// SetTimeout overrides the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// Host returns the configured base URL.
func (c *Client) Host() string {
	return c.host
}

// doRequest performs an HTTP request with bearer-token authentication and
// maps 401 and 5xx responses to the shared error taxonomy before returning.
// Callers layer endpoint-specific status handling on top.
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	reqURL := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		reqURL = c.host + path
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		defer resp.Body.Close()
		return nil, &types.UnauthorizedError{Message: readBody(resp)}
	case resp.StatusCode >= 500:
		defer resp.Body.Close()
		return nil, &types.ServerError{Reason: reasonPhrase(resp)}
	}

	return resp, nil
}

// readBody drains the response body as text for error reporting.
func readBody(resp *http.Response) string {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return string(data)
}

// reasonPhrase extracts the reason phrase from a response status line.
func reasonPhrase(resp *http.Response) string {
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
}
