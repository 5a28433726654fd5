package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// GetEnvVars reads the account-scoped key/value store. The remote account
// owns these values; nothing is cached locally across invocations.
func (c *Client) GetEnvVars(ctx context.Context) (map[string]string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/env", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var vars map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&vars); err != nil {
		return nil, fmt.Errorf("decode env vars: %w", err)
	}
	return vars, nil
}

// UpdateEnvVars sets or overwrites account-scoped env vars.
func (c *Client) UpdateEnvVars(ctx context.Context, vars map[string]string) error {
	body, err := json.Marshal(vars)
	if err != nil {
		return fmt.Errorf("marshal env vars: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/env", bytes.NewReader(body), "application/json")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// DeleteEnvVars removes the given keys in a single request. Each key is
// percent-encoded, then the keys are comma-joined into one query parameter.
func (c *Client) DeleteEnvVars(ctx context.Context, keys []string) error {
	escaped := make([]string, len(keys))
	for i, k := range keys {
		escaped[i] = url.QueryEscape(k)
	}

	path := "/api/v1/env?keys=" + strings.Join(escaped, ",")
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil, "")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
