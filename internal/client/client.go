// Package client provides an HTTP client for the flagpole API, used by the
// CLI and usable as a minimal Go SDK.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dkoval/flagpole/internal/evaluation"
	"github.com/dkoval/flagpole/internal/store"
)

// Client is an HTTP client for the flagpole API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListFlags retrieves all flags.
func (c *Client) ListFlags(ctx context.Context) ([]store.Flag, error) {
	var result struct {
		Flags []store.Flag `json:"flags"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/flags", nil, &result); err != nil {
		return nil, err
	}
	return result.Flags, nil
}

// GetFlag retrieves a single flag by key.
func (c *Client) GetFlag(ctx context.Context, key string) (*store.Flag, error) {
	var flag store.Flag
	if err := c.do(ctx, http.MethodGet, "/v1/flags/"+key, nil, &flag); err != nil {
		return nil, err
	}
	return &flag, nil
}

// CreateFlag creates a new flag.
func (c *Client) CreateFlag(ctx context.Context, params store.CreateParams) (*store.Flag, error) {
	var flag store.Flag
	if err := c.do(ctx, http.MethodPost, "/v1/flags", params, &flag); err != nil {
		return nil, err
	}
	return &flag, nil
}

// UpdateFlag applies a partial update to a flag.
func (c *Client) UpdateFlag(ctx context.Context, key string, params store.UpdateParams) (*store.Flag, error) {
	var flag store.Flag
	if err := c.do(ctx, http.MethodPatch, "/v1/flags/"+key, params, &flag); err != nil {
		return nil, err
	}
	return &flag, nil
}

// DeleteFlag deletes a flag by key.
func (c *Client) DeleteFlag(ctx context.Context, key string) error {
	return c.do(ctx, http.MethodDelete, "/v1/flags/"+key, nil, nil)
}

// Evaluate evaluates a flag for an optional user identifier. Pass nil for
// an anonymous evaluation.
func (c *Client) Evaluate(ctx context.Context, key string, userID *string) (*evaluation.Result, error) {
	body := struct {
		Key    string  `json:"key"`
		UserID *string `json:"user_id"`
	}{Key: key, UserID: userID}

	var result evaluation.Result
	if err := c.do(ctx, http.MethodPost, "/v1/evaluate", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do executes one API request, handling auth, encoding, and error mapping.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
