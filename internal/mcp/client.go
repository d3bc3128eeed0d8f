// Package mcp talks to the task management server's REST surface: health,
// tool discovery, and per-tool invocation.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"taskman/internal/tool"
)

// Per-request timeouts, matching the original client's behavior.
const (
	healthTimeout = 5 * time.Second
	toolTimeout   = 10 * time.Second
)

// Client is an HTTP client for the task server
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the task server at baseURL.
// An empty baseURL falls back to the default local server.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:3002"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// HealthInfo is the reply of the server's health endpoint
type HealthInfo struct {
	Version string   `json:"version"`
	Clients []string `json:"clients"`
}

// Health checks the task server's health endpoint. Any non-200 status or
// transport failure means unhealthy.
func (c *Client) Health(ctx context.Context) (*HealthInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	url := c.baseURL + "/health"
	body, err := c.getJSON(ctx, url)
	if err != nil {
		return nil, err
	}

	var info HealthInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("malformed health response from %s: %w", url, err)
	}
	return &info, nil
}

// ListTools discovers the server's tool schema via GET /tools
func (c *Client) ListTools(ctx context.Context) ([]tool.Descriptor, error) {
	ctx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	url := c.baseURL + "/tools"
	body, err := c.getJSON(ctx, url)
	if err != nil {
		return nil, err
	}

	var reply struct {
		Tools []tool.Descriptor `json:"tools"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("malformed tools response from %s: %w", url, err)
	}
	if len(reply.Tools) == 0 {
		return nil, fmt.Errorf("tools response from %s contained no tools", url)
	}
	return reply.Tools, nil
}

// CallTool invokes one tool on the server via POST /tools/{name} with a flat
// JSON parameter object, and returns the decoded JSON reply.
func (c *Client) CallTool(ctx context.Context, name string, params map[string]any) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	if params == nil {
		params = map[string]any{}
	}
	payload, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode parameters for tool %s: %w", name, err)
	}

	url := fmt.Sprintf("%s/tools/%s", c.baseURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request for tool %s: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportError(url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(url, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	var reply map[string]any
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("malformed reply from tool %s: %w", name, err)
	}
	return reply, nil
}

// getJSON issues a GET and returns the body for 200 replies
func (c *Client) getJSON(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportError(url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(url, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return body, nil
}
