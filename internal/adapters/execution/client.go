// Package execution submits sanitized flows to an execution host over
// its REST API
package execution

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
)

// ErrFlowNotFound indicates the execution host has no flow with the
// requested identifier.
var ErrFlowNotFound = errors.New("remote flow not found")

// Client talks to the execution host. Retry policy belongs to the
// caller; every method performs exactly one request.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// Config holds client settings
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client // Override for tests (optional)
}

// RemoteFlow is the execution host's record of a deployed flow.
type RemoteFlow struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	FlowData *flow.FlowData `json:"flowData"`
	Deployed bool           `json:"deployed,omitempty"`
}

type submitRequest struct {
	Name     string         `json:"name"`
	FlowData *flow.FlowData `json:"flowData"`
}

// NewClient creates a new execution host client.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.New("execution host base URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:     config.APIKey,
		httpClient: httpClient,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
	}, nil
}

// SubmitFlow creates a flow on the execution host and returns the
// remote identifier. The flow data is expected to be sanitized before
// it reaches this client.
func (c *Client) SubmitFlow(ctx context.Context, name string, fd *flow.FlowData) (string, error) {
	body, err := json.Marshal(submitRequest{Name: name, FlowData: fd})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/flows", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("execution API error (%d): %s", resp.StatusCode, string(body))
	}

	var remote RemoteFlow
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if remote.ID == "" {
		return "", errors.New("execution host returned no flow id")
	}

	return remote.ID, nil
}

// GetFlow retrieves a deployed flow by its remote identifier.
func (c *Client) GetFlow(ctx context.Context, id string) (*RemoteFlow, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/flows/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrFlowNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("execution API error (%d): %s", resp.StatusCode, string(body))
	}

	var remote RemoteFlow
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &remote, nil
}

// DeleteFlow removes a deployed flow from the execution host.
func (c *Client) DeleteFlow(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", c.baseURL+"/api/v1/flows/"+id, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrFlowNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("execution API error (%d): %s", resp.StatusCode, string(body))
	}

	return nil
}

// setHeaders sets common headers for execution host requests.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
