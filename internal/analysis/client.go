// Package analysis is the HTTP client for the remote career analysis
// service: profile analysis, chat, and the health probe.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kalambet/careermentor/internal/profile"
)

const (
	DefaultBaseURL = "https://hackathon-78xd.onrender.com"
	defaultTimeout = 60 * time.Second
	maxErrorBody   = 4 << 10
)

// StatusError is returned when the service answers outside 2xx.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Endpoint, e.Code, e.Body)
}

// Client talks to the analysis service. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL. A zero timeout
// selects the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the service root the client was configured with.
func (c *Client) BaseURL() string { return c.baseURL }

// AnalyzeProfile posts the profile payload and decodes the recommended roles.
func (c *Client) AnalyzeProfile(ctx context.Context, payload profile.Payload) (*Response, error) {
	var resp Response
	if err := c.postJSON(ctx, "/analyze_profile", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Chat sends one chat message and decodes the reply envelope.
func (c *Client) Chat(ctx context.Context, message string) (*ChatReply, error) {
	var reply ChatReply
	if err := c.postJSON(ctx, "/chat", ChatRequest{Message: message}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Health calls GET /health and reports whether the service answered 2xx.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting health: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Endpoint: "/health", Code: resp.StatusCode}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Endpoint: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
