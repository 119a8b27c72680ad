// Package client is the JSON-over-HTTP transport rnotes-cli uses to talk to
// an rnotes server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// DefaultBaseURL is used when no server is given on the command line.
const DefaultBaseURL = "http://localhost:8080"

// TransportError wraps a failure to reach the server or read its answer.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError is returned when the server answered with a status of 400
// or more, or with a body that could not be decoded.
type ProtocolError struct {
	StatusCode int
	Status     string
	Path       string
	Body       string
	Err        error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Response type is not valid for %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("Error %s: %s", e.Status, strings.TrimSpace(e.Body))
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// Config configures a Client.
type Config struct {
	// BaseURL is the server root, e.g. "http://localhost:8080".
	BaseURL string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client sends JSON requests to one server. It holds no session state; the
// bearer token is passed on every call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Client.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL returns the server root requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Get decodes the JSON answer of GET path into out.
func (c *Client) Get(ctx context.Context, path, token string, out any) error {
	return c.do(ctx, http.MethodGet, path, token, nil, out, false)
}

// Post sends in as JSON and decodes the answer into out.
func (c *Client) Post(ctx context.Context, path, token string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, token, in, out, false)
}

// Put sends in as JSON and decodes the answer into out.
func (c *Client) Put(ctx context.Context, path, token string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, token, in, out, false)
}

// Delete issues DELETE path. An empty success body is accepted.
func (c *Client) Delete(ctx context.Context, path, token string) error {
	return c.do(ctx, http.MethodDelete, path, token, nil, nil, true)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any, allowEmpty bool) error {
	url := c.baseURL + path

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, URL: url, Err: err}
	}
	c.logger.Debug("http", "method", method, "url", url, "status", resp.StatusCode, "bytes", len(raw))

	if resp.StatusCode >= http.StatusBadRequest {
		return &ProtocolError{StatusCode: resp.StatusCode, Status: resp.Status, Path: path, Body: string(raw)}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		if allowEmpty {
			return nil
		}
		return &ProtocolError{StatusCode: resp.StatusCode, Status: resp.Status, Path: path, Err: errors.New("empty body")}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ProtocolError{StatusCode: resp.StatusCode, Status: resp.Status, Path: path, Body: string(raw), Err: err}
	}
	return nil
}
