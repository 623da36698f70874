// Package client provides a small HTTP client for the events API. It retries
// transient failures, injects the bearer token when one is set, and decodes
// the standard response envelope.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/caymanbizevents/events-api/internal/models"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
)

// Envelope mirrors the API response shape.
type Envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Code    string           `json:"code,omitempty"`
	Data    json.RawMessage  `json:"data,omitempty"`
	Meta    *models.PageMeta `json:"meta,omitempty"`
}

// APIError is returned when the server answers with a non-success envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Options tunes client behaviour.
type Options struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	HTTPClient *http.Client
}

// Client talks to the events API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration

	mu    sync.RWMutex
	token string
}

// New constructs a client for the given base URL.
func New(baseURL string, opts Options) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	} else if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
	}, nil
}

// SetToken stores the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the stored bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Get issues a GET request and decodes the envelope data into dest.
func (c *Client) Get(ctx context.Context, path string, query url.Values, dest interface{}) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, dest)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, dest interface{}) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, path, nil, body, dest)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, dest interface{}) (*Envelope, error) {
	return c.do(ctx, http.MethodPut, path, nil, body, dest)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, dest interface{}) (*Envelope, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body, dest)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, body, dest interface{}) (*Envelope, error) {
	return c.do(ctx, http.MethodDelete, path, nil, body, dest)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest interface{}) (*Envelope, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(c.retryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		env, status, err := c.roundTrip(ctx, method, target, payload, dest)
		if err == nil {
			return env, nil
		}
		lastErr = err

		// Any decoded response below 500 is a definitive answer; only
		// transport failures and server errors are transient.
		if status != 0 && status < 500 {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) roundTrip(ctx context.Context, method, target string, payload []byte, dest interface{}) (*Envelope, int, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}

	var env Envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if resp.StatusCode >= 500 {
				return nil, resp.StatusCode, &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
			}
			return nil, resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode >= 400 || (len(raw) > 0 && !env.Success) {
		return nil, resp.StatusCode, &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message}
	}

	if dest != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			return nil, resp.StatusCode, fmt.Errorf("decode response data: %w", err)
		}
	}
	return &env, resp.StatusCode, nil
}
