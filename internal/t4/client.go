// =============================================================================
// t4bulk - CMS API Client
// =============================================================================
//
// This package is a client for the TERMINALFOUR CMS REST API ("rs").
//
// Only the calls needed by the bulk tools are implemented. All calls take a
// context, send the bearer token and decode JSON responses. Non-2xx responses
// become *APIError values.
//
// =============================================================================

package t4

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "t4bulk/1.0"

	// maxErrorBody bounds how much of an error response is kept in messages.
	maxErrorBody = 512
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrUnauthorized is wrapped by APIError when the token is rejected.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// =============================================================================
// CLIENT STRUCTURE
// =============================================================================

// Client talks to one CMS instance on behalf of one user.
type Client struct {
	baseURL  *url.URL
	token    string
	language string
	http     *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL, token, language string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q is not absolute", baseURL)
	}

	c := &Client{
		baseURL:  u,
		token:    token,
		language: language,
		http:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// =============================================================================
// AUTHORIZATION
// =============================================================================

// Language returns the default content language of the client.
func (c *Client) Language() string {
	return c.language
}

// Profile returns the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.getJSON(ctx, "profile", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// IsAuthorized reports whether the token is accepted. Errors other than a
// 401 are returned as-is.
func (c *Client) IsAuthorized(ctx context.Context) (bool, error) {
	_, err := c.Profile(ctx)
	if errors.Is(err, ErrUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

func (c *Client) endpoint(path string) string {
	return c.baseURL.ResolveReference(&url.URL{Path: path}).String()
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// doJSON sends body (if non-nil) as JSON and decodes the response into out
// (if non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, path, out)
}

func (c *Client) send(req *http.Request, path string, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Method:     req.Method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", req.Method, path, err)
	}
	return nil
}

// errorMessage extracts errorText/message from a JSON error body, or falls
// back to the raw (truncated) body.
func errorMessage(body []byte) string {
	var payload struct {
		ErrorText string `json:"errorText"`
		Message   string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.ErrorText != "" {
			return payload.ErrorText
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut] + "..."
	}
	if msg == "" {
		msg = "empty response"
	}
	return msg
}
