// Package gateway mediates every network call to the shop service: it
// attaches the session credential, normalizes failure responses into typed
// errors, and turns a 401/403 on an authenticated endpoint into a single
// session-expiry signal.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Hwangsangha/ebook-client/internal/session"
)

// Doer performs a single HTTP request. Satisfied by *http.Client.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// publicPaths are endpoints a logged-out user is expected to hit; a 401/403
// from them is an ordinary failure, not an expired session.
var publicPaths = map[string]bool{
	"/auth/login":    true,
	"/auth/register": true,
}

// Config wires a Client.
type Config struct {
	BaseURL    string
	Sessions   session.Store
	HTTPClient Doer
	Logger     *slog.Logger
	// OnSessionExpired is invoked exactly once per expiry window, before
	// ErrSessionExpired is returned to the caller. Optional.
	OnSessionExpired func()
}

// Client is the request gateway.
type Client struct {
	baseURL    string
	sessions   session.Store
	httpClient Doer
	logger     *slog.Logger
	onExpired  func()
	expired    atomic.Bool
}

// New constructs a gateway client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("gateway: baseURL is required")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("gateway: session store is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		sessions:   cfg.Sessions,
		httpClient: httpClient,
		logger:     logger,
		onExpired:  cfg.OnSessionExpired,
	}, nil
}

// Sessions exposes the underlying session store.
func (c *Client) Sessions() session.Store {
	return c.sessions
}

// ResetExpiry re-arms the one-shot expiry signal. Called by the auth client
// after a new credential is stored.
func (c *Client) ResetExpiry() {
	c.expired.Store(false)
}

// Do sends one JSON request and returns the raw response payload. body may
// be nil; a 204 or empty body yields a nil payload. Failures come back as
// *NetworkError, *APIError or ErrSessionExpired.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	return c.unwrap(path, resp)
}

// unwrap consumes the response: non-failure statuses yield the raw JSON
// payload untouched; failure statuses become typed errors.
func (c *Client) unwrap(path string, resp *http.Response) (json.RawMessage, error) {
	defer resp.Body.Close()

	if err := c.checkExpiry(path, resp.StatusCode); err != nil {
		return nil, err
	}
	data, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, &APIError{Status: resp.StatusCode, Message: failureMessage(data, resp.Status)}
	}
	if readErr != nil {
		return nil, &NetworkError{Err: readErr}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return json.RawMessage(data), nil
}

// Download streams a non-JSON response body (the purchased asset) to w.
func (c *Client) Download(ctx context.Context, path string, query url.Values, w io.Writer) error {
	resp, err := c.send(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkExpiry(path, resp.StatusCode); err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return &APIError{Status: resp.StatusCode, Message: failureMessage(data, resp.Status)}
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return &NetworkError{Err: err}
	}
	return nil
}

// DoMultipart sends a multipart form (the admin catalog upload path) and
// unwraps the JSON response like Do.
func (c *Client) DoMultipart(ctx context.Context, method, path string, build func(*multipart.Writer) error) (json.RawMessage, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	if err := build(writer); err != nil {
		return nil, fmt.Errorf("build multipart form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart form: %w", err)
	}
	resp, err := c.sendRaw(ctx, method, path, nil, writer.FormDataContentType(), buf)
	if err != nil {
		return nil, err
	}
	return c.unwrap(path, resp)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.sendRaw(ctx, method, path, query, contentType, reader)
}

func (c *Client) sendRaw(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	if sess := c.sessions.Get(); sess.Active() {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "err", err)
		return nil, &NetworkError{Err: err}
	}
	c.logger.Debug("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return resp, nil
}

// checkExpiry implements the first-expiry-wins rule: the first 401/403 seen
// on an authenticated endpoint clears the session and fires the hook;
// later ones in the same window only return ErrSessionExpired.
func (c *Client) checkExpiry(path string, status int) error {
	if status != http.StatusUnauthorized && status != http.StatusForbidden {
		return nil
	}
	if publicPaths[path] {
		return nil
	}
	if c.expired.CompareAndSwap(false, true) {
		if err := c.sessions.Clear(); err != nil {
			c.logger.Warn("clear session", "err", err)
		}
		c.logger.Warn("session expired", "path", path, "status", status)
		if c.onExpired != nil {
			c.onExpired()
		}
	}
	return ErrSessionExpired
}

// failureMessage resolves a human-readable message from a failure response:
// the body's "message" field, then its "error" field, then the HTTP status
// line, then a generic fallback.
func failureMessage(body []byte, statusLine string) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if m := strings.TrimSpace(envelope.Message); m != "" {
			return m
		}
		if m := strings.TrimSpace(envelope.Error); m != "" {
			return m
		}
	}
	if statusLine != "" {
		return statusLine
	}
	return "Network error"
}
