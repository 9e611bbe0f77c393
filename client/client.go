// Package client is a Go facade over the gateway's auth and data API for
// server-side consumers and tests. It keeps the session cookie in a jar and
// transparently refreshes the session when the gateway answers 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/taskjarvis/web-gateway/internal/errors"
)

// User is the identity object the gateway returns from login, register and me.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Error is a non-2xx answer from the gateway.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.Status, e.Message)
}

// Client talks to the gateway the way a browser would: the session cookie
// lives in a jar, credentials never leave Login/Register, and data requests
// go through Do which retries once after a refresh.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger

	refreshGuard refreshGuard
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client. A cookie jar is
// attached if the given client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a gateway client for the given base URL.
func New(baseURL string, options ...Option) (*Client, error) {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(client)
	}

	if client.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, apperrors.Wrapf(err, "[client.New]")
		}
		client.httpClient.Jar = jar
	}
	return client, nil
}

// Login authenticates with an email or username and stores the session
// cookie on success.
func (c *Client) Login(ctx context.Context, identifier, password string) (*User, error) {
	body := map[string]string{"identifier": identifier, "password": password}
	var user User
	if err := c.postJSON(ctx, "/api/auth/login", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates an account and stores the session cookie on success.
func (c *Client) Register(ctx context.Context, email, username, password string) (*User, error) {
	body := map[string]string{"email": email, "username": username, "password": password}
	var user User
	if err := c.postJSON(ctx, "/api/auth/register", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUser resolves the authenticated user through the gateway. Goes
// through Do, so a stale access token is refreshed transparently.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	resp, err := c.Do(ctx, http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, apperrors.Wrapf(err, "[Client.CurrentUser] decode response")
	}
	return &user, nil
}

// Refresh explicitly rotates the session's token pair. Do calls this on its
// own; it is exposed for callers that want to refresh ahead of time.
func (c *Client) Refresh(ctx context.Context) error {
	return c.refreshSession(ctx)
}

// Logout destroys the session on the gateway. Best-effort: an unreachable
// gateway or a rejected call is logged and swallowed, so logging out always
// succeeds from the caller's point of view.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.postJSON(ctx, "/api/auth/logout", struct{}{}, nil); err != nil {
		c.logger.Warn().Err(err).Msg("Logout request failed")
	}
	return nil
}

// postJSON is the plain auth-endpoint call path: no refresh, no retry.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return apperrors.Wrapf(err, "[Client.postJSON] marshal body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return apperrors.Wrapf(err, "[Client.postJSON]")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrapf(err, "[Client.postJSON] %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrapf(err, "[Client.postJSON] decode response")
	}
	return nil
}

// decodeError turns a non-2xx gateway answer into an *Error, draining the
// body so the connection can be reused.
func decodeError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(raw, &body); err != nil || body.Message == "" {
		body.Message = http.StatusText(resp.StatusCode)
	}
	return &Error{Status: resp.StatusCode, Message: body.Message}
}
