package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	apperrors "github.com/taskjarvis/web-gateway/internal/errors"
)

// Client is a typed client for the upstream TaskJarvis API. It owns every
// outbound call the gateway makes: credential exchange, identity lookup,
// token refresh, and forwarded data requests. Token pairs surface as
// *oauth2.Token with the expiry recovered from the access token itself.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (primarily for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout for upstream calls.
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

// New creates an upstream client for the given base URL.
func New(baseURL string, options ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(client)
	}
	return client
}

// Login exchanges credentials for a token pair. The identifier may be either
// an email address or a username; the upstream accepts both in one field.
func (c *Client) Login(ctx context.Context, identifier, password string) (*oauth2.Token, error) {
	body := map[string]string{
		"email_or_username": identifier,
		"password":          password,
	}

	var tokens tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, "", &tokens); err != nil {
		return nil, apperrors.Wrapf(err, "[Client.Login]")
	}
	return c.toToken(tokens), nil
}

// Register creates an account and returns the token pair for the fresh
// session in one step.
func (c *Client) Register(ctx context.Context, email, username, password string) (*oauth2.Token, error) {
	body := map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	}

	var tokens tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", body, "", &tokens); err != nil {
		return nil, apperrors.Wrapf(err, "[Client.Register]")
	}
	return c.toToken(tokens), nil
}

// Me fetches the identity behind an access token.
func (c *Client) Me(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, accessToken, &user); err != nil {
		return nil, apperrors.Wrapf(err, "[Client.Me]")
	}
	return &user, nil
}

// Refresh mints a new token pair from a refresh token. The upstream takes the
// refresh token as a query parameter.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	path := "/auth/refresh?refresh_token=" + url.QueryEscape(refreshToken)

	var tokens tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, path, nil, "", &tokens); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRefreshFailed, err)
	}
	return c.toToken(tokens), nil
}

// Forward sends a data request to the upstream on behalf of an authenticated
// session, attaching the bearer token. The response is returned as-is so the
// proxy can stream status and body back unchanged; the caller owns closing
// the body.
func (c *Client) Forward(ctx context.Context, method, pathAndQuery, accessToken string, body io.Reader, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+pathAndQuery, body)
	if err != nil {
		return nil, fmt.Errorf("[Client.Forward] build request: %w", err)
	}

	for name, values := range header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	return resp, nil
}

// doJSON performs a JSON request/response round trip. Upstream 4xx responses
// come back as *Error carrying the upstream's own status and detail message;
// network failures and 5xx responses collapse to ErrUpstreamUnavailable.
// No retries happen at this layer.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, accessToken string, out any) error {
	req, err := c.newJSONRequest(ctx, method, path, body, accessToken)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		c.logger.Error().Int("status", resp.StatusCode).Str("path", path).Msg("Upstream server error")
		return fmt.Errorf("%w: status %d", apperrors.ErrUpstreamUnavailable, resp.StatusCode)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var upstreamErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&upstreamErr)
		if upstreamErr.Detail == "" {
			upstreamErr.Detail = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: upstreamErr.Detail}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %v", apperrors.ErrUpstreamUnavailable, err)
		}
	}
	return nil
}

func (c *Client) toToken(tokens tokenResponse) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       accessTokenExpiry(tokens.AccessToken),
	}
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, body any, accessToken string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return req, nil
}
