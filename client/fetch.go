package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	apperrors "github.com/taskjarvis/web-gateway/internal/errors"
)

// refreshCoalesceWindow suppresses duplicate refreshes: a goroutine that
// queued behind the guard while another goroutine refreshed does not refresh
// again.
const refreshCoalesceWindow = 2 * time.Second

// refreshGuard serializes session refreshes across goroutines so a burst of
// concurrent 401s produces one refresh call, not one per request.
type refreshGuard struct {
	mu          sync.Mutex
	lastRefresh time.Time
}

// Do sends an authenticated request to the gateway. A 401 answer triggers
// one session refresh and one retry; a second 401 is returned to the caller
// as-is. When the refresh itself fails the session is unrecoverable, so the
// client logs out and returns ErrSessionExpired.
//
// The body is marshalled to JSON up front so the retry can resend it. Pass
// nil for bodyless requests.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, apperrors.Wrapf(err, "[Client.Do] marshal body")
		}
	}

	resp, err := c.send(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	resp.Body.Close()

	if err := c.refreshSession(ctx); err != nil {
		return nil, err
	}

	return c.send(ctx, method, path, payload)
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var req *http.Request
	var err error
	if payload != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Client.send]")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Client.send] %s %s", method, path)
	}
	return resp, nil
}

// refreshSession rotates the token pair behind the refresh guard. Callers
// that queued while another goroutine refreshed return immediately without a
// second refresh call.
func (c *Client) refreshSession(ctx context.Context) error {
	c.refreshGuard.mu.Lock()
	defer c.refreshGuard.mu.Unlock()

	if time.Since(c.refreshGuard.lastRefresh) < refreshCoalesceWindow {
		return nil
	}

	if err := c.postJSON(ctx, "/api/auth/refresh", struct{}{}, nil); err != nil {
		c.logger.Warn().Err(err).Msg("Session refresh failed, logging out")
		_ = c.Logout(ctx)
		return apperrors.Wrapf(apperrors.ErrSessionExpired, "refresh rejected: %v", err)
	}

	c.refreshGuard.lastRefresh = time.Now()
	return nil
}
