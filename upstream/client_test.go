package upstream_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/taskjarvis/web-gateway/internal/errors"
	"github.com/taskjarvis/web-gateway/upstream"
)

func signedAccessToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "42",
		"exp":  expiresAt.Unix(),
		"type": "access",
	})
	signed, err := token.SignedString([]byte("upstream-signing-key"))
	require.NoError(t, err)
	return signed
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestClient_Login(t *testing.T) {
	access := signedAccessToken(t, time.Now().Add(15*time.Minute))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if body["email_or_username"] != "jane" || body["password"] != "Password1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email/username or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"access_token":  access,
			"refresh_token": "refresh-1",
		})
	}))
	defer srv.Close()

	client := upstream.New(srv.URL)

	t.Run("valid credentials", func(t *testing.T) {
		tok, err := client.Login(context.Background(), "jane", "Password1")
		require.NoError(t, err)
		require.Equal(t, access, tok.AccessToken)
		require.Equal(t, "refresh-1", tok.RefreshToken)
		require.WithinDuration(t, time.Now().Add(15*time.Minute), tok.Expiry, 5*time.Second)
		require.True(t, tok.Valid())
	})

	t.Run("bad credentials propagate upstream message", func(t *testing.T) {
		_, err := client.Login(context.Background(), "jane", "wrong")
		require.Error(t, err)

		var upstreamErr *upstream.Error
		require.ErrorAs(t, err, &upstreamErr)
		require.Equal(t, http.StatusUnauthorized, upstreamErr.Status)
		require.Equal(t, "Incorrect email/username or password", upstreamErr.Message)
	})
}

func TestClient_Register(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if body["email"] == "taken@example.com" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Email already registered"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"access_token":  "opaque-access",
			"refresh_token": "refresh-1",
		})
	}))
	defer srv.Close()

	client := upstream.New(srv.URL)

	t.Run("new account", func(t *testing.T) {
		tok, err := client.Register(context.Background(), "jane@example.com", "jane", "Password1")
		require.NoError(t, err)
		require.Equal(t, "opaque-access", tok.AccessToken)
		require.True(t, tok.Expiry.IsZero(), "non-JWT access tokens have no recoverable expiry")
	})

	t.Run("duplicate registration", func(t *testing.T) {
		_, err := client.Register(context.Background(), "taken@example.com", "jane", "Password1")

		var upstreamErr *upstream.Error
		require.ErrorAs(t, err, &upstreamErr)
		require.Equal(t, http.StatusBadRequest, upstreamErr.Status)
		require.Equal(t, "Email already registered", upstreamErr.Message)
	})
}

func TestClient_Me(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/me", r.URL.Path)

		if r.Header.Get("Authorization") != "Bearer good-token" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		writeJSON(w, http.StatusOK, upstream.User{ID: 42, Email: "jane@example.com", Username: "jane"})
	}))
	defer srv.Close()

	client := upstream.New(srv.URL)

	t.Run("valid token", func(t *testing.T) {
		user, err := client.Me(context.Background(), "good-token")
		require.NoError(t, err)
		require.Equal(t, int64(42), user.ID)
		require.Equal(t, "jane@example.com", user.Email)
	})

	t.Run("stale token", func(t *testing.T) {
		_, err := client.Me(context.Background(), "stale-token")
		var upstreamErr *upstream.Error
		require.ErrorAs(t, err, &upstreamErr)
		require.Equal(t, http.StatusUnauthorized, upstreamErr.Status)
	})
}

func TestClient_Refresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/refresh", r.URL.Path)

		// The upstream takes the refresh token as a query parameter.
		switch r.URL.Query().Get("refresh_token") {
		case "live-refresh":
			writeJSON(w, http.StatusOK, map[string]string{
				"access_token":  "new-access",
				"refresh_token": "new-refresh",
			})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid refresh token"})
		}
	}))
	defer srv.Close()

	client := upstream.New(srv.URL)

	t.Run("live refresh token", func(t *testing.T) {
		tok, err := client.Refresh(context.Background(), "live-refresh")
		require.NoError(t, err)
		require.Equal(t, "new-access", tok.AccessToken)
		require.Equal(t, "new-refresh", tok.RefreshToken)
	})

	t.Run("dead refresh token", func(t *testing.T) {
		_, err := client.Refresh(context.Background(), "dead-refresh")
		require.ErrorIs(t, err, apperrors.ErrRefreshFailed)
		var upstreamErr *upstream.Error
		require.ErrorAs(t, err, &upstreamErr)
		require.Equal(t, http.StatusUnauthorized, upstreamErr.Status)
	})
}

func TestClient_TransientFailures(t *testing.T) {
	t.Run("5xx collapses to unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := upstream.New(srv.URL).Login(context.Background(), "jane", "Password1")
		require.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
	})

	t.Run("network error collapses to unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // refuse connections

		_, err := upstream.New(srv.URL).Login(context.Background(), "jane", "Password1")
		require.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
	})
}

func TestClient_Forward(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tasks/", r.URL.Path)
		require.Equal(t, "status=todo", r.URL.RawQuery)
		require.Equal(t, "Bearer session-access", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "title": "Write tests"}})
	}))
	defer srv.Close()

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	resp, err := upstream.New(srv.URL).Forward(context.Background(),
		http.MethodGet, "/tasks/?status=todo", "session-access", nil, header)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "Write tests")
}

func TestTokenExpired(t *testing.T) {
	t.Run("fresh token", func(t *testing.T) {
		require.False(t, upstream.TokenExpired(signedAccessToken(t, time.Now().Add(15*time.Minute))))
	})

	t.Run("expired token", func(t *testing.T) {
		require.True(t, upstream.TokenExpired(signedAccessToken(t, time.Now().Add(-time.Minute))))
	})

	t.Run("inside the skew window", func(t *testing.T) {
		require.True(t, upstream.TokenExpired(signedAccessToken(t, time.Now().Add(5*time.Second))))
	})

	t.Run("opaque token never expires locally", func(t *testing.T) {
		require.False(t, upstream.TokenExpired("not-a-jwt"))
	})
}
