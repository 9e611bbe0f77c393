package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/taskjarvis/web-gateway/internal/errors"
	"github.com/taskjarvis/web-gateway/server"
)

func TestIdentityFromHeaders(t *testing.T) {
	t.Run("authenticated request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set(server.HeaderUserID, "42")
		req.Header.Set(server.HeaderUserEmail, "ada@example.com")
		req.Header.Set(server.HeaderAuthenticated, "true")

		identity, ok := server.IdentityFromHeaders(req)
		require.True(t, ok)
		require.True(t, identity.Authenticated)
		require.Equal(t, int64(42), identity.UserID)
		require.Equal(t, "ada@example.com", identity.Email)
	})

	t.Run("unauthenticated request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(server.HeaderAuthenticated, "false")

		identity, ok := server.IdentityFromHeaders(req)
		require.True(t, ok)
		require.False(t, identity.Authenticated)
		require.Zero(t, identity.UserID)
	})

	t.Run("ungated request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)

		_, ok := server.IdentityFromHeaders(req)
		require.False(t, ok)
	})

	t.Run("unparsable user id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set(server.HeaderUserID, "not-a-number")
		req.Header.Set(server.HeaderAuthenticated, "true")

		_, ok := server.IdentityFromHeaders(req)
		require.False(t, ok)
	})
}

func TestSessionFromRequest(t *testing.T) {
	g := newTestGateway(t, "http://upstream.invalid")

	t.Run("valid cookie yields payload", func(t *testing.T) {
		req := g.sessionRequest(t, "/any", testPayload())
		payload := g.server.SessionFromRequest(req)
		require.NotNil(t, payload)
		require.Equal(t, int64(42), payload.UserID)
		require.Equal(t, "access-token", payload.AccessToken)
	})

	t.Run("no cookie yields nil", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/any", nil)
		require.Nil(t, g.server.SessionFromRequest(req))
	})

	t.Run("expired cookie yields nil", func(t *testing.T) {
		req := g.expiredSessionRequest(t, "/any")
		require.Nil(t, g.server.SessionFromRequest(req))
	})
}

func TestRequireAuth(t *testing.T) {
	g := newTestGateway(t, "http://upstream.invalid")

	t.Run("with session", func(t *testing.T) {
		payload, err := g.server.RequireAuth(g.sessionRequest(t, "/any", testPayload()))
		require.NoError(t, err)
		require.Equal(t, int64(42), payload.UserID)
	})

	t.Run("without session", func(t *testing.T) {
		_, err := g.server.RequireAuth(httptest.NewRequest(http.MethodGet, "/any", nil))
		require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}
