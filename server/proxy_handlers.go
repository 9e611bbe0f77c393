package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/taskjarvis/web-gateway/session"
	"github.com/taskjarvis/web-gateway/upstream"
)

// forwardedHeaders are the only request headers that cross the proxy
// boundary. Cookies and identity headers stay on the gateway side.
var forwardedHeaders = []string{"Content-Type", "Accept"}

// ProxyHandler forwards data requests (/api/tasks, /api/workspaces, ...) to
// the upstream API with the session's bearer token attached. The browser
// never talks to the upstream directly and never holds the access token.
//
// When the session's access token is already past its embedded expiry, the
// proxy refreshes against the upstream and rewrites the session cookie
// before forwarding, so the forwarded call does not burn a round trip on a
// guaranteed 401.
func (s *Server) ProxyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := s.RequireAuth(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "No active session")
			return
		}

		if upstream.TokenExpired(payload.AccessToken) {
			payload, err = s.refreshSession(w, r, payload)
			if err != nil {
				s.logger.Warn().Err(err).Int64("user_id", payload.UserID).Msg("Proxy: proactive refresh failed")
				respondError(w, http.StatusUnauthorized, "Session expired")
				return
			}
		}

		upstreamPath := strings.TrimPrefix(r.URL.Path, "/api")
		if r.URL.RawQuery != "" {
			upstreamPath += "?" + r.URL.RawQuery
		}

		header := http.Header{}
		for _, name := range forwardedHeaders {
			if v := r.Header.Get(name); v != "" {
				header.Set(name, v)
			}
		}

		resp, err := s.upstream.Forward(r.Context(), r.Method, upstreamPath, payload.AccessToken, r.Body, header)
		if err != nil {
			s.logger.Error().Err(err).Str("path", upstreamPath).Msg("Proxy: upstream request failed")
			respondError(w, http.StatusBadGateway, "Upstream request failed")
			return
		}
		defer resp.Body.Close()

		// Stream status and body back unchanged.
		if ct := resp.Header.Get("Content-Type"); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = io.Copy(w, resp.Body)
	}
}

// refreshSession mints a new token pair from the session's refresh token and
// rewrites the cookie, preserving identity. Returns the refreshed payload.
func (s *Server) refreshSession(w http.ResponseWriter, r *http.Request, payload *session.Payload) (*session.Payload, error) {
	tokens, err := s.upstream.Refresh(r.Context(), payload.RefreshToken)
	if err != nil {
		return payload, err
	}

	user := &upstream.User{ID: payload.UserID, Email: payload.Email, Username: payload.Username}
	if err := s.createSession(w, user, tokens); err != nil {
		return payload, err
	}

	refreshed := *payload
	refreshed.AccessToken = tokens.AccessToken
	refreshed.RefreshToken = tokens.RefreshToken
	return &refreshed, nil
}
