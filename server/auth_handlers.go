package server

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	apperrors "github.com/taskjarvis/web-gateway/internal/errors"
	"github.com/taskjarvis/web-gateway/session"
	"github.com/taskjarvis/web-gateway/upstream"
)

// The auth proxy endpoints exchange credentials with the upstream API and
// convert the resulting token pair into a session cookie. The browser only
// ever sees the user object - raw tokens live inside the sealed cookie.

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler handles POST /api/auth/login.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeRequest(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.Identifier) == "" || req.Password == "" {
			respondError(w, http.StatusBadRequest, "Identifier and password are required")
			return
		}

		tokens, err := s.upstream.Login(r.Context(), req.Identifier, req.Password)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Login: upstream rejected credentials")
			respondUpstreamError(w, err, "Login failed")
			return
		}

		s.establishSession(w, r, tokens)
	}
}

// RegisterHandler handles POST /api/auth/register. Account creation and
// session establishment happen in one step.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeRequest(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Username) == "" || req.Password == "" {
			respondError(w, http.StatusBadRequest, "Email, username and password are required")
			return
		}
		if !strings.Contains(req.Email, "@") {
			respondError(w, http.StatusBadRequest, "Invalid email format")
			return
		}

		tokens, err := s.upstream.Register(r.Context(), req.Email, req.Username, req.Password)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Register: upstream rejected registration")
			respondUpstreamError(w, err, "Registration failed")
			return
		}

		s.establishSession(w, r, tokens)
	}
}

// establishSession completes login/register: it resolves the identity behind
// the fresh access token, writes the session cookie, and answers with the
// user object only. Both upstream calls must succeed or no session is
// created.
func (s *Server) establishSession(w http.ResponseWriter, r *http.Request, tokens *oauth2.Token) {
	user, err := s.upstream.Me(r.Context(), tokens.AccessToken)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch user info for new session")
		respondError(w, http.StatusInternalServerError, "Failed to fetch user info")
		return
	}

	if err := s.createSession(w, user, tokens); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create session")
		respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// createSession seals identity and token pair into a fresh session cookie.
// Used by login, register, and refresh; each call replaces the payload
// wholesale.
func (s *Server) createSession(w http.ResponseWriter, user *upstream.User, tokens *oauth2.Token) error {
	return s.store.Create(w, session.Payload{
		UserID:       user.ID,
		Email:        user.Email,
		Username:     user.Username,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    time.Now().Add(s.config.SessionTTL),
	})
}

// RefreshHandler handles POST /api/auth/refresh: it mints a new token pair
// from the session's refresh token and rewrites the cookie with the same
// identity. On upstream failure the existing cookie is left untouched - the
// caller decides whether to log out.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := s.SessionFromRequest(r)
		if payload == nil {
			respondError(w, http.StatusUnauthorized, "No active session")
			return
		}

		tokens, err := s.upstream.Refresh(r.Context(), payload.RefreshToken)
		if err != nil {
			s.logger.Warn().Err(err).Int64("user_id", payload.UserID).Msg("Token refresh failed")
			var upstreamErr *upstream.Error
			if apperrors.As(err, &upstreamErr) {
				respondError(w, http.StatusUnauthorized, "Token refresh failed")
				return
			}
			respondError(w, http.StatusInternalServerError, "Token refresh failed")
			return
		}

		user := &upstream.User{ID: payload.UserID, Email: payload.Email, Username: payload.Username}
		if err := s.createSession(w, user, tokens); err != nil {
			s.logger.Error().Err(err).Msg("Failed to rewrite session after refresh")
			respondError(w, http.StatusInternalServerError, "Token refresh failed")
			return
		}

		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// LogoutHandler handles POST /api/auth/logout. Destroying an absent session
// is fine - the endpoint always succeeds.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.store.Destroy(w)
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// MeHandler handles GET /api/auth/me: it resolves the current user through
// the upstream using the session's access token. A stale access token
// surfaces as the upstream's 401, which the client fetch helper answers with
// a refresh.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := s.SessionFromRequest(r)
		if payload == nil {
			respondError(w, http.StatusUnauthorized, "No active session")
			return
		}

		user, err := s.upstream.Me(r.Context(), payload.AccessToken)
		if err != nil {
			respondUpstreamError(w, err, "Failed to fetch user info")
			return
		}

		respondJSON(w, http.StatusOK, user)
	}
}
