package server

import (
	"net/http"
	"strconv"

	apperrors "github.com/taskjarvis/web-gateway/internal/errors"
	"github.com/taskjarvis/web-gateway/session"
)

// Identity headers stamped by the access gate. Request-scoped only: the gate
// strips inbound copies and they are never written to responses.
const (
	HeaderUserID        = "x-user-id"
	HeaderUserEmail     = "x-user-email"
	HeaderAuthenticated = "x-user-authenticated"
)

// Identity is the gate's pre-computed view of the requester. Values of this
// type only come from IdentityFromHeaders, which in turn only reads headers
// the gate stamped - handler code cannot fabricate one from arbitrary input.
type Identity struct {
	UserID        int64
	Email         string
	Authenticated bool
}

// IdentityFromHeaders reads the identity the access gate stamped onto the
// request. The second return value is false when the request never passed
// through the gate (bypassed paths); such requests must fall back to
// SessionFromRequest.
func IdentityFromHeaders(r *http.Request) (Identity, bool) {
	authValue := r.Header.Get(HeaderAuthenticated)
	if authValue == "" {
		return Identity{}, false
	}

	identity := Identity{Authenticated: authValue == "true"}
	if !identity.Authenticated {
		return identity, true
	}

	userID, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
	if err != nil {
		return Identity{}, false
	}

	identity.UserID = userID
	identity.Email = r.Header.Get(HeaderUserEmail)
	return identity, true
}

// SessionFromRequest decodes the session cookie on demand. Authoritative but
// more expensive than the header path; valid on any route, gated or not.
// Read-only - it never creates, refreshes, or destroys a session.
func (s *Server) SessionFromRequest(r *http.Request) *session.Payload {
	return s.store.Read(r).Payload()
}

// RequireAuth returns the session payload or ErrUnauthorized when no valid
// session exists. Guards server-side logic that must not run
// unauthenticated.
func (s *Server) RequireAuth(r *http.Request) (*session.Payload, error) {
	payload := s.SessionFromRequest(r)
	if payload == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return payload, nil
}
