package server

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	// loginRoute receives unauthenticated visitors to protected pages.
	loginRoute = "/login"
	// landingRoute receives authenticated visitors to auth-only pages.
	landingRoute = "/dashboard"
	// redirectParam carries the originally requested path through the
	// login redirect so the user lands back where they were headed.
	redirectParam = "redirect"
)

// AccessGate is the per-request gate that runs ahead of every page handler.
// It decodes the session cookie, classifies the path, redirects or passes
// through, and stamps identity headers onto the forwarded request so page
// code can read identity without re-decoding the cookie.
//
// A decode failure is treated identically to "no session": expired, tampered,
// and missing cookies all degrade to the unauthenticated path.
func (s *Server) AccessGate() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			// Inbound copies of the identity headers are never trusted,
			// on bypassed paths included.
			stripIdentityHeaders(r)

			if Bypassed(path) {
				next(w, r)
				return
			}

			payload := s.store.Read(r).Payload()
			class := s.classifier.Classify(path)

			switch {
			case class == RouteProtected && payload == nil:
				loginURL := loginRoute + "?" + redirectParam + "=" + url.QueryEscape(path)
				http.Redirect(w, r, loginURL, http.StatusSeeOther)
				return

			case class == RouteAuthOnly && payload != nil:
				http.Redirect(w, r, landingRoute, http.StatusSeeOther)
				return
			}

			if payload != nil {
				r.Header.Set(HeaderUserID, strconv.FormatInt(payload.UserID, 10))
				r.Header.Set(HeaderUserEmail, payload.Email)
				r.Header.Set(HeaderAuthenticated, "true")
			} else {
				r.Header.Set(HeaderAuthenticated, "false")
			}

			next(w, r)
		}
	}
}

func stripIdentityHeaders(r *http.Request) {
	r.Header.Del(HeaderUserID)
	r.Header.Del(HeaderUserEmail)
	r.Header.Del(HeaderAuthenticated)
}
