package session

import (
	"fmt"
	"net/http"
	"time"
)

// CookieName is the single cookie that carries the authenticated state.
// No other client-visible storage is used once a session exists.
const CookieName = "session"

// Store adapts the codec to the HTTP cookie layer. All three operations
// touch only the session cookie.
type Store struct {
	codec  *Codec
	name   string
	secure bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) StoreOption {
	return func(s *Store) {
		if name != "" {
			s.name = name
		}
	}
}

// WithSecure marks the cookie for HTTPS-only transport. Enable everywhere
// the gateway terminates TLS or sits behind a TLS-terminating proxy.
func WithSecure(secure bool) StoreOption {
	return func(s *Store) {
		s.secure = secure
	}
}

// NewStore creates a cookie-backed session store around the given codec.
func NewStore(codec *Codec, options ...StoreOption) *Store {
	store := &Store{
		codec: codec,
		name:  CookieName,
	}
	for _, opt := range options {
		opt(store)
	}
	return store
}

// Create encodes the payload and writes the session cookie, overwriting any
// prior cookie. Used on login, register, and refresh. Max-Age is aligned to
// the payload expiry; writing an already-expired payload is an error.
func (s *Store) Create(w http.ResponseWriter, payload Payload) error {
	until := time.Until(payload.ExpiresAt)
	if until <= 0 {
		return fmt.Errorf("[Store.Create] cannot write expired session (expired %v ago)", -until)
	}

	token, err := s.codec.Encode(payload)
	if err != nil {
		return fmt.Errorf("[Store.Create] encode: %w", err)
	}

	// Round up: a sub-second lifetime must still produce an expiring
	// cookie, not a Max-Age 0 browser-session cookie.
	maxAge := int((until + time.Second - 1) / time.Second)

	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read decodes the session cookie from the request. A missing cookie yields
// an absent result; everything else is classified by the codec.
func (s *Store) Read(r *http.Request) Result {
	cookie, err := r.Cookie(s.name)
	if err != nil {
		return Result{State: StateAbsent}
	}
	return s.codec.Decode(cookie.Value)
}

// Destroy removes the session cookie. Idempotent - destroying an absent
// session is not an error.
func (s *Store) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Name returns the cookie name the store manages.
func (s *Store) Name() string {
	return s.name
}
