package session

import "time"

// Payload is the decrypted contents of the session cookie: the authenticated
// user's identity plus the credential pair for the upstream API. A Payload is
// only ever produced by Codec.Decode from a token that passed verification,
// or built server-side right before Codec.Encode - no other code path
// fabricates one.
type Payload struct {
	UserID       int64     `json:"userId"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// State classifies the outcome of decoding a session token. Production code
// collapses everything but StateValid to "no session"; the tagged states
// exist so tests can tell absent, tampered, and expired tokens apart.
type State int

const (
	// StateAbsent means no token was presented.
	StateAbsent State = iota
	// StateInvalid means the token was malformed or failed verification.
	StateInvalid
	// StateExpired means the token verified but its embedded expiry has passed.
	StateExpired
	// StateValid means the token verified and is within its lifetime.
	StateValid
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateInvalid:
		return "invalid"
	case StateExpired:
		return "expired"
	case StateValid:
		return "valid"
	}
	return "unknown"
}

// Result is the tagged outcome of a decode. The payload field is only set
// when State is StateValid.
type Result struct {
	State   State
	payload Payload
}

// Payload returns the decoded payload, or nil unless the result is valid.
// This is the boundary where the tagged states collapse to session / no
// session.
func (r Result) Payload() *Payload {
	if r.State != StateValid {
		return nil
	}
	p := r.payload
	return &p
}

// Valid reports whether the result carries a usable session.
func (r Result) Valid() bool {
	return r.State == StateValid
}
