package upstream

import "fmt"

// User is the identity object the upstream API returns from /auth/me.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Error is a non-transient upstream rejection (bad credentials, duplicate
// registration, dead refresh token). Status and Message are propagated to
// the caller unchanged so the browser sees the upstream's own reason.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
}

// tokenResponse is the upstream's token pair wire format.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// errorResponse is the upstream's error wire format (FastAPI-style detail).
type errorResponse struct {
	Detail string `json:"detail"`
}
