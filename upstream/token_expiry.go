package upstream

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expirySkew refreshes tokens slightly before their actual expiry so a
// forwarded request does not race the upstream's clock.
const expirySkew = 10 * time.Second

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// accessTokenExpiry recovers the expiry instant from the upstream's JWT
// access token. The signature is NOT verified - only the upstream can verify
// its own tokens; the gateway just wants the exp claim to know when a refresh
// is due. Tokens that are not parseable JWTs get a zero expiry, which
// oauth2.Token treats as "never expires" and leaves expiry detection to the
// upstream's 401s.
func accessTokenExpiry(accessToken string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// TokenExpired reports whether an access token is already past its embedded
// expiry (with skew) and should be refreshed before use. Tokens without a
// readable expiry are never reported as expired.
func TokenExpired(accessToken string) bool {
	expiry := accessTokenExpiry(accessToken)
	if expiry.IsZero() {
		return false
	}
	return !NowTimeFunc().Add(expirySkew).Before(expiry)
}
