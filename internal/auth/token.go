package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned when a token carries no readable exp claim.
var ErrNoExpiry = errors.New("token has no expiry")

// TokenExpiry reads the exp claim of a backend-issued JWT. The signature is not
// verified: the portal never holds the signing key and only uses exp to schedule
// session teardown. Opaque (non-JWT) tokens return ErrNoExpiry.
func TokenExpiry(tokenStr string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return time.Time{}, ErrNoExpiry
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// SessionExpiry picks the expiry of a session started with token at now:
// the token's exp when readable and in the future, else now+ttl.
func SessionExpiry(token string, now time.Time, ttl time.Duration) time.Time {
	if exp, err := TokenExpiry(token); err == nil && exp.After(now) {
		return exp
	}
	return now.Add(ttl)
}
