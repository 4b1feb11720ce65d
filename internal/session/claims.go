package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expiry reads the "exp" claim of a JWT session token without verifying its
// signature. ok is false for opaque tokens and tokens without an expiry.
func Expiry(token string) (exp time.Time, ok bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether token carries an expiry that lies before now.
func Expired(token string, now time.Time) bool {
	exp, ok := Expiry(token)
	return ok && !exp.After(now)
}
