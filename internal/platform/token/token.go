// Package token validates the bearer tokens issued by the upstream patient
// auth service. The portal never verifies signatures — that is the upstream's
// job — it only checks whether a stored token is still worth presenting.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Valid reports whether raw is a well-formed three-segment token whose exp
// claim lies in the future. A missing, malformed, or expired token is simply
// invalid; callers never see a decode error.
func Valid(raw string) bool {
	return ValidAt(raw, time.Now())
}

// ValidAt is Valid against an explicit clock.
func ValidAt(raw string, now time.Time) bool {
	if raw == "" {
		return false
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.After(now)
}
