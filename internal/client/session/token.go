package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// parseClaims decodes the token payload without verifying the signature;
// only the backend can do that.
func parseClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// tokenExpired treats an undecodable token or a malformed exp claim as
// expired. A token without exp never expires locally.
func tokenExpired(token string, now time.Time) bool {
	claims, err := parseClaims(token)
	if err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		return false
	}
	return exp.Before(now)
}
