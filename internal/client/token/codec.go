// Package token decodes compact bearer tokens and judges their expiry.
//
// No signature verification happens on the client: the server is
// authoritative, the client only estimates staleness to avoid doomed calls.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken indicates that the token could not be split into its
// structural parts or its payload is not valid JSON.
var ErrMalformedToken = errors.New("malformed token")

// Claims is the normalized decoded token payload. Unknown payload fields
// are ignored.
type Claims struct {
	Subject  string
	Username string
	Role     string

	// ExpiresAt is the expiry instant. Zero when the token carries no
	// expiry claim; such tokens are unusable for liveness checks.
	ExpiresAt time.Time
}

// payload mirrors the JSON claims the repairdesk server issues.
type payload struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Decode parses the claims of a compact token without verifying its
// signature. Returns ErrMalformedToken if the token does not have three
// dot-separated base64url segments or the payload is not valid JSON.
func Decode(tokenString string) (*Claims, error) {
	var p payload
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	c := &Claims{
		Subject:  p.Subject,
		Username: p.Username,
		Role:     p.Role,
	}
	if p.ExpiresAt != nil {
		c.ExpiresAt = p.ExpiresAt.Time
	}

	return c, nil
}

// IsExpired reports whether the token is unusable at the given instant.
// Fail-closed: an undecodable token or one without an expiry claim counts
// as expired.
func IsExpired(tokenString string, now time.Time) bool {
	c, err := Decode(tokenString)
	if err != nil {
		return true
	}
	if c.ExpiresAt.IsZero() {
		return true
	}
	return !c.ExpiresAt.After(now)
}
