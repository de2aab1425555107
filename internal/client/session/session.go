// Package session persists the signed-in identity between runs of the
// client in a local SQLite database, so a later start can restore the user
// without asking for credentials again.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is what the identity provider handed out on the last sign in.
type Session struct {
	UID          string
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the identity token is no longer usable at now.
// A zero ExpiresAt never expires.
func (s Session) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}

// ParseIDToken reads the subject and expiry of an identity token. The
// signature is not verified: the token was just received from the provider
// over TLS and is only inspected to schedule its reuse.
func ParseIDToken(token string) (uid string, expiresAt time.Time, err error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return "", time.Time{}, fmt.Errorf("parse id token: %w", err)
	}
	if claims.Subject == "" {
		return "", time.Time{}, errors.New("parse id token: missing sub claim")
	}
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time.UTC()
	}
	return claims.Subject, expiresAt, nil
}
