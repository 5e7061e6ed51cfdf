package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded content of a session token.
type Claims struct {
	Subject   string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is expired at now. Expiry is exclusive.
func (c *Claims) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// sessionClaims is the wire form. The registered iat/exp are whole seconds
// for other consumers; iat_ms/exp_ms carry the exact instants.
type sessionClaims struct {
	Roles       []string `json:"roles"`
	IssuedAtMs  int64    `json:"iat_ms"`
	ExpiresAtMs int64    `json:"exp_ms"`
	jwt.RegisteredClaims
}

func (c *sessionClaims) toClaims() *Claims {
	roles := c.Roles
	if roles == nil {
		roles = []string{}
	}
	return &Claims{
		Subject:   c.Subject,
		Roles:     roles,
		IssuedAt:  time.UnixMilli(c.IssuedAtMs).UTC(),
		ExpiresAt: time.UnixMilli(c.ExpiresAtMs).UTC(),
	}
}
