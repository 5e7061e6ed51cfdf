package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Identity is an account that can log in. It is stored apart from profiles.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IdentityClaims is what a successful credential check yields.
type IdentityClaims struct {
	Subject string
	Roles   []string
}

// HasRole reports whether role is one of the claimed roles.
func (c IdentityClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// NormalizeEmail trims and lower-cases an identity key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidRole reports whether role is a known role tag.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
