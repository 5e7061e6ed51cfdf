package ports

import (
	"context"
	"time"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
)

// RegisterInput carries a new login identity.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Roles    []string
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Claims      domain.IdentityClaims
}

// CredentialVerifier checks a presented secret against the stored hash.
type CredentialVerifier interface {
	Verify(ctx context.Context, identityKey, secret string) (domain.IdentityClaims, error)
}

// AuthService handles login and identity management.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Register(ctx context.Context, in RegisterInput) (*domain.Identity, error)
	// Resolve returns the identity for an authenticated subject.
	Resolve(ctx context.Context, subject string) (*domain.Identity, error)
}

// LoginLimiter throttles repeated failed logins for one key.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// TokenIssuer signs session tokens for verified identities.
type TokenIssuer interface {
	Issue(claims domain.IdentityClaims, now time.Time) (string, error)
	TTL() time.Duration
}
