package ports

import (
	"context"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
)

// CredentialRepository stores login identities.
type CredentialRepository interface {
	// FindByEmail returns domain.ErrNotFound when no identity has the key.
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	// Create returns domain.ErrIdentityExists on a duplicate key.
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
}
