package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/password"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/ports"
)

// CredentialVerifier checks passwords against the credential store.
type CredentialVerifier struct {
	repo   ports.CredentialRepository
	hasher *password.Hasher
}

func NewCredentialVerifier(repo ports.CredentialRepository, hasher *password.Hasher) *CredentialVerifier {
	return &CredentialVerifier{repo: repo, hasher: hasher}
}

// Verify returns the identity's claims when secret matches, or an
// *domain.AuthenticationError. It never writes.
func (v *CredentialVerifier) Verify(ctx context.Context, identityKey, secret string) (domain.IdentityClaims, error) {
	key := domain.NormalizeEmail(identityKey)

	identity, err := v.repo.FindByEmail(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = v.hasher.CompareDummy(secret)
			return domain.IdentityClaims{}, &domain.AuthenticationError{Code: domain.AuthNotFound, Identity: key}
		}
		return domain.IdentityClaims{}, fmt.Errorf("verify credentials: %w", err)
	}

	if err := v.hasher.Compare(identity.PasswordHash, secret); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return domain.IdentityClaims{}, &domain.AuthenticationError{Code: domain.AuthMismatch, Identity: key}
		}
		return domain.IdentityClaims{}, fmt.Errorf("verify credentials: %w", err)
	}

	roles := make([]string, len(identity.Roles))
	copy(roles, identity.Roles)
	return domain.IdentityClaims{Subject: identity.Email, Roles: roles}, nil
}
