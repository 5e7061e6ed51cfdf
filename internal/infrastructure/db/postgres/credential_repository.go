package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
)

// CredentialRepository stores login identities in PostgreSQL. Roles are a
// comma separated column.
type CredentialRepository struct {
	db DBTX
}

func NewCredentialRepository(db DBTX) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `INSERT INTO identities (email, name, password_hash, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		identity.Email, identity.Name, identity.PasswordHash, strings.Join(identity.Roles, ","),
		identity.CreatedAt, identity.UpdatedAt).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "identities_email_key") {
			return nil, domain.ErrIdentityExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	created := *identity
	created.ID = strconv.FormatInt(id, 10)
	return &created, nil
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT id, email, name, password_hash, roles, created_at, updated_at
		FROM identities
		WHERE email = $1`

	var (
		id    int64
		roles string
		out   domain.Identity
	)
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&id, &out.Email, &out.Name, &out.PasswordHash, &roles, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	out.ID = strconv.FormatInt(id, 10)
	out.Roles = splitRoles(roles)
	return &out, nil
}

func splitRoles(s string) []string {
	var roles []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}
