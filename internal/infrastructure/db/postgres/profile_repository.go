package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/ports"
)

const profileColumns = `id, name, email, password_hash, address, role,
	image_file_name, image_extension, image_content_type, image_size, image_checksum, image_data, image_object_key,
	version, created_at, updated_at`

const profileEmailConstraint = "profiles_email_key"

// ProfileRepository stores profiles in PostgreSQL.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var (
		p                                          domain.Profile
		address, role                              sql.NullString
		fileName, ext, contentType, sum, objectKey sql.NullString
		size                                       sql.NullInt64
		data                                       []byte
	)
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &address, &role,
		&fileName, &ext, &contentType, &size, &sum, &data, &objectKey,
		&p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Address = address.String
	p.Role = role.String
	if fileName.Valid {
		p.Image = &domain.ProfileImage{
			FileName:    fileName.String,
			Extension:   ext.String,
			ContentType: contentType.String,
			Size:        size.Int64,
			Checksum:    sum.String,
			Data:        data,
			ObjectKey:   objectKey.String,
		}
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// imageArgs flattens an optional image into its seven columns.
func imageArgs(img *domain.ProfileImage) []any {
	if img == nil {
		return []any{nil, nil, nil, nil, nil, nil, nil}
	}
	var data []byte
	if len(img.Data) > 0 {
		data = img.Data
	}
	return []any{img.FileName, img.Extension, img.ContentType, img.Size, img.Checksum, data, nullString(img.ObjectKey)}
}

func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `INSERT INTO profiles (name, email, password_hash, address, role,
		image_file_name, image_extension, image_content_type, image_size, image_checksum, image_data, image_object_key,
		version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1, $13, $14)
		RETURNING id`

	args := []any{p.Name, p.Email, p.PasswordHash, nullString(p.Address), nullString(p.Role)}
	args = append(args, imageArgs(p.Image)...)
	args = append(args, p.CreatedAt, p.UpdatedAt)

	created := *p
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&created.ID); err != nil {
		if isUniqueViolation(err, profileEmailConstraint) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	created.Version = 1
	return &created, nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id int64) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return findProfile(ctx, r.db, id, false)
}

func findProfile(ctx context.Context, db DBTX, id int64, forUpdate bool) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	p, err := scanProfile(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ProfileNotFound(id)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// Update locks the row, applies mutate and writes it back in one
// transaction.
func (r *ProfileRepository) Update(ctx context.Context, id int64, mutate ports.ProfileMutator) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var saved *domain.Profile
	err := WithTx(ctx, r.db, nil, func(ctx context.Context, tx DBTX) error {
		current, err := findProfile(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := mutate(current); err != nil {
			return err
		}

		query := `UPDATE profiles SET name = $2, email = $3, password_hash = $4, address = $5, role = $6,
			image_file_name = $7, image_extension = $8, image_content_type = $9, image_size = $10,
			image_checksum = $11, image_data = $12, image_object_key = $13,
			version = version + 1, updated_at = $14
			WHERE id = $1
			RETURNING version`

		args := []any{id, current.Name, current.Email, current.PasswordHash, nullString(current.Address), nullString(current.Role)}
		args = append(args, imageArgs(current.Image)...)
		args = append(args, current.UpdatedAt)

		if err := tx.QueryRowContext(ctx, query, args...).Scan(&current.Version); err != nil {
			if isUniqueViolation(err, profileEmailConstraint) {
				return domain.ErrEmailTaken
			}
			return fmt.Errorf("db error: %w", err)
		}
		current.ID = id
		saved = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id int64) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `DELETE FROM profiles WHERE id = $1 RETURNING ` + profileColumns
	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ProfileNotFound(id)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) List(ctx context.Context, page domain.PageRequest) ([]*domain.Profile, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	items, err := r.query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY id LIMIT $1 OFFSET $2`, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ProfileRepository) All(ctx context.Context) ([]*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY id`)
}

func (r *ProfileRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}
