package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/password"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/ports"
)

const DefaultMaxImageBytes = 5 << 20

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

// ProfileService implements the profile use cases.
type ProfileService struct {
	repo          ports.ProfileRepository
	images        ports.ImageStore
	cleaner       ports.ImageCleaner
	hasher        *password.Hasher
	log           zerolog.Logger
	maxImageBytes int64
	now           func() time.Time
}

// ProfileOption customises a ProfileService.
type ProfileOption func(*ProfileService)

// WithImageCleaner hands orphaned images to an asynchronous cleaner instead
// of deleting them inline.
func WithImageCleaner(c ports.ImageCleaner) ProfileOption {
	return func(s *ProfileService) { s.cleaner = c }
}

// WithMaxImageBytes bounds accepted uploads. Zero disables the check.
func WithMaxImageBytes(n int64) ProfileOption {
	return func(s *ProfileService) { s.maxImageBytes = n }
}

// WithProfileClock replaces time.Now.
func WithProfileClock(now func() time.Time) ProfileOption {
	return func(s *ProfileService) { s.now = now }
}

func NewProfileService(
	repo ports.ProfileRepository,
	images ports.ImageStore,
	hasher *password.Hasher,
	log zerolog.Logger,
	opts ...ProfileOption,
) *ProfileService {
	s := &ProfileService{
		repo:          repo,
		images:        images,
		hasher:        hasher,
		log:           log,
		maxImageBytes: DefaultMaxImageBytes,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateProfile validates and stores a full profile with an optional image.
func (s *ProfileService) CreateProfile(ctx context.Context, in ports.CreateProfileInput) (*domain.Profile, error) {
	name, email, err := validateIdentityFields(in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Password) == "" {
		return nil, domain.NewValidationError("Password is required")
	}

	hash, err := hashSecret(s.hasher, in.Password)
	if err != nil {
		return nil, err
	}

	var img *domain.ProfileImage
	if !in.Image.Empty() {
		if img, err = s.storeImage(ctx, in.Image); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Profile{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Address:      strings.TrimSpace(in.Address),
		Role:         strings.TrimSpace(in.Role),
		Image:        img,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		s.discard(img)
		return nil, s.mapWriteError(err, email)
	}

	s.log.Info().Int64("profile_id", created.ID).Bool("image", img != nil).Msg("profile created")
	return created, nil
}

// CreateSimpleProfile stores a profile from name and email only. The
// profile gets a random credential that nobody knows.
func (s *ProfileService) CreateSimpleProfile(ctx context.Context, in ports.SimpleProfileInput) (*domain.Profile, error) {
	name, email, err := validateIdentityFields(in.Name, in.Email)
	if err != nil {
		return nil, err
	}

	secret := make([]byte, 24)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate placeholder credential: %w", err)
	}
	hash, err := s.hasher.Hash(hex.EncodeToString(secret))
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Profile{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, s.mapWriteError(err, email)
	}

	s.log.Info().Int64("profile_id", created.ID).Msg("simple profile created")
	return created, nil
}

// UpdateProfile replaces the editable fields of a profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, id int64, in ports.UpdateProfileInput) (*domain.Profile, error) {
	name, email, err := validateIdentityFields(in.Name, in.Email)
	if err != nil {
		return nil, err
	}

	var hash string
	if strings.TrimSpace(in.Password) != "" {
		if hash, err = hashSecret(s.hasher, in.Password); err != nil {
			return nil, err
		}
	}

	var img *domain.ProfileImage
	if !in.Image.Empty() {
		if img, err = s.storeImage(ctx, in.Image); err != nil {
			return nil, err
		}
	}

	var replaced *domain.ProfileImage
	updated, err := s.repo.Update(ctx, id, func(p *domain.Profile) error {
		replaced = nil
		p.Name = name
		p.Email = email
		p.Address = strings.TrimSpace(in.Address)
		if role := strings.TrimSpace(in.Role); role != "" {
			p.Role = role
		}
		if hash != "" {
			p.PasswordHash = hash
		}
		if img != nil {
			replaced = p.Image
			p.Image = img
		}
		p.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		s.discard(img)
		return nil, s.mapWriteError(err, email)
	}

	s.discard(replaced)
	s.log.Info().Int64("profile_id", id).Msg("profile updated")
	return updated, nil
}

// UpdateProfileImage replaces only the image of a profile.
func (s *ProfileService) UpdateProfileImage(ctx context.Context, id int64, upload ports.ImageUpload) (*domain.Profile, error) {
	img, err := s.storeImage(ctx, &upload)
	if err != nil {
		return nil, err
	}

	var replaced *domain.ProfileImage
	updated, err := s.repo.Update(ctx, id, func(p *domain.Profile) error {
		replaced = p.Image
		p.Image = img
		p.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		s.discard(img)
		return nil, err
	}

	s.discard(replaced)
	s.log.Info().Int64("profile_id", id).Str("checksum", img.Checksum).Msg("profile image replaced")
	return updated, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, id int64) (*domain.Profile, error) {
	return s.repo.FindByID(ctx, id)
}

// GetProfileImage returns the stored image bytes of a profile.
func (s *ProfileService) GetProfileImage(ctx context.Context, id int64) (*ports.ImageContent, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Image == nil {
		return nil, &domain.NotFoundError{Entity: "Image for profile", ID: id}
	}

	data, err := s.images.Get(ctx, p.Image)
	if err != nil {
		return nil, fmt.Errorf("load image for profile %d: %w", id, err)
	}
	return &ports.ImageContent{
		FileName:    p.Image.FileName,
		ContentType: p.Image.ContentType,
		Checksum:    p.Image.Checksum,
		Data:        data,
	}, nil
}

func (s *ProfileService) ListProfiles(ctx context.Context, page domain.PageRequest) (*domain.ProfilePage, error) {
	items, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, err
	}
	return domain.NewProfilePage(items, page, total), nil
}

// DeleteProfile removes a profile and, with it, its image.
func (s *ProfileService) DeleteProfile(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.discard(deleted.Image)
	s.log.Info().Int64("profile_id", id).Msg("profile deleted")
	return nil
}

// Report collects the rows for a page report, or for all profiles when page
// is nil.
func (s *ProfileService) Report(ctx context.Context, page *domain.PageRequest) (domain.ProfileReport, error) {
	if page == nil {
		all, err := s.repo.All(ctx)
		if err != nil {
			return domain.ProfileReport{}, err
		}
		return domain.NewProfileReport(all, int64(len(all)), 1), nil
	}

	items, total, err := s.repo.List(ctx, *page)
	if err != nil {
		return domain.ProfileReport{}, err
	}
	return domain.NewProfileReport(items, total, page.Offset()+1), nil
}

func (s *ProfileService) storeImage(ctx context.Context, u *ports.ImageUpload) (*domain.ProfileImage, error) {
	img, err := describeImage(u, s.maxImageBytes)
	if err != nil {
		return nil, err
	}
	if err := s.images.Put(ctx, img, u.Data); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}
	return img, nil
}

// discard releases an image that no profile references any more.
func (s *ProfileService) discard(img *domain.ProfileImage) {
	if img == nil || img.ObjectKey == "" {
		return
	}
	if s.cleaner != nil {
		s.cleaner.Enqueue(img)
		return
	}
	if err := s.images.Delete(context.Background(), img); err != nil {
		s.log.Warn().Err(err).Str("object_key", img.ObjectKey).Msg("failed to delete orphaned image")
	}
}

func (s *ProfileService) mapWriteError(err error, email string) error {
	if errors.Is(err, domain.ErrEmailTaken) {
		return domain.NewValidationError(fmt.Sprintf("Email %s is already in use", email))
	}
	return err
}

// hashSecret hashes a client-supplied password, reporting an over-long one
// as a validation failure.
func hashSecret(h *password.Hasher, secret string) (string, error) {
	hash, err := h.Hash(secret)
	if errors.Is(err, password.ErrTooLong) {
		return "", domain.NewValidationError(fmt.Sprintf("Password must be at most %d bytes", password.MaxSecretBytes))
	}
	return hash, err
}

func validateIdentityFields(name, email string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", domain.NewValidationError("Name must not be blank")
	}
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return "", "", domain.NewValidationError("Email must be a valid format")
	}
	return name, domain.NormalizeEmail(email), nil
}
