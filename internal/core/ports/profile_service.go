package ports

import (
	"context"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
)

// ImageUpload is an image received from a client.
type ImageUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Empty reports whether no image was actually sent.
func (u *ImageUpload) Empty() bool {
	return u == nil || len(u.Data) == 0
}

// CreateProfileInput is the full (v1) create form.
type CreateProfileInput struct {
	Name     string
	Email    string
	Password string
	Address  string
	Role     string
	Image    *ImageUpload
}

// SimpleProfileInput is the v2 create form.
type SimpleProfileInput struct {
	Name  string
	Email string
}

// UpdateProfileInput replaces name, email and address. Password and Image
// are only changed when supplied.
type UpdateProfileInput struct {
	Name     string
	Email    string
	Password string
	Address  string
	Role     string
	Image    *ImageUpload
}

// ImageContent is a downloadable image.
type ImageContent struct {
	FileName    string
	ContentType string
	Checksum    string
	Data        []byte
}

// ProfileService defines the profile use cases.
type ProfileService interface {
	CreateProfile(ctx context.Context, in CreateProfileInput) (*domain.Profile, error)
	CreateSimpleProfile(ctx context.Context, in SimpleProfileInput) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, id int64, in UpdateProfileInput) (*domain.Profile, error)
	UpdateProfileImage(ctx context.Context, id int64, img ImageUpload) (*domain.Profile, error)
	GetProfile(ctx context.Context, id int64) (*domain.Profile, error)
	GetProfileImage(ctx context.Context, id int64) (*ImageContent, error)
	ListProfiles(ctx context.Context, page domain.PageRequest) (*domain.ProfilePage, error)
	DeleteProfile(ctx context.Context, id int64) error
	// Report builds report content for one page, or for every profile when
	// page is nil.
	Report(ctx context.Context, page *domain.PageRequest) (domain.ProfileReport, error)
}
