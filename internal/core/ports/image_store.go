package ports

import (
	"context"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
)

// ImageStore decides where image bytes live.
type ImageStore interface {
	// Put stores data and fills in Data or ObjectKey on img.
	Put(ctx context.Context, img *domain.ProfileImage, data []byte) error
	// Get returns the bytes for img.
	Get(ctx context.Context, img *domain.ProfileImage) ([]byte, error)
	// Delete removes the bytes for img. Inline images need nothing.
	Delete(ctx context.Context, img *domain.ProfileImage) error
}

// ImageCleaner removes orphaned images after the owning write commits.
type ImageCleaner interface {
	Enqueue(img *domain.ProfileImage)
}
