// Package storage holds the ImageStore implementations: inline bytes on the
// profile record, or objects in an S3 compatible bucket.
package storage

import (
	"context"
	"errors"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
)

// ErrNoImageData is returned when an image record carries no bytes to read.
var ErrNoImageData = errors.New("image has no stored data")

// InlineStore keeps image bytes on the profile itself.
type InlineStore struct{}

func NewInlineStore() *InlineStore { return &InlineStore{} }

func (InlineStore) Put(_ context.Context, img *domain.ProfileImage, data []byte) error {
	img.Data = data
	img.ObjectKey = ""
	return nil
}

func (InlineStore) Get(_ context.Context, img *domain.ProfileImage) ([]byte, error) {
	if len(img.Data) == 0 {
		return nil, ErrNoImageData
	}
	return img.Data, nil
}

func (InlineStore) Delete(context.Context, *domain.ProfileImage) error { return nil }
