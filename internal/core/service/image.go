package service

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/ports"
)

const octetStream = "application/octet-stream"

var allowedImageTypes = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
}

var allowedImageExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// describeImage checks an upload against the jpeg/png allow-list and builds
// its metadata. A missing or generic content type falls back to the file
// extension.
func describeImage(u *ports.ImageUpload, maxBytes int64) (*domain.ProfileImage, error) {
	if u.Empty() {
		return nil, domain.NewValidationError("Image file is required")
	}
	if maxBytes > 0 && int64(len(u.Data)) > maxBytes {
		return nil, domain.NewValidationError(fmt.Sprintf("Image must not exceed %d bytes", maxBytes))
	}

	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(u.ContentType, ";", 2)[0]))
	ext := domain.ImageExtension(u.FileName)

	if _, ok := allowedImageTypes[contentType]; !ok {
		fallback, extOK := allowedImageExtensions[ext]
		if (contentType != "" && contentType != octetStream) || !extOK {
			return nil, domain.NewValidationError(fmt.Sprintf(
				"Only JPEG and PNG images are allowed (Content-Type: %s, Extension: %s)",
				displayOrNone(u.ContentType), displayOrNone(ext)))
		}
		contentType = fallback
	}
	if ext == "" {
		ext = allowedImageTypes[contentType]
	}

	sum := blake3.Sum256(u.Data)
	return &domain.ProfileImage{
		FileName:    u.FileName,
		Extension:   ext,
		ContentType: contentType,
		Size:        int64(len(u.Data)),
		Checksum:    hex.EncodeToString(sum[:]),
	}, nil
}

func displayOrNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
