package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// ProfileImage is the optional picture attached to a profile. Data is set
// when the image is stored inline; ObjectKey when it lives in object storage.
type ProfileImage struct {
	FileName    string `bson:"file_name"`
	Extension   string `bson:"extension"`
	ContentType string `bson:"content_type"`
	Size        int64  `bson:"size"`
	Checksum    string `bson:"checksum"`
	Data        []byte `bson:"data,omitempty"`
	ObjectKey   string `bson:"object_key,omitempty"`
}

// Profile is the record managed by the profile endpoints.
type Profile struct {
	ID           int64         `bson:"_id"`
	Name         string        `bson:"name"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"password_hash"`
	Address      string        `bson:"address,omitempty"`
	Role         string        `bson:"role,omitempty"`
	Image        *ProfileImage `bson:"image,omitempty"`
	Version      int64         `bson:"version"`
	CreatedAt    time.Time     `bson:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"`
}

// ImageExtension returns the lower-cased extension of fileName without the dot.
func ImageExtension(fileName string) string {
	ext := filepath.Ext(fileName)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
