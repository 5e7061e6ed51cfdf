package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// MinKeyBytes is the smallest HMAC key accepted for HS256.
const MinKeyBytes = 32

var (
	ErrMissingKey   = errors.New("token: signing key is not configured")
	ErrMalformedKey = errors.New("token: signing key is malformed")
)

// SigningKey is symmetric key material. It is never mutated after load.
type SigningKey struct {
	b []byte
}

// LoadSigningKey decodes base64 key material (standard or URL alphabet,
// padded or not).
func LoadSigningKey(encoded string) (SigningKey, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return SigningKey{}, ErrMissingKey
	}

	var raw []byte
	var err error
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		raw, err = enc.DecodeString(encoded)
		if err == nil {
			break
		}
	}
	if err != nil {
		return SigningKey{}, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	if len(raw) < MinKeyBytes {
		return SigningKey{}, fmt.Errorf("%w: need at least %d bytes, got %d", ErrMalformedKey, MinKeyBytes, len(raw))
	}
	return SigningKey{b: raw}, nil
}

// bytes hands out a copy so callers cannot alter the key.
func (k SigningKey) bytes() []byte {
	out := make([]byte, len(k.b))
	copy(out, k.b)
	return out
}

func (k SigningKey) empty() bool { return len(k.b) == 0 }
