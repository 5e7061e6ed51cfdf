// Package password hashes and checks credentials under a configurable scheme.
package password

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Scheme selects how new credentials are hashed.
type Scheme string

const (
	// StrongHash is salted bcrypt. It is the default.
	StrongHash Scheme = "bcrypt"
	// LegacyReversible is plain base64. It is insecure and only exists to
	// read credentials written by older deployments.
	LegacyReversible Scheme = "legacy-base64"
)

const legacyPrefix = "b64:"

// MaxSecretBytes is the longest secret bcrypt accepts, counted in bytes.
const MaxSecretBytes = 72

var (
	ErrMismatch      = errors.New("password: credential mismatch")
	ErrUnknownScheme = errors.New("password: unknown hash scheme")
	ErrEmpty         = errors.New("password: empty secret")
	ErrTooLong       = errors.New("password: secret exceeds 72 bytes")
)

// ParseScheme maps a configuration value to a Scheme.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrongHash:
		return StrongHash, nil
	case LegacyReversible:
		return LegacyReversible, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, s)
	}
}

// Insecure reports whether the scheme should never be used for new data.
func (s Scheme) Insecure() bool { return s == LegacyReversible }

// Hasher produces hashes with one scheme and checks hashes of any scheme.
type Hasher struct {
	scheme Scheme
	cost   int
	// dummy is compared against when an identity does not exist so that
	// lookups for unknown accounts take about as long as real ones.
	dummy []byte
}

// NewHasher returns a Hasher. A cost outside bcrypt's range falls back to
// bcrypt.DefaultCost.
func NewHasher(scheme Scheme, cost int) (*Hasher, error) {
	if scheme != StrongHash && scheme != LegacyReversible {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-credential"), cost)
	if err != nil {
		return nil, fmt.Errorf("password: prepare dummy hash: %w", err)
	}
	return &Hasher{scheme: scheme, cost: cost, dummy: dummy}, nil
}

// Scheme returns the scheme used for new hashes.
func (h *Hasher) Scheme() Scheme { return h.scheme }

// Hash encodes secret with the configured scheme. Secrets longer than
// MaxSecretBytes are rejected with ErrTooLong under either scheme.
func (h *Hasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmpty
	}
	if len(secret) > MaxSecretBytes {
		return "", ErrTooLong
	}
	switch h.scheme {
	case LegacyReversible:
		return legacyPrefix + base64.StdEncoding.EncodeToString([]byte(secret)), nil
	default:
		b, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
		if err != nil {
			return "", fmt.Errorf("password: hash: %w", err)
		}
		return string(b), nil
	}
}

// Compare checks secret against hash, detecting the scheme from the hash
// itself. It returns ErrMismatch when they do not match.
func (h *Hasher) Compare(hash, secret string) error {
	switch {
	case strings.HasPrefix(hash, legacyPrefix):
		want, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(hash, legacyPrefix))
		if err != nil {
			return ErrMismatch
		}
		if subtle.ConstantTimeCompare(want, []byte(secret)) != 1 {
			return ErrMismatch
		}
		return nil
	case strings.HasPrefix(hash, "$2"):
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return ErrMismatch
			}
			return fmt.Errorf("password: compare: %w", err)
		}
		return nil
	default:
		return ErrMismatch
	}
}

// CompareDummy burns roughly one bcrypt comparison and always fails.
func (h *Hasher) CompareDummy(secret string) error {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(secret))
	return ErrMismatch
}
