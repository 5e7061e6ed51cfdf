// Package token issues and verifies HS256 session tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
)

// Service issues and verifies session tokens with one process-wide key.
type Service struct {
	key    SigningKey
	ttl    time.Duration
	parser *jwt.Parser
}

// NewService returns a Service signing with key. ttl must be a positive
// whole number of milliseconds, the resolution tokens carry.
func NewService(key SigningKey, ttl time.Duration) (*Service, error) {
	if key.empty() {
		return nil, ErrMissingKey
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token: ttl must be positive, got %s", ttl)
	}
	if ttl%time.Millisecond != 0 {
		return nil, fmt.Errorf("token: ttl must be whole milliseconds, got %s", ttl)
	}
	return &Service{
		key: key,
		ttl: ttl,
		// Expiry is enforced by IsExpired/Validate with a caller supplied clock.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue signs a token for claims, valid from now until now+TTL. Instants are
// kept at millisecond resolution: now is truncated to the millisecond, and
// Decode returns that truncated IssuedAt.
func (s *Service) Issue(claims domain.IdentityClaims, now time.Time) (string, error) {
	if claims.Subject == "" {
		return "", errors.New("token: subject is required")
	}
	now = now.Truncate(time.Millisecond)
	exp := now.Add(s.ttl)

	roles := make([]string, len(claims.Roles))
	copy(roles, claims.Roles)

	sc := &sessionClaims{
		Roles:       roles,
		IssuedAtMs:  now.UnixMilli(),
		ExpiresAtMs: exp.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sc).SignedString(s.key.bytes())
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and returns the embedded claims. It does not
// check expiry.
func (s *Service) Decode(tokenString string) (*Claims, error) {
	sc := &sessionClaims{}
	_, err := s.parser.ParseWithClaims(tokenString, sc, func(t *jwt.Token) (any, error) {
		return s.key.bytes(), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, newError(Malformed, err)
		default:
			return nil, newError(BadSignature, err)
		}
	}

	if sc.Subject == "" || sc.ExpiresAtMs == 0 {
		return nil, newError(Malformed, errors.New("missing subject or expiry"))
	}
	return sc.toClaims(), nil
}

// IsExpired decodes tokenString and reports whether its expiry is at or
// before now.
func (s *Service) IsExpired(tokenString string, now time.Time) (bool, error) {
	c, err := s.Decode(tokenString)
	if err != nil {
		return false, err
	}
	return c.Expired(now), nil
}

// Validate reports whether tokenString is authentic, belongs to
// expectedSubject and is not expired at now.
func (s *Service) Validate(tokenString, expectedSubject string, now time.Time) bool {
	c, err := s.Decode(tokenString)
	if err != nil {
		return false
	}
	return c.Subject == expectedSubject && !c.Expired(now)
}
