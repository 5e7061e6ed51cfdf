package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/password"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/ports"
)

// AuthService implements login and identity registration.
type AuthService struct {
	repo     ports.CredentialRepository
	verifier ports.CredentialVerifier
	tokens   ports.TokenIssuer
	hasher   *password.Hasher
	limiter  ports.LoginLimiter
	log      zerolog.Logger
	now      func() time.Time
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithLoginLimiter enables throttling of failed logins.
func WithLoginLimiter(l ports.LoginLimiter) AuthOption {
	return func(s *AuthService) { s.limiter = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(
	repo ports.CredentialRepository,
	verifier ports.CredentialVerifier,
	tokens ports.TokenIssuer,
	hasher *password.Hasher,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		repo:     repo,
		verifier: verifier,
		tokens:   tokens,
		hasher:   hasher,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login verifies the credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, secret string) (*ports.LoginResult, error) {
	key := domain.NormalizeEmail(username)
	if key == "" || secret == "" {
		return nil, domain.NewValidationError("Username and password are required")
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Str("identity", key).Msg("login limiter unavailable, allowing attempt")
		} else if !allowed {
			return nil, domain.ErrTooManyAttempts
		}
	}

	claims, err := s.verifier.Verify(ctx, key, secret)
	if err != nil {
		var authErr *domain.AuthenticationError
		if errors.As(err, &authErr) && s.limiter != nil {
			if lerr := s.limiter.RecordFailure(ctx, key); lerr != nil {
				s.log.Warn().Err(lerr).Str("identity", key).Msg("failed to record login failure")
			}
		}
		return nil, err
	}

	if s.limiter != nil {
		if lerr := s.limiter.Reset(ctx, key); lerr != nil {
			s.log.Warn().Err(lerr).Str("identity", key).Msg("failed to reset login limiter")
		}
	}

	now := s.now()
	tok, err := s.tokens.Issue(claims, now)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("identity", claims.Subject).Strs("roles", claims.Roles).Msg("login succeeded")
	return &ports.LoginResult{
		AccessToken: tok,
		ExpiresAt:   now.Add(s.tokens.TTL()),
		Claims:      claims,
	}, nil
}

// Register creates a login identity. Roles default to USER.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	email := domain.NormalizeEmail(in.Email)
	if !emailPattern.MatchString(email) {
		return nil, domain.NewValidationError("Email must be a valid format")
	}
	if in.Password == "" {
		return nil, domain.NewValidationError("Password is required")
	}

	roles := in.Roles
	if len(roles) == 0 {
		roles = []string{domain.RoleUser}
	}
	for _, r := range roles {
		if !domain.ValidRole(r) {
			return nil, domain.NewValidationError(fmt.Sprintf("Unknown role %q", r))
		}
	}

	hash, err := hashSecret(s.hasher, in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Identity{
		Email:        email,
		Name:         in.Name,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("identity", created.Email).Strs("roles", created.Roles).Msg("identity registered")
	return created, nil
}

// Resolve loads the identity behind an authenticated subject.
func (s *AuthService) Resolve(ctx context.Context, subject string) (*domain.Identity, error) {
	return s.repo.FindByEmail(ctx, domain.NormalizeEmail(subject))
}

// SeedAdmin makes sure an ADMIN identity exists for email. An existing
// identity is left untouched.
func (s *AuthService) SeedAdmin(ctx context.Context, name, email, secret string) error {
	_, err := s.Register(ctx, ports.RegisterInput{
		Name:     name,
		Email:    email,
		Password: secret,
		Roles:    []string{domain.RoleAdmin},
	})
	if errors.Is(err, domain.ErrIdentityExists) {
		s.log.Debug().Str("identity", email).Msg("admin identity already present")
		return nil
	}
	return err
}
