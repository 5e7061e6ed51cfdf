package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/salmannsharif/User-Profile-Manager/internal/api/metrics"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/token"
)

// Context keys set for authenticated requests.
const (
	ContextSubject = "subject"
	ContextRoles   = "roles"
)

// TokenVerifier is the part of the token service the middleware needs.
type TokenVerifier interface {
	Decode(tokenString string) (*token.Claims, error)
	Validate(tokenString, expectedSubject string, now time.Time) bool
}

// IdentityResolver confirms a token subject still maps to an account.
type IdentityResolver interface {
	Resolve(ctx context.Context, subject string) (*domain.Identity, error)
}

type authConfig struct {
	resolver IdentityResolver
	now      func() time.Time
}

type AuthOption func(*authConfig)

// WithResolver rejects tokens whose subject no longer exists.
func WithResolver(r IdentityResolver) AuthOption {
	return func(c *authConfig) { c.resolver = r }
}

func WithNow(now func() time.Time) AuthOption {
	return func(c *authConfig) { c.now = now }
}

// Auth validates the bearer token and injects subject and roles into the
// echo context.
func Auth(verifier TokenVerifier, opts ...AuthOption) echo.MiddlewareFunc {
	cfg := authConfig{now: time.Now}
	for _, o := range opts {
		o(&cfg)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return reject("missing", "Missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return reject("malformed", "Invalid authorization header")
			}
			raw := strings.TrimSpace(parts[1])

			claims, err := verifier.Decode(raw)
			if err != nil {
				var tkerr *token.TokenError
				if errors.As(err, &tkerr) {
					return reject(string(tkerr.Code), "Invalid token")
				}
				return reject("malformed", "Invalid token")
			}

			now := cfg.now()
			if claims.Expired(now) {
				return reject("expired", "Token has expired")
			}

			subject := claims.Subject
			if cfg.resolver != nil {
				identity, err := cfg.resolver.Resolve(c.Request().Context(), claims.Subject)
				if err != nil {
					if errors.Is(err, domain.ErrNotFound) {
						return reject("unknown_subject", "Invalid token")
					}
					return err
				}
				subject = identity.Email
			}

			if !verifier.Validate(raw, subject, now) {
				return reject("unknown_subject", "Invalid token")
			}

			c.Set(ContextSubject, claims.Subject)
			c.Set(ContextRoles, claims.Roles)

			return next(c)
		}
	}
}

func reject(reason, msg string) error {
	metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}
