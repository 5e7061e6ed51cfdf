package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/token"
)

// errorResponse is the envelope every API error is rendered with.
type errorResponse struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
}

// NewHTTPErrorHandler maps domain errors to status codes. Unexpected errors
// are logged and answered with a generic message.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		resp := errorResponse{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Status:    code,
			Error:     http.StatusText(code),
			Message:   msg,
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, unknown routes, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var (
		verr  *domain.ValidationError
		aerr  *domain.AuthenticationError
		tkerr *token.TokenError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.As(err, &aerr):
		return http.StatusUnauthorized, "Invalid username or password"
	case errors.As(err, &tkerr):
		return http.StatusUnauthorized, "Invalid or expired token"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Access denied"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "Too many failed login attempts, try again later"
	case errors.Is(err, domain.ErrIdentityExists):
		return http.StatusConflict, "An account with this email already exists"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "The profile was modified concurrently, retry the request"
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "An unexpected error occurred"
}
