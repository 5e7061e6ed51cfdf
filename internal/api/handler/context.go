package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salmannsharif/User-Profile-Manager/internal/api/middleware"
)

// ctxSubject returns the authenticated subject set by the Auth middleware.
// An empty subject means the middleware did not run.
func ctxSubject(c echo.Context) (string, error) {
	subject, _ := c.Get(middleware.ContextSubject).(string)
	if subject == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication claims")
	}
	return subject, nil
}
