// Package http registers the operational endpoints shared by every
// deployment: health probes, Prometheus metrics and the Swagger UI.
package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/salmannsharif/User-Profile-Manager/internal/api/docs"
	"github.com/salmannsharif/User-Profile-Manager/internal/infrastructure/http/handlers"
)

// RegisterOps adds the unauthenticated ops routes to e. checkers are pinged
// by the readiness probe.
func RegisterOps(e *echo.Echo, checkers ...handlers.Checker) {
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(checkers...)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are the stores up?

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
