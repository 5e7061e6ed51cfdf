package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/salmannsharif/User-Profile-Manager/internal/api/handler"
	"github.com/salmannsharif/User-Profile-Manager/internal/api/middleware"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/ports"
	opshttp "github.com/salmannsharif/User-Profile-Manager/internal/infrastructure/http"
	"github.com/salmannsharif/User-Profile-Manager/internal/infrastructure/http/handlers"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Log      zerolog.Logger
	Auth     ports.AuthService
	Tokens   middleware.TokenVerifier
	Profiles ports.ProfileService
	Renderer ports.ReportRenderer
	Checkers []handlers.Checker
	// BodyLimit caps request bodies, e.g. "6M". Empty means no limit.
	BodyLimit string
	// Registerer receives the HTTP metrics. Nil uses the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	httpMetrics, err := echoprometheus.MiddlewareConfig{
		Subsystem:  "profiled",
		Registerer: d.Registerer,
	}.ToMiddleware()
	if err != nil {
		return nil, fmt.Errorf("http metrics: %w", err)
	}
	e.Use(httpMetrics)
	if d.BodyLimit != "" {
		e.Use(echomiddleware.BodyLimit(d.BodyLimit))
	}

	// --- Ops routes (no auth required) ---
	opshttp.RegisterOps(e, d.Checkers...)

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	profileHandler := handler.NewProfileHandler(d.Profiles)
	reportHandler := handler.NewReportHandler(d.Profiles, d.Renderer)

	authn := middleware.Auth(d.Tokens, middleware.WithResolver(d.Auth))
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/register", authHandler.Register, authn, adminOnly)
	e.GET("/api/auth/me", authHandler.Me, authn)

	// --- Profile routes ---
	v1 := e.Group("/v1/api/profiles", authn)
	v1.POST("", profileHandler.CreateV1)
	v1.GET("", profileHandler.ListV1)
	v1.GET("/:id", profileHandler.GetV1)
	v1.DELETE("/:id", profileHandler.Delete, adminOnly)

	v2 := e.Group("/v2/api/profiles", authn)
	v2.POST("", profileHandler.CreateV2)
	v2.GET("", profileHandler.ListV2)
	v2.GET("/:id", profileHandler.GetV2)
	v2.DELETE("/:id", profileHandler.Delete, adminOnly)

	shared := e.Group("/api/profiles", authn)
	shared.GET("/pdf", reportHandler.Page)
	shared.GET("/pdf/all", reportHandler.All)
	shared.PUT("/:id", profileHandler.Update)
	shared.PUT("/:id/image", profileHandler.UpdateImage)
	shared.GET("/:id/image", profileHandler.GetImage)

	return e, nil
}
