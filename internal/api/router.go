package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/gaadidekho/car-marketplace/docs"
	"github.com/gaadidekho/car-marketplace/internal/api/handler"
	"github.com/gaadidekho/car-marketplace/internal/api/middleware"
	"github.com/gaadidekho/car-marketplace/internal/core/ports"
	"github.com/gaadidekho/car-marketplace/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Logger   zerolog.Logger
	Auth     ports.AuthService
	Listings ports.ListingService
	// HealthChecks are probed by /health/ready.
	HealthChecks []handlers.Check
	// Registerer receives the HTTP metrics; nil means the default registry.
	Registerer prometheus.Registerer
	// Gatherer backs /metrics; nil means the default registry.
	Gatherer prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.JSONSerializer = handler.NewJSONSerializer()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "marketplace",
		Subsystem:  "http",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/swagger")
		},
	}))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	requireAuth := middleware.Auth(deps.Auth)

	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, requireAuth)
	auth.GET("/me", authHandler.Me, requireAuth)

	// --- Listings ---
	// Identity is optional here: reads are public and the mutations decide
	// between 404, 401 and 403 themselves.
	listingHandler := handler.NewListingHandler(deps.Listings)

	v1 := e.Group("/v1", middleware.Identify(deps.Auth))
	v1.GET("/listings", listingHandler.List)
	v1.POST("/listings", listingHandler.Create)
	v1.GET("/listings/:id", listingHandler.Get)
	v1.PUT("/listings/:id", listingHandler.Update)
	v1.DELETE("/listings/:id", listingHandler.Delete)

	return e
}

// requestLogger logs one structured line per request with zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
