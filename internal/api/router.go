package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/locadora/rental-system/internal/api/handler"
	"github.com/locadora/rental-system/internal/api/middleware"
	"github.com/locadora/rental-system/internal/core/ports"
	"github.com/locadora/rental-system/pkg/logger"
)

// Dependencies carries everything the router needs, already constructed and
// loaded. The router only wires routes; backend selection happens in main.
type Dependencies struct {
	Store     ports.BlobStore
	Notifier  ports.Notifier
	Auth      ports.AuthService
	Users     ports.UserService
	Clients   ports.ClientService
	Rentals   ports.RentalService
	Movies    ports.MovieLookup
	Postal    ports.PostalLookup
	Audit     ports.AuditRecorder
	JWTSecret string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Get())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("rental"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users, deps.Audit)
	clientHandler := handler.NewClientHandler(deps.Clients, deps.Audit)
	rentalHandler := handler.NewRentalHandler(deps.Rentals, deps.Audit)
	notificationHandler := handler.NewNotificationHandler(deps.Notifier)
	movieHandler := handler.NewMovieHandler(deps.Movies)
	addressHandler := handler.NewAddressHandler(deps.Postal)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/session", authHandler.Session)

	// --- Protected API ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))

	v1.GET("/users", userHandler.List)
	v1.POST("/users", userHandler.Create)
	v1.GET("/users/:id", userHandler.Get)
	v1.PUT("/users/:id", userHandler.Update)
	v1.DELETE("/users/:id", userHandler.Delete)

	v1.GET("/clients", clientHandler.List)
	v1.POST("/clients", clientHandler.Create)
	v1.GET("/clients/:id", clientHandler.Get)
	v1.PUT("/clients/:id", clientHandler.Update)
	v1.DELETE("/clients/:id", clientHandler.Delete)

	// Static rental routes before the :id route so "overdue" and "upcoming"
	// do not match as ids.
	v1.GET("/rentals", rentalHandler.List)
	v1.POST("/rentals", rentalHandler.Create)
	v1.GET("/rentals/overdue", rentalHandler.Overdue)
	v1.GET("/rentals/upcoming", rentalHandler.Upcoming)
	v1.GET("/rentals/:id", rentalHandler.Get)
	v1.PUT("/rentals/:id", rentalHandler.Update)
	v1.POST("/rentals/:id/return", rentalHandler.Return)

	v1.GET("/notifications", notificationHandler.List)
	v1.DELETE("/notifications", notificationHandler.Clear)
	v1.DELETE("/notifications/:id", notificationHandler.Dismiss)

	v1.GET("/movies", movieHandler.Search)
	v1.GET("/addresses/:zip", addressHandler.Lookup)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Store)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – is storage up?

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
