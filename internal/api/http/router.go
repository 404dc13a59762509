package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/session-auth-service/internal/api/http/handlers"
	"github.com/spec-kit/session-auth-service/internal/auth"
	"github.com/spec-kit/session-auth-service/internal/domain"
	"github.com/spec-kit/session-auth-service/internal/observability"
)

// PublicPaths bypass the auth gate.
var PublicPaths = []string{
	"/api/auth/sign-up",
	"/api/auth/sign-in",
	"/health/live",
	"/health/ready",
	"/metrics",
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Metrics *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Authentication is enforced globally by the
// gate; protected routes additionally require the user role.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	requireUser := auth.RequireRole(domain.RoleUser)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/sign-up", cfg.Auth.SignUp)
	authGroup.Post("/sign-in", cfg.Auth.SignIn)
	authGroup.Get("/detail", requireUser, cfg.Auth.Detail)
	authGroup.Post("/sign-out", requireUser, cfg.Auth.SignOut)
	authGroup.Delete("/account", requireUser, cfg.Auth.DeleteAccount)
}
