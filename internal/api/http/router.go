package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sweet-shop/internal/api/http/handlers"
	"github.com/spec-kit/sweet-shop/internal/auth"
	"github.com/spec-kit/sweet-shop/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Sweets   *handlers.SweetsHandler
	Identity *auth.IdentityMiddleware
}

// RegisterRoutes wires HTTP routes. The identity middleware runs on every
// request and only populates context; each protected route carries its own
// guard, so nothing ships unguarded by accident.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Identity.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/create", cfg.Auth.Register)

	authGroup.Get("/verify", auth.RequireAuthenticated(), cfg.Auth.Verify)
	authGroup.Get("/get/:id", auth.RequireAuthenticated(), cfg.Auth.GetUser)
	authGroup.Get("/get", auth.RequireAuthenticated(), cfg.Auth.ListUsers)
	authGroup.Put("/update", auth.RequireAuthenticated(), cfg.Auth.UpdateUser)
	authGroup.Delete("/delete/:id", auth.RequireAuthenticated(), cfg.Auth.DeleteUser)

	sweets := app.Group("/api/sweets")
	sweets.Get("/", auth.RequireAuthenticated(), cfg.Sweets.ListSweets)
	sweets.Get("/search", auth.RequireAuthenticated(), cfg.Sweets.SearchSweets)
	sweets.Post("/", auth.RequireRole(domain.RoleAdmin), cfg.Sweets.AddSweet)
	sweets.Put("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Sweets.UpdateSweet)
	sweets.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Sweets.DeleteSweet)
	sweets.Post("/:id/purchase", auth.RequireRole(domain.RoleUser), cfg.Sweets.PurchaseSweet)
	sweets.Post("/:id/restock", auth.RequireRole(domain.RoleAdmin), cfg.Sweets.RestockSweet)
}
