package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ticketflow/ticketflow/internal/api/http/handlers"
	"github.com/ticketflow/ticketflow/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Pages       *handlers.PagesHandler
	Auth        *handlers.AuthHandler
	Tickets     *handlers.TicketsHandler
	Gate        *auth.Gate
	AuthLimiter *RateLimiter
}

// RegisterRoutes wires HTTP routes. Health probes sit in front of the gate
// so they never touch sessions; everything after it is gated.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	health := app.Group("/health")
	health.Get("/live", cfg.Health.Live)
	health.Get("/ready", cfg.Health.Ready)
	health.Get("/metrics", cfg.Health.Metrics)

	app.Use(cfg.Gate.Handle)

	app.Get("/", cfg.Pages.Landing)
	app.Get("/dashboard", cfg.Pages.Dashboard)

	limit := func(c *fiber.Ctx) error { return c.Next() }
	if cfg.AuthLimiter != nil {
		limit = cfg.AuthLimiter.Handle
	}
	authGroup := app.Group("/auth")
	authGroup.Get("/login", cfg.Auth.ShowLogin)
	authGroup.Post("/login", limit, cfg.Auth.Login)
	authGroup.Get("/signup", cfg.Auth.ShowSignup)
	authGroup.Post("/signup", limit, cfg.Auth.Signup)
	authGroup.Get("/logout", cfg.Auth.Logout)

	tickets := app.Group("/tickets")
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/create", cfg.Tickets.ShowCreate)
	tickets.Post("/create", cfg.Tickets.Create)
	tickets.Get("/:id/edit", cfg.Tickets.ShowEdit)
	tickets.Post("/update", cfg.Tickets.Update)
	tickets.Get("/delete/:id", cfg.Tickets.Delete)
	tickets.Post("/delete/:id", cfg.Tickets.Delete)

	app.Use(cfg.Pages.NotFound)
}
