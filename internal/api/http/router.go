package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/campus-kit/helpdesk-service/internal/auth"
	"github.com/campus-kit/helpdesk-service/internal/authz"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	KB             *handlers.KBHandler
	Reports        *handlers.ReportsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The KB read side is deliberately
// public; everything else requires a session, with mutations gated on
// the permission table.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	app.Get("/kb", cfg.KB.Search)
	app.Get("/kb/:id", cfg.KB.Get)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuth())

	protected.Get("/tickets", cfg.Tickets.ListTickets)
	protected.Post("/tickets", auth.RequireAction(authz.ActionCreateTicket), cfg.Tickets.CreateTicket)
	protected.Get("/tickets/:id", cfg.Tickets.GetTicket)
	protected.Patch("/tickets/:id", auth.RequireAction(authz.ActionUpdateTicket), cfg.Tickets.UpdateTicket)
	protected.Post("/tickets/:id/comments", auth.RequireAction(authz.ActionComment), cfg.Tickets.AddComment)
	protected.Get("/attachments/:id", cfg.Tickets.DownloadAttachment)

	protected.Post("/kb", auth.RequireAction(authz.ActionManageKB), cfg.KB.Create)
	protected.Put("/kb/:id", auth.RequireAction(authz.ActionManageKB), cfg.KB.Update)

	protected.Get("/reports", cfg.Reports.Aggregate)
	protected.Get("/users/assignable", cfg.Users.ListAssignable)

	admin := protected.Group("/admin", auth.RequireAction(authz.ActionChangeRole))
	admin.Post("/users/:id/role", cfg.Users.ChangeRole)
}
