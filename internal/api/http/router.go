package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Prefix         string
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Roles          *handlers.RolesHandler
	Categories     *handlers.CategoriesHandler
	Priorities     *handlers.PrioritiesHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Each protected route declares the roles
// it admits; an empty list admits any authenticated caller.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group(cfg.Prefix)
	authenticated := cfg.AuthMiddleware.Handle
	admin := auth.RequireRoles(domain.RoleAdmin)
	staff := auth.RequireRoles(domain.PrivilegedRoles...)

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/verify/:token", cfg.Auth.Verify)
	authGroup.Post("/forgot-password", cfg.Auth.ForgotPassword)
	authGroup.Post("/change-password/:token", cfg.Auth.ChangePassword)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Get("/profile", authenticated, cfg.Auth.Profile)

	roles := api.Group("/roles", authenticated, admin)
	roles.Get("/", cfg.Roles.List)
	roles.Get("/:id", cfg.Roles.Get)
	roles.Post("/", cfg.Roles.Create)
	roles.Put("/:id", cfg.Roles.Update)
	roles.Delete("/:id", cfg.Roles.Delete)
	roles.Post("/:id", cfg.Roles.Restore)

	users := api.Group("/users", authenticated)
	users.Get("/", staff, cfg.Users.List)
	users.Get("/:id", staff, cfg.Users.Get)
	users.Post("/", admin, cfg.Users.Create)
	users.Put("/:id", admin, cfg.Users.Update)
	users.Delete("/:id", admin, cfg.Users.Delete)
	users.Post("/:id", admin, cfg.Users.Restore)

	categories := api.Group("/categories", authenticated)
	categories.Get("/", cfg.Categories.List)
	categories.Get("/type/:type", cfg.Categories.ListByType)
	categories.Get("/subcategories/:parentId", cfg.Categories.ListSubcategories)
	categories.Get("/:id", cfg.Categories.Get)
	categories.Post("/", admin, cfg.Categories.Create)
	categories.Post("/:parentId/subcategory", admin, cfg.Categories.CreateSubcategory)
	categories.Put("/:id/change-status", admin, cfg.Categories.ChangeStatus)
	categories.Put("/:id/:parentId/subcategory", admin, cfg.Categories.UpdateSubcategory)
	categories.Put("/:id", admin, cfg.Categories.Update)
	categories.Delete("/:id", admin, cfg.Categories.Delete)
	categories.Post("/:id", admin, cfg.Categories.Restore)

	priorities := api.Group("/priorities", authenticated)
	priorities.Get("/", cfg.Priorities.List)
	priorities.Get("/status/:status", cfg.Priorities.ListByStatus)
	priorities.Get("/:id", cfg.Priorities.Get)
	priorities.Post("/", admin, cfg.Priorities.Create)
	priorities.Put("/:id/change-status", admin, cfg.Priorities.ChangeStatus)
	priorities.Put("/:id", admin, cfg.Priorities.Update)
	priorities.Delete("/:id", admin, cfg.Priorities.Delete)
	priorities.Post("/:id", admin, cfg.Priorities.Restore)

	tickets := api.Group("/tickets", authenticated)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/code/:code", cfg.Tickets.GetTicketByCode)
	tickets.Get("/:id/history", staff, cfg.Tickets.TicketHistory)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Put("/status/:id", staff, cfg.Tickets.ChangeStatus)
	tickets.Put("/assign/tech/:id", staff, cfg.Tickets.AssignTechnician)
	tickets.Delete("/:id", admin, cfg.Tickets.DeleteTicket)
	tickets.Post("/:id", admin, cfg.Tickets.RestoreTicket)
}
