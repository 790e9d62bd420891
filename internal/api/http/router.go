package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mintickets/helpdesk/internal/api/http/handlers"
	"github.com/mintickets/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Catalog        *handlers.CatalogHandler
	Users          *handlers.UsersHandler
	Directory      *handlers.DirectoryHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/user", cfg.AuthMiddleware.Handle, auth.RequireUser(), cfg.Users.CurrentUser)

	app.Post("/authpazysalvo/login", cfg.Directory.SpecialistLogin)

	tickets := app.Group("/tickets")
	tickets.Post("/register", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	// Registered before /:id so "attachment" is not parsed as a ticket id.
	tickets.Get("/attachment/:id", cfg.Tickets.DownloadAttachment)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireAny(), cfg.Tickets.DeleteTicket)
	tickets.Put("/:id/finalize", cfg.Tickets.FinalizeTicket)
	tickets.Post("/:id/rate", cfg.Tickets.RateTicket)
	tickets.Get("/:id/attachments", cfg.Tickets.ListAttachments)

	topics := app.Group("/topics")
	topics.Post("/", cfg.Catalog.CreateTopic)
	topics.Get("/", cfg.Catalog.ListTopics)
	topics.Put("/:id", cfg.Catalog.UpdateTopic)
	topics.Delete("/:id", cfg.Catalog.DeleteTopic)

	statuses := app.Group("/statuses")
	statuses.Post("/", cfg.Catalog.CreateStatus)
	statuses.Get("/", cfg.Catalog.ListStatuses)
	statuses.Put("/:id", cfg.Catalog.UpdateStatus)
	statuses.Delete("/:id", cfg.Catalog.DeleteStatus)

	terceros := app.Group("/terceros")
	terceros.Post("/", cfg.Catalog.CreateTercero)
	terceros.Get("/", cfg.Catalog.ListTerceros)
	terceros.Put("/:id", cfg.Catalog.UpdateTercero)
	terceros.Delete("/:id", cfg.Catalog.DeleteTercero)

	directory := app.Group("/tercerosda")
	directory.Get("/", cfg.Directory.ListUsers)
	directory.Get("/especialistas", cfg.Directory.ListSpecialists)
	directory.Get("/departamento/:departamento", cfg.Directory.ListByDepartment)
	directory.Get("/grupo/:grupo", cfg.Directory.ListByGroup)
	directory.Get("/:username", cfg.Directory.GetUser)
}
