// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"event-ticketing/internal/handler"
	"event-ticketing/internal/monitoring"
)

// RegisterRoutes registers the operational endpoints on the provided
// Echo instance: the health check used by load balancers and the
// Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(monitoring.Handler()))
}

// RegisterAPI registers the /api surface.  Static segments (upcoming,
// event, email) are registered alongside the :id routes; echo prefers
// the static match so /api/events/upcoming never shadows into
// /api/events/:id.
func RegisterAPI(e *echo.Echo, eh *handler.EventHandler, th *handler.TicketHandler, mw ...echo.MiddlewareFunc) {
	api := e.Group("/api", mw...)

	api.GET("/events", eh.GetAllEvents)
	api.GET("/events/upcoming", eh.GetUpcomingEvents)
	api.GET("/events/:id", eh.GetEvent)
	api.POST("/events", eh.CreateEvent)
	api.PUT("/events/:id", eh.UpdateEvent)
	api.DELETE("/events/:id", eh.DeleteEvent)

	api.GET("/tickets", th.GetAllTickets)
	api.GET("/tickets/:id", th.GetTicket)
	api.GET("/tickets/:id/qr", th.GetTicketQR)
	api.GET("/tickets/event/:eventId", th.GetTicketsByEvent)
	api.GET("/tickets/email/:email", th.GetTicketsByEmail)
	api.POST("/tickets", th.CreateTicket)
	api.PUT("/tickets/:id", th.UpdateTicket)
	api.DELETE("/tickets/:id", th.DeleteTicket)
}
