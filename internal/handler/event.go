// Package handler exposes the HTTP surface of the ticketing service.
// Handlers translate requests into repository calls and map sentinel
// errors onto status codes; existence pre-checks before mutating calls
// happen here, not in the repositories.
package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"event-ticketing/internal/model"
	"event-ticketing/internal/monitoring"
	"event-ticketing/internal/repository"
)

// EventHandler serves the /api/events endpoints.
type EventHandler struct {
	Events repository.EventStore
}

func parseID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// GetAllEvents handles GET /api/events.
func (h *EventHandler) GetAllEvents(c echo.Context) error {
	events, err := h.Events.GetAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}
	return c.JSON(http.StatusOK, events)
}

// GetEvent handles GET /api/events/:id.
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	e, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": fmt.Sprintf("Event with ID %d not found", id)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}
	return c.JSON(http.StatusOK, e)
}

// GetUpcomingEvents handles GET /api/events/upcoming.  Only events
// strictly in the future are returned, without their ticket collections.
func (h *EventHandler) GetUpcomingEvents(c echo.Context) error {
	events, err := h.Events.GetUpcoming(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}
	return c.JSON(http.StatusOK, events)
}

// CreateEvent handles POST /api/events.  A client-supplied id is ignored;
// the response carries the generated one plus a Location header for the
// GET-by-id route.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var e model.Event
	if err := c.Bind(&e); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if strings.TrimSpace(e.Name) == "" || strings.TrimSpace(e.Location) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "name and location are required"})
	}
	if e.TotalSeats < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "totalSeats must not be negative"})
	}

	if err := h.Events.Create(c.Request().Context(), &e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not create event"})
	}
	monitoring.TrackEventCreated()

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/events/%d", e.ID))
	return c.JSON(http.StatusCreated, e)
}

// UpdateEvent handles PUT /api/events/:id.  The body id must equal the
// path id; the update replaces every scalar field of the row.
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var e model.Event
	if err := c.Bind(&e); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if id != e.ID {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "ID mismatch"})
	}

	exists, err := h.Events.Exists(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"message": fmt.Sprintf("Event with ID %d not found", id)})
	}

	if err := h.Events.Update(c.Request().Context(), &e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not update event"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteEvent handles DELETE /api/events/:id.  The store cascades the
// deletion to every ticket of the event.
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	exists, err := h.Events.Exists(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"message": fmt.Sprintf("Event with ID %d not found", id)})
	}
	if err := h.Events.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not delete event"})
	}
	return c.NoContent(http.StatusNoContent)
}
