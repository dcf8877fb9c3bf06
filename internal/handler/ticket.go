package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	qrcode "github.com/skip2/go-qrcode"

	"event-ticketing/internal/model"
	"event-ticketing/internal/monitoring"
	"event-ticketing/internal/queue"
	"event-ticketing/internal/repository"
	queuepub "event-ticketing/internal/service"
)

// TicketHandler serves the /api/tickets endpoints.  It needs the event
// store as well, because referential checks (does the event exist?) are
// the caller's responsibility, not the ticket repository's.
type TicketHandler struct {
	Tickets repository.TicketStore
	Events  repository.EventStore
}

// GetAllTickets handles GET /api/tickets.
func (h *TicketHandler) GetAllTickets(c echo.Context) error {
	tickets, err := h.Tickets.GetAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}
	return c.JSON(http.StatusOK, tickets)
}

// GetTicket handles GET /api/tickets/:id.
func (h *TicketHandler) GetTicket(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	t, err := h.Tickets.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrTicketNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": fmt.Sprintf("Ticket with ID %d not found", id)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}
	return c.JSON(http.StatusOK, t)
}

// GetTicketsByEvent handles GET /api/tickets/event/:eventId.  The event
// must exist; its tickets come back ordered by seat number.
func (h *TicketHandler) GetTicketsByEvent(c echo.Context) error {
	eventID, err := parseID(c, "eventId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	exists, err := h.Events.Exists(c.Request().Context(), eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"message": fmt.Sprintf("Event with ID %d not found", eventID)})
	}
	tickets, err := h.Tickets.GetByEvent(c.Request().Context(), eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}
	return c.JSON(http.StatusOK, tickets)
}

// GetTicketsByEmail handles GET /api/tickets/email/:email.
func (h *TicketHandler) GetTicketsByEmail(c echo.Context) error {
	email := c.Param("email")
	tickets, err := h.Tickets.GetByEmail(c.Request().Context(), email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}
	return c.JSON(http.StatusOK, tickets)
}

// CreateTicket handles POST /api/tickets.  The referenced event must
// exist before anything is written, so no orphan ticket row can appear.
// Seat accounting is deliberately untouched here: creating a ticket does
// not read or decrement the event's availableSeats, so two concurrent
// creates can both succeed past nominal capacity.
func (h *TicketHandler) CreateTicket(c echo.Context) error {
	var t model.Ticket
	if err := c.Bind(&t); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if t.EventID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "eventId is required"})
	}
	if strings.TrimSpace(t.AttendeeEmail) == "" || strings.TrimSpace(t.AttendeeFullName) == "" || strings.TrimSpace(t.SeatNumber) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "attendeeEmail, attendeeFullName and seatNumber are required"})
	}

	exists, err := h.Events.Exists(c.Request().Context(), t.EventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": fmt.Sprintf("Event with ID %d not found", t.EventID)})
	}

	if err := h.Tickets.Create(c.Request().Context(), &t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not create ticket"})
	}
	monitoring.TrackTicketIssued()
	h.publishIssued(c, &t)

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/tickets/%d", t.ID))
	return c.JSON(http.StatusCreated, t)
}

// publishIssued notifies the broker about a new ticket.  Publish errors
// are already logged by the publisher and must not fail the request.
func (h *TicketHandler) publishIssued(c echo.Context, t *model.Ticket) {
	ev := queue.TicketIssuedEvent{
		TicketID:      t.ID,
		EventID:       t.EventID,
		AttendeeEmail: t.AttendeeEmail,
		AttendeeName:  t.AttendeeFullName,
		SeatNumber:    t.SeatNumber,
		PricePaid:     t.PricePaid.StringFixed(2),
		Status:        t.Status.String(),
		IssuedAt:      t.PurchasedAt.Format("2006-01-02 15:04:05"),
	}
	if e, err := h.Events.GetByID(c.Request().Context(), t.EventID); err == nil {
		ev.EventName = e.Name
	}
	_ = queuepub.PublishTicketIssued(c.Request().Context(), ev)
}

// UpdateTicket handles PUT /api/tickets/:id.  purchasedAt is never
// changed by an update.
func (h *TicketHandler) UpdateTicket(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var t model.Ticket
	if err := c.Bind(&t); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if id != t.ID {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "ID mismatch"})
	}

	if _, err := h.Tickets.GetByID(c.Request().Context(), id); err != nil {
		if err == repository.ErrTicketNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": fmt.Sprintf("Ticket with ID %d not found", id)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}

	if err := h.Tickets.Update(c.Request().Context(), &t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not update ticket"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteTicket handles DELETE /api/tickets/:id.
func (h *TicketHandler) DeleteTicket(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if _, err := h.Tickets.GetByID(c.Request().Context(), id); err != nil {
		if err == repository.ErrTicketNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": fmt.Sprintf("Ticket with ID %d not found", id)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}
	if err := h.Tickets.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not delete ticket"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GetTicketQR handles GET /api/tickets/:id/qr.  The PNG encodes only the
// ticket id; gates scan it and validate the ticket against the API.  An
// optional size query parameter controls the pixel dimensions.
func (h *TicketHandler) GetTicketQR(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if _, err := h.Tickets.GetByID(c.Request().Context(), id); err != nil {
		if err == repository.ErrTicketNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": fmt.Sprintf("Ticket with ID %d not found", id)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}

	size := 300
	if s := c.QueryParam("size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 64 && n <= 1024 {
			size = n
		}
	}
	png, err := qrcode.Encode(strconv.FormatInt(id, 10), qrcode.Medium, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not generate QR code"})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
