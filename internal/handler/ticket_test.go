package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-ticketing/internal/model"
	"event-ticketing/internal/repository"
)

func createEvent(t *testing.T, store *repository.MemoryStore) *model.Event {
	t.Helper()
	ev := &model.Event{
		Name:           "Conf",
		Location:       "Main Hall",
		EventDate:      time.Now().UTC().Add(48 * time.Hour),
		TotalSeats:     100,
		AvailableSeats: 100,
		BasePrice:      decimal.RequireFromString("50.00"),
	}
	require.NoError(t, store.Create(httptest.NewRequest(http.MethodGet, "/", nil).Context(), ev))
	return ev
}

func ticketBody(eventID int64, email, seat string) string {
	return fmt.Sprintf(`{"eventId":%d,"attendeeEmail":%q,"attendeeFullName":"Alice Doe","seatNumber":%q,"pricePaid":50.00,"status":1}`,
		eventID, email, seat)
}

func TestTicketLifecycle(t *testing.T) {
	e, store := newServer()
	ev := createEvent(t, store)

	rec := doJSON(e, http.MethodPost, "/api/tickets", ticketBody(ev.ID, "alice@example.com", "A1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var tk model.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tk))
	assert.NotZero(t, tk.ID)
	assert.Equal(t, fmt.Sprintf("/api/tickets/%d", tk.ID), rec.Header().Get(echo.HeaderLocation))
	assert.False(t, tk.PurchasedAt.IsZero())

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/tickets/event/%d", ev.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var byEvent []model.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &byEvent))
	require.Len(t, byEvent, 1)
	assert.Equal(t, "A1", byEvent[0].SeatNumber)

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/events/%d", ev.ID), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/tickets/%d", tk.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTicketRejectsMissingEvent(t *testing.T) {
	e, _ := newServer()
	rec := doJSON(e, http.MethodPost, "/api/tickets", ticketBody(42, "alice@example.com", "A1"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Event with ID 42 not found")
}

func TestCreateTicketValidatesRequiredFields(t *testing.T) {
	e, store := newServer()
	ev := createEvent(t, store)

	body := fmt.Sprintf(`{"eventId":%d,"attendeeEmail":"","attendeeFullName":"","seatNumber":""}`, ev.ID)
	rec := doJSON(e, http.MethodPost, "/api/tickets", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTicketDoesNotTouchSeatCounter(t *testing.T) {
	e, store := newServer()
	ev := createEvent(t, store)

	rec := doJSON(e, http.MethodPost, "/api/tickets", ticketBody(ev.ID, "alice@example.com", "A1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	got, err := store.GetByID(httptest.NewRequest(http.MethodGet, "/", nil).Context(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.AvailableSeats)
}

func TestGetTicketNotFound(t *testing.T) {
	e, _ := newServer()
	rec := doJSON(e, http.MethodGet, "/api/tickets/99", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ticket with ID 99 not found")
}

func TestGetTicketsByMissingEventReturns404(t *testing.T) {
	e, _ := newServer()
	rec := doJSON(e, http.MethodGet, "/api/tickets/event/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTicketsByEmail(t *testing.T) {
	e, store := newServer()
	ev := createEvent(t, store)

	rec := doJSON(e, http.MethodPost, "/api/tickets", ticketBody(ev.ID, "alice@example.com", "A1"))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(e, http.MethodPost, "/api/tickets", ticketBody(ev.ID, "bob@example.com", "A2"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/tickets/email/alice@example.com", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tickets []model.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tickets))
	require.Len(t, tickets, 1)
	assert.Equal(t, "alice@example.com", tickets[0].AttendeeEmail)
	require.NotNil(t, tickets[0].Event)
	assert.Equal(t, "Conf", tickets[0].Event.Name)
}

func TestUpdateTicketIDMismatch(t *testing.T) {
	e, store := newServer()
	ev := createEvent(t, store)
	rec := doJSON(e, http.MethodPost, "/api/tickets", ticketBody(ev.ID, "alice@example.com", "A1"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var tk model.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tk))

	body := fmt.Sprintf(`{"id":%d,"eventId":%d,"attendeeEmail":"alice@example.com","attendeeFullName":"Alice Doe","seatNumber":"A1"}`, tk.ID+1, ev.ID)
	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/tickets/%d", tk.ID), body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ID mismatch")
}

func TestUpdateTicketStatusTransitionIsUnrestricted(t *testing.T) {
	e, store := newServer()
	ev := createEvent(t, store)
	rec := doJSON(e, http.MethodPost, "/api/tickets", ticketBody(ev.ID, "alice@example.com", "A1"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var tk model.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tk))

	// Cancelled straight to CheckedIn: the status field carries no machine.
	body := fmt.Sprintf(`{"id":%d,"eventId":%d,"attendeeEmail":"alice@example.com","attendeeFullName":"Alice Doe","seatNumber":"A1","pricePaid":50.00,"status":3}`, tk.ID, ev.ID)
	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/tickets/%d", tk.ID), body)
	require.Equal(t, http.StatusNoContent, rec.Code)

	tickets := store.Tickets()
	got, err := tickets.GetByID(httptest.NewRequest(http.MethodGet, "/", nil).Context(), tk.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCheckedIn, got.Status)
	assert.True(t, got.PurchasedAt.Equal(tk.PurchasedAt), "purchase time untouched by update")
}

func TestDeleteTicket(t *testing.T) {
	e, store := newServer()
	ev := createEvent(t, store)
	rec := doJSON(e, http.MethodPost, "/api/tickets", ticketBody(ev.ID, "alice@example.com", "A1"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var tk model.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tk))

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/tickets/%d", tk.ID), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/tickets/%d", tk.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTicketQRCode(t *testing.T) {
	e, store := newServer()
	ev := createEvent(t, store)
	rec := doJSON(e, http.MethodPost, "/api/tickets", ticketBody(ev.ID, "alice@example.com", "A1"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var tk model.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tk))

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/tickets/%d/qr", tk.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.NotEmpty(t, rec.Body.Bytes())

	rec = doJSON(e, http.MethodGet, "/api/tickets/99/qr", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
