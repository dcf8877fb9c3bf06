package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"event-ticketing/internal/model"
)

// ticketColumns is the column list shared by every ticket SELECT.
const ticketColumns = `id, event_id, attendee_email, attendee_full_name, seat_number, price_paid, status, purchased_at`

// TicketRepo manages persistence for tickets on MySQL.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo constructs a TicketRepo with the given DB handle.
func NewTicketRepo(db *sql.DB) *TicketRepo {
	return &TicketRepo{db: db}
}

func scanTicket(rs rowScanner, t *model.Ticket) error {
	var status int
	if err := rs.Scan(
		&t.ID, &t.EventID, &t.AttendeeEmail, &t.AttendeeFullName,
		&t.SeatNumber, &t.PricePaid, &status, &t.PurchasedAt,
	); err != nil {
		return err
	}
	t.Status = model.TicketStatus(status)
	t.Event = nil
	return nil
}

// GetByID retrieves one ticket with its owning event attached.  It
// returns ErrTicketNotFound when no row matches.
func (r *TicketRepo) GetByID(ctx context.Context, id int64) (*model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
	var t model.Ticket
	if err := scanTicket(r.db.QueryRowContext(ctx, q, id), &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	if err := r.attachEvents(ctx, []*model.Ticket{&t}); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetAll returns every ticket ordered by purchased_at descending, each
// with its owning event attached.
func (r *TicketRepo) GetAll(ctx context.Context) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets ORDER BY purchased_at DESC`
	tickets, err := r.queryTickets(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := r.attachEventsSlice(ctx, tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetByEvent returns the tickets of one event ordered by seat_number
// ascending.  The owning event is not attached here; callers already
// hold the event id.
func (r *TicketRepo) GetByEvent(ctx context.Context, eventID int64) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE event_id = ? ORDER BY seat_number ASC`
	return r.queryTickets(ctx, q, eventID)
}

// GetByEmail returns tickets whose attendee email equals the given string,
// ordered by purchased_at descending, with owning events attached.
// Equality follows the column collation (utf8mb4_unicode_ci, so matching
// is case-insensitive on this store).
func (r *TicketRepo) GetByEmail(ctx context.Context, email string) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE attendee_email = ? ORDER BY purchased_at DESC`
	tickets, err := r.queryTickets(ctx, q, email)
	if err != nil {
		return nil, err
	}
	if err := r.attachEventsSlice(ctx, tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// Create inserts a new ticket and assigns the generated id and
// PurchasedAt back to the struct.  The event's existence is NOT verified
// here (handlers pre-check it) and the event's available_seats counter is
// NOT decremented: seat accounting and ticket creation are deliberately
// uncoupled, so concurrent creates can exceed the nominal capacity.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	t.PurchasedAt = time.Now().UTC().Truncate(time.Second)

	const q = `INSERT INTO tickets (event_id, attendee_email, attendee_full_name, seat_number, price_paid, status, purchased_at)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		t.EventID, t.AttendeeEmail, t.AttendeeFullName,
		t.SeatNumber, t.PricePaid, int(t.Status), t.PurchasedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// Update replaces the scalar fields of the row matching t.ID.
// purchased_at is left untouched.  A missing row affects nothing and
// returns no error.
func (r *TicketRepo) Update(ctx context.Context, t *model.Ticket) error {
	const q = `UPDATE tickets
               SET event_id = ?, attendee_email = ?, attendee_full_name = ?,
                   seat_number = ?, price_paid = ?, status = ?
               WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q,
		t.EventID, t.AttendeeEmail, t.AttendeeFullName,
		t.SeatNumber, t.PricePaid, int(t.Status), t.ID,
	)
	return err
}

// Delete removes the ticket row; a missing row is a no-op.
func (r *TicketRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM tickets WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// CountByEvent counts all tickets of an event regardless of status.
// Cancelled tickets are included; the count is status-agnostic.
func (r *TicketRepo) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM tickets WHERE event_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, eventID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *TicketRepo) queryTickets(ctx context.Context, q string, args ...any) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []model.Ticket{}
	for rows.Next() {
		var t model.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *TicketRepo) attachEventsSlice(ctx context.Context, tickets []model.Ticket) error {
	ptrs := make([]*model.Ticket, len(tickets))
	for i := range tickets {
		ptrs[i] = &tickets[i]
	}
	return r.attachEvents(ctx, ptrs)
}

// attachEvents loads the owning event of each ticket in one IN query and
// attaches it as a back-reference.  Attached events carry an empty ticket
// collection; the relation is one-directional here.
func (r *TicketRepo) attachEvents(ctx context.Context, tickets []*model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	seen := map[int64]bool{}
	ids := []any{}
	for _, t := range tickets {
		if !seen[t.EventID] {
			seen[t.EventID] = true
			ids = append(ids, t.EventID)
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	q := fmt.Sprintf(`SELECT `+eventColumns+` FROM events WHERE id IN (%s)`, placeholders)
	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()

	events := map[int64]*model.Event{}
	for rows.Next() {
		var e model.Event
		if err := scanEvent(rows, &e); err != nil {
			return err
		}
		ev := e
		events[e.ID] = &ev
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, t := range tickets {
		t.Event = events[t.EventID]
	}
	return nil
}
