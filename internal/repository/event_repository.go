package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"event-ticketing/internal/model"
)

// eventColumns is the column list shared by every event SELECT.
const eventColumns = `id, name, description, event_date, location, total_seats, available_seats, base_price, created_at, updated_at`

// EventRepo manages persistence for events on MySQL.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// DB exposes the underlying sql.DB for callers that need direct access,
// such as integration test setup.
func (r *EventRepo) DB() *sql.DB {
	return r.db
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(rs rowScanner, e *model.Event) error {
	var desc sql.NullString
	var updated sql.NullTime
	if err := rs.Scan(
		&e.ID, &e.Name, &desc, &e.EventDate, &e.Location,
		&e.TotalSeats, &e.AvailableSeats, &e.BasePrice,
		&e.CreatedAt, &updated,
	); err != nil {
		return err
	}
	e.Description = desc.String
	if updated.Valid {
		t := updated.Time
		e.UpdatedAt = &t
	} else {
		e.UpdatedAt = nil
	}
	e.Tickets = []model.Ticket{}
	return nil
}

// GetByID retrieves one event with its ticket collection loaded.  It
// returns ErrEventNotFound when no row matches.
func (r *EventRepo) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	var e model.Event
	if err := scanEvent(r.db.QueryRowContext(ctx, q, id), &e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	tickets, err := r.ticketsForEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Tickets = tickets
	return &e, nil
}

// GetAll returns all events ordered by event_date ascending, each with
// its ticket collection loaded.
func (r *EventRepo) GetAll(ctx context.Context) ([]model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events ORDER BY event_date ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []model.Event{}
	index := map[int64]int{}
	for rows.Next() {
		var e model.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, err
		}
		index[e.ID] = len(events)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return events, nil
	}

	// One pass over all tickets instead of a query per event.
	const tq = `SELECT ` + ticketColumns + ` FROM tickets ORDER BY id ASC`
	trows, err := r.db.QueryContext(ctx, tq)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var t model.Ticket
		if err := scanTicket(trows, &t); err != nil {
			return nil, err
		}
		if i, ok := index[t.EventID]; ok {
			events[i].Tickets = append(events[i].Tickets, t)
		}
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// GetUpcoming returns events whose date is strictly after the current UTC
// instant, ordered by event_date ascending.  Unlike GetAll and GetByID the
// ticket collections are left empty; callers relying on this read only
// need the event rows, and the lighter query is kept that way on purpose.
func (r *EventRepo) GetUpcoming(ctx context.Context) ([]model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE event_date > ? ORDER BY event_date ASC`
	rows, err := r.db.QueryContext(ctx, q, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var e model.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Create inserts a new event and assigns the generated id and CreatedAt
// back to the struct.  Any id supplied by the caller is ignored; the
// store's auto-increment is authoritative.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	e.CreatedAt = time.Now().UTC().Truncate(time.Second)
	e.UpdatedAt = nil

	const q = `INSERT INTO events (name, description, event_date, location, total_seats, available_seats, base_price, created_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		e.Name, e.Description, e.EventDate, e.Location,
		e.TotalSeats, e.AvailableSeats, e.BasePrice, e.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	e.Tickets = []model.Ticket{}
	return nil
}

// Update replaces all scalar fields of the row matching e.ID and assigns
// UpdatedAt.  When no row matches, the statement affects nothing and no
// error is returned; existence pre-checks belong to the caller.
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	now := time.Now().UTC().Truncate(time.Second)
	const q = `UPDATE events
               SET name = ?, description = ?, event_date = ?, location = ?,
                   total_seats = ?, available_seats = ?, base_price = ?, updated_at = ?
               WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q,
		e.Name, e.Description, e.EventDate, e.Location,
		e.TotalSeats, e.AvailableSeats, e.BasePrice, now, e.ID,
	); err != nil {
		return err
	}
	e.UpdatedAt = &now
	return nil
}

// Delete removes the event row.  The FK on tickets.event_id carries the
// deletion to every ticket of the event.  A missing row is a no-op.
func (r *EventRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM events WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// Exists reports whether an event row with the id is present.
func (r *EventRepo) Exists(ctx context.Context, id int64) (bool, error) {
	const q = `SELECT 1 FROM events WHERE id = ? LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ticketsForEvent loads the ticket collection of a single event.
func (r *EventRepo) ticketsForEvent(ctx context.Context, eventID int64) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE event_id = ? ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q, eventID)
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
