package repository

import (
	"context"

	"event-ticketing/internal/model"
)

// EventStore is the contract for reading and writing event rows.  The
// MySQL implementation is EventRepo; MemoryEventStore backs the tests.
type EventStore interface {
	// GetByID fetches one event with its full ticket collection loaded.
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	// GetAll returns every event with tickets loaded, ordered by
	// event_date ascending.
	GetAll(ctx context.Context) ([]model.Event, error)
	// GetUpcoming returns events strictly after the current UTC instant,
	// ordered by event_date ascending.  Tickets are NOT loaded here; the
	// asymmetry with GetAll/GetByID is part of the contract.
	GetUpcoming(ctx context.Context) ([]model.Event, error)
	// Create persists a new event, assigning CreatedAt and the generated
	// id.  Any caller-supplied id is ignored.
	Create(ctx context.Context, e *model.Event) error
	// Update replaces all scalar fields of the row matching e.ID and
	// assigns UpdatedAt.  A missing row is a silent no-op; callers are
	// responsible for existence pre-checks.
	Update(ctx context.Context, e *model.Event) error
	// Delete removes the event and, via the FK cascade, every ticket
	// referencing it.  A missing row is a no-op, not an error.
	Delete(ctx context.Context, id int64) error
	// Exists reports whether a row with the id is present.
	Exists(ctx context.Context, id int64) (bool, error)
}

// TicketStore is the contract for reading and writing ticket rows.
type TicketStore interface {
	// GetByID fetches one ticket with its owning event loaded.
	GetByID(ctx context.Context, id int64) (*model.Ticket, error)
	// GetAll returns every ticket with its event loaded, ordered by
	// purchased_at descending (most recent first).
	GetAll(ctx context.Context) ([]model.Ticket, error)
	// GetByEvent returns the tickets of one event ordered by seat_number
	// ascending (lexicographic).  The event is not loaded here.
	GetByEvent(ctx context.Context, eventID int64) ([]model.Ticket, error)
	// GetByEmail returns tickets whose attendee email equals the given
	// string under the store's default collation, with events loaded,
	// ordered by purchased_at descending.
	GetByEmail(ctx context.Context, email string) ([]model.Ticket, error)
	// Create persists a new ticket, assigning PurchasedAt and the
	// generated id.  It does not check that the event exists (that is the
	// caller's job) and does not touch the event's available seats.
	Create(ctx context.Context, t *model.Ticket) error
	// Update replaces the scalar fields of the row matching t.ID.
	// PurchasedAt is never mutated.  A missing row is a silent no-op.
	Update(ctx context.Context, t *model.Ticket) error
	// Delete removes the ticket; a missing row is a no-op.
	Delete(ctx context.Context, id int64) error
	// CountByEvent counts the tickets of an event regardless of status;
	// cancelled tickets are included.
	CountByEvent(ctx context.Context, eventID int64) (int, error)
}
