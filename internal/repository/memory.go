package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"event-ticketing/internal/model"
)

// MemoryStore is an in-memory implementation of EventStore and
// TicketStore with the same contract semantics as the MySQL
// repositories: generated ids, cascade delete, eager-load asymmetry,
// silent no-op updates and status-agnostic counts.  It backs the handler
// tests and anything else that needs the contract without a database.
//
// One difference is inherent to the substrate: GetByEmail compares
// exactly, while MySQL matches under utf8mb4_unicode_ci.
type MemoryStore struct {
	mu           sync.RWMutex
	events       map[int64]model.Event
	tickets      map[int64]model.Ticket
	nextEventID  int64
	nextTicketID int64
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:       make(map[int64]model.Event),
		tickets:      make(map[int64]model.Ticket),
		nextEventID:  1,
		nextTicketID: 1,
	}
}

func (s *MemoryStore) eventCopy(id int64, withTickets bool) model.Event {
	e := s.events[id]
	e.Tickets = []model.Ticket{}
	if withTickets {
		for _, t := range s.tickets {
			if t.EventID == id {
				e.Tickets = append(e.Tickets, t)
			}
		}
		sort.Slice(e.Tickets, func(i, j int) bool { return e.Tickets[i].ID < e.Tickets[j].ID })
	}
	return e
}

// GetByID fetches one event with its tickets loaded.
func (s *MemoryStore) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.events[id]; !ok {
		return nil, ErrEventNotFound
	}
	e := s.eventCopy(id, true)
	return &e, nil
}

// GetAll returns all events ordered by event date, tickets loaded.
func (s *MemoryStore) GetAll(ctx context.Context) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Event{}
	for id := range s.events {
		out = append(out, s.eventCopy(id, true))
	}
	sortEventsByDate(out)
	return out, nil
}

// GetUpcoming returns strictly future events without tickets.
func (s *MemoryStore) GetUpcoming(ctx context.Context) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := time.Now().UTC()
	out := []model.Event{}
	for id, e := range s.events {
		if e.EventDate.After(now) {
			out = append(out, s.eventCopy(id, false))
		}
	}
	sortEventsByDate(out)
	return out, nil
}

// Create stores a new event under a generated id.
func (s *MemoryStore) Create(ctx context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextEventID
	s.nextEventID++
	e.CreatedAt = time.Now().UTC().Truncate(time.Second)
	e.UpdatedAt = nil
	e.Tickets = []model.Ticket{}
	stored := *e
	stored.Tickets = nil
	s.events[e.ID] = stored
	return nil
}

// Update replaces the scalar fields of a stored event and sets UpdatedAt.
// A missing id is a silent no-op.
func (s *MemoryStore) Update(ctx context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.events[e.ID]
	if !ok {
		return nil
	}
	now := time.Now().UTC().Truncate(time.Second)
	cur.Name = e.Name
	cur.Description = e.Description
	cur.EventDate = e.EventDate
	cur.Location = e.Location
	cur.TotalSeats = e.TotalSeats
	cur.AvailableSeats = e.AvailableSeats
	cur.BasePrice = e.BasePrice
	cur.UpdatedAt = &now
	s.events[e.ID] = cur
	e.UpdatedAt = &now
	return nil
}

// Delete removes the event and cascades to its tickets.
func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return nil
	}
	delete(s.events, id)
	for tid, t := range s.tickets {
		if t.EventID == id {
			delete(s.tickets, tid)
		}
	}
	return nil
}

// Exists reports whether the event is present.
func (s *MemoryStore) Exists(ctx context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.events[id]
	return ok, nil
}

// GetTicketByID fetches one ticket with its owning event attached.
func (s *MemoryStore) GetTicketByID(ctx context.Context, id int64) (*model.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, ErrTicketNotFound
	}
	s.attachEvent(&t)
	return &t, nil
}

// GetAllTickets returns all tickets, newest purchase first, events attached.
func (s *MemoryStore) GetAllTickets(ctx context.Context) ([]model.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Ticket{}
	for _, t := range s.tickets {
		s.attachEvent(&t)
		out = append(out, t)
	}
	sortTicketsByPurchaseDesc(out)
	return out, nil
}

// GetTicketsByEvent returns one event's tickets ordered by seat number.
func (s *MemoryStore) GetTicketsByEvent(ctx context.Context, eventID int64) ([]model.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Ticket{}
	for _, t := range s.tickets {
		if t.EventID == eventID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SeatNumber != out[j].SeatNumber {
			return out[i].SeatNumber < out[j].SeatNumber
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetTicketsByEmail returns tickets with the exact attendee email,
// newest purchase first, events attached.
func (s *MemoryStore) GetTicketsByEmail(ctx context.Context, email string) ([]model.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Ticket{}
	for _, t := range s.tickets {
		if t.AttendeeEmail == email {
			s.attachEvent(&t)
			out = append(out, t)
		}
	}
	sortTicketsByPurchaseDesc(out)
	return out, nil
}

// CreateTicket stores a new ticket under a generated id.  The event id is
// not validated and no seat counter moves; same contract as the MySQL repo.
func (s *MemoryStore) CreateTicket(ctx context.Context, t *model.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextTicketID
	s.nextTicketID++
	t.PurchasedAt = time.Now().UTC().Truncate(time.Second)
	stored := *t
	stored.Event = nil
	s.tickets[t.ID] = stored
	return nil
}

// UpdateTicket replaces the scalar fields of a stored ticket,
// leaving PurchasedAt untouched.  A missing id is a silent no-op.
func (s *MemoryStore) UpdateTicket(ctx context.Context, t *model.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.tickets[t.ID]
	if !ok {
		return nil
	}
	cur.EventID = t.EventID
	cur.AttendeeEmail = t.AttendeeEmail
	cur.AttendeeFullName = t.AttendeeFullName
	cur.SeatNumber = t.SeatNumber
	cur.PricePaid = t.PricePaid
	cur.Status = t.Status
	s.tickets[t.ID] = cur
	return nil
}

// DeleteTicket removes the ticket; a missing id is a no-op.
func (s *MemoryStore) DeleteTicket(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tickets, id)
	return nil
}

// CountTicketsByEvent counts tickets regardless of status.
func (s *MemoryStore) CountTicketsByEvent(ctx context.Context, eventID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, t := range s.tickets {
		if t.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) attachEvent(t *model.Ticket) {
	if e, ok := s.events[t.EventID]; ok {
		e.Tickets = []model.Ticket{}
		t.Event = &e
	} else {
		t.Event = nil
	}
}

func sortEventsByDate(events []model.Event) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].EventDate.Equal(events[j].EventDate) {
			return events[i].EventDate.Before(events[j].EventDate)
		}
		return events[i].ID < events[j].ID
	})
}

func sortTicketsByPurchaseDesc(tickets []model.Ticket) {
	sort.Slice(tickets, func(i, j int) bool {
		if !tickets[i].PurchasedAt.Equal(tickets[j].PurchasedAt) {
			return tickets[i].PurchasedAt.After(tickets[j].PurchasedAt)
		}
		return tickets[i].ID > tickets[j].ID
	})
}

// memoryTicketStore adapts MemoryStore's ticket methods to the
// TicketStore interface names.
type memoryTicketStore struct{ s *MemoryStore }

// Tickets returns a TicketStore view of the MemoryStore.
func (s *MemoryStore) Tickets() TicketStore { return memoryTicketStore{s} }

func (m memoryTicketStore) GetByID(ctx context.Context, id int64) (*model.Ticket, error) {
	return m.s.GetTicketByID(ctx, id)
}
func (m memoryTicketStore) GetAll(ctx context.Context) ([]model.Ticket, error) {
	return m.s.GetAllTickets(ctx)
}
func (m memoryTicketStore) GetByEvent(ctx context.Context, eventID int64) ([]model.Ticket, error) {
	return m.s.GetTicketsByEvent(ctx, eventID)
}
func (m memoryTicketStore) GetByEmail(ctx context.Context, email string) ([]model.Ticket, error) {
	return m.s.GetTicketsByEmail(ctx, email)
}
func (m memoryTicketStore) Create(ctx context.Context, t *model.Ticket) error {
	return m.s.CreateTicket(ctx, t)
}
func (m memoryTicketStore) Update(ctx context.Context, t *model.Ticket) error {
	return m.s.UpdateTicket(ctx, t)
}
func (m memoryTicketStore) Delete(ctx context.Context, id int64) error {
	return m.s.DeleteTicket(ctx, id)
}
func (m memoryTicketStore) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	return m.s.CountTicketsByEvent(ctx, eventID)
}
