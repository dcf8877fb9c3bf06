package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event represents a ticketed occasion: a venue and date with a seat
// capacity and base price.  An Event owns a collection of Tickets;
// deleting an Event cascades to every Ticket referencing it.
//
// Fields:
//  ID             – primary key, assigned by the store on creation.
//  Name           – event title (required, max 200 chars).
//  Description    – optional free text (max 1000 chars).
//  EventDate      – when the event takes place (UTC).
//  Location       – venue (required, max 300 chars).
//  TotalSeats     – capacity at creation time.
//  AvailableSeats – seats not yet sold.  This is a plain counter: it is
//                   not derived from the ticket count and ticket creation
//                   does not decrement it.
//  BasePrice      – list price with two fractional digits.
//  CreatedAt      – set by the repository on creation (server UTC),
//                   immutable afterwards.
//  UpdatedAt      – nil until the first update, then set on every update.
//  Tickets        – tickets sold for this event.  Populated only by reads
//                   that eager-load the relation.
type Event struct {
	ID             int64           `json:"id"`             // events.id
	Name           string          `json:"name"`           // events.name
	Description    string          `json:"description"`    // events.description
	EventDate      time.Time       `json:"eventDate"`      // events.event_date
	Location       string          `json:"location"`       // events.location
	TotalSeats     int             `json:"totalSeats"`     // events.total_seats
	AvailableSeats int             `json:"availableSeats"` // events.available_seats
	BasePrice      decimal.Decimal `json:"basePrice"`      // events.base_price
	CreatedAt      time.Time       `json:"createdAt"`      // events.created_at
	UpdatedAt      *time.Time      `json:"updatedAt"`      // events.updated_at (nullable)
	Tickets        []Ticket        `json:"tickets"`        // one-to-many, eager-loaded on some reads
}
