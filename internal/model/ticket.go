package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TicketStatus is the lifecycle code of a ticket, stored as its integer
// value.  Reserved→Paid→CheckedIn and →Cancelled are the conventional
// transitions but nothing enforces them; the field is freely settable.
type TicketStatus int

const (
	StatusReserved  TicketStatus = 0
	StatusPaid      TicketStatus = 1
	StatusCancelled TicketStatus = 2
	StatusCheckedIn TicketStatus = 3
)

// String returns a readable name for logging.  Unknown codes are reported
// as-is since the store does not constrain the column.
func (s TicketStatus) String() string {
	switch s {
	case StatusReserved:
		return "RESERVED"
	case StatusPaid:
		return "PAID"
	case StatusCancelled:
		return "CANCELLED"
	case StatusCheckedIn:
		return "CHECKED_IN"
	}
	return "UNKNOWN"
}

// Ticket is one seat reservation tied to exactly one Event.
//
// Fields:
//  ID               – primary key, assigned by the store on creation.
//  EventID          – foreign key to the owning event (required; must
//                     reference a live row, enforced by the FK with
//                     cascade delete).
//  AttendeeEmail    – purchaser email (required, max 100 chars).
//  AttendeeFullName – purchaser name (required, max 200 chars).
//  SeatNumber       – free-form seat label (required, max 20 chars); not
//                     validated against the event's capacity or for
//                     uniqueness.
//  PricePaid        – amount paid, two fractional digits.
//  Status           – TicketStatus code.
//  PurchasedAt      – set by the repository on creation (server UTC) and
//                     never mutated by updates.
//  Event            – non-owning back-reference, populated only by reads
//                     that eager-load the relation.
type Ticket struct {
	ID               int64           `json:"id"`               // tickets.id
	EventID          int64           `json:"eventId"`          // tickets.event_id
	AttendeeEmail    string          `json:"attendeeEmail"`    // tickets.attendee_email
	AttendeeFullName string          `json:"attendeeFullName"` // tickets.attendee_full_name
	SeatNumber       string          `json:"seatNumber"`       // tickets.seat_number
	PricePaid        decimal.Decimal `json:"pricePaid"`        // tickets.price_paid
	Status           TicketStatus    `json:"status"`           // tickets.status (stored as INT)
	PurchasedAt      time.Time       `json:"purchasedAt"`      // tickets.purchased_at
	Event            *Event          `json:"event,omitempty"`  // back-reference, never an ownership cycle
}
