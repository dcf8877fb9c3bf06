// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketIssuedEvent is published when a ticket is successfully created.
// It contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type TicketIssuedEvent struct {
	TicketID      int64  `json:"ticket_id"`
	EventID       int64  `json:"event_id"`
	EventName     string `json:"event_name"`
	AttendeeEmail string `json:"attendee_email"`
	AttendeeName  string `json:"attendee_name"`
	SeatNumber    string `json:"seat_number"`
	PricePaid     string `json:"price_paid"`
	Status        string `json:"status"`
	IssuedAt      string `json:"issued_at"`
}
