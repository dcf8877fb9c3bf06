// Package repository contains the data access layer for events and
// tickets.  Sentinel errors defined here let handlers distinguish an
// absent row from a real store failure: not-found maps to an HTTP 404
// while anything else surfaces as a server error.
package repository

import "errors"

// ErrEventNotFound indicates that no event row matched the lookup.
var ErrEventNotFound = errors.New("event not found")

// ErrTicketNotFound indicates that no ticket row matched the lookup.
var ErrTicketNotFound = errors.New("ticket not found")
