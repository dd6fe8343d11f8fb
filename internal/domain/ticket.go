package domain

import "time"

// Ticket is one sellable slot tied to an event. A ticket is free until a
// place-order workflow reserves it, and sold once an order owns it.
type Ticket struct {
	ID         int64
	EventID    string
	OrderID    *string
	ReservedAt *time.Time
	CreatedAt  time.Time
}

// Sold reports whether the ticket belongs to a committed order.
func (t Ticket) Sold() bool {
	return t.OrderID != nil
}

// Available reports whether the ticket can be claimed at the given instant.
// A reservation older than ttl no longer counts; its workflow is gone.
func (t Ticket) Available(now time.Time, ttl time.Duration) bool {
	if t.OrderID != nil {
		return false
	}
	if t.ReservedAt == nil {
		return true
	}
	return !t.ReservedAt.After(now.Add(-ttl))
}
