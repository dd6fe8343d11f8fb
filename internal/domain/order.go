package domain

import "time"

// Order represents a completed, paid purchase. Immutable once created.
// TicketIDs carries the sold tickets; they live on the tickets themselves,
// not in the orders table.
type Order struct {
	ID             string
	EventID        string
	Email          string
	TicketQuantity int
	AmountCents    int64
	ChargeID       string
	TicketIDs      []int64
	CreatedAt      time.Time
}
