package domain

import "time"

// Event represents a concert with a single ticket price. Capacity is derived
// from its ticket count, never stored on the event itself.
type Event struct {
	ID               string
	Name             string
	Venue            string
	StartsAt         time.Time
	TicketPriceCents int64
	PublishedAt      *time.Time
	CreatedAt        time.Time
}

// Published reports whether the event is visible and purchasable.
func (e Event) Published() bool {
	return e.PublishedAt != nil
}
