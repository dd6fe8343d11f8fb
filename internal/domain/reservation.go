package domain

// Reservation groups the tickets claimed for one purchase attempt with the
// buyer's email. It lives only for the duration of the workflow that created
// it: it either becomes an order or its tickets are released.
type Reservation struct {
	Tickets        []Ticket
	Email          string
	UnitPriceCents int64
}

func NewReservation(tickets []Ticket, email string, unitPriceCents int64) Reservation {
	return Reservation{
		Tickets:        tickets,
		Email:          email,
		UnitPriceCents: unitPriceCents,
	}
}

func (r Reservation) Quantity() int {
	return len(r.Tickets)
}

func (r Reservation) TotalCents() int64 {
	return int64(len(r.Tickets)) * r.UnitPriceCents
}

// TicketIDs returns the claimed ticket ids in claim order.
func (r Reservation) TicketIDs() []int64 {
	ids := make([]int64, 0, len(r.Tickets))
	for _, t := range r.Tickets {
		ids = append(ids, t.ID)
	}
	return ids
}
