package billing

import (
	"context"
	"fmt"
	"sync"

	"github.com/cimillas/concert-tickets/internal/domain"
)

const validTestToken = "valid-token"

// FakeGateway accepts a single valid test token and records every charge.
// Safe for concurrent use.
type FakeGateway struct {
	mu      sync.Mutex
	seq     int
	charges []Charge
	refunds []string
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{}
}

// ValidTestToken returns the one token the fake will accept.
func (g *FakeGateway) ValidTestToken() string {
	return validTestToken
}

func (g *FakeGateway) Charge(_ context.Context, amountCents int64, token string) (Charge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if token != validTestToken {
		return Charge{}, domain.ErrPaymentFailed
	}

	g.seq++
	charge := Charge{
		ID:          fmt.Sprintf("fake-ch-%d", g.seq),
		AmountCents: amountCents,
	}
	g.charges = append(g.charges, charge)
	return charge, nil
}

func (g *FakeGateway) Refund(_ context.Context, chargeID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, charge := range g.charges {
		if charge.ID == chargeID {
			g.charges = append(g.charges[:i], g.charges[i+1:]...)
			g.refunds = append(g.refunds, chargeID)
			return nil
		}
	}
	return domain.ErrPaymentFailed
}

// TotalCharges sums the amounts of all charges that have not been refunded.
func (g *FakeGateway) TotalCharges() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	var total int64
	for _, charge := range g.charges {
		total += charge.AmountCents
	}
	return total
}

// Charges returns a copy of the outstanding charges.
func (g *FakeGateway) Charges() []Charge {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Charge{}, g.charges...)
}

// Refunds returns the ids of refunded charges in refund order.
func (g *FakeGateway) Refunds() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string{}, g.refunds...)
}
