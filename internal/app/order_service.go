package app

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/cimillas/concert-tickets/internal/billing"
	"github.com/cimillas/concert-tickets/internal/clock"
	"github.com/cimillas/concert-tickets/internal/domain"
	"github.com/sirupsen/logrus"
)

// EventFinder looks up events for the storefront and the order workflow.
type EventFinder interface {
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
}

// TicketInventory is the inventory pool for an event's tickets. ClaimTickets
// is all-or-nothing and atomic: concurrent claims for the same event are
// linearized by the implementation, never by callers checking counts first.
type TicketInventory interface {
	ClaimTickets(ctx context.Context, eventID string, quantity int, now time.Time) ([]domain.Ticket, error)
	ReleaseTickets(ctx context.Context, ticketIDs []int64) error
}

// OrderStore persists committed orders. CreateOrder assigns the claimed
// tickets to the order in the same transaction that inserts it.
type OrderStore interface {
	CreateOrder(ctx context.Context, order domain.Order, ticketIDs []int64) error
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	ListOrdersByEmail(ctx context.Context, eventID, email string) ([]domain.Order, error)
}

type OrderService struct {
	events  EventFinder
	tickets TicketInventory
	orders  OrderStore
	gateway billing.Gateway
	clock   clock.Clock
	cache   AvailabilityCache
	log     *logrus.Logger
}

type OrderServiceOption func(*OrderService)

// WithOrderCache invalidates cached availability after orders and releases.
func WithOrderCache(cache AvailabilityCache) OrderServiceOption {
	return func(s *OrderService) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// WithOrderLogger overrides the default logger.
func WithOrderLogger(log *logrus.Logger) OrderServiceOption {
	return func(s *OrderService) {
		if log != nil {
			s.log = log
		}
	}
}

func NewOrderService(events EventFinder, tickets TicketInventory, orders OrderStore, gateway billing.Gateway, clk clock.Clock, opts ...OrderServiceOption) *OrderService {
	svc := &OrderService{
		events:  events,
		tickets: tickets,
		orders:  orders,
		gateway: gateway,
		clock:   clk,
		cache:   noopCache{},
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type PlaceOrderInput struct {
	EventID      string
	Quantity     int
	Email        string
	PaymentToken string
}

// PlaceOrder claims tickets, charges the gateway, and commits the order.
// Claim comes before charge: charging a customer for tickets that may not
// exist would force an immediate compensating refund.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (domain.Order, error) {
	if in.Quantity < 1 {
		return domain.Order{}, domain.ErrInvalidQuantity
	}
	if !validEmail(in.Email) {
		return domain.Order{}, domain.ErrInvalidEmail
	}
	if in.PaymentToken == "" {
		return domain.Order{}, domain.ErrPaymentTokenRequired
	}

	event, err := s.events.GetEvent(ctx, in.EventID)
	if err != nil {
		return domain.Order{}, err
	}
	if !event.Published() {
		return domain.Order{}, domain.ErrEventNotPublished
	}

	now := s.clock.Now()
	tickets, err := s.tickets.ClaimTickets(ctx, event.ID, in.Quantity, now)
	if err != nil {
		return domain.Order{}, err
	}

	reservation := domain.NewReservation(tickets, in.Email, event.TicketPriceCents)

	charge, err := s.gateway.Charge(ctx, reservation.TotalCents(), in.PaymentToken)
	if err != nil {
		s.release(ctx, event.ID, reservation.TicketIDs())
		if errors.Is(err, domain.ErrPaymentFailed) {
			return domain.Order{}, domain.ErrPaymentFailed
		}
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:             newID(),
		EventID:        event.ID,
		Email:          reservation.Email,
		TicketQuantity: reservation.Quantity(),
		AmountCents:    reservation.TotalCents(),
		ChargeID:       charge.ID,
		TicketIDs:      reservation.TicketIDs(),
		CreatedAt:      now,
	}

	if err := s.orders.CreateOrder(ctx, order, reservation.TicketIDs()); err != nil {
		if refundErr := s.gateway.Refund(ctx, charge.ID); refundErr != nil {
			s.log.WithError(refundErr).WithField("charge_id", charge.ID).
				Error("refund after failed order commit")
		}
		s.release(ctx, event.ID, reservation.TicketIDs())
		return domain.Order{}, err
	}

	s.cache.Invalidate(ctx, event.ID)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, domain.ErrInvalidID
	}
	return s.orders.GetOrder(ctx, orderID)
}

func (s *OrderService) OrdersForEmail(ctx context.Context, eventID, email string) ([]domain.Order, error) {
	if eventID == "" {
		return nil, domain.ErrInvalidID
	}
	if !validEmail(email) {
		return nil, domain.ErrInvalidEmail
	}
	return s.orders.ListOrdersByEmail(ctx, eventID, email)
}

func (s *OrderService) release(ctx context.Context, eventID string, ticketIDs []int64) {
	if err := s.tickets.ReleaseTickets(ctx, ticketIDs); err != nil {
		s.log.WithError(err).WithField("event_id", eventID).
			Error("release claimed tickets")
		return
	}
	s.cache.Invalidate(ctx, eventID)
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
