package app

import (
	"context"
	"time"

	"github.com/cimillas/concert-tickets/internal/clock"
	"github.com/cimillas/concert-tickets/internal/domain"
)

// EventRepository covers event administration and storefront listings.
type EventRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) error
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	ListPublishedEvents(ctx context.Context) ([]domain.Event, error)
	PublishEvent(ctx context.Context, eventID string, at time.Time) (domain.Event, error)
}

// TicketPool adds inventory to an event and reports what is left.
type TicketPool interface {
	AddTickets(ctx context.Context, eventID string, quantity int, now time.Time) error
	CountAvailable(ctx context.Context, eventID string, now time.Time) (int, error)
}

// AvailabilityCache caches remaining-ticket counts per event. Implementations
// must treat every operation as best-effort; a cold cache is never an error.
type AvailabilityCache interface {
	GetRemaining(ctx context.Context, eventID string) (int, bool)
	SetRemaining(ctx context.Context, eventID string, remaining int)
	Invalidate(ctx context.Context, eventID string)
}

type noopCache struct{}

func (noopCache) GetRemaining(context.Context, string) (int, bool) { return 0, false }
func (noopCache) SetRemaining(context.Context, string, int)        {}
func (noopCache) Invalidate(context.Context, string)               {}

type EventService struct {
	repo  EventRepository
	pool  TicketPool
	clock clock.Clock
	cache AvailabilityCache
}

type EventServiceOption func(*EventService)

// WithEventCache serves TicketsRemaining through the given cache.
func WithEventCache(cache AvailabilityCache) EventServiceOption {
	return func(s *EventService) {
		if cache != nil {
			s.cache = cache
		}
	}
}

func NewEventService(repo EventRepository, pool TicketPool, clk clock.Clock, opts ...EventServiceOption) *EventService {
	svc := &EventService{
		repo:  repo,
		pool:  pool,
		clock: clk,
		cache: noopCache{},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type CreateEventInput struct {
	Name             string
	Venue            string
	StartsAt         *time.Time
	TicketPriceCents int64
	Publish          bool
}

func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	if in.Name == "" {
		return domain.Event{}, domain.ErrEventNameRequired
	}
	if in.TicketPriceCents < 0 {
		return domain.Event{}, domain.ErrInvalidTicketPrice
	}

	now := s.clock.Now()
	startsAt := now
	if in.StartsAt != nil {
		startsAt = *in.StartsAt
	}

	event := domain.Event{
		ID:               newID(),
		Name:             in.Name,
		Venue:            in.Venue,
		StartsAt:         startsAt,
		TicketPriceCents: in.TicketPriceCents,
		CreatedAt:        now,
	}
	if in.Publish {
		event.PublishedAt = &now
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

// PublishEvent makes an event purchasable. Publishing an already-published
// event is a no-op so admin retries are safe.
func (s *EventService) PublishEvent(ctx context.Context, eventID string) (domain.Event, error) {
	if eventID == "" {
		return domain.Event{}, domain.ErrInvalidID
	}

	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if event.Published() {
		return event, nil
	}
	return s.repo.PublishEvent(ctx, eventID, s.clock.Now())
}

func (s *EventService) AddTickets(ctx context.Context, eventID string, quantity int) error {
	if eventID == "" {
		return domain.ErrInvalidID
	}
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return err
	}
	if err := s.pool.AddTickets(ctx, eventID, quantity, s.clock.Now()); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, eventID)
	return nil
}

// TicketsRemaining reports the free-ticket count for display. Claims never
// consult it; they re-check under their own transaction.
func (s *EventService) TicketsRemaining(ctx context.Context, eventID string) (int, error) {
	if eventID == "" {
		return 0, domain.ErrInvalidID
	}

	if remaining, ok := s.cache.GetRemaining(ctx, eventID); ok {
		return remaining, nil
	}

	remaining, err := s.pool.CountAvailable(ctx, eventID, s.clock.Now())
	if err != nil {
		return 0, err
	}
	s.cache.SetRemaining(ctx, eventID, remaining)
	return remaining, nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	if eventID == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	return s.repo.GetEvent(ctx, eventID)
}

func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx)
}

func (s *EventService) ListPublishedEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListPublishedEvents(ctx)
}
