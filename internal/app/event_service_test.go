package app

import (
	"context"
	"testing"
	"time"

	"github.com/cimillas/concert-tickets/internal/clock"
	"github.com/cimillas/concert-tickets/internal/domain"
)

func TestEventService_CreateEvent(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	makeSvc := func() (*EventService, *fakeEventRepo) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, repo, clock.NewFixed(now))
		return svc, repo
	}

	t.Run("creates an unpublished event by default", func(t *testing.T) {
		svc, repo := makeSvc()

		event, err := svc.CreateEvent(context.Background(), CreateEventInput{
			Name:             "The Red Chord",
			Venue:            "The Mosh Pit",
			TicketPriceCents: 3250,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if event.ID == "" {
			t.Fatalf("expected event ID to be set")
		}
		if event.Published() {
			t.Fatalf("expected event unpublished")
		}
		if event.TicketPriceCents != 3250 {
			t.Fatalf("expected price 3250, got %d", event.TicketPriceCents)
		}
		if len(repo.events) != 1 {
			t.Fatalf("expected 1 event stored, got %d", len(repo.events))
		}
	})

	t.Run("can publish at creation", func(t *testing.T) {
		svc, _ := makeSvc()

		event, err := svc.CreateEvent(context.Background(), CreateEventInput{
			Name:    "With The Dead",
			Publish: true,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !event.Published() {
			t.Fatalf("expected event published")
		}
	})

	t.Run("rejects missing name", func(t *testing.T) {
		svc, _ := makeSvc()
		if _, err := svc.CreateEvent(context.Background(), CreateEventInput{}); err != domain.ErrEventNameRequired {
			t.Fatalf("expected ErrEventNameRequired, got %v", err)
		}
	})

	t.Run("rejects negative price", func(t *testing.T) {
		svc, _ := makeSvc()
		_, err := svc.CreateEvent(context.Background(), CreateEventInput{
			Name:             "Free Show",
			TicketPriceCents: -1,
		})
		if err != domain.ErrInvalidTicketPrice {
			t.Fatalf("expected ErrInvalidTicketPrice, got %v", err)
		}
	})
}

func TestEventService_PublishEvent(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeEventRepo()
	svc := NewEventService(repo, repo, clock.NewFixed(now))

	event, err := svc.CreateEvent(context.Background(), CreateEventInput{Name: "Gig"})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	published, err := svc.PublishEvent(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !published.Published() {
		t.Fatalf("expected event published")
	}
	if !published.PublishedAt.Equal(now) {
		t.Fatalf("expected published_at %v, got %v", now, published.PublishedAt)
	}

	again, err := svc.PublishEvent(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("re-publish: %v", err)
	}
	if !again.PublishedAt.Equal(*published.PublishedAt) {
		t.Fatalf("expected publish to be a no-op on retry")
	}

	if _, err := svc.PublishEvent(context.Background(), "missing"); err != domain.ErrEventNotFound {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventService_AddTicketsAndRemaining(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeEventRepo()
	svc := NewEventService(repo, repo, clock.NewFixed(now))

	event, err := svc.CreateEvent(context.Background(), CreateEventInput{Name: "Gig"})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	if err := svc.AddTickets(context.Background(), event.ID, 50); err != nil {
		t.Fatalf("add tickets: %v", err)
	}

	remaining, err := svc.TicketsRemaining(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("tickets remaining: %v", err)
	}
	if remaining != 50 {
		t.Fatalf("expected 50 tickets remaining, got %d", remaining)
	}

	if err := svc.AddTickets(context.Background(), event.ID, 0); err != domain.ErrInvalidQuantity {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if err := svc.AddTickets(context.Background(), "missing", 5); err != domain.ErrEventNotFound {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventService_TicketsRemainingUsesCache(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeEventRepo()
	cache := &recordingCache{values: map[string]int{}}
	svc := NewEventService(repo, repo, clock.NewFixed(now), WithEventCache(cache))

	event, err := svc.CreateEvent(context.Background(), CreateEventInput{Name: "Gig"})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if err := svc.AddTickets(context.Background(), event.ID, 20); err != nil {
		t.Fatalf("add tickets: %v", err)
	}

	remaining, err := svc.TicketsRemaining(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("tickets remaining: %v", err)
	}
	if remaining != 20 {
		t.Fatalf("expected 20, got %d", remaining)
	}
	if cache.sets != 1 {
		t.Fatalf("expected cache populated once, got %d sets", cache.sets)
	}

	// Second read must come from the cache, not the pool.
	repo.countErr = domain.ErrEventNotFound
	remaining, err = svc.TicketsRemaining(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("cached tickets remaining: %v", err)
	}
	if remaining != 20 {
		t.Fatalf("expected cached 20, got %d", remaining)
	}

	// Adding tickets invalidates.
	repo.countErr = nil
	if err := svc.AddTickets(context.Background(), event.ID, 5); err != nil {
		t.Fatalf("add tickets: %v", err)
	}
	if cache.invalidations != 2 {
		t.Fatalf("expected 2 invalidations, got %d", cache.invalidations)
	}
}

type fakeEventRepo struct {
	events   map[string]domain.Event
	order    []string
	tickets  map[string]int
	countErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:  map[string]domain.Event{},
		tickets: map[string]int{},
	}
}

func (f *fakeEventRepo) CreateEvent(_ context.Context, event domain.Event) error {
	f.events[event.ID] = event
	f.order = append(f.order, event.ID)
	return nil
}

func (f *fakeEventRepo) GetEvent(_ context.Context, eventID string) (domain.Event, error) {
	event, ok := f.events[eventID]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return event, nil
}

func (f *fakeEventRepo) ListEvents(_ context.Context) ([]domain.Event, error) {
	out := make([]domain.Event, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.events[id])
	}
	return out, nil
}

func (f *fakeEventRepo) ListPublishedEvents(ctx context.Context) ([]domain.Event, error) {
	all, _ := f.ListEvents(ctx)
	var out []domain.Event
	for _, event := range all {
		if event.Published() {
			out = append(out, event)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) PublishEvent(_ context.Context, eventID string, at time.Time) (domain.Event, error) {
	event, ok := f.events[eventID]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	event.PublishedAt = &at
	f.events[eventID] = event
	return event, nil
}

func (f *fakeEventRepo) AddTickets(_ context.Context, eventID string, quantity int, _ time.Time) error {
	f.tickets[eventID] += quantity
	return nil
}

func (f *fakeEventRepo) CountAvailable(_ context.Context, eventID string, _ time.Time) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.tickets[eventID], nil
}

type recordingCache struct {
	values        map[string]int
	sets          int
	invalidations int
}

func (c *recordingCache) GetRemaining(_ context.Context, eventID string) (int, bool) {
	n, ok := c.values[eventID]
	return n, ok
}

func (c *recordingCache) SetRemaining(_ context.Context, eventID string, remaining int) {
	c.values[eventID] = remaining
	c.sets++
}

func (c *recordingCache) Invalidate(_ context.Context, eventID string) {
	delete(c.values, eventID)
	c.invalidations++
}
