package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/cimillas/concert-tickets/internal/domain"
	"github.com/cimillas/concert-tickets/internal/testutil"
)

func TestEventRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewEventRepository(pool)

	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)

	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("create and get", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)

		event := domain.Event{
			ID:               "0b9f1a07-8a4e-4a7e-9a1a-111111111111",
			Name:             "The Red Chord",
			Venue:            "The Mosh Pit",
			StartsAt:         now.Add(7 * 24 * time.Hour),
			TicketPriceCents: 3250,
			CreatedAt:        now,
		}
		if err := repo.CreateEvent(ctx, event); err != nil {
			t.Fatalf("create event: %v", err)
		}

		got, err := repo.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("get event: %v", err)
		}
		if got.Name != event.Name || got.Venue != event.Venue {
			t.Fatalf("unexpected event %+v", got)
		}
		if got.TicketPriceCents != 3250 {
			t.Fatalf("expected price 3250, got %d", got.TicketPriceCents)
		}
		if got.Published() {
			t.Fatalf("expected event unpublished")
		}
	})

	t.Run("get missing event", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)

		if _, err := repo.GetEvent(ctx, "0b9f1a07-8a4e-4a7e-9a1a-222222222222"); err != domain.ErrEventNotFound {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
		if _, err := repo.GetEvent(ctx, "not-a-uuid"); err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("publish is sticky", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		eventID := testutil.InsertUnpublishedEvent(t, ctx, pool, "Draft Show", 1000)

		published, err := repo.PublishEvent(ctx, eventID, now)
		if err != nil {
			t.Fatalf("publish: %v", err)
		}
		if !published.Published() {
			t.Fatalf("expected event published")
		}

		again, err := repo.PublishEvent(ctx, eventID, now.Add(time.Hour))
		if err != nil {
			t.Fatalf("re-publish: %v", err)
		}
		if !again.PublishedAt.Equal(*published.PublishedAt) {
			t.Fatalf("expected original publish instant kept, got %v", again.PublishedAt)
		}

		if _, err := repo.PublishEvent(ctx, "0b9f1a07-8a4e-4a7e-9a1a-333333333333", now); err != domain.ErrEventNotFound {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
	})

	t.Run("published listing excludes drafts", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		publishedID := testutil.InsertEvent(t, ctx, pool, "Live Show", 2000)
		testutil.InsertUnpublishedEvent(t, ctx, pool, "Draft Show", 2000)

		all, err := repo.ListEvents(ctx)
		if err != nil {
			t.Fatalf("list events: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 events, got %d", len(all))
		}

		published, err := repo.ListPublishedEvents(ctx)
		if err != nil {
			t.Fatalf("list published: %v", err)
		}
		if len(published) != 1 {
			t.Fatalf("expected 1 published event, got %d", len(published))
		}
		if published[0].ID != publishedID {
			t.Fatalf("expected %s, got %s", publishedID, published[0].ID)
		}
	})
}
