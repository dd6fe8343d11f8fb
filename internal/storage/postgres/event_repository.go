package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cimillas/concert-tickets/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `id, name, venue, starts_at, ticket_price_cents, published_at, created_at`

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, name, venue, starts_at, ticket_price_cents, published_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, stmt,
		event.ID,
		event.Name,
		event.Venue,
		event.StartsAt,
		event.TicketPriceCents,
		event.PublishedAt,
		event.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, eventID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events ORDER BY created_at ASC`
	return r.listEvents(ctx, query)
}

func (r *EventRepository) ListPublishedEvents(ctx context.Context) ([]domain.Event, error) {
	const query = `
SELECT ` + eventColumns + `
FROM events
WHERE published_at IS NOT NULL
ORDER BY starts_at ASC`
	return r.listEvents(ctx, query)
}

// PublishEvent stamps published_at unless the event already carries one, so
// repeated publishes keep the original instant.
func (r *EventRepository) PublishEvent(ctx context.Context, eventID string, at time.Time) (domain.Event, error) {
	const stmt = `
UPDATE events
SET published_at = COALESCE(published_at, $2)
WHERE id = $1
RETURNING ` + eventColumns

	event, err := scanEvent(r.pool.QueryRow(ctx, stmt, eventID, at))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("publish event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) listEvents(ctx context.Context, query string) ([]domain.Event, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var event domain.Event
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Venue,
		&event.StartsAt,
		&event.TicketPriceCents,
		&event.PublishedAt,
		&event.CreatedAt,
	)
	return event, err
}
