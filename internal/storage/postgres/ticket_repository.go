package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cimillas/concert-tickets/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultReservationTTL = 15 * time.Minute

// TicketRepository is the inventory pool. A ticket is free when it has no
// order and either no reservation or a reservation older than the TTL, which
// covers workflows that died between claim and commit.
type TicketRepository struct {
	pool           *pgxpool.Pool
	reservationTTL time.Duration
}

type TicketRepositoryOption func(*TicketRepository)

// WithReservationTTL overrides how long a claim excludes tickets from availability.
func WithReservationTTL(d time.Duration) TicketRepositoryOption {
	return func(r *TicketRepository) {
		if d > 0 {
			r.reservationTTL = d
		}
	}
}

func NewTicketRepository(pool *pgxpool.Pool, opts ...TicketRepositoryOption) *TicketRepository {
	r := &TicketRepository{
		pool:           pool,
		reservationTTL: defaultReservationTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ClaimTickets locks the lowest-id free tickets and marks them reserved,
// all-or-nothing. The row locks linearize concurrent claims for the same
// event: two claims that both saw enough tickets cannot both mark them.
func (r *TicketRepository) ClaimTickets(ctx context.Context, eventID string, quantity int, now time.Time) ([]domain.Ticket, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	var claimed []domain.Ticket
	err := withTx(ctx, r.pool, func(txCtx context.Context) error {
		const query = `
SELECT id, event_id, order_id, reserved_at, created_at
FROM tickets
WHERE event_id = $1
  AND order_id IS NULL
  AND (reserved_at IS NULL OR reserved_at <= $2)
ORDER BY id
LIMIT $3
FOR UPDATE`

		cutoff := now.Add(-r.reservationTTL)
		rows, err := r.query(txCtx, query, eventID, cutoff, quantity)
		if err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			return fmt.Errorf("select free tickets: %w", err)
		}
		defer rows.Close()

		var tickets []domain.Ticket
		for rows.Next() {
			var t domain.Ticket
			if err := rows.Scan(&t.ID, &t.EventID, &t.OrderID, &t.ReservedAt, &t.CreatedAt); err != nil {
				return fmt.Errorf("scan ticket: %w", err)
			}
			tickets = append(tickets, t)
		}
		if rows.Err() != nil {
			if isInvalidUUID(rows.Err()) {
				return domain.ErrInvalidID
			}
			return fmt.Errorf("iterate tickets: %w", rows.Err())
		}
		rows.Close()

		if len(tickets) < quantity {
			return domain.ErrInsufficientTickets
		}

		ids := make([]int64, 0, len(tickets))
		for i := range tickets {
			at := now
			tickets[i].ReservedAt = &at
			ids = append(ids, tickets[i].ID)
		}

		const stmt = `UPDATE tickets SET reserved_at = $1 WHERE id = ANY($2)`
		if _, err := r.exec(txCtx, stmt, now, ids); err != nil {
			return fmt.Errorf("reserve tickets: %w", err)
		}

		claimed = tickets
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// ReleaseTickets reverts a claim. Releasing an already-free ticket is a
// no-op; sold tickets are never touched.
func (r *TicketRepository) ReleaseTickets(ctx context.Context, ticketIDs []int64) error {
	if len(ticketIDs) == 0 {
		return nil
	}

	const stmt = `
UPDATE tickets
SET reserved_at = NULL
WHERE id = ANY($1) AND order_id IS NULL`

	if _, err := r.exec(ctx, stmt, ticketIDs); err != nil {
		return fmt.Errorf("release tickets: %w", err)
	}
	return nil
}

func (r *TicketRepository) AddTickets(ctx context.Context, eventID string, quantity int, now time.Time) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}

	const stmt = `
INSERT INTO tickets (event_id, created_at)
SELECT $1, $2 FROM generate_series(1, $3)`

	_, err := r.exec(ctx, stmt, eventID, now, quantity)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("add tickets: %w", err)
	}
	return nil
}

func (r *TicketRepository) CountAvailable(ctx context.Context, eventID string, now time.Time) (int, error) {
	const query = `
SELECT COUNT(*)
FROM tickets
WHERE event_id = $1
  AND order_id IS NULL
  AND (reserved_at IS NULL OR reserved_at <= $2)`

	var count int
	cutoff := now.Add(-r.reservationTTL)
	if err := r.queryRow(ctx, query, eventID, cutoff).Scan(&count); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("count available tickets: %w", err)
	}
	return count, nil
}

func (r *TicketRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *TicketRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *TicketRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
