package postgres

import (
	"context"
	"fmt"

	"github.com/cimillas/concert-tickets/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, event_id, email, ticket_quantity, amount_cents, charge_id, created_at`

// CreateOrder inserts the order and assigns the claimed tickets to it in one
// transaction. If any ticket was sold out from under the claim the whole
// commit fails; the workflow's claim should make that impossible.
func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order, ticketIDs []int64) error {
	return withTx(ctx, r.pool, func(txCtx context.Context) error {
		const insertOrder = `
INSERT INTO orders (id, event_id, email, ticket_quantity, amount_cents, charge_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

		_, err := r.exec(txCtx, insertOrder,
			order.ID,
			order.EventID,
			order.Email,
			order.TicketQuantity,
			order.AmountCents,
			order.ChargeID,
			order.CreatedAt,
		)
		if err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			if isForeignKeyViolation(err) {
				return domain.ErrEventNotFound
			}
			return fmt.Errorf("create order: %w", err)
		}

		const assignTickets = `
UPDATE tickets
SET order_id = $1, reserved_at = NULL
WHERE id = ANY($2) AND order_id IS NULL`

		tag, err := r.exec(txCtx, assignTickets, order.ID, ticketIDs)
		if err != nil {
			return fmt.Errorf("assign tickets: %w", err)
		}
		if int(tag.RowsAffected()) != len(ticketIDs) {
			return fmt.Errorf("assign tickets: claimed %d, assigned %d", len(ticketIDs), tag.RowsAffected())
		}
		return nil
	})
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var o domain.Order
	err := r.queryRow(ctx, query, orderID).
		Scan(&o.ID, &o.EventID, &o.Email, &o.TicketQuantity, &o.AmountCents, &o.ChargeID, &o.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}

	o.TicketIDs, err = r.TicketIDsForOrder(ctx, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrderRepository) ListOrdersByEmail(ctx context.Context, eventID, email string) ([]domain.Order, error) {
	const query = `
SELECT ` + orderColumns + `
FROM orders
WHERE event_id = $1 AND email = $2
ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, eventID, email)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.EventID, &o.Email, &o.TicketQuantity, &o.AmountCents, &o.ChargeID, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if rows.Err() != nil {
		if isInvalidUUID(rows.Err()) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("iterate orders: %w", rows.Err())
	}
	return orders, nil
}

// TicketIDsForOrder returns the sold tickets belonging to an order in id order.
func (r *OrderRepository) TicketIDsForOrder(ctx context.Context, orderID string) ([]int64, error) {
	const query = `SELECT id FROM tickets WHERE order_id = $1 ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list order tickets: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan ticket id: %w", err)
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate ticket ids: %w", rows.Err())
	}
	return ids, nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
