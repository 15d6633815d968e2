package repository

import (
	"context"
	"fmt"
	"time"

	"booking-orders/internal/data/entity"
	"booking-orders/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// Transactional variants
	FindByIDTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Order, error)
	UpdateStatusTx(ctx context.Context, q database.Querier, id uuid.UUID, status entity.OrderStatus, at time.Time) error
	MarkRefundRequestedTx(ctx context.Context, q database.Querier, id uuid.UUID, at time.Time) error
}

type orderRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOrderRepository(db database.PgxIface, log *zap.Logger) OrderRepository {
	return &orderRepository{
		db:  db,
		log: log.With(zap.String("repository", "order")),
	}
}

const orderColumns = `id, order_no, user_id, status, total_amount, actual_amount, booking_date,
		       paid_at, completed_at, cancelled_at, refunded_at, refund_request_at,
		       created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var order entity.Order
	err := row.Scan(
		&order.ID,
		&order.OrderNo,
		&order.UserID,
		&order.Status,
		&order.TotalAmount,
		&order.ActualAmount,
		&order.BookingDate,
		&order.PaidAt,
		&order.CompletedAt,
		&order.CancelledAt,
		&order.RefundedAt,
		&order.RefundRequestAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`

	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find order by ID",
			zap.Error(err),
			zap.String("order_id", id.String()),
		)
		return nil, fmt.Errorf("find order by ID %s: %w", id.String(), err)
	}

	return order, nil
}

// FindByIDTx loads the order with a row lock so concurrent transitions on the
// same order serialize inside the transaction.
func (r *orderRepository) FindByIDTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`

	order, err := scanOrder(q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find order for update",
			zap.Error(err),
			zap.String("order_id", id.String()),
		)
		return nil, fmt.Errorf("find order for update %s: %w", id.String(), err)
	}

	return order, nil
}

func (r *orderRepository) UpdateStatusTx(ctx context.Context, q database.Querier, id uuid.UUID, status entity.OrderStatus, at time.Time) error {
	// Each terminal status stamps its own timestamp column.
	query := `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`
	switch status {
	case entity.OrderStatusCompleted:
		query = `UPDATE orders SET status = $2, completed_at = $3, updated_at = $3 WHERE id = $1`
	case entity.OrderStatusCancelled:
		query = `UPDATE orders SET status = $2, cancelled_at = $3, updated_at = $3 WHERE id = $1`
	case entity.OrderStatusRefunded:
		query = `UPDATE orders SET status = $2, refunded_at = $3, updated_at = $3 WHERE id = $1`
	}

	result, err := q.Exec(ctx, query, id, status, at)
	if err != nil {
		r.log.Error("Failed to update order status",
			zap.Error(err),
			zap.String("order_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update order %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("order %s not found", id.String())
	}

	return nil
}

func (r *orderRepository) MarkRefundRequestedTx(ctx context.Context, q database.Querier, id uuid.UUID, at time.Time) error {
	query := `UPDATE orders SET refund_request_at = $2, updated_at = $2 WHERE id = $1`

	result, err := q.Exec(ctx, query, id, at)
	if err != nil {
		r.log.Error("Failed to mark refund requested",
			zap.Error(err),
			zap.String("order_id", id.String()),
		)
		return fmt.Errorf("mark order %s refund requested: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("order %s not found", id.String())
	}

	return nil
}
