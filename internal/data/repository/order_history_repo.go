package repository

import (
	"context"
	"fmt"

	"booking-orders/internal/data/entity"
	"booking-orders/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderHistoryRepository interface {
	CreateTx(ctx context.Context, q database.Querier, history *entity.OrderStatusHistory) error
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderStatusHistory, error)
}

type orderHistoryRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOrderHistoryRepository(db database.PgxIface, log *zap.Logger) OrderHistoryRepository {
	return &orderHistoryRepository{
		db:  db,
		log: log.With(zap.String("repository", "order_history")),
	}
}

func (r *orderHistoryRepository) CreateTx(ctx context.Context, q database.Querier, history *entity.OrderStatusHistory) error {
	query := `
		INSERT INTO order_status_history (id, order_id, from_status, to_status, reason, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := q.Exec(ctx, query,
		history.ID,
		history.OrderID,
		history.FromStatus,
		history.ToStatus,
		history.Reason,
		history.ActorID,
		history.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create order status history",
			zap.Error(err),
			zap.String("order_id", history.OrderID.String()),
			zap.String("to_status", string(history.ToStatus)),
		)
		return fmt.Errorf("create status history for order %s: %w", history.OrderID.String(), err)
	}

	return nil
}

func (r *orderHistoryRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderStatusHistory, error) {
	query := `
		SELECT id, order_id, from_status, to_status, reason, actor_id, created_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		r.log.Error("Failed to find status history by order ID",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
		)
		return nil, fmt.Errorf("find status history by order ID %s: %w", orderID.String(), err)
	}
	defer rows.Close()

	var histories []*entity.OrderStatusHistory
	for rows.Next() {
		var history entity.OrderStatusHistory
		err := rows.Scan(
			&history.ID,
			&history.OrderID,
			&history.FromStatus,
			&history.ToStatus,
			&history.Reason,
			&history.ActorID,
			&history.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan status history row", zap.Error(err))
			return nil, fmt.Errorf("scan status history row: %w", err)
		}
		histories = append(histories, &history)
	}

	return histories, nil
}
