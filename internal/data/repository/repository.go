package repository

import (
	"context"
	"fmt"

	"booking-orders/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Order   OrderRepository
	History OrderHistoryRepository
	Refund  RefundRepository
	Tx      TxManager
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Order:   NewOrderRepository(db, log),
		History: NewOrderHistoryRepository(db, log),
		Refund:  NewRefundRepository(db, log),
		Tx:      NewTxManager(db, log),
	}
}

// TxManager runs a unit of work atomically: every write issued through the
// supplied Querier commits together or not at all.
type TxManager interface {
	InTx(ctx context.Context, fn func(q database.Querier) error) error
}

type txManager struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTxManager(db database.PgxIface, log *zap.Logger) TxManager {
	return &txManager{
		db:  db,
		log: log.With(zap.String("repository", "tx")),
	}
}

func (t *txManager) InTx(ctx context.Context, fn func(q database.Querier) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		t.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		// No-op after a successful commit.
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		t.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
