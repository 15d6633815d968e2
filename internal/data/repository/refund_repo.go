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

type RefundRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RefundRecord, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*entity.RefundRecord, error)

	// Admin review updates; each guards the expected current status in the
	// WHERE clause and reports ErrRefundNotPending on a lost race.
	Approve(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	Reject(ctx context.Context, id uuid.UUID, reason string, at time.Time) error

	// Transactional variants
	CreateTx(ctx context.Context, q database.Querier, record *entity.RefundRecord) error
	FindActiveByOrderIDTx(ctx context.Context, q database.Querier, orderID uuid.UUID) (*entity.RefundRecord, error)
	ExistsByOrderIDTx(ctx context.Context, q database.Querier, orderID uuid.UUID) (bool, error)
	FindByRefundNoTx(ctx context.Context, q database.Querier, refundNo string) (*entity.RefundRecord, error)
	MarkCompletedTx(ctx context.Context, q database.Querier, id uuid.UUID, gatewayRefundID string, refundedAt time.Time) error
	MarkFailedTx(ctx context.Context, q database.Querier, id uuid.UUID, gatewayRefundID string) error
}

type refundRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRefundRepository(db database.PgxIface, log *zap.Logger) RefundRepository {
	return &refundRepository{
		db:  db,
		log: log.With(zap.String("repository", "refund")),
	}
}

const refundColumns = `id, refund_no, order_id, user_id, amount, reason, description, evidence_images,
		        status, applied_at, approved_at, rejected_reason, refunded_at, gateway_refund_id,
		        created_at, updated_at`

func scanRefund(row pgx.Row) (*entity.RefundRecord, error) {
	var record entity.RefundRecord
	err := row.Scan(
		&record.ID,
		&record.RefundNo,
		&record.OrderID,
		&record.UserID,
		&record.Amount,
		&record.Reason,
		&record.Description,
		&record.EvidenceImages,
		&record.Status,
		&record.AppliedAt,
		&record.ApprovedAt,
		&record.RejectedReason,
		&record.RefundedAt,
		&record.GatewayRefundID,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *refundRepository) CreateTx(ctx context.Context, q database.Querier, record *entity.RefundRecord) error {
	query := `
		INSERT INTO refund_records (id, refund_no, order_id, user_id, amount, reason, description,
		                            evidence_images, status, applied_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := q.Exec(ctx, query,
		record.ID,
		record.RefundNo,
		record.OrderID,
		record.UserID,
		record.Amount,
		record.Reason,
		record.Description,
		record.EvidenceImages,
		record.Status,
		record.AppliedAt,
		record.CreatedAt,
		record.UpdatedAt,
	)

	if err != nil {
		if mapped := translateUniqueViolation(err); mapped != err {
			return mapped
		}
		r.log.Error("Failed to create refund record",
			zap.Error(err),
			zap.String("refund_no", record.RefundNo),
			zap.String("order_id", record.OrderID.String()),
		)
		return fmt.Errorf("create refund record %s: %w", record.RefundNo, err)
	}

	return nil
}

func (r *refundRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RefundRecord, error) {
	query := `
		SELECT ` + refundColumns + `
		FROM refund_records
		WHERE id = $1
	`

	record, err := scanRefund(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find refund record by ID",
			zap.Error(err),
			zap.String("refund_id", id.String()),
		)
		return nil, fmt.Errorf("find refund record by ID %s: %w", id.String(), err)
	}

	return record, nil
}

func (r *refundRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*entity.RefundRecord, error) {
	query := `
		SELECT ` + refundColumns + `
		FROM refund_records
		WHERE order_id = $1
		ORDER BY applied_at
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		r.log.Error("Failed to find refund records by order ID",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
		)
		return nil, fmt.Errorf("find refund records by order ID %s: %w", orderID.String(), err)
	}
	defer rows.Close()

	var records []*entity.RefundRecord
	for rows.Next() {
		record, err := scanRefund(rows)
		if err != nil {
			r.log.Error("Failed to scan refund record row", zap.Error(err))
			return nil, fmt.Errorf("scan refund record row: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

func (r *refundRepository) FindActiveByOrderIDTx(ctx context.Context, q database.Querier, orderID uuid.UUID) (*entity.RefundRecord, error) {
	query := `
		SELECT ` + refundColumns + `
		FROM refund_records
		WHERE order_id = $1 AND status IN ('pending', 'processing')
		LIMIT 1
	`

	record, err := scanRefund(q.QueryRow(ctx, query, orderID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active refund by order ID",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
		)
		return nil, fmt.Errorf("find active refund by order ID %s: %w", orderID.String(), err)
	}

	return record, nil
}

func (r *refundRepository) ExistsByOrderIDTx(ctx context.Context, q database.Querier, orderID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM refund_records WHERE order_id = $1)`

	var exists bool
	if err := q.QueryRow(ctx, query, orderID).Scan(&exists); err != nil {
		r.log.Error("Failed to check refund records by order ID",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
		)
		return false, fmt.Errorf("check refund records by order ID %s: %w", orderID.String(), err)
	}

	return exists, nil
}

// FindByRefundNoTx locks the row so a redelivered notification for the same
// refund cannot interleave with a concurrent delivery.
func (r *refundRepository) FindByRefundNoTx(ctx context.Context, q database.Querier, refundNo string) (*entity.RefundRecord, error) {
	query := `
		SELECT ` + refundColumns + `
		FROM refund_records
		WHERE refund_no = $1
		FOR UPDATE
	`

	record, err := scanRefund(q.QueryRow(ctx, query, refundNo))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find refund record by refund no",
			zap.Error(err),
			zap.String("refund_no", refundNo),
		)
		return nil, fmt.Errorf("find refund record by refund no %s: %w", refundNo, err)
	}

	return record, nil
}

func (r *refundRepository) MarkCompletedTx(ctx context.Context, q database.Querier, id uuid.UUID, gatewayRefundID string, refundedAt time.Time) error {
	query := `
		UPDATE refund_records
		SET status = 'completed', gateway_refund_id = $2, refunded_at = $3, updated_at = $3
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query, id, gatewayRefundID, refundedAt)
	if err != nil {
		r.log.Error("Failed to mark refund completed",
			zap.Error(err),
			zap.String("refund_id", id.String()),
		)
		return fmt.Errorf("mark refund %s completed: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("refund record %s not found", id.String())
	}

	return nil
}

func (r *refundRepository) MarkFailedTx(ctx context.Context, q database.Querier, id uuid.UUID, gatewayRefundID string) error {
	query := `
		UPDATE refund_records
		SET status = 'failed', gateway_refund_id = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query, id, gatewayRefundID)
	if err != nil {
		r.log.Error("Failed to mark refund failed",
			zap.Error(err),
			zap.String("refund_id", id.String()),
		)
		return fmt.Errorf("mark refund %s failed: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("refund record %s not found", id.String())
	}

	return nil
}

func (r *refundRepository) Approve(ctx context.Context, id uuid.UUID, at time.Time) error {
	// 'approved' is included so a submission retry after a gateway outage can
	// run approve again.
	query := `
		UPDATE refund_records
		SET status = 'approved', approved_at = $2, updated_at = $2
		WHERE id = $1 AND status IN ('pending', 'approved')
	`

	result, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		r.log.Error("Failed to approve refund",
			zap.Error(err),
			zap.String("refund_id", id.String()),
		)
		return fmt.Errorf("approve refund %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrRefundNotPending
	}

	return nil
}

func (r *refundRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE refund_records
		SET status = 'processing', updated_at = NOW()
		WHERE id = $1 AND status = 'approved'
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark refund processing",
			zap.Error(err),
			zap.String("refund_id", id.String()),
		)
		return fmt.Errorf("mark refund %s processing: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrRefundNotPending
	}

	return nil
}

func (r *refundRepository) Reject(ctx context.Context, id uuid.UUID, reason string, at time.Time) error {
	query := `
		UPDATE refund_records
		SET status = 'rejected', rejected_reason = $2, updated_at = $3
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, id, reason, at)
	if err != nil {
		r.log.Error("Failed to reject refund",
			zap.Error(err),
			zap.String("refund_id", id.String()),
		)
		return fmt.Errorf("reject refund %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrRefundNotPending
	}

	return nil
}
