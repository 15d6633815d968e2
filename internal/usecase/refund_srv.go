package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booking-orders/internal/data/entity"
	"booking-orders/internal/data/repository"
	"booking-orders/internal/dto/request"
	"booking-orders/internal/dto/response"
	"booking-orders/pkg/cache"
	"booking-orders/pkg/database"
	"booking-orders/pkg/gateway"
	"booking-orders/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// refundDeadline is how long before the booking date a refund request must
// arrive. Exactly at the boundary the request is still accepted.
const refundDeadline = 48 * time.Hour

// maxRefundNoAttempts bounds regeneration after a refund-number collision.
const maxRefundNoAttempts = 3

// RefundGateway submits an approved refund to the payment gateway. The
// result arrives asynchronously through the notification webhook.
type RefundGateway interface {
	SubmitRefund(ctx context.Context, submission *gateway.RefundSubmission) error
}

type RefundService interface {
	// Public endpoint (requires auth)
	CreateRefund(ctx context.Context, userID string, req *request.CreateRefundRequest) (*response.RefundResponse, error)

	// Admin endpoints
	GetRefundByID(ctx context.Context, refundID string) (*response.RefundResponse, error)
	ReviewRefund(ctx context.Context, adminID string, refundID string, req *request.ReviewRefundRequest) (*response.RefundResponse, error)
}

type refundService struct {
	repo    *repository.Repository
	cache   cache.Store
	gateway RefundGateway
	log     *zap.Logger
}

func NewRefundService(repo *repository.Repository, store cache.Store, refundGateway RefundGateway, log *zap.Logger) RefundService {
	return &refundService{
		repo:    repo,
		cache:   store,
		gateway: refundGateway,
		log:     log.With(zap.String("service", "refund")),
	}
}

func (s *refundService) CreateRefund(ctx context.Context, userID string, req *request.CreateRefundRequest) (*response.RefundResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create refund validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// Parse IDs
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order ID format %s: %w", req.OrderID, err)
	}

	// Preconditions, checked in order; each fails with a distinct error.
	order, err := s.repo.Order.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, req.OrderID)
	}

	if order.UserID != userUUID {
		return nil, ErrForbidden
	}

	if order.Status != entity.OrderStatusPaid {
		return nil, fmt.Errorf("%w: order status is %s", ErrOrderNotRefundable, order.Status)
	}

	if order.BookingDate == nil {
		return nil, ErrMissingBookingDate
	}

	if time.Until(*order.BookingDate) < refundDeadline {
		return nil, fmt.Errorf("%w: booking date %s is less than 48 hours away",
			ErrRefundDeadlinePassed, order.BookingDate.Format(time.RFC3339))
	}

	// Insert the record and stamp the order atomically. A refund-number
	// collision aborts the transaction, so the retry wraps the whole unit.
	var record *entity.RefundRecord
	var lastErr error
	for attempt := 1; attempt <= maxRefundNoAttempts; attempt++ {
		record = s.newRefundRecord(order, req)

		lastErr = s.repo.Tx.InTx(ctx, func(q database.Querier) error {
			existing, err := s.repo.Refund.FindActiveByOrderIDTx(ctx, q, order.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("%w: %s", ErrDuplicateActiveRefund, existing.RefundNo)
			}

			if err := s.repo.Refund.CreateTx(ctx, q, record); err != nil {
				return err
			}

			return s.repo.Order.MarkRefundRequestedTx(ctx, q, order.ID, record.AppliedAt)
		})

		if lastErr == nil {
			break
		}
		if errors.Is(lastErr, repository.ErrActiveRefundExists) {
			// Lost the race against a concurrent creator.
			return nil, fmt.Errorf("%w: order %s", ErrDuplicateActiveRefund, order.OrderNo)
		}
		if !errors.Is(lastErr, repository.ErrRefundNoTaken) {
			return nil, fmt.Errorf("create refund: %w", lastErr)
		}

		s.log.Warn("Refund number collision, regenerating",
			zap.String("refund_no", record.RefundNo),
			zap.Int("attempt", attempt),
		)
	}
	if lastErr != nil {
		return nil, fmt.Errorf("create refund: attempts exhausted: %w", lastErr)
	}

	// Cache invalidation is fire-and-forget; the cache is not a source of truth.
	if err := s.cache.Del(ctx, cache.OrderKey(order.ID), cache.UserOrdersKey(order.UserID)); err != nil {
		s.log.Warn("Failed to invalidate order caches",
			zap.Error(err),
			zap.String("order_id", order.ID.String()),
		)
	}

	s.log.Info("Refund created",
		zap.String("refund_id", record.ID.String()),
		zap.String("refund_no", record.RefundNo),
		zap.String("order_no", order.OrderNo),
		zap.Float64("amount", record.Amount),
	)

	resp := response.RefundToResponse(record)
	return &resp, nil
}

func (s *refundService) newRefundRecord(order *entity.Order, req *request.CreateRefundRequest) *entity.RefundRecord {
	now := time.Now()
	return &entity.RefundRecord{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RefundNo:       utils.GenerateRefundNo(order.UserID, order.ID),
		OrderID:        order.ID,
		UserID:         order.UserID,
		Amount:         order.ActualAmount,
		Reason:         req.Reason,
		Description:    req.Description,
		EvidenceImages: req.EvidenceImages,
		Status:         entity.RefundStatusPending,
		AppliedAt:      now,
	}
}

// ==================== ADMIN METHODS ====================

func (s *refundService) GetRefundByID(ctx context.Context, refundID string) (*response.RefundResponse, error) {
	id, err := uuid.Parse(refundID)
	if err != nil {
		return nil, fmt.Errorf("invalid refund ID format %s: %w", refundID, err)
	}

	record, err := s.repo.Refund.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load refund: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", ErrRefundNotFound, refundID)
	}

	resp := response.RefundToResponse(record)
	return &resp, nil
}

func (s *refundService) ReviewRefund(ctx context.Context, adminID string, refundID string, req *request.ReviewRefundRequest) (*response.RefundResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Review refund validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(refundID)
	if err != nil {
		return nil, fmt.Errorf("invalid refund ID format %s: %w", refundID, err)
	}

	record, err := s.repo.Refund.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load refund: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", ErrRefundNotFound, refundID)
	}

	switch req.Action {
	case "approve":
		if err := s.approveRefund(ctx, record); err != nil {
			return nil, err
		}
	case "reject":
		if err := s.repo.Refund.Reject(ctx, record.ID, req.Reason, time.Now()); err != nil {
			if errors.Is(err, repository.ErrRefundNotPending) {
				return nil, fmt.Errorf("%w: status is %s", ErrRefundNotReviewable, record.Status)
			}
			return nil, fmt.Errorf("reject refund: %w", err)
		}
	}

	s.log.Info("Refund reviewed",
		zap.String("refund_no", record.RefundNo),
		zap.String("action", req.Action),
		zap.String("admin_id", adminID),
	)

	refreshed, err := s.repo.Refund.FindByID(ctx, record.ID)
	if err != nil || refreshed == nil {
		return nil, fmt.Errorf("reload refund %s: %w", refundID, err)
	}

	resp := response.RefundToResponse(refreshed)
	return &resp, nil
}

// approveRefund marks the record approved, hands it to the gateway and moves
// it to processing once the gateway accepted the submission. A failed
// submission leaves the record approved so the review can be retried.
func (s *refundService) approveRefund(ctx context.Context, record *entity.RefundRecord) error {
	order, err := s.repo.Order.FindByID(ctx, record.OrderID)
	if err != nil || order == nil {
		return fmt.Errorf("load order for refund %s: %w", record.RefundNo, err)
	}

	if err := s.repo.Refund.Approve(ctx, record.ID, time.Now()); err != nil {
		if errors.Is(err, repository.ErrRefundNotPending) {
			return fmt.Errorf("%w: status is %s", ErrRefundNotReviewable, record.Status)
		}
		return fmt.Errorf("approve refund: %w", err)
	}

	submission := &gateway.RefundSubmission{
		OrderNo:  order.OrderNo,
		RefundNo: record.RefundNo,
		Reason:   record.Reason,
		Amount:   record.Amount,
		Total:    order.ActualAmount,
	}
	if err := s.gateway.SubmitRefund(ctx, submission); err != nil {
		s.log.Error("Failed to submit refund to gateway",
			zap.Error(err),
			zap.String("refund_no", record.RefundNo),
		)
		return fmt.Errorf("submit refund %s: %w", record.RefundNo, err)
	}

	if err := s.repo.Refund.MarkProcessing(ctx, record.ID); err != nil {
		return fmt.Errorf("mark refund %s processing: %w", record.RefundNo, err)
	}

	return nil
}
