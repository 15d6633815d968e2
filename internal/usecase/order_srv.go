package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"booking-orders/internal/data/entity"
	"booking-orders/internal/data/repository"
	"booking-orders/internal/dto/request"
	"booking-orders/internal/dto/response"
	"booking-orders/pkg/cache"
	"booking-orders/pkg/database"
	"booking-orders/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderService interface {
	// Admin endpoints
	UpdateOrderStatus(ctx context.Context, adminID string, orderID string, req *request.UpdateOrderStatusRequest) (*response.OrderDetailResponse, error)
	GetOrderDetail(ctx context.Context, orderID string) (*response.OrderDetailResponse, error)
}

type orderService struct {
	repo     *repository.Repository
	cache    cache.Store
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewOrderService(repo *repository.Repository, store cache.Store, config *utils.Config, log *zap.Logger) OrderService {
	return &orderService{
		repo:     repo,
		cache:    store,
		cacheTTL: time.Duration(config.Redis.TTLSeconds) * time.Second,
		log:      log.With(zap.String("service", "order")),
	}
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, adminID string, orderID string, req *request.UpdateOrderStatusRequest) (*response.OrderDetailResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update order status validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// Parse IDs
	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return nil, fmt.Errorf("invalid admin ID format %s: %w", adminID, err)
	}

	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order ID format %s: %w", orderID, err)
	}

	target := entity.OrderStatus(req.Status)

	// A refund-number collision on the implicit record aborts the whole
	// transaction, so generation retries wrap the unit of work.
	var lastErr error
	for attempt := 1; attempt <= maxRefundNoAttempts; attempt++ {
		lastErr = s.repo.Tx.InTx(ctx, func(q database.Querier) error {
			return s.applyTransition(ctx, q, id, target, req.Reason, adminUUID)
		})

		if lastErr == nil || !errors.Is(lastErr, repository.ErrRefundNoTaken) {
			break
		}
		s.log.Warn("Refund number collision on admin refund, regenerating",
			zap.String("order_id", orderID),
			zap.Int("attempt", attempt),
		)
	}
	if lastErr != nil {
		if errors.Is(lastErr, repository.ErrActiveRefundExists) {
			return nil, fmt.Errorf("%w: order %s", ErrDuplicateActiveRefund, orderID)
		}
		if errors.Is(lastErr, repository.ErrRefundNoTaken) {
			return nil, fmt.Errorf("update order status: attempts exhausted: %w", lastErr)
		}
		return nil, lastErr
	}

	// Best-effort invalidation; never fails the transition.
	if err := s.cache.Del(ctx, cache.OrderKey(id)); err != nil {
		s.log.Warn("Failed to invalidate order cache",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
	}

	s.log.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("status", req.Status),
		zap.String("admin_id", adminID),
	)

	// Fresh read outside the mutating transaction.
	return s.GetOrderDetail(ctx, orderID)
}

// applyTransition performs the status change, the audit row and the implicit
// refund record (for the refunded target) inside one transaction.
func (s *orderService) applyTransition(ctx context.Context, q database.Querier, id uuid.UUID, target entity.OrderStatus, reason string, actorID uuid.UUID) error {
	order, err := s.repo.Order.FindByIDTx(ctx, q, id)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, id.String())
	}

	if !order.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, order.Status, target)
	}

	now := time.Now()
	if err := s.repo.Order.UpdateStatusTx(ctx, q, order.ID, target, now); err != nil {
		return err
	}

	if reason == "" {
		reason = fmt.Sprintf("status changed to %s by operator", target)
	}

	from := order.Status
	history := &entity.OrderStatusHistory{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		OrderID:    order.ID,
		FromStatus: &from,
		ToStatus:   target,
		Reason:     reason,
		ActorID:    actorID,
	}
	if err := s.repo.History.CreateTx(ctx, q, history); err != nil {
		return err
	}

	if target == entity.OrderStatusRefunded {
		return s.ensureRefundRecord(ctx, q, order, now)
	}

	return nil
}

// ensureRefundRecord enforces the single-active-refund invariant on an admin
// refund and creates the implicit pending record when none exists yet.
func (s *orderService) ensureRefundRecord(ctx context.Context, q database.Querier, order *entity.Order, now time.Time) error {
	active, err := s.repo.Refund.FindActiveByOrderIDTx(ctx, q, order.ID)
	if err != nil {
		return err
	}
	if active != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateActiveRefund, active.RefundNo)
	}

	exists, err := s.repo.Refund.ExistsByOrderIDTx(ctx, q, order.ID)
	if err != nil {
		return err
	}
	if exists {
		// A finished or rejected record already documents this refund.
		return nil
	}

	record := &entity.RefundRecord{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RefundNo:  utils.GenerateRefundNo(order.UserID, order.ID),
		OrderID:   order.ID,
		UserID:    order.UserID,
		Amount:    order.ActualAmount,
		Reason:    "admin-initiated",
		Status:    entity.RefundStatusPending,
		AppliedAt: now,
	}
	return s.repo.Refund.CreateTx(ctx, q, record)
}

func (s *orderService) GetOrderDetail(ctx context.Context, orderID string) (*response.OrderDetailResponse, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order ID format %s: %w", orderID, err)
	}

	// Read-through cache; failures fall back to the store.
	key := cache.OrderKey(id)
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var detail response.OrderDetailResponse
		if json.Unmarshal([]byte(raw), &detail) == nil {
			return &detail, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn("Order detail cache read failed",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
	}

	order, err := s.repo.Order.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	histories, err := s.repo.History.FindByOrderID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load order history: %w", err)
	}

	refunds, err := s.repo.Refund.FindByOrderID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load order refunds: %w", err)
	}

	detail := response.OrderToDetailResponse(order, histories, refunds)

	if data, err := json.Marshal(detail); err == nil {
		if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
			s.log.Warn("Order detail cache write failed",
				zap.Error(err),
				zap.String("order_id", orderID),
			)
		}
	}

	return detail, nil
}
