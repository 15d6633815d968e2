package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"booking-orders/internal/dto/request"
	"booking-orders/internal/usecase"
	"booking-orders/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RefundHandler struct {
	service usecase.RefundService
	log     *zap.Logger
}

func NewRefundHandler(service usecase.RefundService, log *zap.Logger) *RefundHandler {
	return &RefundHandler{
		service: service,
		log:     log.With(zap.String("handler", "refund")),
	}
}

// CreateRefund handles POST /api/refunds (protected)
func (h *RefundHandler) CreateRefund(w http.ResponseWriter, r *http.Request) {
	// Get user ID from context
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	refund, err := h.service.CreateRefund(r.Context(), userID.String(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create refund")
		return
	}

	utils.ResponseCreated(w, "success", refund)
}

// ==================== ADMIN METHODS ====================

// GetRefundByID handles GET /api/admin/refunds/{id} (admin only)
func (h *RefundHandler) GetRefundByID(w http.ResponseWriter, r *http.Request) {
	refundID := chi.URLParam(r, "id")
	if refundID == "" {
		utils.ResponseBadRequest(w, "Refund ID is required", nil)
		return
	}

	refund, err := h.service.GetRefundByID(r.Context(), refundID)
	if err != nil {
		h.handleServiceError(w, err, "get refund by ID")
		return
	}

	utils.ResponseSuccess(w, "success", refund)
}

// ReviewRefund handles PUT /api/admin/refunds/{id}/review (admin only)
func (h *RefundHandler) ReviewRefund(w http.ResponseWriter, r *http.Request) {
	refundID := chi.URLParam(r, "id")
	if refundID == "" {
		utils.ResponseBadRequest(w, "Refund ID is required", nil)
		return
	}

	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ReviewRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	refund, err := h.service.ReviewRefund(r.Context(), adminID.String(), refundID, &req)
	if err != nil {
		h.handleServiceError(w, err, "review refund")
		return
	}

	utils.ResponseSuccess(w, "success", refund)
}

// handleServiceError maps refund service errors to HTTP responses
func (h *RefundHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, usecase.ErrOrderNotFound), errors.Is(err, usecase.ErrRefundNotFound):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case errors.Is(err, usecase.ErrForbidden):
		h.log.Warn(operation+" failed - not owner",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseForbidden(w, errMsg)

	case errors.Is(err, usecase.ErrDuplicateActiveRefund):
		h.log.Warn(operation+" failed - duplicate active refund",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, errMsg)

	case errors.Is(err, usecase.ErrOrderNotRefundable),
		errors.Is(err, usecase.ErrMissingBookingDate),
		errors.Is(err, usecase.ErrRefundDeadlinePassed),
		errors.Is(err, usecase.ErrRefundNotReviewable):
		h.log.Warn(operation+" failed - precondition",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid"), strings.Contains(errMsg, "validation failed"):
		h.log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
