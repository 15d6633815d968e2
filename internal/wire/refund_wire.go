package wire

import (
	"booking-orders/internal/adaptor"
	"booking-orders/pkg/middleware"
	"booking-orders/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireRefund(
	r chi.Router,
	refundHandler *adaptor.RefundHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(config.JWT, log))

		// POST /api/refunds - Request a refund for an own paid order
		r.Post("/api/refunds", refundHandler.CreateRefund)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/refunds", func(r chi.Router) {
		// Require both authentication AND admin role
		r.Use(middleware.AuthJWT(config.JWT, log))
		r.Use(middleware.Admin(log))

		// GET /api/admin/refunds/{id} - View any refund record (admin)
		r.Get("/{id}", refundHandler.GetRefundByID)

		// PUT /api/admin/refunds/{id}/review - Approve or reject a refund (admin)
		r.Put("/{id}/review", refundHandler.ReviewRefund)
	})
}
