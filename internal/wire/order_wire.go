package wire

import (
	"booking-orders/internal/adaptor"
	"booking-orders/pkg/middleware"
	"booking-orders/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireOrder(
	r chi.Router,
	orderHandler *adaptor.OrderHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/orders", func(r chi.Router) {
		// Require both authentication AND admin role
		r.Use(middleware.AuthJWT(config.JWT, log))
		r.Use(middleware.Admin(log))

		// GET /api/admin/orders/{id} - Order detail with history and refunds (admin)
		r.Get("/{id}", orderHandler.GetOrderByID)

		// PUT /api/admin/orders/{id}/status - Force an order status transition (admin)
		r.Put("/{id}/status", orderHandler.UpdateOrderStatus)
	})
}
