package wire

import (
	"booking-orders/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireWebhook(r chi.Router, webhookHandler *adaptor.WebhookHandler) {
	// ==================== GATEWAY ROUTES ====================
	// Authenticated by signature verification, not by bearer tokens.

	// POST /api/webhooks/refund - Refund result notification from the gateway
	r.Post("/api/webhooks/refund", webhookHandler.RefundNotification)
}
