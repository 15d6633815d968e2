package adaptor

import (
	"booking-orders/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Order   *OrderHandler
	Refund  *RefundHandler
	Webhook *WebhookHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Order:   NewOrderHandler(service.Order, log),
		Refund:  NewRefundHandler(service.Refund, log),
		Webhook: NewWebhookHandler(service.Webhook, log),
	}
}
