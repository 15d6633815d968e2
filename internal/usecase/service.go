package usecase

import (
	"booking-orders/internal/data/repository"
	"booking-orders/pkg/cache"
	"booking-orders/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Order   OrderService
	Refund  RefundService
	Webhook WebhookService
}

func NewService(
	repo *repository.Repository,
	store cache.Store,
	refundGateway RefundGateway,
	authenticator WebhookAuthenticator,
	notifier Notifier,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Order:   NewOrderService(repo, store, config, log),
		Refund:  NewRefundService(repo, store, refundGateway, log),
		Webhook: NewWebhookService(repo, authenticator, notifier, log),
	}
}
