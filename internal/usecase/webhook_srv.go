package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"booking-orders/internal/data/entity"
	"booking-orders/internal/data/repository"
	"booking-orders/internal/dto/request"
	"booking-orders/internal/dto/response"
	"booking-orders/pkg/database"
	"booking-orders/pkg/gateway"

	"go.uber.org/zap"
)

// webhookTimeout bounds total handling time so the acknowledgement stays
// inside the gateway's window.
const webhookTimeout = 5 * time.Second

// WebhookAuthenticator verifies the signature of an inbound gateway
// notification and decrypts its sealed resource.
type WebhookAuthenticator interface {
	Verify(timestamp, nonce string, body []byte, signature, serial string) error
	Decrypt(ciphertext, associatedData, nonce string) ([]byte, error)
}

type WebhookService interface {
	// HandleRefundNotification never fails past its boundary: every outcome,
	// including a panic, becomes an acknowledgement. The gateway's retry
	// behavior is the recovery mechanism for FAIL answers.
	HandleRefundNotification(ctx context.Context, envelope *request.WebhookEnvelope) *response.WebhookAck
}

type webhookService struct {
	repo     *repository.Repository
	auth     WebhookAuthenticator
	notifier Notifier
	log      *zap.Logger
}

func NewWebhookService(repo *repository.Repository, auth WebhookAuthenticator, notifier Notifier, log *zap.Logger) WebhookService {
	return &webhookService{
		repo:     repo,
		auth:     auth,
		notifier: notifier,
		log:      log.With(zap.String("service", "webhook")),
	}
}

var (
	errUnknownRefundNo = errors.New("no refund record for merchant refund number")
	errUnknownOutcome  = errors.New("unknown gateway outcome")
)

// notificationBody is the signed outer envelope of a gateway notification.
type notificationBody struct {
	ID        string `json:"id"`
	EventType string `json:"event_type"`
	Resource  struct {
		Ciphertext     string `json:"ciphertext"`
		Nonce          string `json:"nonce"`
		AssociatedData string `json:"associated_data"`
	} `json:"resource"`
}

func (s *webhookService) HandleRefundNotification(ctx context.Context, envelope *request.WebhookEnvelope) (ack *response.WebhookAck) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("PANIC in webhook handling", zap.Any("error", r), zap.Stack("stack"))
			ack = response.FailAck("internal error")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, webhookTimeout)
	defer cancel()

	if err := s.auth.Verify(envelope.Timestamp, envelope.Nonce, envelope.Body, envelope.Signature, envelope.KeySerial); err != nil {
		s.log.Warn("Webhook signature verification failed", zap.Error(err))
		return response.FailAck("invalid signature")
	}

	var body notificationBody
	if err := json.Unmarshal(envelope.Body, &body); err != nil {
		s.log.Warn("Webhook body is not valid JSON", zap.Error(err))
		return response.FailAck("malformed notification")
	}

	plain, err := s.auth.Decrypt(body.Resource.Ciphertext, body.Resource.AssociatedData, body.Resource.Nonce)
	if err != nil {
		s.log.Warn("Webhook resource decryption failed",
			zap.Error(err),
			zap.String("event_id", body.ID),
		)
		return response.FailAck("undecryptable resource")
	}

	var notification gateway.RefundNotification
	if err := json.Unmarshal(plain, &notification); err != nil {
		s.log.Warn("Webhook resource is not a refund notification", zap.Error(err))
		return response.FailAck("malformed resource")
	}

	outcome := gateway.ParseOutcome(notification.RefundStatus)

	completed, err := s.reconcile(ctx, &notification, outcome)
	if err != nil {
		switch {
		case errors.Is(err, errUnknownRefundNo):
			s.log.Warn("Webhook references unknown refund number",
				zap.String("refund_no", notification.OutRefundNo),
				zap.String("event_id", body.ID),
			)
			return response.FailAck("unknown refund number")
		case errors.Is(err, errUnknownOutcome):
			s.log.Warn("Webhook carries unknown refund status",
				zap.String("refund_no", notification.OutRefundNo),
				zap.String("refund_status", notification.RefundStatus),
			)
			return response.FailAck("unknown refund status")
		default:
			s.log.Error("Webhook reconciliation failed",
				zap.Error(err),
				zap.String("refund_no", notification.OutRefundNo),
			)
			return response.FailAck("reconciliation failed")
		}
	}

	// Completion side effects run after commit and never change the answer.
	if completed != nil {
		s.notifier.RefundCompleted(ctx, completed)
	}

	return response.SuccessAck()
}

// reconcile folds a verified gateway outcome into the refund record exactly
// once. Returns the record when this call moved it to completed.
func (s *webhookService) reconcile(ctx context.Context, notification *gateway.RefundNotification, outcome gateway.Outcome) (*entity.RefundRecord, error) {
	var completed *entity.RefundRecord

	err := s.repo.Tx.InTx(ctx, func(q database.Querier) error {
		record, err := s.repo.Refund.FindByRefundNoTx(ctx, q, notification.OutRefundNo)
		if err != nil {
			return err
		}
		if record == nil {
			return errUnknownRefundNo
		}

		// Idempotency guard: a terminal record means the notification is a
		// replay or arrived out of order after the terminal one.
		if record.Status.IsTerminal() {
			s.log.Info("Refund already terminal, notification ignored",
				zap.String("refund_no", record.RefundNo),
				zap.String("status", string(record.Status)),
				zap.String("outcome", outcome.String()),
			)
			return nil
		}

		switch outcome {
		case gateway.OutcomeSuccess:
			now := time.Now()
			if err := s.repo.Refund.MarkCompletedTx(ctx, q, record.ID, notification.GatewayRefundID, now); err != nil {
				return err
			}
			record.Status = entity.RefundStatusCompleted
			record.GatewayRefundID = &notification.GatewayRefundID
			record.RefundedAt = &now
			completed = record

		case gateway.OutcomeAbnormal:
			if err := s.repo.Refund.MarkFailedTx(ctx, q, record.ID, notification.GatewayRefundID); err != nil {
				return err
			}

		case gateway.OutcomeProcessing:
			// Not terminal yet; wait for a later notification.

		default:
			return errUnknownOutcome
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return completed, nil
}
