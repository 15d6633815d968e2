package usecase

import (
	"context"

	"booking-orders/internal/data/entity"

	"go.uber.org/zap"
)

// Notifier receives best-effort completion events. Implementations must not
// fail the caller; the webhook acknowledgement never depends on delivery.
type Notifier interface {
	RefundCompleted(ctx context.Context, record *entity.RefundRecord)
}

type logNotifier struct {
	log *zap.Logger
}

// NewLogNotifier returns a Notifier that records completion events in the
// application log, where the scheduled outbound-message jobs pick them up.
func NewLogNotifier(log *zap.Logger) Notifier {
	return &logNotifier{log: log.With(zap.String("component", "notifier"))}
}

func (n *logNotifier) RefundCompleted(ctx context.Context, record *entity.RefundRecord) {
	n.log.Info("Refund completed",
		zap.String("refund_no", record.RefundNo),
		zap.String("order_id", record.OrderID.String()),
		zap.String("user_id", record.UserID.String()),
		zap.Float64("amount", record.Amount),
	)
}
