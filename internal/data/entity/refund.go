package entity

import (
	"time"

	"github.com/google/uuid"
)

type RefundStatus string

const (
	RefundStatusPending    RefundStatus = "pending"
	RefundStatusApproved   RefundStatus = "approved"
	RefundStatusRejected   RefundStatus = "rejected"
	RefundStatusProcessing RefundStatus = "processing"
	RefundStatusCompleted  RefundStatus = "completed"
	RefundStatusFailed     RefundStatus = "failed"
)

// IsTerminal reports whether the gateway outcome for this record has already
// been applied. Notifications arriving for a terminal record are no-ops.
func (s RefundStatus) IsTerminal() bool {
	return s == RefundStatusCompleted || s == RefundStatusFailed
}

// IsActive reports whether the record blocks creation of a new refund for
// the same order.
func (s RefundStatus) IsActive() bool {
	return s == RefundStatusPending || s == RefundStatusProcessing
}

type RefundRecord struct {
	BaseNoDelete
	RefundNo        string       `db:"refund_no"`
	OrderID         uuid.UUID    `db:"order_id"`
	UserID          uuid.UUID    `db:"user_id"`
	Amount          float64      `db:"amount"`
	Reason          string       `db:"reason"`
	Description     *string      `db:"description"`
	EvidenceImages  []string     `db:"evidence_images"`
	Status          RefundStatus `db:"status"`
	AppliedAt       time.Time    `db:"applied_at"`
	ApprovedAt      *time.Time   `db:"approved_at"`
	RejectedReason  *string      `db:"rejected_reason"`
	RefundedAt      *time.Time   `db:"refunded_at"`
	GatewayRefundID *string      `db:"gateway_refund_id"`
}
