package response

import (
	"time"

	"booking-orders/internal/data/entity"
)

type RefundResponse struct {
	ID              string     `json:"id"`
	RefundNo        string     `json:"refund_no"`
	OrderID         string     `json:"order_id"`
	UserID          string     `json:"user_id"`
	Amount          float64    `json:"amount"`
	Reason          string     `json:"reason"`
	Description     *string    `json:"description,omitempty"`
	EvidenceImages  []string   `json:"evidence_images,omitempty"`
	Status          string     `json:"status"`
	AppliedAt       time.Time  `json:"applied_at"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedReason  *string    `json:"rejected_reason,omitempty"`
	RefundedAt      *time.Time `json:"refunded_at,omitempty"`
	GatewayRefundID *string    `json:"gateway_refund_id,omitempty"`
}

func RefundToResponse(record *entity.RefundRecord) RefundResponse {
	return RefundResponse{
		ID:              record.ID.String(),
		RefundNo:        record.RefundNo,
		OrderID:         record.OrderID.String(),
		UserID:          record.UserID.String(),
		Amount:          record.Amount,
		Reason:          record.Reason,
		Description:     record.Description,
		EvidenceImages:  record.EvidenceImages,
		Status:          string(record.Status),
		AppliedAt:       record.AppliedAt,
		ApprovedAt:      record.ApprovedAt,
		RejectedReason:  record.RejectedReason,
		RefundedAt:      record.RefundedAt,
		GatewayRefundID: record.GatewayRefundID,
	}
}
