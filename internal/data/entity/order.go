package entity

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunding OrderStatus = "refunding"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// orderTransitions is the full set of legal status edges. Anything not
// listed here is an illegal transition and must be rejected before any write.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusCompleted, OrderStatusRefunded},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
	OrderStatusRefunded:  {},
}

// CanTransitionTo reports whether the edge from s to target is legal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status edges exist from s.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

type Order struct {
	BaseNoDelete
	OrderNo         string      `db:"order_no"`
	UserID          uuid.UUID   `db:"user_id"`
	Status          OrderStatus `db:"status"`
	TotalAmount     float64     `db:"total_amount"`
	ActualAmount    float64     `db:"actual_amount"`
	BookingDate     *time.Time  `db:"booking_date"`
	PaidAt          *time.Time  `db:"paid_at"`
	CompletedAt     *time.Time  `db:"completed_at"`
	CancelledAt     *time.Time  `db:"cancelled_at"`
	RefundedAt      *time.Time  `db:"refunded_at"`
	RefundRequestAt *time.Time  `db:"refund_request_at"`
}
