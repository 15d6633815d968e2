package response

import (
	"time"

	"booking-orders/internal/data/entity"
)

type OrderResponse struct {
	ID              string     `json:"id"`
	OrderNo         string     `json:"order_no"`
	UserID          string     `json:"user_id"`
	Status          string     `json:"status"`
	TotalAmount     float64    `json:"total_amount"`
	ActualAmount    float64    `json:"actual_amount"`
	BookingDate     *time.Time `json:"booking_date,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	RefundedAt      *time.Time `json:"refunded_at,omitempty"`
	RefundRequestAt *time.Time `json:"refund_request_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type OrderStatusHistoryResponse struct {
	FromStatus *string   `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	Reason     string    `json:"reason"`
	ActorID    string    `json:"actor_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type OrderDetailResponse struct {
	OrderResponse
	History []OrderStatusHistoryResponse `json:"history"`
	Refunds []RefundResponse             `json:"refunds"`
}

func OrderToResponse(order *entity.Order) OrderResponse {
	return OrderResponse{
		ID:              order.ID.String(),
		OrderNo:         order.OrderNo,
		UserID:          order.UserID.String(),
		Status:          string(order.Status),
		TotalAmount:     order.TotalAmount,
		ActualAmount:    order.ActualAmount,
		BookingDate:     order.BookingDate,
		PaidAt:          order.PaidAt,
		CompletedAt:     order.CompletedAt,
		CancelledAt:     order.CancelledAt,
		RefundedAt:      order.RefundedAt,
		RefundRequestAt: order.RefundRequestAt,
		CreatedAt:       order.CreatedAt,
	}
}

func OrderToDetailResponse(order *entity.Order, histories []*entity.OrderStatusHistory, refunds []*entity.RefundRecord) *OrderDetailResponse {
	historyResponses := make([]OrderStatusHistoryResponse, len(histories))
	for i, history := range histories {
		var from *string
		if history.FromStatus != nil {
			s := string(*history.FromStatus)
			from = &s
		}
		historyResponses[i] = OrderStatusHistoryResponse{
			FromStatus: from,
			ToStatus:   string(history.ToStatus),
			Reason:     history.Reason,
			ActorID:    history.ActorID.String(),
			CreatedAt:  history.CreatedAt,
		}
	}

	refundResponses := make([]RefundResponse, len(refunds))
	for i, record := range refunds {
		refundResponses[i] = RefundToResponse(record)
	}

	return &OrderDetailResponse{
		OrderResponse: OrderToResponse(order),
		History:       historyResponses,
		Refunds:       refundResponses,
	}
}
