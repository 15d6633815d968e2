package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusConfirmed,
	OrderStatusCompleted,
	OrderStatusCancelled,
	OrderStatusRefunding,
	OrderStatusRefunded,
}

func TestOrderStatusCanTransitionTo(t *testing.T) {
	legal := map[OrderStatus][]OrderStatus{
		OrderStatusPending: {OrderStatusCancelled},
		OrderStatusPaid:    {OrderStatusCompleted, OrderStatusRefunded},
	}

	for _, from := range allOrderStatuses {
		for _, to := range allOrderStatuses {
			want := false
			for _, allowed := range legal[from] {
				if allowed == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestOrderStatusIsTerminal(t *testing.T) {
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.True(t, OrderStatusRefunded.IsTerminal())

	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusPaid.IsTerminal())
	assert.False(t, OrderStatusConfirmed.IsTerminal())
	assert.False(t, OrderStatusRefunding.IsTerminal())
}

func TestRefundStatusGuards(t *testing.T) {
	assert.True(t, RefundStatusCompleted.IsTerminal())
	assert.True(t, RefundStatusFailed.IsTerminal())
	assert.False(t, RefundStatusPending.IsTerminal())
	assert.False(t, RefundStatusProcessing.IsTerminal())

	assert.True(t, RefundStatusPending.IsActive())
	assert.True(t, RefundStatusProcessing.IsActive())
	assert.False(t, RefundStatusApproved.IsActive())
	assert.False(t, RefundStatusRejected.IsActive())
	assert.False(t, RefundStatusCompleted.IsActive())
	assert.False(t, RefundStatusFailed.IsActive())
}
