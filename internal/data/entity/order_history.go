package entity

import (
	"github.com/google/uuid"
)

// OrderStatusHistory is the append-only audit trail of order status changes.
// Rows are written in the same transaction as the order mutation and are
// never updated or deleted afterwards.
type OrderStatusHistory struct {
	BaseSimple
	OrderID    uuid.UUID    `db:"order_id"`
	FromStatus *OrderStatus `db:"from_status"`
	ToStatus   OrderStatus  `db:"to_status"`
	Reason     string       `db:"reason"`
	ActorID    uuid.UUID    `db:"actor_id"`
}
