package request

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid confirmed completed cancelled refunding refunded"`
	Reason string `json:"reason" validate:"omitempty,max=255"`
}
