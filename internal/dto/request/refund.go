package request

type CreateRefundRequest struct {
	OrderID        string   `json:"order_id" validate:"required,uuid"`
	Reason         string   `json:"reason" validate:"required,min=3,max=255"`
	Description    *string  `json:"description" validate:"omitempty,max=1000"`
	EvidenceImages []string `json:"evidence_images" validate:"omitempty,max=5,dive,url"`
}

type ReviewRefundRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Reason string `json:"reason" validate:"required_if=Action reject,max=255"`
}
