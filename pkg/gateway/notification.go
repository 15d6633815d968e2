package gateway

// RefundNotification is the decrypted resource of a refund result
// notification from the payment gateway.
type RefundNotification struct {
	OutRefundNo     string `json:"out_refund_no"`
	GatewayRefundID string `json:"refund_id"`
	RefundStatus    string `json:"refund_status"`
	SuccessTime     string `json:"success_time"`
}

// Outcome is the tagged variant of a gateway refund result. Anything the
// gateway may send outside the three known statuses parses to OutcomeUnknown
// and must not be applied to local state.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeSuccess
	OutcomeAbnormal
	OutcomeProcessing
)

func ParseOutcome(status string) Outcome {
	switch status {
	case "SUCCESS":
		return OutcomeSuccess
	case "ABNORMAL":
		return OutcomeAbnormal
	case "PROCESSING":
		return OutcomeProcessing
	}
	return OutcomeUnknown
}

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "SUCCESS"
	case OutcomeAbnormal:
		return "ABNORMAL"
	case OutcomeProcessing:
		return "PROCESSING"
	}
	return "UNKNOWN"
}
