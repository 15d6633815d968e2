package response

// WebhookAck is the acknowledgement object the payment gateway expects. The
// shape is mandated by the gateway protocol and must not change.
type WebhookAck struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	AckCodeSuccess = "SUCCESS"
	AckCodeFail    = "FAIL"
)

func SuccessAck() *WebhookAck {
	return &WebhookAck{Code: AckCodeSuccess, Message: "ok"}
}

func FailAck(message string) *WebhookAck {
	return &WebhookAck{Code: AckCodeFail, Message: message}
}
