package adaptor

import (
	"encoding/json"
	"io"
	"net/http"

	"booking-orders/internal/dto/request"
	"booking-orders/internal/dto/response"
	"booking-orders/internal/usecase"

	"go.uber.org/zap"
)

// maxNotificationBody caps the signed payload we are willing to read.
const maxNotificationBody = 1 << 20

type WebhookHandler struct {
	service usecase.WebhookService
	log     *zap.Logger
}

func NewWebhookHandler(service usecase.WebhookService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		log:     log.With(zap.String("handler", "webhook")),
	}
}

// RefundNotification handles POST /api/webhooks/refund (gateway only).
// The response body is the gateway-mandated acknowledgement object, not the
// regular API envelope.
func (h *WebhookHandler) RefundNotification(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxNotificationBody))
	if err != nil {
		h.log.Warn("Failed to read webhook body", zap.Error(err))
		h.writeAck(w, response.FailAck("unreadable body"))
		return
	}

	envelope := &request.WebhookEnvelope{
		Timestamp: r.Header.Get("Wechatpay-Timestamp"),
		Nonce:     r.Header.Get("Wechatpay-Nonce"),
		Signature: r.Header.Get("Wechatpay-Signature"),
		KeySerial: r.Header.Get("Wechatpay-Serial"),
		Body:      body,
	}

	ack := h.service.HandleRefundNotification(r.Context(), envelope)
	h.writeAck(w, ack)
}

func (h *WebhookHandler) writeAck(w http.ResponseWriter, ack *response.WebhookAck) {
	code := http.StatusOK
	if ack.Code != response.AckCodeSuccess {
		// A non-2xx answer makes the gateway retry later.
		code = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ack); err != nil {
		h.log.Error("Failed to write webhook acknowledgement", zap.Error(err))
	}
}
