package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"booking-orders/pkg/utils"

	"go.uber.org/zap"
)

// RefundSubmission is a refund instruction sent to the payment gateway. The
// outcome arrives later through the notification webhook.
type RefundSubmission struct {
	OrderNo  string  `json:"out_trade_no"`
	RefundNo string  `json:"out_refund_no"`
	Reason   string  `json:"reason"`
	Amount   float64 `json:"amount"`
	Total    float64 `json:"total"`
}

// Client submits refund instructions to the payment gateway over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	notifyURL  string
	log        *zap.Logger
}

func NewClient(config utils.GatewayConfig, log *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    config.BaseURL,
		apiKey:     config.APIKey,
		notifyURL:  config.NotifyURL,
		log:        log.With(zap.String("component", "gateway_client")),
	}
}

func (c *Client) SubmitRefund(ctx context.Context, submission *RefundSubmission) error {
	payload := struct {
		*RefundSubmission
		NotifyURL string `json:"notify_url"`
	}{submission, c.notifyURL}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal refund submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/refunds", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build refund request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Failed to submit refund to gateway",
			zap.Error(err),
			zap.String("refund_no", submission.RefundNo),
		)
		return fmt.Errorf("submit refund %s: %w", submission.RefundNo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Error("Gateway rejected refund submission",
			zap.Int("status", resp.StatusCode),
			zap.String("refund_no", submission.RefundNo),
			zap.ByteString("body", respBody),
		)
		return fmt.Errorf("submit refund %s: gateway returned %d", submission.RefundNo, resp.StatusCode)
	}

	c.log.Info("Refund submitted to gateway",
		zap.String("refund_no", submission.RefundNo),
		zap.Float64("amount", submission.Amount),
	)

	return nil
}
