package request

// WebhookEnvelope carries the raw inbound gateway notification: the signed
// headers plus the unparsed body the signature covers.
type WebhookEnvelope struct {
	Timestamp string
	Nonce     string
	Signature string
	KeySerial string
	Body      []byte
}
