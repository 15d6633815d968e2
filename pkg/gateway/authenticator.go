package gateway

import (
	"crypto"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"strconv"
	"time"

	"booking-orders/pkg/utils"

	"go.uber.org/zap"
)

// maxTimestampSkew bounds how stale a signed notification may be.
const maxTimestampSkew = 5 * time.Minute

// Authenticator verifies the signature of an inbound gateway notification and
// decrypts its resource. Signatures are RSA-SHA256 over
// "timestamp\nnonce\nbody\n" with the platform public key selected by serial;
// resources are AES-256-GCM sealed with the shared API v3 key.
type Authenticator struct {
	apiKey []byte
	keys   map[string]*rsa.PublicKey
	log    *zap.Logger
}

func NewAuthenticator(config utils.GatewayConfig, log *zap.Logger) (*Authenticator, error) {
	if len(config.APIv3Key) != 32 {
		return nil, fmt.Errorf("gateway api v3 key must be 32 bytes, got %d", len(config.APIv3Key))
	}

	pemBytes, err := os.ReadFile(config.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read gateway public key: %w", err)
	}

	pub, err := parsePublicKey(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("parse gateway public key: %w", err)
	}

	return &Authenticator{
		apiKey: []byte(config.APIv3Key),
		keys:   map[string]*rsa.PublicKey{config.KeySerial: pub},
		log:    log.With(zap.String("component", "gateway_auth")),
	}, nil
}

func parsePublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}

	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}

	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA public key")
	}
	return pub, nil
}

// Verify checks the notification signature against the platform key
// identified by serial.
func (a *Authenticator) Verify(timestamp, nonce string, body []byte, signature, serial string) error {
	pub, ok := a.keys[serial]
	if !ok {
		return fmt.Errorf("unknown key serial %s", serial)
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", timestamp, err)
	}
	if skew := time.Since(time.Unix(ts, 0)); skew > maxTimestampSkew || skew < -maxTimestampSkew {
		return fmt.Errorf("timestamp outside allowed window")
	}

	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}

	message := timestamp + "\n" + nonce + "\n" + string(body) + "\n"
	digest := sha256.Sum256([]byte(message))

	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig); err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}

	return nil
}

// Decrypt opens the AES-256-GCM sealed resource of a verified notification.
func (a *Authenticator) Decrypt(ciphertext, associatedData, nonce string) ([]byte, error) {
	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}

	block, err := aes.NewCipher(a.apiKey)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}

	plain, err := gcm.Open(nil, []byte(nonce), sealed, []byte(associatedData))
	if err != nil {
		return nil, fmt.Errorf("open sealed resource: %w", err)
	}

	return plain, nil
}
