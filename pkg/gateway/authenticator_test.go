package gateway

import (
	"crypto"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAPIKey = "0123456789abcdef0123456789abcdef"

func newTestAuthenticator(t *testing.T) (*Authenticator, *rsa.PrivateKey) {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return &Authenticator{
		apiKey: []byte(testAPIKey),
		keys:   map[string]*rsa.PublicKey{"SERIAL-1": &priv.PublicKey},
		log:    zap.NewNop(),
	}, priv
}

func sign(t *testing.T, priv *rsa.PrivateKey, timestamp, nonce string, body []byte) string {
	t.Helper()

	message := timestamp + "\n" + nonce + "\n" + string(body) + "\n"
	digest := sha256.Sum256([]byte(message))
	sig, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, digest[:])
	require.NoError(t, err)

	return base64.StdEncoding.EncodeToString(sig)
}

func TestAuthenticatorVerify(t *testing.T) {
	auth, priv := newTestAuthenticator(t)

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	nonce := "abc123"
	body := []byte(`{"id":"evt-1"}`)
	signature := sign(t, priv, timestamp, nonce, body)

	assert.NoError(t, auth.Verify(timestamp, nonce, body, signature, "SERIAL-1"))
}

func TestAuthenticatorVerifyRejectsTamperedBody(t *testing.T) {
	auth, priv := newTestAuthenticator(t)

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	signature := sign(t, priv, timestamp, "abc123", []byte(`{"id":"evt-1"}`))

	err := auth.Verify(timestamp, "abc123", []byte(`{"id":"evt-2"}`), signature, "SERIAL-1")
	assert.Error(t, err)
}

func TestAuthenticatorVerifyRejectsUnknownSerial(t *testing.T) {
	auth, priv := newTestAuthenticator(t)

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	body := []byte(`{}`)
	signature := sign(t, priv, timestamp, "n", body)

	err := auth.Verify(timestamp, "n", body, signature, "SERIAL-2")
	assert.ErrorContains(t, err, "unknown key serial")
}

func TestAuthenticatorVerifyRejectsStaleTimestamp(t *testing.T) {
	auth, priv := newTestAuthenticator(t)

	timestamp := fmt.Sprintf("%d", time.Now().Add(-time.Hour).Unix())
	body := []byte(`{}`)
	signature := sign(t, priv, timestamp, "n", body)

	err := auth.Verify(timestamp, "n", body, signature, "SERIAL-1")
	assert.ErrorContains(t, err, "timestamp")
}

func TestAuthenticatorDecrypt(t *testing.T) {
	auth, _ := newTestAuthenticator(t)

	plain := []byte(`{"out_refund_no":"REF202501010001000212345","refund_status":"SUCCESS"}`)
	nonce := "abcdef123456" // 12 bytes, the GCM standard size
	associated := "refund"

	block, err := aes.NewCipher([]byte(testAPIKey))
	require.NoError(t, err)
	gcm, err := cipher.NewGCM(block)
	require.NoError(t, err)
	sealed := gcm.Seal(nil, []byte(nonce), plain, []byte(associated))

	got, err := auth.Decrypt(base64.StdEncoding.EncodeToString(sealed), associated, nonce)
	require.NoError(t, err)
	assert.Equal(t, plain, got)

	// Wrong associated data must not decrypt.
	_, err = auth.Decrypt(base64.StdEncoding.EncodeToString(sealed), "other", nonce)
	assert.Error(t, err)
}

func TestParseOutcome(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, ParseOutcome("SUCCESS"))
	assert.Equal(t, OutcomeAbnormal, ParseOutcome("ABNORMAL"))
	assert.Equal(t, OutcomeProcessing, ParseOutcome("PROCESSING"))
	assert.Equal(t, OutcomeUnknown, ParseOutcome("CLOSED"))
	assert.Equal(t, OutcomeUnknown, ParseOutcome(""))
}
