package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test_secret"

func signPayload(secret string, ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func signatureHeader(secret string, ts int64, payload []byte) string {
	return fmt.Sprintf("t=%d,v1=%s", ts, signPayload(secret, ts, payload))
}

// ============================================
// Webhook signature verification
// ============================================

func TestVerifyWebhook_ValidSignature(t *testing.T) {
	g := NewStripeGateway("sk_test", testWebhookSecret)
	payload := []byte(`{
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_123", "status": "succeeded", "metadata": {"orderId": "order-1"}}}
	}`)
	header := signatureHeader(testWebhookSecret, time.Now().Unix(), payload)

	event, err := g.VerifyWebhook(payload, header)

	require.NoError(t, err)
	assert.Equal(t, "payment_intent.succeeded", event.Type)
	assert.Equal(t, "pi_123", event.IntentID)
	assert.Equal(t, "order-1", event.OrderID)
}

func TestVerifyWebhook_WrongSecret(t *testing.T) {
	g := NewStripeGateway("sk_test", testWebhookSecret)
	payload := []byte(`{"type": "payment_intent.succeeded"}`)
	header := signatureHeader("whsec_other_secret", time.Now().Unix(), payload)

	_, err := g.VerifyWebhook(payload, header)

	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyWebhook_TamperedPayload(t *testing.T) {
	g := NewStripeGateway("sk_test", testWebhookSecret)
	payload := []byte(`{"type": "payment_intent.succeeded"}`)
	header := signatureHeader(testWebhookSecret, time.Now().Unix(), payload)

	_, err := g.VerifyWebhook([]byte(`{"type": "payment_intent.payment_failed"}`), header)

	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyWebhook_StaleTimestamp(t *testing.T) {
	g := NewStripeGateway("sk_test", testWebhookSecret)
	payload := []byte(`{"type": "payment_intent.succeeded"}`)
	stale := time.Now().Add(-10 * time.Minute).Unix()
	header := signatureHeader(testWebhookSecret, stale, payload)

	_, err := g.VerifyWebhook(payload, header)

	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyWebhook_MalformedHeader(t *testing.T) {
	g := NewStripeGateway("sk_test", testWebhookSecret)
	payload := []byte(`{}`)

	for _, header := range []string{"", "garbage", "t=123", "v1=abc"} {
		_, err := g.VerifyWebhook(payload, header)
		assert.ErrorIs(t, err, ErrInvalidSignature, "header %q", header)
	}
}

func TestVerifyWebhook_SecondSignatureAccepted(t *testing.T) {
	g := NewStripeGateway("sk_test", testWebhookSecret)
	payload := []byte(`{"type": "payment_intent.succeeded", "data": {"object": {"id": "pi_9"}}}`)
	ts := time.Now().Unix()
	header := fmt.Sprintf("t=%d,v1=deadbeef,v1=%s", ts, signPayload(testWebhookSecret, ts, payload))

	event, err := g.VerifyWebhook(payload, header)

	require.NoError(t, err)
	assert.Equal(t, "pi_9", event.IntentID)
}

// ============================================
// REST client
// ============================================

func TestCreateIntent_SendsFormAndParsesResponse(t *testing.T) {
	var gotPath, gotAuth, gotAmount, gotCurrency, gotOrderID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseForm())
		gotAmount = r.PostForm.Get("amount")
		gotCurrency = r.PostForm.Get("currency")
		gotOrderID = r.PostForm.Get("metadata[orderId]")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "pi_123", "client_secret": "pi_123_secret", "status": "requires_payment_method"}`)
	}))
	defer server.Close()

	g := NewStripeGateway("sk_test", testWebhookSecret)
	g.baseURL = server.URL

	intent, err := g.CreateIntent(context.Background(), 259800, "usd", map[string]string{"orderId": "order-1"})

	require.NoError(t, err)
	assert.Equal(t, "/payment_intents", gotPath)
	assert.Equal(t, "Bearer sk_test", gotAuth)
	assert.Equal(t, "259800", gotAmount)
	assert.Equal(t, "usd", gotCurrency)
	assert.Equal(t, "order-1", gotOrderID)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret", intent.ClientSecret)
}

func TestRetrieveIntent_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"message": "No such payment_intent"}}`)
	}))
	defer server.Close()

	g := NewStripeGateway("sk_test", testWebhookSecret)
	g.baseURL = server.URL

	_, err := g.RetrieveIntent(context.Background(), "pi_missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "No such payment_intent")
}
