package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const stripeAPIBase = "https://api.stripe.com/v1"

// webhookTolerance bounds how old a signed webhook timestamp may be.
const webhookTolerance = 5 * time.Minute

// StripeGateway implements Gateway against the Stripe REST API.
type StripeGateway struct {
	apiKey        string
	webhookSecret string
	client        *http.Client
	baseURL       string
}

func NewStripeGateway(apiKey, webhookSecret string) *StripeGateway {
	return &StripeGateway{
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		client:        &http.Client{Timeout: 15 * time.Second},
		baseURL:       stripeAPIBase,
	}
}

// stripeIntent is the subset of Stripe's payment_intent object we read.
type stripeIntent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Status       string            `json:"status"`
	Metadata     map[string]string `json:"metadata"`
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinor, 10))
	form.Set("currency", currency)
	for k, v := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var si stripeIntent
	if err := g.do(ctx, http.MethodPost, "/payment_intents", form, &si); err != nil {
		return nil, err
	}
	return &Intent{ID: si.ID, ClientSecret: si.ClientSecret, Status: si.Status}, nil
}

func (g *StripeGateway) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	var si stripeIntent
	if err := g.do(ctx, http.MethodGet, "/payment_intents/"+url.PathEscape(id), nil, &si); err != nil {
		return nil, err
	}
	return &Intent{ID: si.ID, ClientSecret: si.ClientSecret, Status: si.Status}, nil
}

// VerifyWebhook checks the Stripe-Signature header (t=...,v1=... scheme:
// HMAC-SHA256 over "<timestamp>.<payload>") and decodes the event.
func (g *StripeGateway) VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error) {
	timestamp, signatures := parseSignatureHeader(signatureHeader)
	if timestamp == "" || len(signatures) == 0 {
		return nil, ErrInvalidSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil || time.Since(time.Unix(ts, 0)) > webhookTolerance {
		return nil, ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	valid := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidSignature
	}

	var event struct {
		Type string `json:"type"`
		Data struct {
			Object stripeIntent `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("malformed webhook payload: %w", err)
	}

	return &WebhookEvent{
		Type:     event.Type,
		IntentID: event.Data.Object.ID,
		OrderID:  event.Data.Object.Metadata["orderId"],
	}, nil
}

// parseSignatureHeader splits "t=1234,v1=abc,v1=def" into its parts.
func parseSignatureHeader(header string) (timestamp string, signatures []string) {
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	return timestamp, signatures
}

func (g *StripeGateway) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(data, &apiErr)
		return fmt.Errorf("stripe: %s (status %d)", apiErr.Error.Message, resp.StatusCode)
	}

	return json.Unmarshal(data, out)
}
