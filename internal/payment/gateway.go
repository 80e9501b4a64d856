package payment

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
)

// Intent is a payment intent created with the gateway. ClientSecret is
// handed to the browser SDK to collect the payment.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

// WebhookEvent is a verified gateway callback.
type WebhookEvent struct {
	Type     string
	IntentID string
	OrderID  string // from intent metadata
}

// Gateway is the capability surface of the hosted payment provider. The
// concrete provider stays behind this interface; nothing else in the
// codebase knows about its wire formats.
type Gateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
	VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error)
}

// Transaction statuses.
const (
	TxPending  = "pending"
	TxSuccess  = "success"
	TxFailed   = "failed"
	TxRefunded = "refunded"
)

// Transaction records one payment attempt against an order.
type Transaction struct {
	ID                   string    `json:"id"`
	OrderID              string    `json:"order_id"`
	UserID               string    `json:"user_id"`
	Amount               float64   `json:"amount"`
	Currency             string    `json:"currency"`
	PaymentMethod        string    `json:"payment_method"`
	Gateway              string    `json:"gateway"`
	GatewayTransactionID string    `json:"gateway_transaction_id"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TransactionStore persists payment attempts.
type TransactionStore interface {
	Create(ctx context.Context, t *Transaction) error
	UpdateStatusByGatewayID(ctx context.Context, gatewayTransactionID, status string) error
}
