package payment

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/example/storefront/internal/domain/order"
	"github.com/google/uuid"
)

// OrderAccess is the slice of the order service the payment flow needs.
type OrderAccess interface {
	GetByID(ctx context.Context, id string) (*order.Order, error)
	MarkPaymentCompleted(ctx context.Context, id string) error
	MarkPaymentFailed(ctx context.Context, id string) error
}

// Service drives the payment flow: intent creation, client-side
// confirmation and the gateway webhook all converge on the order's payment
// state.
type Service struct {
	gateway      Gateway
	orders       OrderAccess
	transactions TransactionStore
	currency     string
}

func NewService(gateway Gateway, orders OrderAccess, transactions TransactionStore, currency string) *Service {
	if currency == "" {
		currency = "usd"
	}
	return &Service{
		gateway:      gateway,
		orders:       orders,
		transactions: transactions,
		currency:     currency,
	}
}

// IntentResult is returned to the client to drive the browser payment SDK.
type IntentResult struct {
	ClientSecret  string `json:"clientSecret"`
	TransactionID string `json:"transactionId"`
}

// CreatePayment opens a payment intent for the order and records a pending
// transaction. Only the order's owner may pay for it.
func (s *Service) CreatePayment(ctx context.Context, orderID, userID string) (*IntentResult, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, order.ErrAccessDenied
	}

	amountMinor := int64(math.Round(o.TotalAmount * 100))
	intent, err := s.gateway.CreateIntent(ctx, amountMinor, s.currency, map[string]string{
		"orderId": o.ID,
		"userId":  userID,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tx := &Transaction{
		ID:                   uuid.New().String(),
		OrderID:              o.ID,
		UserID:               userID,
		Amount:               o.TotalAmount,
		Currency:             s.currency,
		PaymentMethod:        "card",
		Gateway:              "stripe",
		GatewayTransactionID: intent.ID,
		Status:               TxPending,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}

	return &IntentResult{ClientSecret: intent.ClientSecret, TransactionID: tx.ID}, nil
}

// ConfirmPayment is called by the client after the browser SDK reports
// success. The intent status is re-checked with the gateway before the order
// is marked paid.
func (s *Service) ConfirmPayment(ctx context.Context, paymentIntentID, orderID string) error {
	intent, err := s.gateway.RetrieveIntent(ctx, paymentIntentID)
	if err != nil {
		return err
	}
	if intent.Status != "succeeded" {
		return ErrPaymentNotCompleted
	}

	if err := s.orders.MarkPaymentCompleted(ctx, orderID); err != nil {
		return err
	}
	if err := s.transactions.UpdateStatusByGatewayID(ctx, paymentIntentID, TxSuccess); err != nil {
		log.Printf("[Payment] Failed to update transaction %s: %v", paymentIntentID, err)
	}
	return nil
}

// HandleWebhook verifies and applies a gateway callback. Completion is
// idempotent with ConfirmPayment, so receiving both is harmless.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := s.gateway.VerifyWebhook(payload, signatureHeader)
	if err != nil {
		return err
	}

	switch event.Type {
	case "payment_intent.succeeded":
		if event.OrderID == "" {
			log.Printf("[Payment] Webhook intent %s carries no order id", event.IntentID)
			return nil
		}
		if err := s.orders.MarkPaymentCompleted(ctx, event.OrderID); err != nil {
			return err
		}
		if err := s.transactions.UpdateStatusByGatewayID(ctx, event.IntentID, TxSuccess); err != nil {
			log.Printf("[Payment] Failed to update transaction %s: %v", event.IntentID, err)
		}
	case "payment_intent.payment_failed":
		if event.OrderID != "" {
			if err := s.orders.MarkPaymentFailed(ctx, event.OrderID); err != nil {
				log.Printf("[Payment] Failed to mark order %s failed: %v", event.OrderID, err)
			}
		}
		if err := s.transactions.UpdateStatusByGatewayID(ctx, event.IntentID, TxFailed); err != nil {
			log.Printf("[Payment] Failed to update transaction %s: %v", event.IntentID, err)
		}
	}

	return nil
}
