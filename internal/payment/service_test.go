package payment_test

import (
	"context"
	"testing"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/infrastructure/store/mocks"
	"github.com/example/storefront/internal/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway returns scripted intents without touching the network.
type fakeGateway struct {
	createdAmount int64
	intentStatus  string
	webhookEvent  *payment.WebhookEvent
	webhookErr    error
}

func (f *fakeGateway) CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*payment.Intent, error) {
	f.createdAmount = amountMinor
	return &payment.Intent{ID: "pi_test", ClientSecret: "pi_test_secret", Status: "requires_payment_method"}, nil
}

func (f *fakeGateway) RetrieveIntent(ctx context.Context, id string) (*payment.Intent, error) {
	return &payment.Intent{ID: id, Status: f.intentStatus}, nil
}

func (f *fakeGateway) VerifyWebhook(payload []byte, signatureHeader string) (*payment.WebhookEvent, error) {
	if f.webhookErr != nil {
		return nil, f.webhookErr
	}
	return f.webhookEvent, nil
}

// fakeOrderAccess records payment state changes against one in-memory order.
type fakeOrderAccess struct {
	order          *order.Order
	completedCalls int
	failedCalls    int
}

func (f *fakeOrderAccess) GetByID(ctx context.Context, id string) (*order.Order, error) {
	if f.order == nil || f.order.ID != id {
		return nil, order.ErrOrderNotFound
	}
	return f.order, nil
}

func (f *fakeOrderAccess) MarkPaymentCompleted(ctx context.Context, id string) error {
	f.completedCalls++
	return nil
}

func (f *fakeOrderAccess) MarkPaymentFailed(ctx context.Context, id string) error {
	f.failedCalls++
	return nil
}

func newPaymentFixture() (*payment.Service, *fakeGateway, *fakeOrderAccess, *mocks.MockTransactionStore) {
	gateway := &fakeGateway{intentStatus: "succeeded"}
	orders := &fakeOrderAccess{order: &order.Order{ID: "order-1", UserID: "user-1", TotalAmount: 2598}}
	transactions := mocks.NewMockTransactionStore()
	svc := payment.NewService(gateway, orders, transactions, "usd")
	return svc, gateway, orders, transactions
}

func TestCreatePayment_RecordsPendingTransaction(t *testing.T) {
	svc, gateway, _, transactions := newPaymentFixture()

	result, err := svc.CreatePayment(context.Background(), "order-1", "user-1")

	require.NoError(t, err)
	assert.Equal(t, "pi_test_secret", result.ClientSecret)
	assert.Equal(t, int64(259800), gateway.createdAmount)

	tx, ok := transactions.ByGatewayID("pi_test")
	require.True(t, ok)
	assert.Equal(t, "order-1", tx.OrderID)
	assert.Equal(t, "user-1", tx.UserID)
	assert.Equal(t, 2598.0, tx.Amount)
	assert.Equal(t, payment.TxPending, tx.Status)
}

func TestCreatePayment_OnlyOwnerMayPay(t *testing.T) {
	svc, _, _, _ := newPaymentFixture()

	_, err := svc.CreatePayment(context.Background(), "order-1", "user-2")

	assert.ErrorIs(t, err, order.ErrAccessDenied)
}

func TestCreatePayment_UnknownOrder(t *testing.T) {
	svc, _, _, _ := newPaymentFixture()

	_, err := svc.CreatePayment(context.Background(), "order-404", "user-1")

	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestConfirmPayment_ChecksIntentWithGateway(t *testing.T) {
	svc, _, orders, transactions := newPaymentFixture()
	_, err := svc.CreatePayment(context.Background(), "order-1", "user-1")
	require.NoError(t, err)

	err = svc.ConfirmPayment(context.Background(), "pi_test", "order-1")

	require.NoError(t, err)
	assert.Equal(t, 1, orders.completedCalls)
	tx, _ := transactions.ByGatewayID("pi_test")
	assert.Equal(t, payment.TxSuccess, tx.Status)
}

func TestConfirmPayment_RejectsUnsettledIntent(t *testing.T) {
	svc, gateway, orders, _ := newPaymentFixture()
	gateway.intentStatus = "requires_payment_method"

	err := svc.ConfirmPayment(context.Background(), "pi_test", "order-1")

	assert.ErrorIs(t, err, payment.ErrPaymentNotCompleted)
	assert.Zero(t, orders.completedCalls)
}

func TestHandleWebhook_Succeeded(t *testing.T) {
	svc, gateway, orders, transactions := newPaymentFixture()
	_, err := svc.CreatePayment(context.Background(), "order-1", "user-1")
	require.NoError(t, err)
	gateway.webhookEvent = &payment.WebhookEvent{
		Type:     "payment_intent.succeeded",
		IntentID: "pi_test",
		OrderID:  "order-1",
	}

	err = svc.HandleWebhook(context.Background(), []byte(`{}`), "sig")

	require.NoError(t, err)
	assert.Equal(t, 1, orders.completedCalls)
	tx, _ := transactions.ByGatewayID("pi_test")
	assert.Equal(t, payment.TxSuccess, tx.Status)
}

func TestHandleWebhook_Failed(t *testing.T) {
	svc, gateway, orders, transactions := newPaymentFixture()
	_, err := svc.CreatePayment(context.Background(), "order-1", "user-1")
	require.NoError(t, err)
	gateway.webhookEvent = &payment.WebhookEvent{
		Type:     "payment_intent.payment_failed",
		IntentID: "pi_test",
		OrderID:  "order-1",
	}

	err = svc.HandleWebhook(context.Background(), []byte(`{}`), "sig")

	require.NoError(t, err)
	assert.Equal(t, 1, orders.failedCalls)
	tx, _ := transactions.ByGatewayID("pi_test")
	assert.Equal(t, payment.TxFailed, tx.Status)
}

func TestHandleWebhook_InvalidSignature(t *testing.T) {
	svc, gateway, orders, _ := newPaymentFixture()
	gateway.webhookErr = payment.ErrInvalidSignature

	err := svc.HandleWebhook(context.Background(), []byte(`{}`), "bad")

	assert.ErrorIs(t, err, payment.ErrInvalidSignature)
	assert.Zero(t, orders.completedCalls)
}

func TestHandleWebhook_IgnoresUnknownEventTypes(t *testing.T) {
	svc, gateway, orders, _ := newPaymentFixture()
	gateway.webhookEvent = &payment.WebhookEvent{Type: "charge.refunded", IntentID: "pi_test"}

	err := svc.HandleWebhook(context.Background(), []byte(`{}`), "sig")

	require.NoError(t, err)
	assert.Zero(t, orders.completedCalls)
	assert.Zero(t, orders.failedCalls)
}
