package mocks

import (
	"context"
	"sync"

	"github.com/example/storefront/internal/payment"
)

// MockTransactionStore is an in-memory implementation of
// payment.TransactionStore for testing.
type MockTransactionStore struct {
	mu           sync.RWMutex
	Transactions []payment.Transaction

	CreateErr error
}

func NewMockTransactionStore() *MockTransactionStore {
	return &MockTransactionStore{}
}

func (m *MockTransactionStore) Create(ctx context.Context, t *payment.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Transactions = append(m.Transactions, *t)
	return nil
}

func (m *MockTransactionStore) UpdateStatusByGatewayID(ctx context.Context, gatewayTransactionID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Transactions {
		if m.Transactions[i].GatewayTransactionID == gatewayTransactionID {
			m.Transactions[i].Status = status
		}
	}
	return nil
}

// ByGatewayID returns the recorded transaction for a gateway id, if any.
func (m *MockTransactionStore) ByGatewayID(gatewayTransactionID string) (payment.Transaction, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, t := range m.Transactions {
		if t.GatewayTransactionID == gatewayTransactionID {
			return t, true
		}
	}
	return payment.Transaction{}, false
}
