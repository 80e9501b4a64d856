package mocks

import (
	"context"
	"sync"

	"github.com/example/storefront/internal/domain/cart"
)

// MockCartStore is an in-memory implementation of cart.Store for testing.
// It enforces the same version check as the DynamoDB store, so conflict
// handling can be exercised without a real table.
type MockCartStore struct {
	mu    sync.RWMutex
	carts map[string]cart.Cart

	SaveCalls   int
	DeleteCalls []string
	GetErr      error
	SaveErr     error
	NextSaveErr error // consumed by the next Save call only
	DeleteErr   error
}

func NewMockCartStore() *MockCartStore {
	return &MockCartStore{
		carts: make(map[string]cart.Cart),
	}
}

func (m *MockCartStore) Get(ctx context.Context, userID string) (*cart.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}
	c, ok := m.carts[userID]
	if !ok {
		return nil, nil
	}
	copied := c
	copied.Items = append([]cart.LineItem(nil), c.Items...)
	return &copied, nil
}

func (m *MockCartStore) Save(ctx context.Context, c *cart.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls++
	if m.NextSaveErr != nil {
		err := m.NextSaveErr
		m.NextSaveErr = nil
		return err
	}
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if stored, ok := m.carts[c.UserID]; ok && stored.Version != c.Version {
		return cart.ErrConflict
	}

	c.Version++
	copied := *c
	copied.Items = append([]cart.LineItem(nil), c.Items...)
	m.carts[c.UserID] = copied
	return nil
}

func (m *MockCartStore) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, userID)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.carts, userID)
	return nil
}

// Seed installs a cart directly, bypassing the version check.
func (m *MockCartStore) Seed(c cart.Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[c.UserID] = c
}
