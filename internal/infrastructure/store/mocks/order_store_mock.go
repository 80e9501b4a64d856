package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/storefront/internal/domain/order"
)

// MockOrderStore is an in-memory implementation of order.Store for testing.
type MockOrderStore struct {
	mu     sync.RWMutex
	orders map[string]order.Order

	CreateCalls int
	CreateErr   error
	UpdateErr   error
}

func NewMockOrderStore() *MockOrderStore {
	return &MockOrderStore{
		orders: make(map[string]order.Order),
	}
}

func (m *MockOrderStore) Create(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.orders[o.ID] = *o
	return nil
}

func (m *MockOrderStore) GetByID(ctx context.Context, id string) (*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return &o, nil
}

func (m *MockOrderStore) Update(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if _, ok := m.orders[o.ID]; !ok {
		return order.ErrOrderNotFound
	}
	m.orders[o.ID] = *o
	return nil
}

func (m *MockOrderStore) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []order.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	sortByCreatedDesc(result)
	return result, nil
}

func (m *MockOrderStore) ListAll(ctx context.Context, opts order.ListOptions) ([]order.Order, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filtered := []order.Order{}
	for _, o := range m.orders {
		if opts.Status != "" && opts.Status != "all" && o.OrderStatus != opts.Status {
			continue
		}
		filtered = append(filtered, o)
	}
	sortByCreatedDesc(filtered)

	total := len(filtered)
	start := (opts.Page - 1) * opts.Limit
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

func (m *MockOrderStore) ListSince(ctx context.Context, since time.Time) ([]order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []order.Order{}
	for _, o := range m.orders {
		if !o.CreatedAt.Before(since) {
			result = append(result, o)
		}
	}
	sortByCreatedDesc(result)
	return result, nil
}

func (m *MockOrderStore) ListRecent(ctx context.Context, limit int) ([]order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []order.Order{}
	for _, o := range m.orders {
		result = append(result, o)
	}
	sortByCreatedDesc(result)
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockOrderStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders), nil
}

func (m *MockOrderStore) CountByStatus(ctx context.Context) (map[order.Status]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := map[order.Status]int{}
	for _, o := range m.orders {
		counts[o.OrderStatus]++
	}
	return counts, nil
}

func (m *MockOrderStore) TotalRevenue(ctx context.Context) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total float64
	for _, o := range m.orders {
		total += o.TotalAmount
	}
	return total, nil
}

func sortByCreatedDesc(orders []order.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
