package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/example/storefront/internal/domain/product"
)

// MockProductStore is an in-memory implementation of product.Store for testing.
type MockProductStore struct {
	mu       sync.RWMutex
	products map[string]product.Product

	DecrementCalls []DecrementCall
	DecrementErr   error
	GetErr         error
}

// DecrementCall records parameters passed to DecrementStock.
type DecrementCall struct {
	ProductID string
	Qty       int
}

func NewMockProductStore() *MockProductStore {
	return &MockProductStore{
		products: make(map[string]product.Product),
	}
}

func (m *MockProductStore) List(ctx context.Context, opts product.ListOptions) ([]product.Product, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filtered := []product.Product{}
	for _, p := range m.products {
		if opts.Category != "" && opts.Category != "all" && p.Category != opts.Category {
			continue
		}
		if opts.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(opts.Search)) {
			continue
		}
		filtered = append(filtered, p)
	}

	switch opts.Sort {
	case product.SortPriceLow:
		sort.Slice(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case product.SortPriceHigh:
		sort.Slice(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	default:
		sort.Slice(filtered, func(i, j int) bool { return filtered[i].CreatedAt.After(filtered[j].CreatedAt) })
	}

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

func (m *MockProductStore) GetByID(ctx context.Context, id string) (*product.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}
	p, ok := m.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return &p, nil
}

func (m *MockProductStore) ListByCategory(ctx context.Context, category string) ([]product.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []product.Product{}
	for _, p := range m.products {
		if p.Category == category {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *MockProductStore) ListFeatured(ctx context.Context, limit int) ([]product.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []product.Product{}
	for _, p := range m.products {
		if p.Featured && len(result) < limit {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *MockProductStore) Create(ctx context.Context, p *product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m *MockProductStore) Update(ctx context.Context, p *product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[p.ID]; !ok {
		return product.ErrProductNotFound
	}
	m.products[p.ID] = *p
	return nil
}

func (m *MockProductStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return product.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *MockProductStore) DecrementStock(ctx context.Context, id string, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DecrementCalls = append(m.DecrementCalls, DecrementCall{ProductID: id, Qty: qty})
	if m.DecrementErr != nil {
		return m.DecrementErr
	}
	p, ok := m.products[id]
	if !ok || p.Stock < qty {
		return product.ErrProductNotFound
	}
	p.Stock -= qty
	m.products[id] = p
	return nil
}

func (m *MockProductStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.products), nil
}
