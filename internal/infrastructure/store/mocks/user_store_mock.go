package mocks

import (
	"context"
	"sync"

	"github.com/example/storefront/internal/domain/user"
)

// MockUserStore is an in-memory implementation of user.Store for testing.
type MockUserStore struct {
	mu    sync.RWMutex
	users map[string]user.User

	CreateErr error
}

func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		users: make(map[string]user.User),
	}
}

func (m *MockUserStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (m *MockUserStore) GetByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.ClerkID == clerkID {
			copied := u
			return &copied, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (m *MockUserStore) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.users[u.ID] = *u
	return nil
}

func (m *MockUserStore) Update(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	m.users[u.ID] = *u
	return nil
}

func (m *MockUserStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *MockUserStore) ListCustomers(ctx context.Context) ([]user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []user.User{}
	for _, u := range m.users {
		if u.Role != user.RoleAdmin {
			result = append(result, u)
		}
	}
	return result, nil
}

func (m *MockUserStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

func (m *MockUserStore) CountCustomers(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, u := range m.users {
		if u.Role != user.RoleAdmin {
			count++
		}
	}
	return count, nil
}
