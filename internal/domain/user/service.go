package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrMissingClerkID = errors.New("clerkId is required")

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Sync finds or creates the local user for a provider-confirmed identity.
// Creation here is the backup path for webhook delivery delay.
func (s *Service) Sync(ctx context.Context, clerkID, email, name string) (*User, error) {
	if clerkID == "" {
		return nil, ErrMissingClerkID
	}

	u, err := s.store.GetByClerkID(ctx, clerkID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	now := time.Now()
	u = &User{
		ID:        uuid.New().String(),
		ClerkID:   clerkID,
		Email:     strings.ToLower(email),
		Name:      name,
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.store.GetByID(ctx, id)
}

// Promote grants the admin role.
func (s *Service) Promote(ctx context.Context, id string) (*User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = RoleAdmin
	u.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
