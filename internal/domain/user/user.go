package user

import (
	"context"
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Country string `json:"country,omitempty"`
}

// User is a storefront account. Identity lives with the hosted provider;
// ClerkID links the local record to it.
type User struct {
	ID        string    `json:"id"`
	ClerkID   string    `json:"clerk_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	Address   Address   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Store is the persistence surface for users.
type Store interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByClerkID(ctx context.Context, clerkID string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	// ListCustomers returns all non-admin users.
	ListCustomers(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int, error)
	CountCustomers(ctx context.Context) (int, error)
}
