package cart

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidProduct  = errors.New("product_id is required")
	ErrConflict        = errors.New("cart was modified concurrently")
)

// InsufficientStockError reports a request for more units than are available,
// naming the offending product.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// LineItem is one product/size/quantity entry in a cart. UnitPrice is a
// snapshot of the product price at add-time and is never re-fetched.
type LineItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Size      string  `json:"size,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Cart is the per-user server-backed cart. TotalItems and TotalAmount are
// derived from Items on every mutation; they are never set independently.
type Cart struct {
	UserID      string     `json:"user_id"`
	Items       []LineItem `json:"items"`
	TotalItems  int        `json:"total_items"`
	TotalAmount float64    `json:"total_amount"`
	Version     int        `json:"version"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// recompute refreshes the derived totals from the current items.
func (c *Cart) recompute() {
	c.TotalItems = 0
	c.TotalAmount = 0
	for _, item := range c.Items {
		c.TotalItems += item.Quantity
		c.TotalAmount += item.UnitPrice * float64(item.Quantity)
	}
}

// Store persists carts as single documents keyed by user id. Save must fail
// with ErrConflict when the stored version no longer matches c.Version.
type Store interface {
	// Get returns (nil, nil) when the user has no cart yet.
	Get(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, userID string) error
}
