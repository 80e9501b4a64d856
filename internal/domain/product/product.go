package product

import (
	"context"
	"errors"
	"time"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("price must be greater than 0")
	ErrInvalidStock    = errors.New("stock cannot be negative")
	ErrMissingFields   = errors.New("name, description, price, category and stock are required")
)

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"original_price,omitempty"`
	Category      string    `json:"category"`
	Images        []string  `json:"images"`
	Stock         int       `json:"stock"`
	Featured      bool      `json:"featured"`
	Tags          []string  `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FirstImage returns the primary product image, or "" when none is set.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Sort options accepted by List.
const (
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortNewest    = "newest"
)

// ListOptions filters and paginates catalog listings.
type ListOptions struct {
	Category string
	Search   string
	Sort     string
	Page     int
	Limit    int
}

// Store is the persistence surface for the product catalog.
type Store interface {
	List(ctx context.Context, opts ListOptions) ([]Product, int, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	ListFeatured(ctx context.Context, limit int) ([]Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	// DecrementStock atomically subtracts qty from the product's stock,
	// failing if the product is missing or the stock would go negative.
	DecrementStock(ctx context.Context, id string, qty int) error
	Count(ctx context.Context) (int, error)
}
