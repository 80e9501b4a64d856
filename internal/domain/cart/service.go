package cart

import (
	"context"
	"errors"
	"time"

	"github.com/example/storefront/internal/domain/product"
	"github.com/google/uuid"
)

var ErrItemNotFound = errors.New("cart item not found")

const defaultSize = "M"

// Catalog is the product lookup the cart needs for stock checks and price
// snapshots.
type Catalog interface {
	Get(ctx context.Context, id string) (*product.Product, error)
}

// Service owns all cart mutations. Writes go through optimistic concurrency:
// a conflicting write is retried once against the fresh document before the
// conflict surfaces to the caller.
type Service struct {
	store   Store
	catalog Catalog
}

func NewService(store Store, catalog Catalog) *Service {
	return &Service{store: store, catalog: catalog}
}

// Get returns the user's cart, lazily creating an empty one on first access.
func (s *Service) Get(ctx context.Context, userID string) (*Cart, error) {
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &Cart{UserID: userID, Items: []LineItem{}, UpdatedAt: time.Now()}
		if err := s.store.Save(ctx, c); err != nil && !errors.Is(err, ErrConflict) {
			return nil, err
		}
	}
	return c, nil
}

// AddItem appends a new line item or merges into an existing (product, size)
// entry, snapshotting the product's current price.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int, size string) (*Cart, error) {
	if productID == "" {
		return nil, ErrInvalidProduct
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if size == "" {
		size = defaultSize
	}

	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Stock < quantity {
		return nil, &InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Requested:   quantity,
			Available:   p.Stock,
		}
	}

	return s.mutate(ctx, userID, func(c *Cart) error {
		for i := range c.Items {
			if c.Items[i].ProductID == productID && c.Items[i].Size == size {
				c.Items[i].Quantity += quantity
				return nil
			}
		}
		c.Items = append(c.Items, LineItem{
			ID:        uuid.New().String(),
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.FirstImage(),
			Size:      size,
			Quantity:  quantity,
			UnitPrice: p.Price,
		})
		return nil
	})
}

// UpdateItemQuantity sets a line item's quantity in place. Callers wanting a
// zero quantity should remove the item instead.
func (s *Service) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	return s.mutate(ctx, userID, func(c *Cart) error {
		for i := range c.Items {
			if c.Items[i].ID != itemID {
				continue
			}
			p, err := s.catalog.Get(ctx, c.Items[i].ProductID)
			if err != nil {
				return err
			}
			if p.Stock < quantity {
				return &InsufficientStockError{
					ProductID:   p.ID,
					ProductName: p.Name,
					Requested:   quantity,
					Available:   p.Stock,
				}
			}
			c.Items[i].Quantity = quantity
			return nil
		}
		return ErrItemNotFound
	})
}

// RemoveItem deletes a line item. Removing an item that is not in the cart
// is a no-op success.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) (*Cart, error) {
	return s.mutate(ctx, userID, func(c *Cart) error {
		for i := range c.Items {
			if c.Items[i].ID == itemID {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
				break
			}
		}
		return nil
	})
}

// Clear empties the cart and resets totals to zero.
func (s *Service) Clear(ctx context.Context, userID string) (*Cart, error) {
	return s.mutate(ctx, userID, func(c *Cart) error {
		c.Items = []LineItem{}
		return nil
	})
}

// mutate loads the cart, applies fn, recomputes totals and saves. On a
// version conflict the whole sequence runs once more against the fresh
// document.
func (s *Service) mutate(ctx context.Context, userID string, fn func(*Cart) error) (*Cart, error) {
	for attempt := 0; ; attempt++ {
		c, err := s.store.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			c = &Cart{UserID: userID, Items: []LineItem{}}
		}

		if err := fn(c); err != nil {
			return nil, err
		}

		c.recompute()
		c.UpdatedAt = time.Now()

		err = s.store.Save(ctx, c)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, ErrConflict) || attempt >= 1 {
			return nil, err
		}
	}
}
