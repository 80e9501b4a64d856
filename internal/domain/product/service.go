package product

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/example/storefront/internal/infrastructure/cache"
	"github.com/google/uuid"
)

const productCacheTTL = 5 * time.Minute

// Service serves catalog reads (with a read-through cache) and admin writes.
type Service struct {
	store Store
	cache cache.Cache // nil disables caching
}

func NewService(store Store, c cache.Cache) *Service {
	return &Service{store: store, cache: c}
}

// ListResult is a paginated catalog page.
type ListResult struct {
	Products    []Product `json:"products"`
	Total       int       `json:"total"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
}

func (s *Service) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 100
	}

	products, total, err := s.store.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	return &ListResult{
		Products:    products,
		Total:       total,
		CurrentPage: opts.Page,
		TotalPages:  totalPages,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	if s.cache != nil {
		key := s.cache.GenerateKey("product", id)
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
			var p Product
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				return &p, nil
			}
		}
	}

	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheProduct(ctx, p)
	return p, nil
}

func (s *Service) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	return s.store.ListByCategory(ctx, category)
}

func (s *Service) ListFeatured(ctx context.Context, limit int) ([]Product, error) {
	if limit < 1 {
		limit = 8
	}
	return s.store.ListFeatured(ctx, limit)
}

func (s *Service) Create(ctx context.Context, p *Product) (*Product, error) {
	if p.Name == "" || p.Description == "" || p.Category == "" {
		return nil, ErrMissingFields
	}
	if p.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if p.Stock < 0 {
		return nil, ErrInvalidStock
	}

	p.ID = uuid.New().String()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, p *Product) (*Product, error) {
	existing, err := s.store.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if p.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if p.Stock < 0 {
		return nil, ErrInvalidStock
	}

	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx, p.ID)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// DecrementStock subtracts sold quantity after a confirmed payment.
func (s *Service) DecrementStock(ctx context.Context, id string, qty int) error {
	if err := s.store.DecrementStock(ctx, id, qty); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) cacheProduct(ctx context.Context, p *Product) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	key := s.cache.GenerateKey("product", p.ID)
	if err := s.cache.Set(ctx, key, string(data), productCacheTTL); err != nil {
		log.Printf("[Product] Failed to cache product %s: %v", p.ID, err)
	}
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	key := s.cache.GenerateKey("product", id)
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Printf("[Product] Failed to invalidate cache for %s: %v", id, err)
	}
}
