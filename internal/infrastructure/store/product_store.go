package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/storefront/internal/domain/product"
)

// PostgresProductStore implements product.Store on PostgreSQL.
type PostgresProductStore struct {
	db *sql.DB
}

func NewPostgresProductStore(db *sql.DB) *PostgresProductStore {
	return &PostgresProductStore{db: db}
}

const productColumns = `id, name, description, price, original_price, category, images, stock, featured, tags, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*product.Product, error) {
	var p product.Product
	var images, tags []byte
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice,
		&p.Category, &images, &p.Stock, &p.Featured, &tags, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresProductStore) List(ctx context.Context, opts product.ListOptions) ([]product.Product, int, error) {
	where := "WHERE 1=1"
	args := []any{}

	if opts.Category != "" && opts.Category != "all" {
		args = append(args, opts.Category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}

	orderBy := "created_at DESC"
	switch opts.Sort {
	case product.SortPriceLow:
		orderBy = "price ASC"
	case product.SortPriceHigh:
		orderBy = "price DESC"
	case product.SortNewest:
		orderBy = "created_at DESC"
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)
	query := fmt.Sprintf("SELECT %s FROM products %s ORDER BY %s LIMIT $%d OFFSET $%d",
		productColumns, where, orderBy, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *PostgresProductStore) GetByID(ctx context.Context, id string) (*product.Product, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns), id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, product.ErrProductNotFound
	}
	return p, err
}

func (s *PostgresProductStore) ListByCategory(ctx context.Context, category string) ([]product.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM products WHERE category = $1 ORDER BY created_at DESC", productColumns),
		category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (s *PostgresProductStore) ListFeatured(ctx context.Context, limit int) ([]product.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM products WHERE featured ORDER BY created_at DESC LIMIT $1", productColumns),
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (s *PostgresProductStore) Create(ctx context.Context, p *product.Product) error {
	images, err := json.Marshal(emptyIfNil(p.Images))
	if err != nil {
		return err
	}
	tags, err := json.Marshal(emptyIfNil(p.Tags))
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price, original_price, category, images, stock, featured, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.Category,
		images, p.Stock, p.Featured, tags, p.CreatedAt, p.UpdatedAt)
	return err
}

func (s *PostgresProductStore) Update(ctx context.Context, p *product.Product) error {
	images, err := json.Marshal(emptyIfNil(p.Images))
	if err != nil {
		return err
	}
	tags, err := json.Marshal(emptyIfNil(p.Tags))
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE products SET
			name = $2, description = $3, price = $4, original_price = $5,
			category = $6, images = $7, stock = $8, featured = $9, tags = $10,
			updated_at = $11
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.Category,
		images, p.Stock, p.Featured, tags, p.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(result, product.ErrProductNotFound)
}

func (s *PostgresProductStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(result, product.ErrProductNotFound)
}

// DecrementStock subtracts qty atomically; the WHERE clause refuses to take
// stock below zero.
func (s *PostgresProductStore) DecrementStock(ctx context.Context, id string, qty int) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE products SET stock = stock - $2, updated_at = NOW() WHERE id = $1 AND stock >= $2",
		id, qty)
	if err != nil {
		return err
	}
	return requireRow(result, product.ErrProductNotFound)
}

func (s *PostgresProductStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count)
	return count, err
}

func collectProducts(rows *sql.Rows) ([]product.Product, error) {
	products := []product.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// requireRow maps a zero-row update to notFound.
func requireRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
