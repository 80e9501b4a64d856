package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/storefront/internal/domain/order"
)

// PostgresOrderStore implements order.Store on PostgreSQL. Items, shipping
// address and status history live in JSONB columns; the row is the unit of
// atomicity, mirroring the original single-document writes.
type PostgresOrderStore struct {
	db *sql.DB
}

func NewPostgresOrderStore(db *sql.DB) *PostgresOrderStore {
	return &PostgresOrderStore{db: db}
}

const orderColumns = `id, order_number, user_id, items, total_amount, shipping_address,
	payment_method, payment_status, order_status, status_history,
	tracking_number, admin_notes, estimated_delivery, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*order.Order, error) {
	var o order.Order
	var items, address, history []byte
	var estimated sql.NullTime
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &items, &o.TotalAmount, &address,
		&o.PaymentMethod, &o.PaymentStatus, &o.OrderStatus, &history,
		&o.TrackingNumber, &o.AdminNotes, &estimated, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(history, &o.StatusHistory); err != nil {
		return nil, err
	}
	if estimated.Valid {
		o.EstimatedDelivery = &estimated.Time
	}
	return &o, nil
}

func orderJSON(o *order.Order) (items, address, history []byte, err error) {
	if items, err = json.Marshal(o.Items); err != nil {
		return
	}
	if address, err = json.Marshal(o.ShippingAddress); err != nil {
		return
	}
	history, err = json.Marshal(o.StatusHistory)
	return
}

func (s *PostgresOrderStore) Create(ctx context.Context, o *order.Order) error {
	items, address, history, err := orderJSON(o)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO orders (id, order_number, user_id, items, total_amount, shipping_address,
			payment_method, payment_status, order_status, status_history,
			tracking_number, admin_notes, estimated_delivery, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		o.ID, o.OrderNumber, o.UserID, items, o.TotalAmount, address,
		o.PaymentMethod, o.PaymentStatus, o.OrderStatus, history,
		o.TrackingNumber, o.AdminNotes, nullTime(o.EstimatedDelivery), o.CreatedAt, o.UpdatedAt)
	return err
}

func (s *PostgresOrderStore) GetByID(ctx context.Context, id string) (*order.Order, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM orders WHERE id = $1", orderColumns), id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, order.ErrOrderNotFound
	}
	return o, err
}

func (s *PostgresOrderStore) Update(ctx context.Context, o *order.Order) error {
	items, address, history, err := orderJSON(o)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE orders SET
			items = $2, total_amount = $3, shipping_address = $4,
			payment_method = $5, payment_status = $6, order_status = $7,
			status_history = $8, tracking_number = $9, admin_notes = $10,
			estimated_delivery = $11, updated_at = $12
		WHERE id = $1`,
		o.ID, items, o.TotalAmount, address,
		o.PaymentMethod, o.PaymentStatus, o.OrderStatus,
		history, o.TrackingNumber, o.AdminNotes,
		nullTime(o.EstimatedDelivery), o.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(result, order.ErrOrderNotFound)
}

func (s *PostgresOrderStore) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM orders WHERE user_id = $1 ORDER BY created_at DESC", orderColumns),
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (s *PostgresOrderStore) ListAll(ctx context.Context, opts order.ListOptions) ([]order.Order, int, error) {
	where := "WHERE 1=1"
	args := []any{}

	if opts.Status != "" && opts.Status != "all" {
		args = append(args, opts.Status)
		where += fmt.Sprintf(" AND order_status = $%d", len(args))
	}

	if start, ok := dateFilterStart(opts.DateFilter, time.Now()); ok {
		args = append(args, start)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}

	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (order_number ILIKE $%d
			OR user_id IN (SELECT id FROM users WHERE name ILIKE $%d OR email ILIKE $%d))`, n, n, n)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)
	query := fmt.Sprintf("SELECT %s FROM orders %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		orderColumns, where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// dateFilterStart resolves the admin listing date filters.
func dateFilterStart(filter string, now time.Time) (time.Time, bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch filter {
	case "today":
		return midnight, true
	case "yesterday":
		return midnight.AddDate(0, 0, -1), true
	case "week":
		return now.AddDate(0, 0, -7), true
	}
	return time.Time{}, false
}

func (s *PostgresOrderStore) ListSince(ctx context.Context, since time.Time) ([]order.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM orders WHERE created_at >= $1 ORDER BY created_at DESC", orderColumns),
		since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (s *PostgresOrderStore) ListRecent(ctx context.Context, limit int) ([]order.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM orders ORDER BY created_at DESC LIMIT $1", orderColumns),
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (s *PostgresOrderStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&count)
	return count, err
}

func (s *PostgresOrderStore) CountByStatus(ctx context.Context) (map[order.Status]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT order_status, COUNT(*) FROM orders GROUP BY order_status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[order.Status]int{}
	for rows.Next() {
		var status order.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (s *PostgresOrderStore) TotalRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(total_amount), 0) FROM orders").Scan(&revenue)
	return revenue, err
}

func collectOrders(rows *sql.Rows) ([]order.Order, error) {
	orders := []order.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
