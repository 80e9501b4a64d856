package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/storefront/internal/payment"
)

// PostgresTransactionStore implements payment.TransactionStore on PostgreSQL.
type PostgresTransactionStore struct {
	db *sql.DB
}

func NewPostgresTransactionStore(db *sql.DB) *PostgresTransactionStore {
	return &PostgresTransactionStore{db: db}
}

func (s *PostgresTransactionStore) Create(ctx context.Context, tx *payment.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, order_id, user_id, amount, currency,
			payment_method, gateway, gateway_transaction_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		tx.ID, tx.OrderID, tx.UserID, tx.Amount, tx.Currency,
		tx.PaymentMethod, tx.Gateway, tx.GatewayTransactionID, tx.Status, tx.CreatedAt, tx.UpdatedAt)
	return err
}

func (s *PostgresTransactionStore) UpdateStatusByGatewayID(ctx context.Context, gatewayID, status string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET status = $2, updated_at = $3
		WHERE gateway_transaction_id = $1`,
		gatewayID, status, time.Now())
	return err
}
