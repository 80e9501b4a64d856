package store

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// ConnectPostgres establishes a connection to PostgreSQL.
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// InitSchema creates the tables this service needs if they do not exist.
func InitSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL,
			original_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			category TEXT NOT NULL DEFAULT '',
			images JSONB NOT NULL DEFAULT '[]',
			stock INTEGER NOT NULL DEFAULT 0,
			featured BOOLEAN NOT NULL DEFAULT FALSE,
			tags JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			clerk_id TEXT UNIQUE NOT NULL,
			email TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'user',
			phone TEXT NOT NULL DEFAULT '',
			address JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			order_number TEXT UNIQUE NOT NULL,
			user_id TEXT NOT NULL,
			items JSONB NOT NULL,
			total_amount DOUBLE PRECISION NOT NULL,
			shipping_address JSONB NOT NULL,
			payment_method TEXT NOT NULL DEFAULT '',
			payment_status TEXT NOT NULL,
			order_status TEXT NOT NULL,
			status_history JSONB NOT NULL DEFAULT '[]',
			tracking_number TEXT NOT NULL DEFAULT '',
			admin_notes TEXT NOT NULL DEFAULT '',
			estimated_delivery TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders (created_at)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			currency TEXT NOT NULL DEFAULT 'usd',
			payment_method TEXT NOT NULL,
			gateway TEXT NOT NULL,
			gateway_transaction_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_gateway_id ON transactions (gateway_transaction_id)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
