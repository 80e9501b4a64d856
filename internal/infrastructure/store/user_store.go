package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/storefront/internal/domain/user"
)

// PostgresUserStore implements user.Store on PostgreSQL.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

const userColumns = `id, clerk_id, email, name, role, phone, address, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*user.User, error) {
	var u user.User
	var address []byte
	err := row.Scan(&u.ID, &u.ClerkID, &u.Email, &u.Name, &u.Role, &u.Phone,
		&address, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(address, &u.Address); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns), id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	return u, err
}

func (s *PostgresUserStore) GetByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM users WHERE clerk_id = $1", userColumns), clerkID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	return u, err
}

func (s *PostgresUserStore) Create(ctx context.Context, u *user.User) error {
	address, err := json.Marshal(u.Address)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, clerk_id, email, name, role, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (clerk_id) DO NOTHING`,
		u.ID, u.ClerkID, u.Email, u.Name, u.Role, u.Phone, address, u.CreatedAt, u.UpdatedAt)
	return err
}

func (s *PostgresUserStore) Update(ctx context.Context, u *user.User) error {
	address, err := json.Marshal(u.Address)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET email = $2, name = $3, role = $4, phone = $5, address = $6, updated_at = $7
		WHERE id = $1`,
		u.ID, u.Email, u.Name, u.Role, u.Phone, address, u.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(result, user.ErrUserNotFound)
}

func (s *PostgresUserStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(result, user.ErrUserNotFound)
}

func (s *PostgresUserStore) ListCustomers(ctx context.Context) ([]user.User, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM users WHERE role <> 'admin' ORDER BY created_at DESC", userColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *PostgresUserStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func (s *PostgresUserStore) CountCustomers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE role <> 'admin'").Scan(&count)
	return count, err
}
