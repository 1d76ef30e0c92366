package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresVaultRepository implements the per-user key-value vault against
// a PostgreSQL database. Values are opaque to the server; key material
// arrives already hex-encoded by the client.
type PostgresVaultRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresVaultRepository creates a new PostgresVaultRepository using
// the provided *sql.DB.
func NewPostgresVaultRepository(db *sql.DB) *PostgresVaultRepository {
	return &PostgresVaultRepository{DB: db}
}

// Get returns the value stored under (address, key).
// sql.ErrNoRows is returned untouched when the key is absent.
func (s *PostgresVaultRepository) Get(ctx context.Context, address, key string) (string, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, `
		SELECT value FROM vault WHERE address = $1 AND key = $2
	`, address, key).Scan(&value)
	return value, err
}

// Put stores value under (address, key), overwriting any previous value.
func (s *PostgresVaultRepository) Put(ctx context.Context, address, key, value string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO vault (address, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (address, key) DO UPDATE SET value = EXCLUDED.value
	`, address, key, value)
	if err != nil {
		return fmt.Errorf("vault put: %w", err)
	}
	return nil
}

// PutIfAbsent stores value under (address, key) only when the key does
// not exist yet. It reports whether the write won; a false result means
// an existing value was left untouched.
func (s *PostgresVaultRepository) PutIfAbsent(ctx context.Context, address, key, value string) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO vault (address, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (address, key) DO NOTHING
	`, address, key, value)
	if err != nil {
		return false, fmt.Errorf("vault conditional put: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("vault conditional put: %w", err)
	}
	return rows == 1, nil
}
