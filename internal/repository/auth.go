// Package repository provides persistence implementations for the vault
// and content services using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresAuthRepository implements challenge and identity persistence
// using a PostgreSQL database.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the
// given database connection.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// CreateChallengeIfAbsent stores a freshly issued challenge for the
// address, unless one already exists. It returns the canonical challenge
// on record, which makes challenge issuance idempotent per address.
func (s *PostgresAuthRepository) CreateChallengeIfAbsent(ctx context.Context, address, challenge string, issuedAt int64) (string, error) {
	var stored string
	err := s.DB.QueryRowContext(
		ctx,
		`INSERT INTO users (address, challenge, challenge_issued_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (address) DO UPDATE SET challenge = users.challenge
		 RETURNING challenge`,
		address, challenge, issuedAt,
	).Scan(&stored)
	if err != nil {
		return "", fmt.Errorf("create challenge: %w", err)
	}
	return stored, nil
}

// GetChallenge returns the challenge on record for the address.
// sql.ErrNoRows is returned untouched when the address is unknown.
func (s *PostgresAuthRepository) GetChallenge(ctx context.Context, address string) (string, error) {
	var challenge string
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT challenge FROM users WHERE address = $1`,
		address,
	).Scan(&challenge)
	return challenge, err
}

// BindPublicKey binds the wallet verification key to the address on first
// successful login. A later attempt to bind a different key is rejected.
func (s *PostgresAuthRepository) BindPublicKey(ctx context.Context, address, publicKey string) error {
	res, err := s.DB.ExecContext(
		ctx,
		`UPDATE users SET public_key = $2
		  WHERE address = $1 AND (public_key IS NULL OR public_key = $2)`,
		address, publicKey,
	)
	if err != nil {
		return fmt.Errorf("bind public key: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("bind public key: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("address %s already bound to a different key", address)
	}
	return nil
}

// GetPublicKey returns the verification key bound to the address, or
// empty when the user never completed a login.
func (s *PostgresAuthRepository) GetPublicKey(ctx context.Context, address string) (string, error) {
	var key sql.NullString
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT public_key FROM users WHERE address = $1`,
		address,
	).Scan(&key)
	if err != nil {
		return "", err
	}
	return key.String, nil
}
