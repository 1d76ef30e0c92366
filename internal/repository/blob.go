package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresBlobRepository implements content-addressed blob persistence
// against a PostgreSQL database.
type PostgresBlobRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresBlobRepository creates a new PostgresBlobRepository using
// the provided *sql.DB.
func NewPostgresBlobRepository(db *sql.DB) *PostgresBlobRepository {
	return &PostgresBlobRepository{DB: db}
}

// Put stores data under its content identifier. Re-uploading the same
// content is a no-op: equal cid implies equal bytes.
func (s *PostgresBlobRepository) Put(ctx context.Context, cid string, data []byte) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO blobs (cid, data, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (cid) DO NOTHING
	`, cid, data, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("blob put: %w", err)
	}
	return nil
}

// Get returns the bytes stored under cid.
// sql.ErrNoRows is returned untouched when the cid is unknown.
func (s *PostgresBlobRepository) Get(ctx context.Context, cid string) ([]byte, error) {
	var data []byte
	err := s.DB.QueryRowContext(ctx, `
		SELECT data FROM blobs WHERE cid = $1
	`, cid).Scan(&data)
	return data, err
}
