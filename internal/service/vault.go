package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sealbid/sealbid/internal/models"
)

// ErrKeyExists is returned by a conditional put when the key is already
// present; the stored value is left untouched.
var ErrKeyExists = errors.New("vault key already exists")

// VaultRepository defines the persistence operations required by the
// vault service.
type VaultRepository interface {
	// Get returns the value stored under (address, key).
	Get(ctx context.Context, address, key string) (string, error)
	// Put stores value under (address, key), overwriting.
	Put(ctx context.Context, address, key, value string) error
	// PutIfAbsent stores value only when the key is absent and reports
	// whether the write won.
	PutIfAbsent(ctx context.Context, address, key, value string) (bool, error)
}

// VaultService implements the authenticated per-user key-value vault.
type VaultService struct {
	repo VaultRepository
}

// NewVaultService constructs a VaultService with the provided repository.
func NewVaultService(repo VaultRepository) *VaultService {
	return &VaultService{repo: repo}
}

// Get returns the value under the caller's namespace, or
// models.ErrNotFound when absent.
func (s *VaultService) Get(ctx context.Context, address, key string) (string, error) {
	value, err := s.repo.Get(ctx, address, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", models.ErrNotFound
		}
		return "", fmt.Errorf("vault get: %w", err)
	}
	return value, nil
}

// Put stores the value under the caller's namespace. When ifAbsent is
// set, an existing key wins and ErrKeyExists is returned; this is the
// compare-and-swap create the key custody flow relies on.
func (s *VaultService) Put(ctx context.Context, address, key, value string, ifAbsent bool) error {
	if !ifAbsent {
		return s.repo.Put(ctx, address, key, value)
	}
	won, err := s.repo.PutIfAbsent(ctx, address, key, value)
	if err != nil {
		return err
	}
	if !won {
		return ErrKeyExists
	}
	return nil
}
