package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/sealbid/sealbid/internal/models"
)

type mockVaultRepo struct {
	GetFunc         func(ctx context.Context, address, key string) (string, error)
	PutFunc         func(ctx context.Context, address, key, value string) error
	PutIfAbsentFunc func(ctx context.Context, address, key, value string) (bool, error)
}

func (m *mockVaultRepo) Get(ctx context.Context, address, key string) (string, error) {
	return m.GetFunc(ctx, address, key)
}
func (m *mockVaultRepo) Put(ctx context.Context, address, key, value string) error {
	return m.PutFunc(ctx, address, key, value)
}
func (m *mockVaultRepo) PutIfAbsent(ctx context.Context, address, key, value string) (bool, error) {
	return m.PutIfAbsentFunc(ctx, address, key, value)
}

func TestVaultService_GetAbsent(t *testing.T) {
	repo := &mockVaultRepo{
		GetFunc: func(ctx context.Context, address, key string) (string, error) {
			return "", sql.ErrNoRows
		},
	}
	svc := NewVaultService(repo)

	_, err := svc.Get(context.Background(), "0xabc", "encryption-key")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v; want ErrNotFound", err)
	}
}

func TestVaultService_GetFound(t *testing.T) {
	repo := &mockVaultRepo{
		GetFunc: func(ctx context.Context, address, key string) (string, error) {
			return "deadbeef", nil
		},
	}
	svc := NewVaultService(repo)

	value, err := svc.Get(context.Background(), "0xabc", "encryption-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "deadbeef" {
		t.Errorf("value = %q; want %q", value, "deadbeef")
	}
}

func TestVaultService_ConditionalPutLoses(t *testing.T) {
	repo := &mockVaultRepo{
		PutIfAbsentFunc: func(ctx context.Context, address, key, value string) (bool, error) {
			return false, nil
		},
	}
	svc := NewVaultService(repo)

	err := svc.Put(context.Background(), "0xabc", "encryption-key", "cafe", true)
	if !errors.Is(err, ErrKeyExists) {
		t.Errorf("err = %v; want ErrKeyExists", err)
	}
}

func TestVaultService_UnconditionalPut(t *testing.T) {
	var gotValue string
	repo := &mockVaultRepo{
		PutFunc: func(ctx context.Context, address, key, value string) error {
			gotValue = value
			return nil
		},
	}
	svc := NewVaultService(repo)

	if err := svc.Put(context.Background(), "0xabc", "k", "v", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotValue != "v" {
		t.Errorf("stored value = %q; want %q", gotValue, "v")
	}
}
