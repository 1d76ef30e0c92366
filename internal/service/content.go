package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/sealbid/sealbid/internal/models"
)

// BlobRepository defines the persistence operations required by the
// content service.
type BlobRepository interface {
	// Put stores data under its content identifier.
	Put(ctx context.Context, cid string, data []byte) error
	// Get returns the bytes stored under cid.
	Get(ctx context.Context, cid string) ([]byte, error)
}

// ContentService implements the content-addressed blob store. Identifiers
// are derived from the content itself, so fetching an identifier always
// yields byte-identical data.
type ContentService struct {
	repo BlobRepository
}

// NewContentService constructs a ContentService with the provided
// repository.
func NewContentService(repo BlobRepository) *ContentService {
	return &ContentService{repo: repo}
}

// CID computes the content identifier for data: base58btc of the sha2-256
// multihash, the CIDv0 "Qm..." form gateways resolve.
func CID(data []byte) string {
	sum := sha256.Sum256(data)
	mh := make([]byte, 0, len(sum)+2)
	mh = append(mh, 0x12, 0x20) // sha2-256, 32-byte digest
	mh = append(mh, sum[:]...)
	return base58.Encode(mh)
}

// Store persists data and returns its content identifier.
func (s *ContentService) Store(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty content")
	}
	cid := CID(data)
	if err := s.repo.Put(ctx, cid, data); err != nil {
		return "", fmt.Errorf("store content: %w", err)
	}
	return cid, nil
}

// Resolve returns the bytes behind cid, or models.ErrNotFound.
func (s *ContentService) Resolve(ctx context.Context, cid string) ([]byte, error) {
	data, err := s.repo.Get(ctx, cid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("resolve content: %w", err)
	}
	return data, nil
}
