// Package service provides the business logic of the vault and content
// service, delegating persistence to repository interfaces.
package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sealbid/sealbid/internal/models"
	"github.com/sealbid/sealbid/internal/wallet"
)

// AuthRepository defines the persistence operations required by the
// authentication service.
type AuthRepository interface {
	// CreateChallengeIfAbsent stores the challenge unless one exists and
	// returns the canonical challenge on record.
	CreateChallengeIfAbsent(ctx context.Context, address, challenge string, issuedAt int64) (string, error)
	// GetChallenge returns the challenge on record for the address.
	GetChallenge(ctx context.Context, address string) (string, error)
	// BindPublicKey binds the wallet verification key to the address.
	BindPublicKey(ctx context.Context, address, publicKey string) error
	// GetPublicKey returns the bound verification key, empty if unbound.
	GetPublicKey(ctx context.Context, address string) (string, error)
}

// AuthService implements challenge issuance and bearer credential
// verification.
type AuthService struct {
	repo AuthRepository
}

// NewAuthService constructs an AuthService using the provided repository.
func NewAuthService(repo AuthRepository) *AuthService {
	return &AuthService{repo: repo}
}

// IssueChallenge returns the login challenge for an address, creating one
// on first request. Issuance is idempotent per address: repeated requests
// return the same challenge, so an already issued bearer credential is
// never invalidated by a stray challenge call.
func (s *AuthService) IssueChallenge(ctx context.Context, address string) (string, error) {
	if address == "" {
		return "", errors.New("empty address")
	}
	challenge := fmt.Sprintf("sealbid login %s nonce %s", address, uuid.NewString())
	stored, err := s.repo.CreateChallengeIfAbsent(ctx, address, challenge, time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("issue challenge: %w", err)
	}
	return stored, nil
}

// Verify checks a bearer credential: the signature must verify over the
// stored challenge under the presented verification key, and the key must
// hash to the claimed address. On first success the key is bound to the
// address; later credentials must present the same key.
// Any failure maps to models.ErrNotAuthenticated.
func (s *AuthService) Verify(ctx context.Context, cred models.Credential) error {
	challenge, err := s.repo.GetChallenge(ctx, cred.Address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotAuthenticated
		}
		return fmt.Errorf("verify credential: %w", err)
	}

	pub, err := base64.StdEncoding.DecodeString(cred.PublicKey)
	if err != nil {
		return models.ErrNotAuthenticated
	}
	sig, err := base64.StdEncoding.DecodeString(cred.Signature)
	if err != nil {
		return models.ErrNotAuthenticated
	}
	if wallet.AddressFromPublicKey(pub) != cred.Address {
		return models.ErrNotAuthenticated
	}
	if !wallet.Verify(pub, []byte(challenge), sig) {
		return models.ErrNotAuthenticated
	}

	bound, err := s.repo.GetPublicKey(ctx, cred.Address)
	if err != nil {
		return fmt.Errorf("verify credential: %w", err)
	}
	if bound == "" {
		if err := s.repo.BindPublicKey(ctx, cred.Address, cred.PublicKey); err != nil {
			return fmt.Errorf("verify credential: %w", err)
		}
		return nil
	}
	if bound != cred.PublicKey {
		return models.ErrNotAuthenticated
	}
	return nil
}
