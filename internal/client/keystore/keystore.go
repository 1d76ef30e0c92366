// Package keystore implements key custody: a per-user encryption key
// pair persisted behind the remote authenticated vault, created on first
// use and re-derived from stored secret bytes on every later session.
package keystore

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"golang.org/x/crypto/nacl/box"

	"github.com/sealbid/sealbid/internal/client/auth"
	"github.com/sealbid/sealbid/internal/client/envelope"
	"github.com/sealbid/sealbid/internal/models"
)

// custodyKey is the fixed logical key the secret is stored under in the
// owner's vault namespace.
const custodyKey = "encryption-key"

// Credentials supplies the bearer credential for vault access; the login
// gate implements it.
type Credentials interface {
	Credential(address string) (models.Credential, error)
}

// Store is the key custody store for one wallet identity.
type Store struct {
	base    string
	http    *http.Client
	creds   Credentials
	address string

	// mu serializes GetOrCreateKeyPair so two near-simultaneous calls
	// cannot both take the create branch.
	mu     sync.Mutex
	cached *models.KeyPair
}

// NewStore returns a custody store for address against the vault at
// base. A nil client falls back to http.DefaultClient.
func NewStore(base string, client *http.Client, creds Credentials, address string) *Store {
	if client == nil {
		client = http.DefaultClient
	}
	return &Store{base: base, http: client, creds: creds, address: address}
}

// GetOrCreateKeyPair returns the user's encryption key pair. On first
// use it generates one, stores the hex-encoded secret with a
// create-if-absent put, and returns the fresh pair; afterwards it
// decodes the stored secret and re-derives the public key. The fetch
// path performs exactly one remote read, the create path exactly one
// remote write.
func (s *Store) GetOrCreateKeyPair(ctx context.Context) (*models.KeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return s.cached, nil
	}

	cred, err := s.creds.Credential(s.address)
	if err != nil {
		return nil, err
	}

	stored, err := s.fetch(ctx, cred)
	if err == nil {
		pair, err := pairFromHex(stored)
		if err != nil {
			return nil, err
		}
		s.cached = pair
		return pair, nil
	}
	if err != errAbsent {
		return nil, err
	}

	public, secret, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key pair: %w", err)
	}
	pair := &models.KeyPair{PublicKey: public, SecretKey: secret}

	created, err := s.create(ctx, cred, pair.SecretKeyHex())
	if err != nil {
		return nil, err
	}
	if !created {
		// Lost the create race; the winner's key is authoritative.
		stored, err := s.fetch(ctx, cred)
		if err != nil {
			return nil, err
		}
		pair, err = pairFromHex(stored)
		if err != nil {
			return nil, err
		}
	}
	s.cached = pair
	return pair, nil
}

// errAbsent is an internal marker for "no key stored yet".
var errAbsent = fmt.Errorf("custody key absent")

func (s *Store) fetch(ctx context.Context, cred models.Credential) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/api/vault/"+custodyKey, nil)
	if err != nil {
		return "", err
	}
	auth.Authorize(req, cred)

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch key material: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var out struct {
			Value string `json:"value"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", fmt.Errorf("fetch key material: %w", err)
		}
		return out.Value, nil
	case http.StatusNotFound:
		return "", errAbsent
	case http.StatusUnauthorized:
		return "", models.ErrNotAuthenticated
	default:
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("fetch key material: %s", string(data))
	}
}

// create stores the secret under the custody key only if absent. It
// reports false when another writer won the race.
func (s *Store) create(ctx context.Context, cred models.Credential, secretHex string) (bool, error) {
	body, _ := json.Marshal(map[string]string{"value": secretHex})
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		s.base+"/api/vault/"+custodyKey+"?if_absent=1", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	auth.Authorize(req, cred)

	resp, err := s.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("store key material: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusConflict:
		return false, nil
	case http.StatusUnauthorized:
		return false, models.ErrNotAuthenticated
	default:
		data, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("store key material: %s", string(data))
	}
}

func pairFromHex(secretHex string) (*models.KeyPair, error) {
	raw, err := hex.DecodeString(secretHex)
	if err != nil || len(raw) != 32 {
		return nil, models.ErrCorruptKeyMaterial
	}
	var secret [32]byte
	copy(secret[:], raw)

	public, err := envelope.PublicFromSecret(&secret)
	if err != nil {
		return nil, models.ErrCorruptKeyMaterial
	}
	return &models.KeyPair{PublicKey: public, SecretKey: &secret}, nil
}
