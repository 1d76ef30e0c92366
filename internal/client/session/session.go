// Package session persists the bearer credential between runs. The store
// is handed explicitly to the login gate and key custody store; there is
// no ambient global state.
package session

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/sealbid/sealbid/internal/models"
)

// Store holds the persisted bearer credentials, keyed by wallet address.
type Store struct {
	path string

	mu    sync.Mutex
	creds map[string]models.Credential
}

// NewStore returns a Store backed by the file at path. Call Load before
// first use.
func NewStore(path string) *Store {
	return &Store{path: path, creds: make(map[string]models.Credential)}
}

// Load reads the persisted credentials. A missing file yields an empty
// store.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.creds = make(map[string]models.Credential)
			return nil
		}
		return err
	}
	defer f.Close()

	var onDisk struct {
		Credentials map[string]models.Credential `json:"credentials"`
	}
	if err := json.NewDecoder(f).Decode(&onDisk); err != nil {
		return err
	}
	s.creds = onDisk.Credentials
	if s.creds == nil {
		s.creds = make(map[string]models.Credential)
	}
	return nil
}

func (s *Store) save() error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(struct {
		Credentials map[string]models.Credential `json:"credentials"`
	}{Credentials: s.creds})
}

// Credential returns the stored credential for address, if any.
func (s *Store) Credential(address string) (models.Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.creds[address]
	return cred, ok
}

// SetCredential stores the credential and persists the store.
func (s *Store) SetCredential(cred models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[cred.Address] = cred
	return s.save()
}

// Clear removes the credential for address and persists the store.
// This is the logout teardown.
func (s *Store) Clear(address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, address)
	return s.save()
}
