// Package auth implements the login gate: challenge retrieval, wallet
// signature login, and the fail-closed logged-in probe.
package auth

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sealbid/sealbid/internal/client/session"
	"github.com/sealbid/sealbid/internal/models"
	"github.com/sealbid/sealbid/internal/wallet"
)

// Gate performs authentication against the vault service and keeps the
// resulting bearer credential in the session store.
type Gate struct {
	base    string
	http    *http.Client
	session *session.Store
}

// NewGate returns a Gate for the vault service at base. A nil client
// falls back to http.DefaultClient.
func NewGate(base string, client *http.Client, store *session.Store) *Gate {
	if client == nil {
		client = http.DefaultClient
	}
	return &Gate{base: base, http: client, session: store}
}

// RequestChallenge fetches the login challenge for address. The server
// issues one challenge per address, so repeated calls return the same
// text.
func (g *Gate) RequestChallenge(ctx context.Context, address string) (string, error) {
	body, _ := json.Marshal(map[string]string{"address": address})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base+"/api/challenge", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request challenge: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("request challenge: %s", string(data))
	}

	var out struct {
		Challenge string `json:"challenge"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("request challenge: %w", err)
	}
	return out.Challenge, nil
}

// Login has the wallet sign the server challenge and persists the
// resulting credential. The signature plus the address constitute the
// reusable bearer credential; it stays valid until the session is
// cleared (no expiry).
func (g *Gate) Login(ctx context.Context, signer wallet.Signer) (models.Credential, error) {
	address := signer.Address()
	challenge, err := g.RequestChallenge(ctx, address)
	if err != nil {
		return models.Credential{}, err
	}

	sig, err := signer.Sign([]byte(challenge))
	if err != nil {
		return models.Credential{}, fmt.Errorf("sign challenge: %w", err)
	}

	cred := models.Credential{
		Address:   address,
		Signature: base64.StdEncoding.EncodeToString(sig),
		PublicKey: base64.StdEncoding.EncodeToString(signer.PublicKey()),
	}
	if err := g.session.SetCredential(cred); err != nil {
		return models.Credential{}, fmt.Errorf("persist credential: %w", err)
	}
	return cred, nil
}

// IsLoggedIn probes the whoami endpoint with the stored credential.
// It returns true only on an explicit 200; any error, timeout or other
// status reads as logged out. Fail-closed, never fail-open.
func (g *Gate) IsLoggedIn(ctx context.Context, address string) bool {
	cred, ok := g.session.Credential(address)
	if !ok {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"/api/whoami", nil)
	if err != nil {
		return false
	}
	Authorize(req, cred)

	resp, err := g.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Credential returns the stored bearer credential for address, or
// models.ErrNotAuthenticated when none is held.
func (g *Gate) Credential(address string) (models.Credential, error) {
	cred, ok := g.session.Credential(address)
	if !ok {
		return models.Credential{}, models.ErrNotAuthenticated
	}
	return cred, nil
}

// Logout clears the persisted credential for address.
func (g *Gate) Logout(address string) error {
	return g.session.Clear(address)
}

// Authorize attaches the bearer credential headers to req.
func Authorize(req *http.Request, cred models.Credential) {
	req.Header.Set("Authorization", "Basic "+cred.Token())
	req.Header.Set("X-Wallet-Key", cred.PublicKey)
}
