// Package http provides HTTP handlers for the vault and content service.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sealbid/sealbid/internal/middleware"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// IssueChallenge returns the login challenge for an address,
	// creating one on first request.
	IssueChallenge(ctx context.Context, address string) (string, error)
}

// AuthHandler handles HTTP requests for challenge issuance and the
// whoami probe.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// ChallengeRequest represents the JSON payload for challenge issuance.
type ChallengeRequest struct {
	// Address is the wallet address requesting a challenge.
	Address string `json:"address"`
}

// Challenge handles POST /api/challenge. It expects a JSON body with a
// non-empty "address" field and returns the challenge text the wallet
// must sign. Issuance is idempotent per address.
func (h *AuthHandler) Challenge(w http.ResponseWriter, r *http.Request) {
	var req ChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Address == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	challenge, err := h.AuthService.IssueChallenge(r.Context(), req.Address)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"challenge": challenge,
	})
}

// Whoami handles GET /api/whoami. The bearer auth middleware has already
// verified the credential; a 200 with the caller's address confirms the
// credential is currently valid.
func (h *AuthHandler) Whoami(w http.ResponseWriter, r *http.Request) {
	address := middleware.GetAddressFromContext(r.Context())
	if address == "" {
		http.Error(w, "no authenticated caller", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"address": address,
	})
}
