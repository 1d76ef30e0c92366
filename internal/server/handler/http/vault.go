package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sealbid/sealbid/internal/middleware"
	"github.com/sealbid/sealbid/internal/models"
	"github.com/sealbid/sealbid/internal/service"
)

// VaultService defines the interface for key-value vault operations
// required by the VaultHandler.
type VaultService interface {
	// Get returns the value under the caller's namespace.
	Get(ctx context.Context, address, key string) (string, error)
	// Put stores the value; with ifAbsent set, an existing key wins.
	Put(ctx context.Context, address, key, value string, ifAbsent bool) error
}

// VaultHandler handles HTTP requests for the authenticated per-user
// key-value vault.
type VaultHandler struct {
	VaultService VaultService
}

// Get handles GET /api/vault/{key}. Error responses carry the failure
// text in the body so clients can surface it verbatim.
func (h *VaultHandler) Get(w http.ResponseWriter, r *http.Request) {
	address := middleware.GetAddressFromContext(r.Context())
	key := chi.URLParam(r, "key")

	value, err := h.VaultService.Get(r.Context(), address, key)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "key not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"value": value,
	})
}

// Put handles PUT /api/vault/{key} with a JSON body {"value": ...}.
// With ?if_absent=1 the write only succeeds when the key does not exist
// yet; a lost race answers 409 so the caller re-reads the winning value.
func (h *VaultHandler) Put(w http.ResponseWriter, r *http.Request) {
	address := middleware.GetAddressFromContext(r.Context())
	key := chi.URLParam(r, "key")

	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	ifAbsent := r.URL.Query().Get("if_absent") != ""
	if err := h.VaultService.Put(r.Context(), address, key, req.Value, ifAbsent); err != nil {
		if errors.Is(err, service.ErrKeyExists) {
			http.Error(w, "key already exists", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
