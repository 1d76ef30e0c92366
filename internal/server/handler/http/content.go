package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sealbid/sealbid/internal/models"
)

// maxUploadBytes bounds a single content upload.
const maxUploadBytes = 4 << 20

// ContentService defines the interface for content-addressed storage
// operations required by the ContentHandler.
type ContentService interface {
	// Store persists data and returns its content identifier.
	Store(ctx context.Context, data []byte) (string, error)
	// Resolve returns the bytes behind cid.
	Resolve(ctx context.Context, cid string) ([]byte, error)
}

// ContentHandler handles HTTP requests for the content-addressed store
// and its gateway-style fetch path.
type ContentHandler struct {
	ContentService ContentService
}

// Upload handles POST /api/content. The body is either a JSON object
// {"data": "<base64>"} or raw JSON stored verbatim. Responds {"cid": ...}.
func (h *ContentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes+1))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		http.Error(w, "empty body", http.StatusBadRequest)
		return
	}
	if len(body) > maxUploadBytes {
		http.Error(w, "content too large", http.StatusRequestEntityTooLarge)
		return
	}

	data := body
	var wrapped struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Data != "" {
		if decoded, err := base64.StdEncoding.DecodeString(wrapped.Data); err == nil {
			data = decoded
		}
	}

	cid, err := h.ContentService.Store(r.Context(), data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"cid": cid,
	})
}

// Fetch handles GET /ipfs/{cid}, mirroring the gateway URL pattern
// clients resolve ipfs:// URIs against.
func (h *ContentHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")

	data, err := h.ContentService.Resolve(r.Context(), cid)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "content not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}
