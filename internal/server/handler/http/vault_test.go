package http_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/sealbid/sealbid/internal/models"
	handler "github.com/sealbid/sealbid/internal/server/handler/http"
	"github.com/sealbid/sealbid/internal/service"
)

type fakeVaultService struct {
	receivedKey      string
	receivedValue    string
	receivedIfAbsent bool

	value  string
	getErr error
	putErr error
}

func (f *fakeVaultService) Get(ctx context.Context, address, key string) (string, error) {
	f.receivedKey = key
	return f.value, f.getErr
}

func (f *fakeVaultService) Put(ctx context.Context, address, key, value string, ifAbsent bool) error {
	f.receivedKey = key
	f.receivedValue = value
	f.receivedIfAbsent = ifAbsent
	return f.putErr
}

// mountVault serves the handler behind a chi router so URL params are
// populated as in production.
func mountVault(h *handler.VaultHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/vault/{key}", h.Get)
	r.Put("/api/vault/{key}", h.Put)
	return r
}

func TestVaultGetHandler_NotFound(t *testing.T) {
	fake := &fakeVaultService{getErr: models.ErrNotFound}
	r := mountVault(&handler.VaultHandler{VaultService: fake})
	req := httptest.NewRequest(http.MethodGet, "/api/vault/encryption-key", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d; want %d", w.Code, http.StatusNotFound)
	}
	if !strings.Contains(w.Body.String(), "key not found") {
		t.Errorf("body = %q; want failure text surfaced", w.Body.String())
	}
}

func TestVaultGetHandler_Success(t *testing.T) {
	fake := &fakeVaultService{value: "deadbeef"}
	r := mountVault(&handler.VaultHandler{VaultService: fake})
	req := httptest.NewRequest(http.MethodGet, "/api/vault/encryption-key", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if fake.receivedKey != "encryption-key" {
		t.Errorf("service received key %q; want %q", fake.receivedKey, "encryption-key")
	}
	if !strings.Contains(w.Body.String(), "deadbeef") {
		t.Errorf("body = %q; want value present", w.Body.String())
	}
}

func TestVaultPutHandler_BadBody(t *testing.T) {
	r := mountVault(&handler.VaultHandler{VaultService: &fakeVaultService{}})
	req := httptest.NewRequest(http.MethodPut, "/api/vault/encryption-key", bytes.NewBufferString("nope"))
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want %d", w.Code, http.StatusBadRequest)
	}
}

func TestVaultPutHandler_ConditionalConflict(t *testing.T) {
	fake := &fakeVaultService{putErr: service.ErrKeyExists}
	r := mountVault(&handler.VaultHandler{VaultService: fake})
	req := httptest.NewRequest(http.MethodPut, "/api/vault/encryption-key?if_absent=1",
		bytes.NewBufferString(`{"value":"cafe"}`))
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d; want %d", w.Code, http.StatusConflict)
	}
	if !fake.receivedIfAbsent {
		t.Error("expected conditional put to reach the service")
	}
}

func TestVaultPutHandler_Success(t *testing.T) {
	fake := &fakeVaultService{}
	r := mountVault(&handler.VaultHandler{VaultService: fake})
	req := httptest.NewRequest(http.MethodPut, "/api/vault/encryption-key",
		bytes.NewBufferString(`{"value":"deadbeef"}`))
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if fake.receivedValue != "deadbeef" {
		t.Errorf("service received value %q; want %q", fake.receivedValue, "deadbeef")
	}
	if fake.receivedIfAbsent {
		t.Error("plain put should not be conditional")
	}
}
