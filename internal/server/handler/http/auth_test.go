package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	handler "github.com/sealbid/sealbid/internal/server/handler/http"
)

// fakeAuthService records calls and returns preconfigured results.
type fakeAuthService struct {
	called          bool
	receivedAddress string

	challenge string
	err       error
}

func (f *fakeAuthService) IssueChallenge(ctx context.Context, address string) (string, error) {
	f.called = true
	f.receivedAddress = address
	return f.challenge, f.err
}

func TestChallengeHandler_BadJSON(t *testing.T) {
	h := &handler.AuthHandler{AuthService: &fakeAuthService{}}
	req := httptest.NewRequest(http.MethodPost, "/api/challenge", bytes.NewBufferString("not-a-json"))
	w := httptest.NewRecorder()

	h.Challenge(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want %d", w.Code, http.StatusBadRequest)
	}
}

func TestChallengeHandler_EmptyAddress(t *testing.T) {
	fake := &fakeAuthService{}
	h := &handler.AuthHandler{AuthService: fake}
	req := httptest.NewRequest(http.MethodPost, "/api/challenge", bytes.NewBufferString(`{"address":""}`))
	w := httptest.NewRecorder()

	h.Challenge(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want %d", w.Code, http.StatusBadRequest)
	}
	if fake.called {
		t.Error("service should not be called for empty address")
	}
}

func TestChallengeHandler_ServiceError(t *testing.T) {
	fake := &fakeAuthService{err: errors.New("db down")}
	h := &handler.AuthHandler{AuthService: fake}
	req := httptest.NewRequest(http.MethodPost, "/api/challenge", bytes.NewBufferString(`{"address":"0xabc"}`))
	w := httptest.NewRecorder()

	h.Challenge(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d; want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestChallengeHandler_Success(t *testing.T) {
	fake := &fakeAuthService{challenge: "sign me"}
	h := &handler.AuthHandler{AuthService: fake}
	req := httptest.NewRequest(http.MethodPost, "/api/challenge", bytes.NewBufferString(`{"address":"0xabc"}`))
	w := httptest.NewRecorder()

	h.Challenge(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if fake.receivedAddress != "0xabc" {
		t.Errorf("service received address %q; want %q", fake.receivedAddress, "0xabc")
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["challenge"] != "sign me" {
		t.Errorf("challenge = %q; want %q", resp["challenge"], "sign me")
	}
}

func TestWhoamiHandler_NoContextAddress(t *testing.T) {
	h := &handler.AuthHandler{AuthService: &fakeAuthService{}}
	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	w := httptest.NewRecorder()

	h.Whoami(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d; want %d", w.Code, http.StatusUnauthorized)
	}
}
