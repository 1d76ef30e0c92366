package session

import (
	"path/filepath"
	"testing"

	"github.com/sealbid/sealbid/internal/models"
)

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store := NewStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("load empty store: %v", err)
	}

	cred := models.Credential{Address: "0xabc", Signature: "sig", PublicKey: "key"}
	if err := store.SetCredential(cred); err != nil {
		t.Fatalf("set credential: %v", err)
	}

	// A fresh store over the same file sees the persisted credential.
	reloaded := NewStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload store: %v", err)
	}
	got, ok := reloaded.Credential("0xabc")
	if !ok {
		t.Fatal("credential missing after reload")
	}
	if got != cred {
		t.Errorf("credential = %+v; want %+v", got, cred)
	}
}

func TestStore_ClearRemovesCredential(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store := NewStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := store.SetCredential(models.Credential{Address: "0xabc", Signature: "sig", PublicKey: "key"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Clear("0xabc"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if _, ok := store.Credential("0xabc"); ok {
		t.Error("credential still present after clear")
	}

	reloaded := NewStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, ok := reloaded.Credential("0xabc"); ok {
		t.Error("credential still persisted after clear")
	}
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"))
	if err := store.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := store.Credential("0xabc"); ok {
		t.Error("unexpected credential in empty store")
	}
}
