// Package wallet provides the signing identity a user authenticates with.
// Addresses are derived from the verification key the same way Ethereum
// derives account addresses: keccak256 of the public key, last 20 bytes.
package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Signer signs login challenges on behalf of a wallet address.
type Signer interface {
	// Address returns the 0x-prefixed wallet address.
	Address() string
	// PublicKey returns the verification key bound to the address.
	PublicKey() ed25519.PublicKey
	// Sign signs msg and returns the raw signature bytes.
	Sign(msg []byte) ([]byte, error)
}

// LocalWallet is an in-process Signer holding an ed25519 key.
type LocalWallet struct {
	priv    ed25519.PrivateKey
	address string
}

// NewLocalWallet generates a fresh wallet key.
func NewLocalWallet() (*LocalWallet, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate wallet key: %w", err)
	}
	return &LocalWallet{priv: priv, address: AddressFromPublicKey(pub)}, nil
}

// FromSeed restores a wallet from a 32-byte ed25519 seed.
func FromSeed(seed []byte) (*LocalWallet, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("wallet seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &LocalWallet{priv: priv, address: AddressFromPublicKey(pub)}, nil
}

// Seed returns the wallet's ed25519 seed for persistence.
func (w *LocalWallet) Seed() []byte {
	return w.priv.Seed()
}

// Address returns the wallet address.
func (w *LocalWallet) Address() string {
	return w.address
}

// PublicKey returns the wallet verification key.
func (w *LocalWallet) PublicKey() ed25519.PublicKey {
	return w.priv.Public().(ed25519.PublicKey)
}

// Sign signs msg with the wallet key.
func (w *LocalWallet) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(w.priv, msg), nil
}

// AddressFromPublicKey derives the 0x-prefixed address for a verification
// key: last 20 bytes of keccak256(pub).
func AddressFromPublicKey(pub ed25519.PublicKey) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(pub)
	sum := h.Sum(nil)
	return "0x" + hex.EncodeToString(sum[12:])
}

// Verify reports whether sig is a valid signature of msg under pub.
func Verify(pub ed25519.PublicKey, msg, sig []byte) bool {
	return len(pub) == ed25519.PublicKeySize && ed25519.Verify(pub, msg, sig)
}
