// Package envelope implements the encrypted payload codec: buyer offer
// data is sealed to the seller's public key with NaCl box and carried in
// a hex-encoded envelope alongside the sender's public key and nonce.
package envelope

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"

	"github.com/sealbid/sealbid/internal/models"
)

const nonceSize = 24

// Encrypt seals data to recipientPublic using senderSecret. A fresh
// random nonce is drawn per call; nonce reuse under the same key pair
// would break confidentiality, so the nonce never leaves this function
// except inside the returned envelope.
func Encrypt(data models.OfferData, senderSecret, recipientPublic *[32]byte) (*models.EncryptedEnvelope, error) {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode offer data: %w", err)
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	sealed := box.Seal(nil, plaintext, &nonce, recipientPublic, senderSecret)

	senderPublic, err := PublicFromSecret(senderSecret)
	if err != nil {
		return nil, err
	}
	return &models.EncryptedEnvelope{
		PublicKey: hex.EncodeToString(senderPublic[:]),
		Nonce:     hex.EncodeToString(nonce[:]),
		Message:   hex.EncodeToString(sealed),
	}, nil
}

// Decrypt opens env with recipientSecret. Authentication failure (wrong
// key or tampered envelope) yields models.ErrDecryptionFailure; callers
// treat that as "data unavailable", never as fatal.
func Decrypt(env *models.EncryptedEnvelope, recipientSecret *[32]byte) (models.OfferData, error) {
	senderPublic, err := decodeKey(env.PublicKey)
	if err != nil {
		return nil, models.ErrDecryptionFailure
	}
	nonceBytes, err := hex.DecodeString(env.Nonce)
	if err != nil || len(nonceBytes) != nonceSize {
		return nil, models.ErrDecryptionFailure
	}
	sealed, err := hex.DecodeString(env.Message)
	if err != nil {
		return nil, models.ErrDecryptionFailure
	}

	var nonce [nonceSize]byte
	copy(nonce[:], nonceBytes)

	plaintext, ok := box.Open(nil, sealed, &nonce, senderPublic, recipientSecret)
	if !ok {
		return nil, models.ErrDecryptionFailure
	}

	var data models.OfferData
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, models.ErrDecryptionFailure
	}
	return data, nil
}

// PublicFromSecret re-derives the Curve25519 public key paired with
// secret.
func PublicFromSecret(secret *[32]byte) (*[32]byte, error) {
	pub, err := curve25519.X25519(secret[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	var out [32]byte
	copy(out[:], pub)
	return &out, nil
}

func decodeKey(s string) (*[32]byte, error) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return nil, fmt.Errorf("bad key encoding")
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}
