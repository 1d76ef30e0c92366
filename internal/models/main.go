// Package models defines the core data structures shared by the marketplace
// client and the vault/content service.
package models

import (
	"encoding/base64"
	"encoding/hex"
	"math/big"
)

// KeyPair is a Curve25519 key pair used for authenticated public-key
// encryption of buyer offer data.
type KeyPair struct {
	// PublicKey is the 32-byte encryption public key.
	PublicKey *[32]byte
	// SecretKey is the 32-byte encryption secret key. Never leaves the
	// client except hex-encoded into the owner's authenticated vault.
	SecretKey *[32]byte
}

// PublicKeyHex returns the hex encoding of the public key.
func (k *KeyPair) PublicKeyHex() string {
	return hex.EncodeToString(k.PublicKey[:])
}

// SecretKeyHex returns the hex encoding of the secret key. This is the
// exact representation persisted in the vault.
func (k *KeyPair) SecretKeyHex() string {
	return hex.EncodeToString(k.SecretKey[:])
}

// EncryptedEnvelope carries one encrypted payload plus the metadata the
// recipient needs to decrypt it. All fields are hex-encoded.
type EncryptedEnvelope struct {
	// PublicKey is the sender's encryption public key.
	PublicKey string `json:"publicKey"`
	// Nonce is the 24-byte nonce, fresh per encryption.
	Nonce string `json:"nonce"`
	// Message is the ciphertext including the authentication tag.
	Message string `json:"message"`
}

// OfferData is the buyer-supplied plaintext (shipping address, email,
// schema-driven custom fields). No fixed schema is enforced here.
type OfferData map[string]any

// Challenge is a server-issued login challenge for a wallet address.
type Challenge struct {
	// Address is the wallet address the challenge was issued for.
	Address string `json:"address"`
	// Nonce is the random challenge text the wallet must sign.
	Nonce string `json:"nonce"`
	// IssuedAt is the unix timestamp of issuance.
	IssuedAt int64 `json:"issuedAt"`
}

// Credential is the reusable bearer credential: a wallet address plus the
// wallet's signature over the server-issued challenge.
type Credential struct {
	// Address is the wallet address.
	Address string `json:"address"`
	// Signature is the base64 signature over the challenge text.
	Signature string `json:"signature"`
	// PublicKey is the base64 wallet verification key bound to Address.
	PublicKey string `json:"publicKey"`
}

// Token derives the bearer token presented on authenticated requests:
// base64(address:signature).
func (c Credential) Token() string {
	return base64.StdEncoding.EncodeToString([]byte(c.Address + ":" + c.Signature))
}

// Offer is a buyer's purchase request against a listing. The private buyer
// data is referenced by DataURI, never stored in clear.
type Offer struct {
	// ID is assigned by the order contract on submission.
	ID string `json:"id"`
	// Listing identifies the seller's listing (order contract address).
	Listing string `json:"listing"`
	// Quantity is the number of units requested.
	Quantity int64 `json:"quantity"`
	// PriceWei is the total offered price in wei.
	PriceWei *big.Int `json:"priceWei"`
	// DataURI references the uploaded encrypted envelope (ipfs://<cid>).
	DataURI string `json:"dataUri"`
}
