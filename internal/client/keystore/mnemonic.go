package keystore

import (
	"fmt"

	"github.com/tyler-smith/go-bip39"

	"github.com/sealbid/sealbid/internal/client/envelope"
	"github.com/sealbid/sealbid/internal/models"
)

// ExportMnemonic encodes the pair's secret key as a 24-word BIP-39
// mnemonic for offline backup.
func ExportMnemonic(pair *models.KeyPair) (string, error) {
	mnemonic, err := bip39.NewMnemonic(pair.SecretKey[:])
	if err != nil {
		return "", fmt.Errorf("encode mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ImportMnemonic rebuilds a key pair from a backup mnemonic.
func ImportMnemonic(mnemonic string) (*models.KeyPair, error) {
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("decode mnemonic: %w", err)
	}
	if len(entropy) != 32 {
		return nil, models.ErrCorruptKeyMaterial
	}
	var secret [32]byte
	copy(secret[:], entropy)

	public, err := envelope.PublicFromSecret(&secret)
	if err != nil {
		return nil, models.ErrCorruptKeyMaterial
	}
	return &models.KeyPair{PublicKey: public, SecretKey: &secret}, nil
}
