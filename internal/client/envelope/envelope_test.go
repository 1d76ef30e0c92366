package envelope

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/nacl/box"

	"github.com/sealbid/sealbid/internal/models"
)

func generatePair(t *testing.T) (*[32]byte, *[32]byte) {
	t.Helper()
	pub, priv, err := box.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub, priv
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	_, buyerSecret := generatePair(t)
	sellerPublic, sellerSecret := generatePair(t)

	data := models.OfferData{
		"email":           "a@b.com",
		"shippingAddress": "1 Main St",
		"quantity":        float64(3),
		"nested":          map[string]any{"phone": "+1 555 0100"},
	}

	env, err := Encrypt(data, buyerSecret, sellerPublic)
	require.NoError(t, err)

	got, err := Decrypt(env, sellerSecret)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	_, buyerSecret := generatePair(t)
	sellerPublic, _ := generatePair(t)
	_, otherSecret := generatePair(t)

	env, err := Encrypt(models.OfferData{"email": "a@b.com"}, buyerSecret, sellerPublic)
	require.NoError(t, err)

	_, err = Decrypt(env, otherSecret)
	assert.ErrorIs(t, err, models.ErrDecryptionFailure)
}

func TestDecrypt_TamperedCiphertextFails(t *testing.T) {
	_, buyerSecret := generatePair(t)
	sellerPublic, sellerSecret := generatePair(t)

	env, err := Encrypt(models.OfferData{"email": "a@b.com"}, buyerSecret, sellerPublic)
	require.NoError(t, err)

	raw, err := hex.DecodeString(env.Message)
	require.NoError(t, err)
	raw[0] ^= 0xff
	env.Message = hex.EncodeToString(raw)

	_, err = Decrypt(env, sellerSecret)
	assert.ErrorIs(t, err, models.ErrDecryptionFailure)
}

func TestDecrypt_MalformedEnvelope(t *testing.T) {
	_, secret := generatePair(t)

	for name, env := range map[string]*models.EncryptedEnvelope{
		"bad public key": {PublicKey: "zz", Nonce: "00", Message: "00"},
		"short nonce":    {PublicKey: hex.EncodeToString(make([]byte, 32)), Nonce: "0000", Message: "00"},
		"bad ciphertext": {PublicKey: hex.EncodeToString(make([]byte, 32)), Nonce: hex.EncodeToString(make([]byte, 24)), Message: "xy"},
	} {
		_, err := Decrypt(env, secret)
		assert.ErrorIs(t, err, models.ErrDecryptionFailure, name)
	}
}

func TestEncrypt_NonceUniqueness(t *testing.T) {
	_, buyerSecret := generatePair(t)
	sellerPublic, _ := generatePair(t)
	data := models.OfferData{"email": "a@b.com"}

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		env, err := Encrypt(data, buyerSecret, sellerPublic)
		require.NoError(t, err)
		if _, dup := seen[env.Nonce]; dup {
			t.Fatalf("nonce repeated after %d encryptions", i)
		}
		seen[env.Nonce] = struct{}{}
	}
}

func TestEncrypt_CarriesSenderPublicKey(t *testing.T) {
	buyerPublic, buyerSecret := generatePair(t)
	sellerPublic, _ := generatePair(t)

	env, err := Encrypt(models.OfferData{"a": "b"}, buyerSecret, sellerPublic)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(buyerPublic[:]), env.PublicKey)
}

func TestPublicFromSecret_MatchesGenerated(t *testing.T) {
	pub, secret := generatePair(t)
	derived, err := PublicFromSecret(secret)
	require.NoError(t, err)
	assert.Equal(t, pub[:], derived[:])
}

func TestResult_States(t *testing.T) {
	pending := Pending()
	assert.Equal(t, StatePending, pending.State())
	_, ok := pending.Data()
	assert.False(t, ok)
	assert.NoError(t, pending.Err())

	okRes := Ok(models.OfferData{"a": "b"})
	assert.Equal(t, StateOk, okRes.State())
	data, ok := okRes.Data()
	assert.True(t, ok)
	assert.Equal(t, models.OfferData{"a": "b"}, data)

	failed := Failed(models.ErrDecryptionFailure)
	assert.Equal(t, StateFailed, failed.State())
	assert.ErrorIs(t, failed.Err(), models.ErrDecryptionFailure)
}
