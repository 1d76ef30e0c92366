// Package offer orchestrates offer submission: encrypt buyer data,
// upload the envelope, approve the payment token, submit the offer
// on-chain. The reverse flow fetches and decrypts a submitted offer for
// the seller.
package offer

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/sealbid/sealbid/internal/chain"
	"github.com/sealbid/sealbid/internal/client/envelope"
	"github.com/sealbid/sealbid/internal/models"
)

// Stage labels the pipeline step currently running; the UI renders them
// as progress text.
type Stage string

const (
	StageUploading  Stage = "Uploading"
	StageApproving  Stage = "Requesting token approval"
	StageSubmitting Stage = "Submitting offer"
)

// StageError wraps a failure with the stage it occurred in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ContentClient is the content store surface the flow needs.
type ContentClient interface {
	Upload(ctx context.Context, payload any) (string, error)
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// KeyCustody supplies the caller's encryption key pair.
type KeyCustody interface {
	GetOrCreateKeyPair(ctx context.Context) (*models.KeyPair, error)
}

// Flow runs the submission pipeline. The three stages are strictly
// sequential and deliberately not atomic: a token approval that lands
// before a failed submission stays valid on-chain and is surfaced to
// the caller as such, never rolled back or hidden.
type Flow struct {
	content ContentClient
	keys    KeyCustody
	token   chain.TokenContract
	orders  chain.OrderContract
	log     *zap.Logger
	onStage func(Stage)
}

// NewFlow builds a Flow. onStage may be nil; when set it is invoked as
// each stage begins. A nil logger is replaced with a no-op.
func NewFlow(
	content ContentClient,
	keys KeyCustody,
	token chain.TokenContract,
	orders chain.OrderContract,
	logger *zap.Logger,
	onStage func(Stage),
) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	if onStage == nil {
		onStage = func(Stage) {}
	}
	return &Flow{content: content, keys: keys, token: token, orders: orders, log: logger, onStage: onStage}
}

// Request carries everything needed to submit one offer.
type Request struct {
	// Buyer is the buyer's wallet address.
	Buyer string
	// Listing identifies the seller's listing the offer targets.
	Listing string
	// SellerKey is the seller's hex encryption public key, taken from
	// the listing metadata.
	SellerKey string
	// Quantity is the number of units requested.
	Quantity int64
	// PriceWei is the total offered price.
	PriceWei *big.Int
	// Data is the buyer's private offer data to encrypt.
	Data models.OfferData
}

// Submit runs the pipeline for req and returns the on-chain receipt.
// On failure the returned error is a *StageError naming the stage that
// stopped the pipeline; later stages are never attempted.
func (f *Flow) Submit(ctx context.Context, req Request) (chain.Receipt, error) {
	f.onStage(StageUploading)

	pair, err := f.keys.GetOrCreateKeyPair(ctx)
	if err != nil {
		return chain.Receipt{}, &StageError{Stage: StageUploading, Err: err}
	}
	sellerKey, err := decodeSellerKey(req.SellerKey)
	if err != nil {
		return chain.Receipt{}, &StageError{Stage: StageUploading, Err: err}
	}
	env, err := envelope.Encrypt(req.Data, pair.SecretKey, sellerKey)
	if err != nil {
		return chain.Receipt{}, &StageError{Stage: StageUploading, Err: err}
	}
	cid, err := f.content.Upload(ctx, env)
	if err != nil {
		return chain.Receipt{}, &StageError{Stage: StageUploading, Err: err}
	}
	uri := "ipfs://" + cid
	f.log.Info("offer data uploaded", zap.String("uri", uri))

	f.onStage(StageApproving)
	txHash, err := f.token.Approve(ctx, req.Buyer, req.Listing, req.PriceWei)
	if err != nil {
		return chain.Receipt{}, &StageError{Stage: StageApproving, Err: err}
	}
	f.log.Info("token approval confirmed", zap.String("tx", txHash))

	f.onStage(StageSubmitting)
	receipt, err := f.orders.SubmitOffer(ctx, req.Buyer, models.Offer{
		Listing:  req.Listing,
		Quantity: req.Quantity,
		PriceWei: req.PriceWei,
		DataURI:  uri,
	})
	if err != nil {
		// The approval above already landed; the caller sees the
		// partial completion and may re-trigger submission.
		return chain.Receipt{}, &StageError{Stage: StageSubmitting, Err: err}
	}
	f.log.Info("offer submitted",
		zap.String("tx", receipt.TxHash),
		zap.String("offer", receipt.OfferAddress),
	)
	return receipt, nil
}

// ReadOffer fetches the envelope behind uri and decrypts it with the
// caller's custodied key. The tagged result keeps "unavailable" distinct
// from "not yet loaded"; decryption failure is a recoverable state.
func (f *Flow) ReadOffer(ctx context.Context, uri string) envelope.Result {
	pair, err := f.keys.GetOrCreateKeyPair(ctx)
	if err != nil {
		return envelope.Failed(err)
	}

	raw, err := f.content.Fetch(ctx, uri)
	if err != nil {
		return envelope.Failed(err)
	}

	var env models.EncryptedEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return envelope.Failed(fmt.Errorf("%w: malformed envelope", models.ErrDecryptionFailure))
	}

	data, err := envelope.Decrypt(&env, pair.SecretKey)
	if err != nil {
		f.log.Info("offer data unavailable", zap.String("uri", uri), zap.Error(err))
		return envelope.Failed(err)
	}
	return envelope.Ok(data)
}

func decodeSellerKey(s string) (*[32]byte, error) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return nil, fmt.Errorf("bad seller encryption key")
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}
