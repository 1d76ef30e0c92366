// Package chain defines the on-chain collaborators of the offer pipeline.
// The real token and order contracts live on-chain; this package only
// models their call surface plus an in-process simulator for local use.
package chain

import (
	"context"
	"math/big"

	"github.com/sealbid/sealbid/internal/models"
)

// Receipt describes a confirmed offer submission.
type Receipt struct {
	// TxHash is the hash of the confirmed transaction.
	TxHash string `json:"txHash"`
	// OfferAddress identifies the created offer, taken from the emitted
	// event arguments.
	OfferAddress string `json:"offerAddress"`
}

// TokenContract is the payment token's call surface.
type TokenContract interface {
	// Approve lets spender move up to amount of owner's tokens.
	// Returns the transaction hash.
	Approve(ctx context.Context, owner, spender string, amount *big.Int) (string, error)
}

// OrderContract is the order book's call surface.
type OrderContract interface {
	// SubmitOffer submits the buyer's offer, with offer.DataURI pointing
	// at the uploaded encrypted envelope.
	SubmitOffer(ctx context.Context, buyer string, offer models.Offer) (Receipt, error)
	// Offers lists the offers submitted against a listing.
	Offers(ctx context.Context, listing string) ([]models.Offer, error)
}
