package chain

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/sealbid/sealbid/internal/models"
)

// Simulator is an in-memory TokenContract and OrderContract. It enforces
// the same allowance rule the real contracts do: an offer submission
// spends a previously approved allowance.
type Simulator struct {
	mu         sync.Mutex
	allowances map[string]map[string]*big.Int // owner -> spender -> amount
	offers     map[string][]models.Offer      // listing -> offers
	nonce      uint64
}

// NewSimulator returns an empty simulated chain.
func NewSimulator() *Simulator {
	return &Simulator{
		allowances: make(map[string]map[string]*big.Int),
		offers:     make(map[string][]models.Offer),
	}
}

// Approve records an allowance from owner to spender.
func (s *Simulator) Approve(ctx context.Context, owner, spender string, amount *big.Int) (string, error) {
	if amount == nil || amount.Sign() < 0 {
		return "", fmt.Errorf("%w: invalid approval amount", models.ErrTransactionFailed)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.allowances[owner] == nil {
		s.allowances[owner] = make(map[string]*big.Int)
	}
	s.allowances[owner][spender] = new(big.Int).Set(amount)
	return s.txHash(), nil
}

// Allowance returns the remaining allowance from owner to spender.
func (s *Simulator) Allowance(owner, spender string) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.allowances[owner][spender]; a != nil {
		return new(big.Int).Set(a)
	}
	return new(big.Int)
}

// SubmitOffer consumes the buyer's allowance toward the listing and
// records the offer. Reverts when the allowance does not cover the price.
func (s *Simulator) SubmitOffer(ctx context.Context, buyer string, offer models.Offer) (Receipt, error) {
	if offer.PriceWei == nil || offer.PriceWei.Sign() <= 0 || offer.Quantity <= 0 {
		return Receipt{}, fmt.Errorf("%w: reverted: bad offer terms", models.ErrTransactionFailed)
	}
	if offer.DataURI == "" {
		return Receipt{}, fmt.Errorf("%w: reverted: missing data URI", models.ErrTransactionFailed)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	allowance := s.allowances[buyer][offer.Listing]
	if allowance == nil || allowance.Cmp(offer.PriceWei) < 0 {
		return Receipt{}, fmt.Errorf("%w: reverted: insufficient allowance", models.ErrTransactionFailed)
	}
	allowance.Sub(allowance, offer.PriceWei)

	tx := s.txHash()
	offer.ID = tx
	s.offers[offer.Listing] = append(s.offers[offer.Listing], offer)
	return Receipt{TxHash: tx, OfferAddress: offerAddress(tx)}, nil
}

// Offers lists the offers recorded against a listing.
func (s *Simulator) Offers(ctx context.Context, listing string) ([]models.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Offer, len(s.offers[listing]))
	copy(out, s.offers[listing])
	return out, nil
}

func (s *Simulator) txHash() string {
	s.nonce++
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], s.nonce)
	h := sha3.NewLegacyKeccak256()
	h.Write(buf[:])
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

func offerAddress(txHash string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(txHash))
	sum := h.Sum(nil)
	return "0x" + hex.EncodeToString(sum[12:])
}
