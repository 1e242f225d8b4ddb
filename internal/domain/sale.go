package domain

import (
	"time"

	"github.com/google/uuid"
)

// NoConversionMedian intended median sent when the sale settles in its listing currency.
const NoConversionMedian = "0"

// Sale snapshot of a listed sale at query time.
type Sale struct {
	ID       ID
	Seller   string
	AssetIDs []ID
	// ListingPrice parsed listing price.
	ListingPrice TokenAmount
	// RawListingPrice listing price exactly as read, re-asserted at purchase.
	RawListingPrice string
	// SettlementSymbol decoded settlement symbol.
	SettlementSymbol Symbol
	// RawSettlementSymbol settlement symbol exactly as read, re-asserted at purchase.
	RawSettlementSymbol string
	// Price resolved settlement price.
	Price ResolvedPrice
}

// ResolvedPrice price of a sale expressed in its settlement token.
type ResolvedPrice struct {
	TokenSymbol    string `json:"token_symbol"`
	TokenPrecision uint8  `json:"token_precision"`
	TokenContract  string `json:"token_contract"`
	// Amount scaled integer amount.
	Amount string `json:"amount"`
	// IntendedOracleMedian median the amount was computed against, "0" without conversion.
	IntendedOracleMedian string `json:"intended_delphi_median"`
}

// TokenAmount returns the price as a TokenAmount.
func (p ResolvedPrice) TokenAmount() (TokenAmount, error) {
	scaled, err := ParseScaled(p.Amount)
	if err != nil {
		return TokenAmount{}, err
	}
	return NewTokenAmount(p.TokenSymbol, p.TokenPrecision, scaled)
}

// PurchaseIntent everything needed to build one purchase submission.
type PurchaseIntent struct {
	ID        uuid.UUID
	Config    MarketConfig
	Sale      Sale
	Payer     Permission
	Receiver  string
	CreatedAt time.Time
}

// NewPurchaseIntent creates an intent with a fresh id.
func NewPurchaseIntent(cfg MarketConfig, sale Sale, payer Permission, receiver string) PurchaseIntent {
	return PurchaseIntent{
		ID:        uuid.New(),
		Config:    cfg,
		Sale:      sale,
		Payer:     payer,
		Receiver:  receiver,
		CreatedAt: time.Now().UTC(),
	}
}
