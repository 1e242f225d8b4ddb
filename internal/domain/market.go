package domain

import (
	"github.com/shopspring/decimal"
)

// MarketConfig marketplace global configuration singleton.
type MarketConfig struct {
	Version                string           `json:"version" validate:"required"`
	SaleCounter            ID               `json:"sale_counter"`
	AuctionCounter         ID               `json:"auction_counter"`
	MinimumBidIncrease     decimal.Decimal  `json:"minimum_bid_increase"`
	MinimumAuctionDuration uint32           `json:"minimum_auction_duration"`
	MaximumAuctionDuration uint32           `json:"maximum_auction_duration"`
	AuctionResetDuration   uint32           `json:"auction_reset_duration"`
	SupportedTokens        []SupportedToken `json:"supported_tokens" validate:"required,min=1,dive"`
	SupportedPairs         []PairSpec       `json:"supported_symbol_pairs" validate:"dive"`
	MakerMarketFee         decimal.Decimal  `json:"maker_market_fee"`
	TakerMarketFee         decimal.Decimal  `json:"taker_market_fee"`
	// AssetRegistryAccount account holding the assets being sold.
	AssetRegistryAccount string `json:"atomicassets_account" validate:"required"`
	// OracleAccount account publishing conversion medians.
	OracleAccount string `json:"delphioracle_account" validate:"required"`
}

// SupportedToken token the marketplace accepts as settlement currency.
type SupportedToken struct {
	Contract string `json:"token_contract" validate:"required"`
	Symbol   string `json:"token_symbol" validate:"required"`
}

// FindToken returns the supported token whose symbol name matches.
func (c MarketConfig) FindToken(symbolName string) (SupportedToken, bool, error) {
	for _, token := range c.SupportedTokens {
		sym, err := DecodeSymbol(token.Symbol)
		if err != nil {
			return SupportedToken{}, false, err
		}
		if sym.Name == symbolName {
			return token, true, nil
		}
	}
	return SupportedToken{}, false, nil
}

// PairSpec configured listing to settlement conversion through an oracle pair.
type PairSpec struct {
	ListingSymbol    string `json:"listing_symbol" validate:"required"`
	SettlementSymbol string `json:"settlement_symbol" validate:"required"`
	OraclePairName   string `json:"delphi_pair_name" validate:"required"`
	// Invert the oracle publishes settlement per listing instead of listing per settlement.
	Invert bool `json:"invert_delphi_pair"`
}

// EnrichedPair PairSpec with precisions taken from the oracle.
type EnrichedPair struct {
	PairSpec
	MedianPrecision uint8 `json:"median_precision"`
	BasePrecision   uint8 `json:"base_precision"`
	QuotePrecision  uint8 `json:"quote_precision"`
}

// Matches reports whether the pair converts listingName into settlementName.
func (p EnrichedPair) Matches(listingName, settlementName string) (bool, error) {
	listing, err := DecodeSymbol(p.ListingSymbol)
	if err != nil {
		return false, err
	}
	settlement, err := DecodeSymbol(p.SettlementSymbol)
	if err != nil {
		return false, err
	}
	return listing.Name == listingName && settlement.Name == settlementName, nil
}
