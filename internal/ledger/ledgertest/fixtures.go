package ledgertest

// Accounts used by the fixtures.
const (
	MarketAccount = "atomicmarket"
	AssetsAccount = "atomicassets"
	OracleAccount = "delphioracle"
	TokenContract = "eosio.token"
)

// ConfigRow market config row settling in WAX with one USD conversion pair.
func ConfigRow() map[string]any {
	return map[string]any{
		"version":                  "1.3.1",
		"sale_counter":             "68987760",
		"auction_counter":          1204,
		"minimum_bid_increase":     "0.10000000000000001",
		"minimum_auction_duration": 120,
		"maximum_auction_duration": 2592000,
		"auction_reset_duration":   120,
		"supported_tokens": []map[string]any{
			{"token_contract": TokenContract, "token_symbol": "8,WAX"},
		},
		"supported_symbol_pairs": []map[string]any{
			{"listing_symbol": "2,USD", "settlement_symbol": "8,WAX", "delphi_pair_name": "waxpusd", "invert_delphi_pair": false},
		},
		"maker_market_fee":     "0.01000000000000000",
		"taker_market_fee":     "0.01000000000000000",
		"atomicassets_account": AssetsAccount,
		"delphioracle_account": OracleAccount,
	}
}

// PairRow oracle pairs row.
func PairRow(name, baseSymbol, quoteSymbol string, quotedPrecision int) map[string]any {
	return map[string]any{
		"active":                      1,
		"bounty_awarded":              1,
		"bounty_edited_by_custodians": 0,
		"proposer":                    "delphioracle",
		"name":                        name,
		"bounty_amount":               "0.00000000 WAX",
		"approving_custodians":        []string{},
		"approving_oracles":           []string{},
		"base_symbol":                 baseSymbol,
		"base_type":                   4,
		"base_contract":               "",
		"quote_symbol":                quoteSymbol,
		"quote_type":                  2,
		"quote_contract":              "",
		"quoted_precision":            quotedPrecision,
	}
}

// SaleRow market sales row.
func SaleRow(saleID string, assetIDs []string, listingPrice, settlementSymbol string) map[string]any {
	return map[string]any{
		"sale_id":           saleID,
		"seller":            "sellerwallet",
		"asset_ids":         assetIDs,
		"offer_id":          "-1",
		"listing_price":     listingPrice,
		"settlement_symbol": settlementSymbol,
		"maker_marketplace": "",
		"collection_name":   "alien.worlds",
		"collection_fee":    "0.05000000000000000",
	}
}

// DatapointRow oracle datapoints row.
func DatapointRow(median uint64) map[string]any {
	return map[string]any{
		"id":        "1823471",
		"owner":     "oracleowner1",
		"value":     median,
		"median":    median,
		"timestamp": "2026-10-19T08:00:00.000",
	}
}
