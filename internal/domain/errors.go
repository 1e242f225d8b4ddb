package domain

import "github.com/pkg/errors"

var (
	// ErrFormat malformed ledger-native amount, symbol or integer.
	ErrFormat = errors.New("malformed ledger value")

	// ErrConfigNotFound marketplace config singleton is missing or duplicated.
	ErrConfigNotFound = errors.New("market config not found")
	// ErrSaleNotFound sale row lookup did not return exactly one row.
	ErrSaleNotFound = errors.New("sale not found")
	// ErrPairNotFound oracle pair metadata lookup did not return exactly one row.
	ErrPairNotFound = errors.New("oracle pair not found")
	// ErrNoDatapoint oracle has no published datapoint for the pair.
	ErrNoDatapoint = errors.New("no oracle datapoint found")

	// ErrUnsupportedSettlementSymbol settlement symbol is outside the caller allow-list.
	ErrUnsupportedSettlementSymbol = errors.New("settlement symbol not supported")
	// ErrTokenNotConfigured settlement symbol is not a supported token of the market.
	ErrTokenNotConfigured = errors.New("settlement token not configured")
	// ErrPairNotSupported market has no conversion pair for listing/settlement symbols.
	ErrPairNotSupported = errors.New("symbol pair not supported")

	// ErrZeroMedian oracle published a zero median that cannot be divided by.
	ErrZeroMedian = errors.New("oracle median is zero")
	// ErrRowSchema ledger row does not match the expected schema.
	ErrRowSchema = errors.New("ledger row does not match schema")
)
