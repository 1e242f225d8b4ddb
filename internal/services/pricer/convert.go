package pricer

import (
	"math"
	"math/big"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/atomicbuyer/internal/domain"
)

// Convert turns a scaled listing amount into a scaled settlement amount using an oracle median.
//
//	inverted: listing × median × 10^(quote − base − median precision)
//	otherwise: listing ÷ median × 10^(median precision + base − quote)
//
// Arithmetic is exact; the result is truncated toward zero to a whole settlement unit.
func Convert(listing *big.Int, median uint64, pair domain.EnrichedPair) (*big.Int, error) {
	if listing == nil || listing.Sign() < 0 {
		return nil, errors.Wrap(domain.ErrFormat, "listing amount must be a non-negative integer")
	}

	m := decimal.NewFromBigInt(new(big.Int).SetUint64(median), 0)
	if pair.Invert {
		exp := int32(pair.QuotePrecision) - int32(pair.BasePrecision) - int32(pair.MedianPrecision)
		return decimal.NewFromBigInt(listing, exp).Mul(m).BigInt(), nil
	}

	if median == 0 {
		return nil, errors.Wrapf(domain.ErrZeroMedian, "pair %s", pair.OraclePairName)
	}
	exp := int32(pair.MedianPrecision) + int32(pair.BasePrecision) - int32(pair.QuotePrecision)
	quotient, _ := decimal.NewFromBigInt(listing, exp).QuoRem(m, 0)

	return quotient.BigInt(), nil
}

// floatReference evaluates the same formula in float64 and rounds like JavaScript's toFixed(0).
// It is only used to report drift against the exact result.
func floatReference(listing *big.Int, median uint64, pair domain.EnrichedPair) string {
	amount, _ := new(big.Float).SetInt(listing).Float64()

	var v float64
	if pair.Invert {
		v = amount * float64(median) * math.Pow(10, float64(int(pair.QuotePrecision)-int(pair.BasePrecision)-int(pair.MedianPrecision)))
	} else {
		v = amount / float64(median) * math.Pow(10, float64(int(pair.MedianPrecision)+int(pair.BasePrecision)-int(pair.QuotePrecision)))
	}

	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}
