package pricer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/atomicbuyer/internal/domain"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name    string
		listing int64
		median  uint64
		pair    domain.EnrichedPair
		want    string
	}{
		{
			name:    "inverted",
			listing: 50000000,
			median:  250000,
			pair:    domain.EnrichedPair{PairSpec: domain.PairSpec{Invert: true}, MedianPrecision: 4, BasePrecision: 8, QuotePrecision: 4},
			want:    "12500",
		},
		{
			// 1.00 USD at 0.0523 USD/WAX = 19.12045889 WAX
			name:    "usd to wax",
			listing: 100,
			median:  523,
			pair:    domain.EnrichedPair{MedianPrecision: 4, BasePrecision: 8, QuotePrecision: 2},
			want:    "1912045889",
		},
		{
			name:    "truncates toward zero",
			listing: 2,
			median:  3,
			pair:    domain.EnrichedPair{MedianPrecision: 0, BasePrecision: 0, QuotePrecision: 0},
			want:    "0",
		},
		{
			name:    "inverted truncates",
			listing: 999,
			median:  1,
			pair:    domain.EnrichedPair{PairSpec: domain.PairSpec{Invert: true}, MedianPrecision: 1, BasePrecision: 2, QuotePrecision: 0},
			want:    "0",
		},
		{
			name:    "positive exponent",
			listing: 7,
			median:  2,
			pair:    domain.EnrichedPair{PairSpec: domain.PairSpec{Invert: true}, MedianPrecision: 0, BasePrecision: 0, QuotePrecision: 3},
			want:    "14000",
		},
		{
			name:    "zero listing",
			listing: 0,
			median:  523,
			pair:    domain.EnrichedPair{MedianPrecision: 4, BasePrecision: 8, QuotePrecision: 2},
			want:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(big.NewInt(tt.listing), tt.median, tt.pair)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestConvert_Deterministic(t *testing.T) {
	pair := domain.EnrichedPair{MedianPrecision: 4, BasePrecision: 8, QuotePrecision: 2}
	listing := big.NewInt(123456789)

	first, err := Convert(listing, 517, pair)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Convert(listing, 517, pair)
		require.NoError(t, err)
		assert.Equal(t, first.String(), again.String())
	}
	// input is not mutated
	assert.Equal(t, int64(123456789), listing.Int64())
}

func TestConvert_ExactBeyondFloat(t *testing.T) {
	// 2^53 + 1 is not representable as float64
	listing, ok := new(big.Int).SetString("9007199254740993", 10)
	require.True(t, ok)
	pair := domain.EnrichedPair{PairSpec: domain.PairSpec{Invert: true}, MedianPrecision: 0, BasePrecision: 0, QuotePrecision: 0}

	got, err := Convert(listing, 1, pair)
	require.NoError(t, err)
	assert.Equal(t, "9007199254740993", got.String())
	assert.NotEqual(t, got.String(), floatReference(listing, 1, pair))
}

func TestConvert_ZeroMedian(t *testing.T) {
	_, err := Convert(big.NewInt(100), 0, domain.EnrichedPair{MedianPrecision: 4, BasePrecision: 8, QuotePrecision: 2})
	assert.ErrorIs(t, err, domain.ErrZeroMedian)
}

func TestConvert_InvalidListing(t *testing.T) {
	_, err := Convert(big.NewInt(-1), 1, domain.EnrichedPair{})
	assert.ErrorIs(t, err, domain.ErrFormat)

	_, err = Convert(nil, 1, domain.EnrichedPair{})
	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestFloatReference(t *testing.T) {
	pair := domain.EnrichedPair{MedianPrecision: 4, BasePrecision: 8, QuotePrecision: 2}
	assert.Equal(t, "1912045889", floatReference(big.NewInt(100), 523, pair))
}
