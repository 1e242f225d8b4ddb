// Package domain defines the ledger values the buyer reads and writes.
package domain

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// MaxPrecision is the largest precision a ledger symbol can carry.
const MaxPrecision = 18

var symbolNameRe = regexp.MustCompile(`^[A-Z]{1,7}$`)

// TokenAmount ledger-native token quantity kept as a scaled integer.
type TokenAmount struct {
	// Symbol token symbol name, e.g. WAX.
	Symbol string
	// Precision number of fractional digits.
	Precision uint8

	scaled *big.Int
}

// NewTokenAmount builds an amount from an already scaled integer.
func NewTokenAmount(symbol string, precision uint8, scaled *big.Int) (TokenAmount, error) {
	if !symbolNameRe.MatchString(symbol) {
		return TokenAmount{}, errors.Wrapf(ErrFormat, "invalid symbol %q", symbol)
	}
	if precision > MaxPrecision {
		return TokenAmount{}, errors.Wrapf(ErrFormat, "precision %d exceeds %d", precision, MaxPrecision)
	}
	if scaled == nil || scaled.Sign() < 0 {
		return TokenAmount{}, errors.Wrap(ErrFormat, "scaled amount must be a non-negative integer")
	}

	return TokenAmount{Symbol: symbol, Precision: precision, scaled: new(big.Int).Set(scaled)}, nil
}

// ParseAmount parses "<integer>.<fraction> <SYMBOL>" into a TokenAmount.
// Precision equals the number of fraction digits, 0 when there is no separator.
func ParseAmount(s string) (TokenAmount, error) {
	parts := strings.Split(s, " ")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return TokenAmount{}, errors.Wrapf(ErrFormat, "amount %q must be '<number> <SYMBOL>'", s)
	}

	number, symbol := parts[0], parts[1]
	intPart, fracPart, hasSep := strings.Cut(number, ".")
	if !isDigits(intPart) || (hasSep && !isDigits(fracPart)) {
		return TokenAmount{}, errors.Wrapf(ErrFormat, "amount %q is not numeric", s)
	}
	if len(fracPart) > MaxPrecision {
		return TokenAmount{}, errors.Wrapf(ErrFormat, "amount %q has more than %d fraction digits", s, MaxPrecision)
	}

	scaled, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		return TokenAmount{}, errors.Wrapf(ErrFormat, "amount %q is not numeric", s)
	}

	return NewTokenAmount(symbol, uint8(len(fracPart)), scaled)
}

// Scaled returns a copy of the scaled integer amount.
func (a TokenAmount) Scaled() *big.Int {
	if a.scaled == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.scaled)
}

// Quantity returns the amount without symbol, e.g. "100.0000".
func (a TokenAmount) Quantity() string {
	return FormatScaled(a.Scaled(), a.Precision)
}

// String returns the ledger-native representation, e.g. "100.0000 WAX".
func (a TokenAmount) String() string {
	return a.Quantity() + " " + a.Symbol
}

// Decimal returns the unscaled value.
func (a TokenAmount) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(a.Scaled(), -int32(a.Precision))
}

// Add sums two amounts of the same symbol and precision.
func (a TokenAmount) Add(b TokenAmount) (TokenAmount, error) {
	if a.Symbol != b.Symbol || a.Precision != b.Precision {
		return TokenAmount{}, errors.Wrapf(ErrFormat, "cannot add %s to %s", b.String(), a.String())
	}
	return NewTokenAmount(a.Symbol, a.Precision, new(big.Int).Add(a.Scaled(), b.Scaled()))
}

// Equal reports whether both amounts have identical symbol, precision and value.
func (a TokenAmount) Equal(b TokenAmount) bool {
	return a.Symbol == b.Symbol && a.Precision == b.Precision && a.Scaled().Cmp(b.Scaled()) == 0
}

// FormatScaled renders a scaled integer with precision fractional digits.
// The digits are left padded to precision+1 and leading zeros are trimmed down
// to a single integer digit, never into the fraction.
func FormatScaled(scaled *big.Int, precision uint8) string {
	p := int(precision)
	digits := scaled.String()
	if len(digits) < p+1 {
		digits = strings.Repeat("0", p+1-len(digits)) + digits
	}

	intPart := strings.TrimLeft(digits[:len(digits)-p], "0")
	if intPart == "" {
		intPart = "0"
	}
	if p == 0 {
		return intPart
	}

	return intPart + "." + digits[len(digits)-p:]
}

// ParseScaled parses a scaled integer string such as ResolvedPrice.Amount.
func ParseScaled(s string) (*big.Int, error) {
	if !isDigits(s) {
		return nil, errors.Wrapf(ErrFormat, "scaled amount %q is not a non-negative integer", s)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Wrapf(ErrFormat, "scaled amount %q is not a non-negative integer", s)
	}
	return v, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
