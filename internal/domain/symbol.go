package domain

import (
	"fmt"

	eos "github.com/eoscanada/eos-go"
	"github.com/pkg/errors"
)

// Symbol ledger token symbol with its precision.
type Symbol struct {
	// Name symbol name, e.g. WAX.
	Name string
	// Precision number of fractional digits.
	Precision uint8
}

// DecodeSymbol decodes the ledger-native "<precision>,<NAME>" encoding.
func DecodeSymbol(s string) (Symbol, error) {
	sym, err := eos.StringToSymbol(s)
	if err != nil {
		return Symbol{}, errors.Wrapf(ErrFormat, "decode symbol %q: %v", s, err)
	}
	if !symbolNameRe.MatchString(sym.Symbol) {
		return Symbol{}, errors.Wrapf(ErrFormat, "symbol %q has an invalid name", s)
	}
	if sym.Precision > MaxPrecision {
		return Symbol{}, errors.Wrapf(ErrFormat, "symbol %q precision exceeds %d", s, MaxPrecision)
	}

	return Symbol{Name: sym.Symbol, Precision: sym.Precision}, nil
}

// String returns the ledger-native encoding.
func (s Symbol) String() string {
	return fmt.Sprintf("%d,%s", s.Precision, s.Name)
}
