package domain

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// ID unsigned 64-bit ledger identifier.
// Nodes render large values as JSON strings, small ones as numbers; both decode.
type ID uint64

// UnmarshalJSON accepts both quoted and bare integers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return errors.Wrapf(ErrFormat, "ledger id %s: %v", string(data), err)
	}
	*id = ID(v)
	return nil
}

// MarshalJSON renders the id as a string so it survives JavaScript consumers.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// String returns the decimal representation.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseID parses a decimal ledger id.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrFormat, "ledger id %q: %v", s, err)
	}
	return ID(v), nil
}
