package ledger

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/vadiminshakov/atomicbuyer/internal/domain"
)

var validate = validator.New()

// DecodeRow decodes a row into v rejecting unknown fields, then validates v's tags.
func DecodeRow(row json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(row))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return errors.Wrapf(domain.ErrRowSchema, "decode row: %v", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.Wrap(domain.ErrRowSchema, "trailing data after row")
	}
	if err := validate.Struct(v); err != nil {
		return errors.Wrapf(domain.ErrRowSchema, "validate row: %v", err)
	}
	return nil
}

func wrapCount(notFound error, what string, n int) error {
	return errors.Wrapf(notFound, "%s: expected exactly one row, got %d", what, n)
}
