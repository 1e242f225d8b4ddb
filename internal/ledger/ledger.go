// Package ledger declares the transport the buyer needs from the chain.
package ledger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vadiminshakov/atomicbuyer/internal/domain"
)

// DefaultExpiry how long an unconfirmed submission stays valid.
const DefaultExpiry = 30 * time.Second

// TableQuery get_table_rows parameters.
type TableQuery struct {
	Contract   string
	Scope      string
	Table      string
	LowerBound string
	UpperBound string
	// Limit zero leaves the node default.
	Limit uint32
	// IndexPosition secondary index number, empty for the primary key.
	IndexPosition string
	KeyType       string
	Reverse       bool
}

// TableQuerier reads rows from a contract table.
type TableQuerier interface {
	QueryTable(ctx context.Context, q TableQuery) ([]json.RawMessage, error)
}

// FinalityMode block a submission references for TaPoS.
type FinalityMode string

const (
	// FinalityLastIrreversible references the last irreversible block.
	FinalityLastIrreversible FinalityMode = "last_irreversible"
	// FinalityHead references the head block.
	FinalityHead FinalityMode = "head"
)

// SubmitOptions options of a single submission.
type SubmitOptions struct {
	Finality FinalityMode
	Expiry   time.Duration
}

// DefaultSubmitOptions options used for purchases.
func DefaultSubmitOptions() SubmitOptions {
	return SubmitOptions{Finality: FinalityLastIrreversible, Expiry: DefaultExpiry}
}

// SubmitResult outcome of an accepted submission.
type SubmitResult struct {
	TransactionID string
}

// Submitter applies all operations in one transaction or none of them.
type Submitter interface {
	Submit(ctx context.Context, ops []domain.Operation, opts SubmitOptions) (*SubmitResult, error)
}

// ExactlyOne returns the single row or notFound wrapped with what was looked up.
func ExactlyOne(rows []json.RawMessage, notFound error, what string) (json.RawMessage, error) {
	if len(rows) != 1 {
		return nil, wrapCount(notFound, what, len(rows))
	}
	return rows[0], nil
}
