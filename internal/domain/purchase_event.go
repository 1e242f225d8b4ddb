package domain

import (
	"time"
)

// PurchaseStatus lifecycle state of a journaled purchase.
type PurchaseStatus string

const (
	PurchaseStatusPending PurchaseStatus = "pending"
	PurchaseStatusDone    PurchaseStatus = "done"
	PurchaseStatusFailed  PurchaseStatus = "failed"
)

// PurchaseEvent journal entry describing a purchase attempt.
type PurchaseEvent struct {
	IntentID      string         `json:"intent_id"`
	Status        PurchaseStatus `json:"status"`
	Timestamp     time.Time      `json:"ts"`
	SaleID        ID             `json:"sale_id"`
	Payer         string         `json:"payer,omitempty"`
	Receiver      string         `json:"receiver,omitempty"`
	Quantity      string         `json:"quantity,omitempty"`
	TokenContract string         `json:"token_contract,omitempty"`
	Median        string         `json:"intended_delphi_median,omitempty"`
	TransactionID string         `json:"transaction_id,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// NewPendingPurchaseEvent describes an intent about to be submitted.
func NewPendingPurchaseEvent(intent PurchaseIntent) PurchaseEvent {
	event := PurchaseEvent{
		IntentID:      intent.ID.String(),
		Status:        PurchaseStatusPending,
		Timestamp:     intent.CreatedAt,
		SaleID:        intent.Sale.ID,
		Payer:         intent.Payer.String(),
		Receiver:      intent.Receiver,
		TokenContract: intent.Sale.Price.TokenContract,
		Median:        intent.Sale.Price.IntendedOracleMedian,
	}
	if amount, err := intent.Sale.Price.TokenAmount(); err == nil {
		event.Quantity = amount.String()
	}
	return event
}

// PurchaseEventRecord bundles a purchase event with its journal index.
type PurchaseEventRecord struct {
	Index uint64
	Event PurchaseEvent
}
