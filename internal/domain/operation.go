package domain

import "fmt"

// OperationKind role of an operation inside a purchase submission.
type OperationKind string

const (
	// OperationAssert re-validates the sale snapshot.
	OperationAssert OperationKind = "assert"
	// OperationDeposit pays the settlement amount into the market.
	OperationDeposit OperationKind = "deposit"
	// OperationPurchase claims the sale.
	OperationPurchase OperationKind = "purchase"
	// OperationDeliver forwards the assets to the receiver.
	OperationDeliver OperationKind = "deliver"
)

// String returns the string representation.
func (k OperationKind) String() string {
	return string(k)
}

// Permission ledger authorization level.
type Permission struct {
	Actor      string `json:"actor"`
	Permission string `json:"permission"`
}

// String returns actor@permission.
func (p Permission) String() string {
	return fmt.Sprintf("%s@%s", p.Actor, p.Permission)
}

// Operation single contract action of a submission.
type Operation struct {
	Kind          OperationKind
	Contract      string
	Name          string
	Authorization []Permission
	// Data one of AssertSaleData, TokenTransferData, PurchaseSaleData, AssetTransferData.
	Data any
}

// AssertSaleData arguments of the market assertsale action.
type AssertSaleData struct {
	SaleID           ID     `json:"sale_id"`
	AssetIDs         []ID   `json:"asset_ids_to_assert"`
	ListingPrice     string `json:"listing_price_to_assert"`
	SettlementSymbol string `json:"settlement_symbol_to_assert"`
}

// TokenTransferData arguments of a fungible token transfer.
type TokenTransferData struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Quantity string `json:"quantity"`
	Memo     string `json:"memo"`
}

// PurchaseSaleData arguments of the market purchasesale action.
type PurchaseSaleData struct {
	Buyer                string `json:"buyer"`
	SaleID               ID     `json:"sale_id"`
	IntendedDelphiMedian string `json:"intended_delphi_median"`
	TakerMarketplace     string `json:"taker_marketplace"`
}

// AssetTransferData arguments of the asset registry transfer action.
type AssetTransferData struct {
	From     string `json:"from"`
	To       string `json:"to"`
	AssetIDs []ID   `json:"asset_ids"`
	Memo     string `json:"memo"`
}
