// Package purchase builds and submits atomic sale purchases.
package purchase

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/atomicbuyer/internal/domain"
)

const (
	transferAction     = "transfer"
	assertSaleAction   = "assertsale"
	purchaseSaleAction = "purchasesale"

	depositMemo = "deposit"
	// noTakerMarketplace empty marketplace name on the ledger.
	noTakerMarketplace = "."
)

// DeliveryMemo memo of the asset transfer forwarding a purchased sale.
func DeliveryMemo(saleID domain.ID) string {
	return fmt.Sprintf("AtomicMarket Purchased Sale - ID # %s", saleID)
}

// ComposePurchase builds the four operations buying sale on market and
// forwarding its assets to receiver. The operations must be submitted together:
// assert, deposit, purchase, deliver.
func ComposePurchase(cfg domain.MarketConfig, market string, sale domain.Sale, payer domain.Permission, receiver string) ([]domain.Operation, error) {
	if market == "" {
		return nil, errors.New("market account is empty")
	}
	if payer.Actor == "" || payer.Permission == "" {
		return nil, errors.Errorf("invalid payer permission %q", payer.String())
	}
	if receiver == "" {
		return nil, errors.New("receiver is empty")
	}
	if sale.Price.TokenContract == "" {
		return nil, errors.Errorf("sale %s has no resolved price", sale.ID)
	}

	price, err := sale.Price.TokenAmount()
	if err != nil {
		return nil, errors.Wrapf(err, "sale %s price", sale.ID)
	}

	auth := []domain.Permission{payer}

	return []domain.Operation{
		{
			Kind:          domain.OperationAssert,
			Contract:      market,
			Name:          assertSaleAction,
			Authorization: auth,
			Data: domain.AssertSaleData{
				SaleID:           sale.ID,
				AssetIDs:         sale.AssetIDs,
				ListingPrice:     sale.RawListingPrice,
				SettlementSymbol: sale.RawSettlementSymbol,
			},
		},
		{
			Kind:          domain.OperationDeposit,
			Contract:      sale.Price.TokenContract,
			Name:          transferAction,
			Authorization: auth,
			Data: domain.TokenTransferData{
				From:     payer.Actor,
				To:       market,
				Quantity: price.String(),
				Memo:     depositMemo,
			},
		},
		{
			Kind:          domain.OperationPurchase,
			Contract:      market,
			Name:          purchaseSaleAction,
			Authorization: auth,
			Data: domain.PurchaseSaleData{
				Buyer:                payer.Actor,
				SaleID:               sale.ID,
				IntendedDelphiMedian: sale.Price.IntendedOracleMedian,
				TakerMarketplace:     noTakerMarketplace,
			},
		},
		{
			Kind:          domain.OperationDeliver,
			Contract:      cfg.AssetRegistryAccount,
			Name:          transferAction,
			Authorization: auth,
			Data: domain.AssetTransferData{
				From:     payer.Actor,
				To:       receiver,
				AssetIDs: sale.AssetIDs,
				Memo:     DeliveryMemo(sale.ID),
			},
		},
	}, nil
}
