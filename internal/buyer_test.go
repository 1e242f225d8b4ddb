package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/atomicbuyer/config"
	"github.com/vadiminshakov/atomicbuyer/internal/domain"
	"github.com/vadiminshakov/atomicbuyer/internal/ledger"
	"github.com/vadiminshakov/atomicbuyer/internal/ledger/ledgertest"
	"github.com/vadiminshakov/atomicbuyer/internal/storage/purchases"
)

const (
	market = ledgertest.MarketAccount
	oracle = ledgertest.OracleAccount
)

func testBuyerConfig() config.Config {
	return config.Config{
		MarketAccount:  market,
		AllowedSymbols: []string{"WAX"},
		Payer:          domain.Permission{Actor: "buyerwallet1", Permission: "active"},
		Receiver:       "receiverwal1",
		Finality:       ledger.FinalityLastIrreversible,
		Expiry:         ledger.DefaultExpiry,
	}
}

func chainState() *ledgertest.Querier {
	return ledgertest.NewQuerier().
		Set(market, market, "config", "", ledgertest.ConfigRow()).
		Set(oracle, oracle, "pairs", "waxpusd", ledgertest.PairRow("waxpusd", "8,WAXP", "2,USD", 4)).
		Set(oracle, "waxpusd", "datapoints", "", ledgertest.DatapointRow(523)).
		Set(market, market, "sales", "7", ledgertest.SaleRow("7", []string{"1099511627776"}, "1.00 USD", "8,WAX")).
		Set(market, market, "sales", "8", ledgertest.SaleRow("8", []string{"1099511627777"}, "2.50000000 WAX", "8,WAX")).
		Set(market, market, "sales", "9", ledgertest.SaleRow("9", []string{"1099511627778"}, "1.0000 USDT", "4,USDT"))
}

func TestBuyer_QuoteConversion(t *testing.T) {
	q := chainState()
	buyer, err := NewBuyer(testBuyerConfig(), q, &ledgertest.Submitter{}, nil, zap.NewNop())
	require.NoError(t, err)

	quote, err := buyer.Quote(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, "1912045889", quote.Sale.Price.Amount)
	assert.Equal(t, "523", quote.Sale.Price.IntendedOracleMedian)
	assert.Equal(t, ledgertest.TokenContract, quote.Sale.Price.TokenContract)
	require.Len(t, quote.Pairs, 1)
	assert.Equal(t, uint8(4), quote.Pairs[0].MedianPrecision)
	assert.Equal(t, []string{"config", "pairs", "sales", "datapoints"}, q.Tables())
}

func TestBuyer_QuoteDirect(t *testing.T) {
	buyer, err := NewBuyer(testBuyerConfig(), chainState(), &ledgertest.Submitter{}, nil, nil)
	require.NoError(t, err)

	quote, err := buyer.Quote(context.Background(), 8)
	require.NoError(t, err)

	assert.Equal(t, "250000000", quote.Sale.Price.Amount)
	assert.Equal(t, domain.NoConversionMedian, quote.Sale.Price.IntendedOracleMedian)
}

func TestBuyer_QuoteUnsupportedSettlement(t *testing.T) {
	q := chainState()
	buyer, err := NewBuyer(testBuyerConfig(), q, &ledgertest.Submitter{}, nil, nil)
	require.NoError(t, err)

	_, err = buyer.Quote(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrUnsupportedSettlementSymbol)
	assert.NotContains(t, q.Tables(), "datapoints")
}

func TestBuyer_QuoteMissingConfig(t *testing.T) {
	buyer, err := NewBuyer(testBuyerConfig(), ledgertest.NewQuerier(), &ledgertest.Submitter{}, nil, nil)
	require.NoError(t, err)

	_, err = buyer.Quote(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestBuyer_Buy(t *testing.T) {
	submitter := &ledgertest.Submitter{TxID: "f00d"}
	journal, err := purchases.NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer journal.Close()

	buyer, err := NewBuyer(testBuyerConfig(), chainState(), submitter, journal, zap.NewNop())
	require.NoError(t, err)

	result, err := buyer.Buy(context.Background(), 7, "")
	require.NoError(t, err)
	assert.Equal(t, "f00d", result.TransactionID)

	submissions := submitter.Submissions()
	require.Len(t, submissions, 1)
	assert.Equal(t, ledger.DefaultSubmitOptions(), submissions[0].Opts)

	ops := submissions[0].Ops
	require.Len(t, ops, 4)
	assert.Equal(t, domain.TokenTransferData{
		From:     "buyerwallet1",
		To:       market,
		Quantity: "19.12045889 WAX",
		Memo:     "deposit",
	}, ops[1].Data)
	assert.Equal(t, domain.PurchaseSaleData{
		Buyer:                "buyerwallet1",
		SaleID:               7,
		IntendedDelphiMedian: "523",
		TakerMarketplace:     ".",
	}, ops[2].Data)
	deliver, ok := ops[3].Data.(domain.AssetTransferData)
	require.True(t, ok)
	assert.Equal(t, "receiverwal1", deliver.To)
	assert.Equal(t, ledgertest.AssetsAccount, ops[3].Contract)

	records, err := journal.Records(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.PurchaseStatusPending, records[0].Event.Status)
	assert.Equal(t, domain.PurchaseStatusDone, records[1].Event.Status)
	assert.Equal(t, "f00d", records[1].Event.TransactionID)
}

func TestBuyer_BuyQuoteFailureSubmitsNothing(t *testing.T) {
	submitter := &ledgertest.Submitter{TxID: "f00d"}
	buyer, err := NewBuyer(testBuyerConfig(), chainState(), submitter, nil, nil)
	require.NoError(t, err)

	_, err = buyer.Buy(context.Background(), 9, "someoneelse1")
	assert.Error(t, err)
	assert.Empty(t, submitter.Submissions())
}

func TestNewBuyer_Invalid(t *testing.T) {
	conf := testBuyerConfig()

	_, err := NewBuyer(conf, nil, &ledgertest.Submitter{}, nil, nil)
	assert.Error(t, err)

	_, err = NewBuyer(conf, ledgertest.NewQuerier(), nil, nil, nil)
	assert.Error(t, err)

	conf.AllowedSymbols = nil
	_, err = NewBuyer(conf, ledgertest.NewQuerier(), &ledgertest.Submitter{}, nil, nil)
	assert.Error(t, err)
}
