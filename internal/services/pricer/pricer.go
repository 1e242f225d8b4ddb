// Package pricer resolves what a sale costs in its settlement token.
package pricer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/atomicbuyer/internal/domain"
	"github.com/vadiminshakov/atomicbuyer/internal/ledger"
)

const (
	salesTable           = "sales"
	exactMatchProbeLimit = 2
)

// MedianSource provides the latest oracle median of a pair.
type MedianSource interface {
	LatestMedian(ctx context.Context, oracleAccount, pairName string) (domain.ID, error)
}

// saleRow market sales table row.
type saleRow struct {
	SaleID           domain.ID       `json:"sale_id"`
	Seller           string          `json:"seller" validate:"required"`
	AssetIDs         []domain.ID     `json:"asset_ids" validate:"required,min=1"`
	OfferID          json.RawMessage `json:"offer_id"`
	ListingPrice     string          `json:"listing_price" validate:"required"`
	SettlementSymbol string          `json:"settlement_symbol" validate:"required"`
	MakerMarketplace json.RawMessage `json:"maker_marketplace"`
	CollectionName   json.RawMessage `json:"collection_name"`
	CollectionFee    json.RawMessage `json:"collection_fee"`
}

// SalePricer resolves sale prices in the settlement token.
type SalePricer struct {
	querier ledger.TableQuerier
	medians MedianSource
	market  string
	allowed map[string]struct{}
	logger  *zap.Logger
}

// NewSalePricer creates a SalePricer accepting only allowedSymbols as settlement currencies.
func NewSalePricer(querier ledger.TableQuerier, medians MedianSource, marketAccount string, allowedSymbols []string, logger *zap.Logger) (*SalePricer, error) {
	if querier == nil {
		return nil, errors.New("table querier is nil")
	}
	if medians == nil {
		return nil, errors.New("median source is nil")
	}
	if marketAccount == "" {
		return nil, errors.New("market account is empty")
	}
	if len(allowedSymbols) == 0 {
		return nil, errors.New("at least one allowed settlement symbol is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	allowed := make(map[string]struct{}, len(allowedSymbols))
	for _, s := range allowedSymbols {
		allowed[strings.TrimSpace(s)] = struct{}{}
	}

	return &SalePricer{
		querier: querier,
		medians: medians,
		market:  marketAccount,
		allowed: allowed,
		logger:  logger,
	}, nil
}

// ResolveSalePrice fetches the sale and computes its settlement price.
// The result is only valid briefly: it reads live state and the purchase
// must re-assert the sale snapshot.
func (p *SalePricer) ResolveSalePrice(ctx context.Context, cfg domain.MarketConfig, pairs []domain.EnrichedPair, saleID domain.ID) (domain.Sale, error) {
	sale, err := p.fetchSale(ctx, saleID)
	if err != nil {
		return domain.Sale{}, err
	}

	settlement := sale.SettlementSymbol
	if _, ok := p.allowed[settlement.Name]; !ok {
		return domain.Sale{}, errors.Wrapf(domain.ErrUnsupportedSettlementSymbol, "sale %s settles in %s", saleID, settlement.Name)
	}

	token, ok, err := cfg.FindToken(settlement.Name)
	if err != nil {
		return domain.Sale{}, errors.Wrap(err, "market supported tokens")
	}
	if !ok {
		return domain.Sale{}, errors.Wrapf(domain.ErrTokenNotConfigured, "sale %s settles in %s", saleID, settlement.Name)
	}

	sale.Price = domain.ResolvedPrice{
		TokenSymbol:          settlement.Name,
		TokenPrecision:       settlement.Precision,
		TokenContract:        token.Contract,
		Amount:               sale.ListingPrice.Scaled().String(),
		IntendedOracleMedian: domain.NoConversionMedian,
	}

	if sale.ListingPrice.Symbol == settlement.Name {
		if sale.ListingPrice.Precision != settlement.Precision {
			return domain.Sale{}, errors.Wrapf(domain.ErrFormat, "sale %s lists %s but settles in %s",
				saleID, sale.RawListingPrice, sale.RawSettlementSymbol)
		}

		p.logger.Info("sale price resolved",
			zap.String("sale_id", saleID.String()),
			zap.String("listing_price", sale.RawListingPrice),
			zap.String("amount", sale.Price.Amount),
			zap.String("token", settlement.Name))

		return sale, nil
	}

	pair, err := findPair(pairs, sale.ListingPrice.Symbol, settlement.Name)
	if err != nil {
		return domain.Sale{}, errors.Wrapf(err, "sale %s", saleID)
	}

	median, err := p.medians.LatestMedian(ctx, cfg.OracleAccount, pair.OraclePairName)
	if err != nil {
		return domain.Sale{}, errors.Wrapf(err, "sale %s", saleID)
	}

	converted, err := Convert(sale.ListingPrice.Scaled(), uint64(median), pair)
	if err != nil {
		return domain.Sale{}, errors.Wrapf(err, "sale %s", saleID)
	}

	sale.Price.Amount = converted.String()
	sale.Price.IntendedOracleMedian = median.String()

	if ref := floatReference(sale.ListingPrice.Scaled(), uint64(median), pair); ref != sale.Price.Amount {
		p.logger.Warn("exact conversion differs from float reference",
			zap.String("sale_id", saleID.String()),
			zap.String("exact", sale.Price.Amount),
			zap.String("float", ref))
	}

	p.logger.Info("sale price resolved",
		zap.String("sale_id", saleID.String()),
		zap.String("listing_price", sale.RawListingPrice),
		zap.String("pair", pair.OraclePairName),
		zap.String("median", sale.Price.IntendedOracleMedian),
		zap.String("amount", sale.Price.Amount),
		zap.String("token", settlement.Name))

	return sale, nil
}

func (p *SalePricer) fetchSale(ctx context.Context, saleID domain.ID) (domain.Sale, error) {
	id := saleID.String()
	rows, err := p.querier.QueryTable(ctx, ledger.TableQuery{
		Contract:   p.market,
		Scope:      p.market,
		Table:      salesTable,
		LowerBound: id,
		UpperBound: id,
		Limit:      exactMatchProbeLimit,
	})
	if err != nil {
		return domain.Sale{}, errors.Wrapf(err, "query sale %s", id)
	}

	raw, err := ledger.ExactlyOne(rows, domain.ErrSaleNotFound, "sale "+id)
	if err != nil {
		return domain.Sale{}, err
	}

	var row saleRow
	if err := ledger.DecodeRow(raw, &row); err != nil {
		return domain.Sale{}, errors.Wrapf(err, "decode sale %s", id)
	}
	if row.SaleID != saleID {
		return domain.Sale{}, errors.Wrapf(domain.ErrSaleNotFound, "market returned sale %s for %s", row.SaleID, id)
	}

	listing, err := domain.ParseAmount(row.ListingPrice)
	if err != nil {
		return domain.Sale{}, errors.Wrapf(err, "sale %s listing price", id)
	}
	settlement, err := domain.DecodeSymbol(row.SettlementSymbol)
	if err != nil {
		return domain.Sale{}, errors.Wrapf(err, "sale %s settlement symbol", id)
	}

	return domain.Sale{
		ID:                  row.SaleID,
		Seller:              row.Seller,
		AssetIDs:            row.AssetIDs,
		ListingPrice:        listing,
		RawListingPrice:     row.ListingPrice,
		SettlementSymbol:    settlement,
		RawSettlementSymbol: row.SettlementSymbol,
	}, nil
}

func findPair(pairs []domain.EnrichedPair, listingName, settlementName string) (domain.EnrichedPair, error) {
	for _, pair := range pairs {
		ok, err := pair.Matches(listingName, settlementName)
		if err != nil {
			return domain.EnrichedPair{}, errors.Wrapf(err, "oracle pair %s", pair.OraclePairName)
		}
		if ok {
			return pair, nil
		}
	}
	return domain.EnrichedPair{}, errors.Wrapf(domain.ErrPairNotSupported, "%s to %s", listingName, settlementName)
}
