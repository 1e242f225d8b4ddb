// Package oracle reads pair metadata and datapoints published by the price oracle.
package oracle

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/atomicbuyer/internal/domain"
	"github.com/vadiminshakov/atomicbuyer/internal/ledger"
)

const (
	pairsTable      = "pairs"
	datapointsTable = "datapoints"

	// datapoints secondary index ordered by timestamp
	datapointsTimeIndex = "3"
	datapointsKeyType   = "i64"

	exactMatchProbeLimit = 2
)

// pairRow oracle pairs table row. Only the fields we consume are typed.
type pairRow struct {
	Active                   json.RawMessage `json:"active"`
	BountyAwarded            json.RawMessage `json:"bounty_awarded"`
	BountyEditedByCustodians json.RawMessage `json:"bounty_edited_by_custodians"`
	Proposer                 json.RawMessage `json:"proposer"`
	Name                     string          `json:"name" validate:"required"`
	BountyAmount             json.RawMessage `json:"bounty_amount"`
	ApprovingCustodians      json.RawMessage `json:"approving_custodians"`
	ApprovingOracles         json.RawMessage `json:"approving_oracles"`
	BaseSymbol               string          `json:"base_symbol" validate:"required"`
	BaseType                 json.RawMessage `json:"base_type"`
	BaseContract             json.RawMessage `json:"base_contract"`
	QuoteSymbol              string          `json:"quote_symbol" validate:"required"`
	QuoteType                json.RawMessage `json:"quote_type"`
	QuoteContract            json.RawMessage `json:"quote_contract"`
	QuotedPrecision          uint8           `json:"quoted_precision" validate:"lte=18"`
}

// datapointRow oracle datapoints table row.
type datapointRow struct {
	ID        json.RawMessage `json:"id"`
	Owner     json.RawMessage `json:"owner"`
	Value     json.RawMessage `json:"value"`
	Median    domain.ID       `json:"median"`
	Timestamp json.RawMessage `json:"timestamp"`
}

// PairResolver resolves configured conversion pairs against oracle metadata.
type PairResolver struct {
	querier ledger.TableQuerier
	logger  *zap.Logger
}

// NewPairResolver creates a PairResolver.
func NewPairResolver(querier ledger.TableQuerier, logger *zap.Logger) (*PairResolver, error) {
	if querier == nil {
		return nil, errors.New("table querier is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PairResolver{querier: querier, logger: logger}, nil
}

// ResolvePairs enriches every configured pair with the oracle's precisions.
// One query per pair, issued in configuration order.
func (r *PairResolver) ResolvePairs(ctx context.Context, cfg domain.MarketConfig) ([]domain.EnrichedPair, error) {
	result := make([]domain.EnrichedPair, 0, len(cfg.SupportedPairs))

	for _, spec := range cfg.SupportedPairs {
		pair, err := r.resolvePair(ctx, cfg.OracleAccount, spec)
		if err != nil {
			return nil, err
		}
		result = append(result, pair)
	}

	return result, nil
}

func (r *PairResolver) resolvePair(ctx context.Context, oracleAccount string, spec domain.PairSpec) (domain.EnrichedPair, error) {
	rows, err := r.querier.QueryTable(ctx, ledger.TableQuery{
		Contract:   oracleAccount,
		Scope:      oracleAccount,
		Table:      pairsTable,
		LowerBound: spec.OraclePairName,
		UpperBound: spec.OraclePairName,
		Limit:      exactMatchProbeLimit,
	})
	if err != nil {
		return domain.EnrichedPair{}, errors.Wrapf(err, "query oracle pair %s", spec.OraclePairName)
	}

	raw, err := ledger.ExactlyOne(rows, domain.ErrPairNotFound, "oracle pair "+spec.OraclePairName)
	if err != nil {
		return domain.EnrichedPair{}, err
	}

	var row pairRow
	if err := ledger.DecodeRow(raw, &row); err != nil {
		return domain.EnrichedPair{}, errors.Wrapf(err, "decode oracle pair %s", spec.OraclePairName)
	}
	if row.Name != spec.OraclePairName {
		return domain.EnrichedPair{}, errors.Wrapf(domain.ErrPairNotFound, "oracle returned pair %s for %s", row.Name, spec.OraclePairName)
	}

	base, err := domain.DecodeSymbol(row.BaseSymbol)
	if err != nil {
		return domain.EnrichedPair{}, errors.Wrapf(err, "oracle pair %s base symbol", spec.OraclePairName)
	}
	quote, err := domain.DecodeSymbol(row.QuoteSymbol)
	if err != nil {
		return domain.EnrichedPair{}, errors.Wrapf(err, "oracle pair %s quote symbol", spec.OraclePairName)
	}

	r.logger.Debug("oracle pair resolved",
		zap.String("pair", spec.OraclePairName),
		zap.Uint8("median_precision", row.QuotedPrecision),
		zap.Uint8("base_precision", base.Precision),
		zap.Uint8("quote_precision", quote.Precision))

	return domain.EnrichedPair{
		PairSpec:        spec,
		MedianPrecision: row.QuotedPrecision,
		BasePrecision:   base.Precision,
		QuotePrecision:  quote.Precision,
	}, nil
}

// LatestMedian returns the median of the most recent datapoint published for pairName.
func (r *PairResolver) LatestMedian(ctx context.Context, oracleAccount, pairName string) (domain.ID, error) {
	rows, err := r.querier.QueryTable(ctx, ledger.TableQuery{
		Contract:      oracleAccount,
		Scope:         pairName,
		Table:         datapointsTable,
		Limit:         1,
		IndexPosition: datapointsTimeIndex,
		KeyType:       datapointsKeyType,
		Reverse:       true,
	})
	if err != nil {
		return 0, errors.Wrapf(err, "query oracle datapoints %s", pairName)
	}

	raw, err := ledger.ExactlyOne(rows, domain.ErrNoDatapoint, "oracle datapoint "+pairName)
	if err != nil {
		return 0, err
	}

	var row datapointRow
	if err := ledger.DecodeRow(raw, &row); err != nil {
		return 0, errors.Wrapf(err, "decode oracle datapoint %s", pairName)
	}

	r.logger.Debug("oracle median fetched", zap.String("pair", pairName), zap.Uint64("median", uint64(row.Median)))

	return row.Median, nil
}
