// Package market reads the marketplace contract state.
package market

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/atomicbuyer/internal/domain"
	"github.com/vadiminshakov/atomicbuyer/internal/ledger"
)

const (
	configTable = "config"
	// singletonProbeLimit is enough rows to notice a duplicated singleton.
	singletonProbeLimit = 2
)

// ConfigReader fetches the marketplace config singleton.
type ConfigReader struct {
	querier ledger.TableQuerier
	account string
	logger  *zap.Logger
}

// NewConfigReader creates a reader for the market contract account.
func NewConfigReader(querier ledger.TableQuerier, account string, logger *zap.Logger) (*ConfigReader, error) {
	if querier == nil {
		return nil, errors.New("table querier is nil")
	}
	if account == "" {
		return nil, errors.New("market account is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ConfigReader{querier: querier, account: account, logger: logger}, nil
}

// Account returns the market contract account.
func (r *ConfigReader) Account() string {
	return r.account
}

// FetchConfig issues one query for the config table and requires exactly one row.
func (r *ConfigReader) FetchConfig(ctx context.Context) (domain.MarketConfig, error) {
	rows, err := r.querier.QueryTable(ctx, ledger.TableQuery{
		Contract: r.account,
		Scope:    r.account,
		Table:    configTable,
		Limit:    singletonProbeLimit,
	})
	if err != nil {
		return domain.MarketConfig{}, errors.Wrap(err, "query market config")
	}

	row, err := ledger.ExactlyOne(rows, domain.ErrConfigNotFound, r.account+" config")
	if err != nil {
		return domain.MarketConfig{}, err
	}

	var cfg domain.MarketConfig
	if err := ledger.DecodeRow(row, &cfg); err != nil {
		return domain.MarketConfig{}, errors.Wrap(err, "decode market config")
	}

	r.logger.Debug("market config fetched",
		zap.String("market", r.account),
		zap.String("version", cfg.Version),
		zap.Int("supported_tokens", len(cfg.SupportedTokens)),
		zap.Int("supported_pairs", len(cfg.SupportedPairs)))

	return cfg, nil
}
