package internal

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/atomicbuyer/config"
	"github.com/vadiminshakov/atomicbuyer/internal/domain"
	"github.com/vadiminshakov/atomicbuyer/internal/ledger"
	"github.com/vadiminshakov/atomicbuyer/internal/services/market"
	"github.com/vadiminshakov/atomicbuyer/internal/services/oracle"
	"github.com/vadiminshakov/atomicbuyer/internal/services/pricer"
	"github.com/vadiminshakov/atomicbuyer/internal/services/purchase"
)

// Quote priced sale together with the market state it was priced against.
type Quote struct {
	Config domain.MarketConfig
	Pairs  []domain.EnrichedPair
	Sale   domain.Sale
}

// Buyer prices and purchases marketplace sales for one paying account.
type Buyer struct {
	Config config.Config

	configs   *market.ConfigReader
	pairs     *oracle.PairResolver
	pricer    *pricer.SalePricer
	purchaser *purchase.Purchaser
	logger    *zap.Logger
}

// NewBuyer wires the readers and the purchaser. journal may be nil.
func NewBuyer(conf config.Config, querier ledger.TableQuerier, submitter ledger.Submitter, journal purchase.Journal, logger *zap.Logger) (*Buyer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("market", conf.MarketAccount), zap.String("payer", conf.Payer.String()))

	configs, err := market.NewConfigReader(querier, conf.MarketAccount, logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create config reader")
	}

	pairs, err := oracle.NewPairResolver(querier, logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create pair resolver")
	}

	salePricer, err := pricer.NewSalePricer(querier, pairs, conf.MarketAccount, conf.AllowedSymbols, logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create sale pricer")
	}

	purchaser, err := purchase.NewPurchaser(submitter, journal, conf.MarketAccount, logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create purchaser")
	}
	purchaser.WithSubmitOptions(conf.SubmitOptions())

	return &Buyer{
		Config:    conf,
		configs:   configs,
		pairs:     pairs,
		pricer:    salePricer,
		purchaser: purchaser,
		logger:    logger,
	}, nil
}

// Quote reads the market config and oracle pairs and prices the sale.
func (b *Buyer) Quote(ctx context.Context, saleID domain.ID) (Quote, error) {
	cfg, err := b.configs.FetchConfig(ctx)
	if err != nil {
		return Quote{}, errors.Wrap(err, "fetch market config")
	}

	pairs, err := b.pairs.ResolvePairs(ctx, cfg)
	if err != nil {
		return Quote{}, errors.Wrap(err, "resolve oracle pairs")
	}

	sale, err := b.pricer.ResolveSalePrice(ctx, cfg, pairs, saleID)
	if err != nil {
		return Quote{}, errors.Wrap(err, "resolve sale price")
	}

	return Quote{Config: cfg, Pairs: pairs, Sale: sale}, nil
}

// Buy quotes the sale and submits its purchase, forwarding the assets to receiver.
// An empty receiver falls back to the configured one.
func (b *Buyer) Buy(ctx context.Context, saleID domain.ID, receiver string) (*ledger.SubmitResult, error) {
	if receiver == "" {
		receiver = b.Config.Receiver
	}

	quote, err := b.Quote(ctx, saleID)
	if err != nil {
		return nil, err
	}

	intent := domain.NewPurchaseIntent(quote.Config, quote.Sale, b.Config.Payer, receiver)
	b.logger.Info("buying sale",
		zap.String("intent_id", intent.ID.String()),
		zap.String("sale_id", saleID.String()),
		zap.String("amount", quote.Sale.Price.Amount),
		zap.String("token", quote.Sale.Price.TokenSymbol))

	return b.purchaser.Purchase(ctx, intent)
}
