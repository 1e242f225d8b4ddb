package purchase

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/atomicbuyer/internal/domain"
	"github.com/vadiminshakov/atomicbuyer/internal/ledger"
)

// Journal records purchase intents and outcomes.
type Journal interface {
	SaveIntent(intent domain.PurchaseIntent) error
	SaveOutcome(intent domain.PurchaseIntent, txID string, submitErr error) error
}

// Purchaser submits composed purchases as a single transaction.
type Purchaser struct {
	submitter ledger.Submitter
	journal   Journal
	market    string
	opts      ledger.SubmitOptions
	logger    *zap.Logger
}

// NewPurchaser creates a Purchaser. journal may be nil.
func NewPurchaser(submitter ledger.Submitter, journal Journal, marketAccount string, logger *zap.Logger) (*Purchaser, error) {
	if submitter == nil {
		return nil, errors.New("submitter is nil")
	}
	if marketAccount == "" {
		return nil, errors.New("market account is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Purchaser{
		submitter: submitter,
		journal:   journal,
		market:    marketAccount,
		opts:      ledger.DefaultSubmitOptions(),
		logger:    logger,
	}, nil
}

// WithSubmitOptions overrides the non-zero fields of the submission options.
func (p *Purchaser) WithSubmitOptions(opts ledger.SubmitOptions) *Purchaser {
	if opts.Expiry > 0 {
		p.opts.Expiry = opts.Expiry
	}
	if opts.Finality != "" {
		p.opts.Finality = opts.Finality
	}
	return p
}

// Purchase composes the intent into operations and submits them exactly once.
// The journal sees the intent before submission and the outcome after it.
func (p *Purchaser) Purchase(ctx context.Context, intent domain.PurchaseIntent) (*ledger.SubmitResult, error) {
	ops, err := ComposePurchase(intent.Config, p.market, intent.Sale, intent.Payer, intent.Receiver)
	if err != nil {
		return nil, errors.Wrap(err, "compose purchase")
	}

	if p.journal != nil {
		if err := p.journal.SaveIntent(intent); err != nil {
			return nil, errors.Wrap(err, "journal purchase intent")
		}
	}

	p.logger.Info("submitting purchase",
		zap.String("intent_id", intent.ID.String()),
		zap.String("sale_id", intent.Sale.ID.String()),
		zap.String("payer", intent.Payer.String()),
		zap.String("receiver", intent.Receiver),
		zap.String("median", intent.Sale.Price.IntendedOracleMedian),
		zap.Duration("expiry", p.opts.Expiry))

	result, submitErr := p.submitter.Submit(ctx, ops, p.opts)

	txID := ""
	if submitErr == nil && result != nil {
		txID = result.TransactionID
	}
	if p.journal != nil {
		if err := p.journal.SaveOutcome(intent, txID, submitErr); err != nil {
			p.logger.Error("failed to journal purchase outcome",
				zap.String("intent_id", intent.ID.String()),
				zap.Error(err))
		}
	}

	if submitErr != nil {
		p.logger.Warn("purchase submission failed",
			zap.String("intent_id", intent.ID.String()),
			zap.String("sale_id", intent.Sale.ID.String()),
			zap.Error(submitErr))
		return nil, errors.Wrapf(submitErr, "submit purchase of sale %s", intent.Sale.ID)
	}
	if result == nil {
		return nil, errors.Errorf("submit purchase of sale %s: empty result", intent.Sale.ID)
	}

	p.logger.Info("purchase submitted",
		zap.String("intent_id", intent.ID.String()),
		zap.String("sale_id", intent.Sale.ID.String()),
		zap.String("tx_id", result.TransactionID))

	return result, nil
}
