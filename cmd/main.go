// Command atomicbuyer prices AtomicMarket sales and optionally buys them.
// It can be configured via a YAML configuration file or command-line arguments.
//
// Usage:
//
//	atomicbuyer --config config.yaml
//	atomicbuyer --payer mywallet1234 --sales 68987754 --buy
//
// Required environment variables (may be placed in a .env file):
//
//	BUYER_PRIVATE_KEY: WIF key of the payer permission, needed with --buy
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vadiminshakov/atomicbuyer/config"
	"github.com/vadiminshakov/atomicbuyer/internal"
	"github.com/vadiminshakov/atomicbuyer/internal/clients"
	"github.com/vadiminshakov/atomicbuyer/internal/storage/purchases"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}

	conf, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var keys []string
	if conf.Buy {
		key := os.Getenv("BUYER_PRIVATE_KEY")
		if key == "" {
			log.Fatal("BUYER_PRIVATE_KEY environment variable must be set to buy")
		}
		keys = append(keys, key)
	}

	client, err := clients.NewEosioClient(ctx, conf.RPCURL, logger, keys...)
	if err != nil {
		log.Fatal(err)
	}

	journal, err := purchases.NewWALStore(conf.WalDir)
	if err != nil {
		log.Fatal(err)
	}
	defer journal.Close()

	pending, err := journal.Pending()
	if err != nil {
		log.Fatal(err)
	}
	for _, p := range pending {
		logger.Warn("purchase outcome unknown, check the chain before buying again",
			zap.String("intent_id", p.IntentID),
			zap.String("sale_id", p.SaleID.String()))
	}

	buyer, err := internal.NewBuyer(conf, client, client, journal, logger)
	if err != nil {
		log.Fatal(err)
	}

	for _, saleID := range conf.Sales {
		if !conf.Buy {
			quote, err := buyer.Quote(ctx, saleID)
			if err != nil {
				logger.Error("failed to quote sale", zap.String("sale_id", saleID.String()), zap.Error(err))
				continue
			}
			amount, err := quote.Sale.Price.TokenAmount()
			if err != nil {
				logger.Error("invalid quote", zap.String("sale_id", saleID.String()), zap.Error(err))
				continue
			}
			logger.Info("sale quoted",
				zap.String("sale_id", saleID.String()),
				zap.String("listing_price", quote.Sale.RawListingPrice),
				zap.String("price", amount.String()),
				zap.String("token_contract", quote.Sale.Price.TokenContract),
				zap.String("intended_delphi_median", quote.Sale.Price.IntendedOracleMedian))
			continue
		}

		result, err := buyer.Buy(ctx, saleID, conf.Receiver)
		if err != nil {
			logger.Error("failed to buy sale", zap.String("sale_id", saleID.String()), zap.Error(err))
			continue
		}
		logger.Info("sale bought", zap.String("sale_id", saleID.String()), zap.String("tx_id", result.TransactionID))
	}
}
