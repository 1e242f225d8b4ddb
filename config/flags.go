package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/vadiminshakov/atomicbuyer/internal/domain"
	"github.com/vadiminshakov/atomicbuyer/internal/ledger"
)

type cliFlags struct {
	rpcURL   *string
	market   *string
	allowed  *string
	payer    *string
	perm     *string
	receiver *string
	finality *string
	expiry   *time.Duration
	walDir   *string
	sales    *string
	buy      *bool
}

func registerFlags(fs *flag.FlagSet) *cliFlags {
	return &cliFlags{
		rpcURL:   fs.String("rpc", DefaultRPCURL, "chain API node url"),
		market:   fs.String("market", DefaultMarketAccount, "marketplace contract account"),
		allowed:  fs.String("allowed", strings.Join(DefaultAllowedSymbols, ","), "settlement symbols allowed to pay in, example: WAX,USDT"),
		payer:    fs.String("payer", "", "paying account"),
		perm:     fs.String("permission", DefaultPermission, "permission of the paying account"),
		receiver: fs.String("receiver", "", "account receiving the assets, the payer by default"),
		finality: fs.String("finality", string(ledger.FinalityLastIrreversible), "reference block: last_irreversible or head"),
		expiry:   fs.Duration("expiry", ledger.DefaultExpiry, "transaction expiry"),
		walDir:   fs.String("waldir", DefaultWalDir, "purchase journal directory"),
		sales:    fs.String("sales", "", "comma separated sale ids, example: 68987754,68987755"),
		buy:      fs.Bool("buy", false, "submit purchases instead of only quoting"),
	}
}

func (f *cliFlags) config() (Config, error) {
	var sales []domain.ID
	if *f.sales != "" {
		var err error
		sales, err = parseSales(strings.Split(*f.sales, ","))
		if err != nil {
			return Config{}, fmt.Errorf("invalid --sales provided, --sales=%s: %w", *f.sales, err)
		}
	}

	var allowed []string
	if *f.allowed != "" {
		allowed = strings.Split(*f.allowed, ",")
	}

	return normalize(Config{
		RPCURL:         *f.rpcURL,
		MarketAccount:  *f.market,
		AllowedSymbols: allowed,
		Payer:          domain.Permission{Actor: *f.payer, Permission: *f.perm},
		Receiver:       *f.receiver,
		Finality:       ledger.FinalityMode(*f.finality),
		Expiry:         *f.expiry,
		WalDir:         *f.walDir,
		Sales:          sales,
		Buy:            *f.buy,
	})
}
