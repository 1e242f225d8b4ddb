package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/atomicbuyer/internal/domain"
	"github.com/vadiminshakov/atomicbuyer/internal/ledger"
)

const (
	DefaultRPCURL        = "https://wax.greymass.com"
	DefaultMarketAccount = "atomicmarket"
	DefaultPermission    = "active"
	DefaultWalDir        = "./wal/purchases"
)

// DefaultAllowedSymbols settlement currencies paid when nothing else is configured.
var DefaultAllowedSymbols = []string{"WAX"}

type Config struct {
	RPCURL        string
	MarketAccount string
	// AllowedSymbols settlement symbol names the buyer is prepared to pay in.
	AllowedSymbols []string
	Payer          domain.Permission
	// Receiver account the purchased assets are forwarded to, the payer by default.
	Receiver string
	Finality ledger.FinalityMode
	Expiry   time.Duration
	WalDir   string
	Sales    []domain.ID
	// Buy submits purchases; without it sales are only quoted.
	Buy bool
}

// SubmitOptions returns the submission options of this config.
func (c Config) SubmitOptions() ledger.SubmitOptions {
	return ledger.SubmitOptions{Finality: c.Finality, Expiry: c.Expiry}
}

type ConfigTmp struct {
	RPCURL         string        `yaml:"rpc_url"`
	MarketAccount  string        `yaml:"market_account"`
	AllowedSymbols []string      `yaml:"allowed_symbols"`
	PayerActor     string        `yaml:"payer"`
	PayerPerm      string        `yaml:"payer_permission"`
	Receiver       string        `yaml:"receiver"`
	Finality       string        `yaml:"finality"`
	Expiry         time.Duration `yaml:"expiry"`
	WalDir         string        `yaml:"wal_dir"`
	Sales          []string      `yaml:"sales"`
	Buy            bool          `yaml:"buy"`
}

// Get reads the config from the yaml file given by --config or from CLI flags.
func Get() (Config, error) {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	path := fs.String("config", "", "path to yaml config")
	cli := registerFlags(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		return Config{}, err
	}

	if *path != "" {
		return Load(*path)
	}

	return cli.config()
}

// Load reads the yaml config at path.
func Load(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	return parseYaml(f)
}

func parseYaml(data []byte) (Config, error) {
	var c ConfigTmp
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}

	sales, err := parseSales(c.Sales)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'sales' param in yaml config, error: %w", err)
	}

	return normalize(Config{
		RPCURL:         c.RPCURL,
		MarketAccount:  c.MarketAccount,
		AllowedSymbols: c.AllowedSymbols,
		Payer:          domain.Permission{Actor: c.PayerActor, Permission: c.PayerPerm},
		Receiver:       c.Receiver,
		Finality:       ledger.FinalityMode(c.Finality),
		Expiry:         c.Expiry,
		WalDir:         c.WalDir,
		Sales:          sales,
		Buy:            c.Buy,
	})
}

// normalize applies defaults and validates the result.
func normalize(c Config) (Config, error) {
	if c.RPCURL == "" {
		c.RPCURL = DefaultRPCURL
	}
	if c.MarketAccount == "" {
		c.MarketAccount = DefaultMarketAccount
	}
	if len(c.AllowedSymbols) == 0 {
		c.AllowedSymbols = append([]string(nil), DefaultAllowedSymbols...)
	}
	if c.Payer.Permission == "" {
		c.Payer.Permission = DefaultPermission
	}
	if c.Receiver == "" {
		c.Receiver = c.Payer.Actor
	}
	if c.Finality == "" {
		c.Finality = ledger.FinalityLastIrreversible
	}
	if c.Expiry == 0 {
		c.Expiry = ledger.DefaultExpiry
	}
	if c.WalDir == "" {
		c.WalDir = DefaultWalDir
	}

	if c.Payer.Actor == "" {
		return Config{}, fmt.Errorf("payer account is required")
	}
	if c.Expiry < 0 {
		return Config{}, fmt.Errorf("expiry must be positive, got %s", c.Expiry)
	}
	switch c.Finality {
	case ledger.FinalityLastIrreversible, ledger.FinalityHead:
	default:
		return Config{}, fmt.Errorf("unknown finality %q", c.Finality)
	}
	for i, s := range c.AllowedSymbols {
		s = strings.TrimSpace(s)
		if s == "" {
			return Config{}, fmt.Errorf("empty allowed symbol at position %d", i)
		}
		c.AllowedSymbols[i] = s
	}

	return c, nil
}

func parseSales(raw []string) ([]domain.ID, error) {
	sales := make([]domain.ID, 0, len(raw))
	for _, s := range raw {
		id, err := domain.ParseID(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		sales = append(sales, id)
	}
	return sales, nil
}
