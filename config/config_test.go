package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/atomicbuyer/internal/domain"
	"github.com/vadiminshakov/atomicbuyer/internal/ledger"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rpc_url: https://wax.example.com
market_account: atomicmarket
allowed_symbols: [WAX, " USDT "]
payer: buyerwallet1
payer_permission: owner
receiver: receiverwal1
finality: head
expiry: 45s
wal_dir: /tmp/purchases
sales: ["68987754", "7"]
buy: true
`), 0o644))

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Config{
		RPCURL:         "https://wax.example.com",
		MarketAccount:  "atomicmarket",
		AllowedSymbols: []string{"WAX", "USDT"},
		Payer:          domain.Permission{Actor: "buyerwallet1", Permission: "owner"},
		Receiver:       "receiverwal1",
		Finality:       ledger.FinalityHead,
		Expiry:         45 * time.Second,
		WalDir:         "/tmp/purchases",
		Sales:          []domain.ID{68987754, 7},
		Buy:            true,
	}, conf)
	assert.Equal(t, ledger.SubmitOptions{Finality: ledger.FinalityHead, Expiry: 45 * time.Second}, conf.SubmitOptions())
}

func TestParseYaml_Defaults(t *testing.T) {
	conf, err := parseYaml([]byte("payer: buyerwallet1\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultRPCURL, conf.RPCURL)
	assert.Equal(t, DefaultMarketAccount, conf.MarketAccount)
	assert.Equal(t, []string{"WAX"}, conf.AllowedSymbols)
	assert.Equal(t, domain.Permission{Actor: "buyerwallet1", Permission: "active"}, conf.Payer)
	assert.Equal(t, "buyerwallet1", conf.Receiver)
	assert.Equal(t, ledger.DefaultSubmitOptions(), conf.SubmitOptions())
	assert.Equal(t, DefaultWalDir, conf.WalDir)
	assert.Empty(t, conf.Sales)
	assert.False(t, conf.Buy)
}

func TestParseYaml_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "no payer", yaml: "market_account: atomicmarket\n"},
		{name: "bad sale id", yaml: "payer: a\nsales: [\"-1\"]\n"},
		{name: "unknown finality", yaml: "payer: a\nfinality: soft\n"},
		{name: "negative expiry", yaml: "payer: a\nexpiry: -1s\n"},
		{name: "empty symbol", yaml: "payer: a\nallowed_symbols: [WAX, \"\"]\n"},
		{name: "not yaml", yaml: "payer: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseYaml([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestCLIFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cli := registerFlags(fs)
	require.NoError(t, fs.Parse([]string{"-payer", "buyerwallet1", "-sales", "1,2", "-allowed", "WAX,USDT", "-buy"}))

	conf, err := cli.config()
	require.NoError(t, err)

	assert.Equal(t, "buyerwallet1", conf.Payer.Actor)
	assert.Equal(t, "active", conf.Payer.Permission)
	assert.Equal(t, "buyerwallet1", conf.Receiver)
	assert.Equal(t, []domain.ID{1, 2}, conf.Sales)
	assert.Equal(t, []string{"WAX", "USDT"}, conf.AllowedSymbols)
	assert.Equal(t, ledger.DefaultExpiry, conf.Expiry)
	assert.True(t, conf.Buy)
}

func TestCLIFlags_InvalidSales(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cli := registerFlags(fs)
	require.NoError(t, fs.Parse([]string{"-payer", "buyerwallet1", "-sales", "1,x"}))

	_, err := cli.config()
	assert.Error(t, err)
}
