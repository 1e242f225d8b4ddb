package purchases

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/atomicbuyer/internal/domain"
)

func testIntent(saleID domain.ID) domain.PurchaseIntent {
	sale := domain.Sale{
		ID: saleID,
		Price: domain.ResolvedPrice{
			TokenSymbol:          "WAX",
			TokenPrecision:       8,
			TokenContract:        "eosio.token",
			Amount:               "1912045889",
			IntendedOracleMedian: "523",
		},
	}
	return domain.NewPurchaseIntent(domain.MarketConfig{}, sale, domain.Permission{Actor: "buyer", Permission: "active"}, "receiver")
}

func TestWALStore_RoundTrip(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, store.Close())
	}()

	intent := testIntent(7)
	require.NoError(t, store.SaveIntent(intent))
	require.NoError(t, store.SaveOutcome(intent, "abc123", nil))

	records, err := store.Records(0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	pending := records[0].Event
	assert.Equal(t, uint64(1), records[0].Index)
	assert.Equal(t, intent.ID.String(), pending.IntentID)
	assert.Equal(t, domain.PurchaseStatusPending, pending.Status)
	assert.Equal(t, domain.ID(7), pending.SaleID)
	assert.Equal(t, "buyer@active", pending.Payer)
	assert.Equal(t, "receiver", pending.Receiver)
	assert.Equal(t, "19.12045889 WAX", pending.Quantity)
	assert.Equal(t, "523", pending.Median)
	assert.True(t, intent.CreatedAt.Equal(pending.Timestamp))

	done := records[1].Event
	assert.Equal(t, uint64(2), records[1].Index)
	assert.Equal(t, domain.PurchaseStatusDone, done.Status)
	assert.Equal(t, "abc123", done.TransactionID)
	assert.Empty(t, done.Error)

	assert.Equal(t, uint64(2), store.CurrentIndex())
}

func TestWALStore_FailedOutcome(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	fixed := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	intent := testIntent(9)
	require.NoError(t, store.SaveIntent(intent))
	require.NoError(t, store.SaveOutcome(intent, "", errors.New("assertion failure")))

	records, err := store.Records(1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.PurchaseStatusFailed, records[0].Event.Status)
	assert.Equal(t, "assertion failure", records[0].Event.Error)
	assert.Empty(t, records[0].Event.TransactionID)
	assert.True(t, fixed.Equal(records[0].Event.Timestamp))
}

func TestWALStore_Pending(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	settled := testIntent(1)
	unknown := testIntent(2)
	require.NoError(t, store.SaveIntent(settled))
	require.NoError(t, store.SaveIntent(unknown))
	require.NoError(t, store.SaveOutcome(settled, "tx1", nil))

	pending, err := store.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, unknown.ID.String(), pending[0].IntentID)
}

func TestWALStore_Reload(t *testing.T) {
	dir := t.TempDir()

	store, err := NewWALStore(dir)
	require.NoError(t, err)
	intent := testIntent(3)
	require.NoError(t, store.SaveIntent(intent))
	require.NoError(t, store.Close())

	store, err = NewWALStore(dir)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveOutcome(intent, "tx3", nil))

	records, err := store.Records(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.PurchaseStatusPending, records[0].Event.Status)
	assert.Equal(t, domain.PurchaseStatusDone, records[1].Event.Status)
}

func TestWALStore_Empty(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	records, err := store.Records(0)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, uint64(0), store.CurrentIndex())
}

func TestWALStore_NotInitialized(t *testing.T) {
	var store *WALStore

	assert.Error(t, store.SaveIntent(testIntent(1)))
	_, err := store.Records(0)
	assert.Error(t, err)
	assert.Equal(t, uint64(0), store.CurrentIndex())
	assert.Error(t, store.Close())
}
