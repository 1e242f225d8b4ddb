package purchases

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/vadiminshakov/atomicbuyer/internal/domain"
)

const (
	DefaultDir   = "./wal/purchases"
	segmentLimit = 100
	maxSegments  = 10

	purchaseKeyPrefix = "purchase_"
)

// WALStore journals purchase intents and their outcomes in a WAL.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
	now func() time.Time
}

// NewWALStore initializes a WAL-backed purchase journal.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "purchase_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init purchase WAL")
	}

	return &WALStore{wal: wal, now: func() time.Time { return time.Now().UTC() }}, nil
}

// SaveIntent records the intent as pending before it is submitted.
func (s *WALStore) SaveIntent(intent domain.PurchaseIntent) error {
	return s.save(domain.NewPendingPurchaseEvent(intent))
}

// SaveOutcome records the submission result of an intent.
// A nil submitErr marks the purchase done with txID.
func (s *WALStore) SaveOutcome(intent domain.PurchaseIntent, txID string, submitErr error) error {
	if s == nil || s.wal == nil {
		return errors.New("purchase store is not initialized")
	}

	event := domain.NewPendingPurchaseEvent(intent)
	event.Timestamp = s.now()
	if submitErr != nil {
		event.Status = domain.PurchaseStatusFailed
		event.Error = submitErr.Error()
	} else {
		event.Status = domain.PurchaseStatusDone
		event.TransactionID = txID
	}

	return s.save(event)
}

func (s *WALStore) save(event domain.PurchaseEvent) error {
	if s == nil || s.wal == nil {
		return errors.New("purchase store is not initialized")
	}
	if event.IntentID == "" {
		return fmt.Errorf("purchase event intent id is required")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal purchase event")
	}

	key := fmt.Sprintf("%s%s", purchaseKeyPrefix, event.IntentID)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// Records returns all purchase events written after the provided WAL index.
func (s *WALStore) Records(index uint64) ([]domain.PurchaseEventRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("purchase store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.PurchaseEventRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil {
			continue
		}
		if !strings.HasPrefix(key, purchaseKeyPrefix) {
			continue
		}

		var event domain.PurchaseEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "decode purchase event")
		}
		records = append(records, domain.PurchaseEventRecord{Index: idx, Event: event})
	}

	return records, nil
}

// Pending returns intents whose latest journaled status is still pending,
// i.e. submissions whose outcome is unknown.
func (s *WALStore) Pending() ([]domain.PurchaseEvent, error) {
	records, err := s.Records(0)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]domain.PurchaseEvent)
	order := make([]string, 0)
	for _, r := range records {
		if _, seen := latest[r.Event.IntentID]; !seen {
			order = append(order, r.Event.IntentID)
		}
		latest[r.Event.IntentID] = r.Event
	}

	pending := make([]domain.PurchaseEvent, 0)
	for _, id := range order {
		if latest[id].Status == domain.PurchaseStatusPending {
			pending = append(pending, latest[id])
		}
	}
	return pending, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("purchase store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
