// Package outcomes persists per-event outcomes in an append-only WAL so a
// run's accepted and rejected events can be audited afterwards. This is
// the optional side channel around the core: the engine produces outcome
// data, this store owns its encoding and file I/O.
package outcomes

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/gowal"

	"github.com/txproc/txproc/internal/domain"
)

const (
	DefaultDir       = "./wal/outcomes"
	segmentLimit     = 1000
	maxSegments      = 100
	outcomeKeyPrefix = "outcome_"
)

// Entry is the journalled form of one outcome.
type Entry struct {
	RunID   string          `json:"run_id"`
	Type    string          `json:"type"`
	Client  uint16          `json:"client"`
	Tx      uint32          `json:"tx"`
	Amount  decimal.Decimal `json:"amount"`
	Applied bool            `json:"applied"`
	Reason  string          `json:"reason,omitempty"`
}

// WALStore journals outcomes in a WAL, tagged with a per-run id.
type WALStore struct {
	wal   *gowal.Wal
	runID string
	mu    sync.Mutex
}

// NewWALStore initializes a WAL-backed outcome journal in dir.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "outcome_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init outcome WAL")
	}

	return &WALStore{wal: wal, runID: uuid.NewString()}, nil
}

// RunID returns the identifier tagged onto every entry saved by this store.
func (s *WALStore) RunID() string {
	return s.runID
}

// Save appends one outcome to the journal.
func (s *WALStore) Save(o domain.Outcome) error {
	if s == nil || s.wal == nil {
		return errors.New("outcome store is not initialized")
	}

	entry := Entry{
		RunID:   s.runID,
		Type:    string(o.Event.Type),
		Client:  o.Event.ClientID,
		Tx:      o.Event.TxID,
		Amount:  o.Event.Amount,
		Applied: o.Applied,
		Reason:  string(o.Reason),
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "marshal outcome entry")
	}

	key := fmt.Sprintf("%s%d", outcomeKeyPrefix, o.Event.TxID)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// All returns every journalled entry in write order.
func (s *WALStore) All() ([]Entry, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("outcome store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []Entry
	for m := range s.wal.Iterator() {
		if !strings.HasPrefix(m.Key, outcomeKeyPrefix) {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(m.Value, &entry); err != nil {
			return nil, errors.Wrap(err, "decode outcome entry")
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("outcome store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
