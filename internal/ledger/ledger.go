// Package ledger owns the in-memory account and transaction-history state
// mutated by the engine. The store is not internally synchronized: the
// engine applies events strictly one at a time, and a sharded run gives
// every shard a private store.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/txproc/txproc/internal/domain"
)

// Ledger maps client ids to accounts and transaction ids to the deposit
// records needed for dispute resolution.
type Ledger struct {
	accounts map[uint16]*domain.Account
	// order keeps first-seen client order so Snapshot is insertion-ordered.
	order   []uint16
	records map[uint32]*domain.Record
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		accounts: make(map[uint16]*domain.Account),
		records:  make(map[uint32]*domain.Record),
	}
}

// GetOrCreate returns the account for the client, inserting a zeroed,
// unlocked account on first reference. Idempotent.
func (l *Ledger) GetOrCreate(clientID uint16) *domain.Account {
	if acct, ok := l.accounts[clientID]; ok {
		return acct
	}
	acct := domain.NewAccount(clientID)
	l.accounts[clientID] = acct
	l.order = append(l.order, clientID)
	return acct
}

// RecordDeposit stores the history of a successful deposit in state Normal.
// A transaction id is unique across the whole input stream: reusing one is
// domain.ErrDuplicateTx and the existing record is left untouched.
func (l *Ledger) RecordDeposit(txID uint32, clientID uint16, amount decimal.Decimal) error {
	if _, ok := l.records[txID]; ok {
		return domain.ErrDuplicateTx
	}
	l.records[txID] = &domain.Record{
		TxID:     txID,
		ClientID: clientID,
		Amount:   amount,
		State:    domain.StateNormal,
	}
	return nil
}

// FindDisputable looks up the deposit record for a dispute, resolve or
// chargeback. Lookup only, never creates.
func (l *Ledger) FindDisputable(txID uint32) (*domain.Record, bool) {
	rec, ok := l.records[txID]
	return rec, ok
}

// Snapshot returns the final view of every account touched during the run,
// in first-seen order.
func (l *Ledger) Snapshot() []domain.AccountSnapshot {
	snaps := make([]domain.AccountSnapshot, 0, len(l.order))
	for _, clientID := range l.order {
		snaps = append(snaps, l.accounts[clientID].Snapshot())
	}
	return snaps
}
