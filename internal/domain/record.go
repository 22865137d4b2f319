package domain

import (
	"github.com/shopspring/decimal"
)

// DisputeState is the lifecycle state of a disputable transaction record.
type DisputeState int

const (
	// StateNormal means the deposit is settled and may be disputed.
	// A resolved dispute returns the record here, so it can be disputed again.
	StateNormal DisputeState = iota
	// StateDisputed means the deposit amount is currently held.
	StateDisputed
	// StateChargedBack is terminal; no further transition is accepted.
	StateChargedBack
)

func (s DisputeState) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateDisputed:
		return "disputed"
	case StateChargedBack:
		return "charged_back"
	default:
		return "unknown"
	}
}

// Record is the stored history of a successful deposit, kept so later
// dispute, resolve and chargeback events can reference it. Only deposits
// are disputable, so only deposits are recorded. Amount is immutable once
// recorded; State is mutated only through the dispute state machine.
type Record struct {
	TxID     uint32
	ClientID uint16
	Amount   decimal.Decimal
	State    DisputeState
}
