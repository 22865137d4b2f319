package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// EventType is the tag of an input transaction event.
type EventType string

const (
	Deposit    EventType = "deposit"
	Withdrawal EventType = "withdrawal"
	Dispute    EventType = "dispute"
	Resolve    EventType = "resolve"
	Chargeback EventType = "chargeback"
)

// ParseEventType parses a case-insensitive event tag. Any tag outside the
// five supported kinds is an error, rejected at the parse boundary.
func ParseEventType(s string) (EventType, error) {
	switch EventType(strings.ToLower(strings.TrimSpace(s))) {
	case Deposit:
		return Deposit, nil
	case Withdrawal:
		return Withdrawal, nil
	case Dispute:
		return Dispute, nil
	case Resolve:
		return Resolve, nil
	case Chargeback:
		return Chargeback, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Event is one parsed input row handed to the engine in file order.
type Event struct {
	Type     EventType
	ClientID uint16
	TxID     uint32
	// Amount is set for deposit and withdrawal only. The amount column of
	// dispute, resolve and chargeback rows is never trusted; those events
	// always use the amount stored with the original deposit.
	Amount decimal.Decimal
}

// String returns a human-readable string representation.
func (e Event) String() string {
	if e.Type == Deposit || e.Type == Withdrawal {
		return fmt.Sprintf("%s client=%d tx=%d amount=%s", e.Type, e.ClientID, e.TxID, e.Amount.String())
	}
	return fmt.Sprintf("%s client=%d tx=%d", e.Type, e.ClientID, e.TxID)
}
