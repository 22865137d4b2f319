package domain

import (
	"github.com/shopspring/decimal"
)

// Account is the per-client ledger state, created lazily on the first
// event that references the client and kept for the process lifetime.
type Account struct {
	ClientID  uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	// Locked is set by a chargeback and is terminal: a locked account
	// rejects all further deposits and withdrawals.
	Locked bool
}

// NewAccount returns a zeroed, unlocked account.
func NewAccount(clientID uint16) *Account {
	return &Account{
		ClientID:  clientID,
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total is derived, never stored independently.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Credit adds to the available balance. The caller must have verified the
// account is not locked.
func (a *Account) Credit(amount decimal.Decimal) {
	a.Available = a.Available.Add(amount)
}

// Withdraw removes from the available balance.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if a.Locked {
		return ErrAccountLocked
	}
	if a.Available.LessThan(amount) {
		return ErrInsufficientAvailable
	}
	a.Available = a.Available.Sub(amount)
	return nil
}

// Hold freezes disputed funds, moving them from available to held.
func (a *Account) Hold(amount decimal.Decimal) error {
	if a.Available.LessThan(amount) {
		return ErrInsufficientAvailable
	}
	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)
	return nil
}

// Release returns resolved funds from held back to available.
func (a *Account) Release(amount decimal.Decimal) error {
	if a.Held.LessThan(amount) {
		return ErrInsufficientHeld
	}
	a.Held = a.Held.Sub(amount)
	a.Available = a.Available.Add(amount)
	return nil
}

// Chargeback removes charged-back funds from held and locks the account.
func (a *Account) Chargeback(amount decimal.Decimal) error {
	if a.Held.LessThan(amount) {
		return ErrInsufficientHeld
	}
	a.Held = a.Held.Sub(amount)
	a.Locked = true
	return nil
}

// Snapshot returns the output view of the account.
func (a *Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		ClientID:  a.ClientID,
		Available: a.Available,
		Held:      a.Held,
		Total:     a.Total(),
		Locked:    a.Locked,
	}
}

// AccountSnapshot is the read-only view emitted after all input is consumed.
type AccountSnapshot struct {
	ClientID  uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}
