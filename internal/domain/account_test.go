package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAccountWithdraw(t *testing.T) {
	acct := NewAccount(1)
	acct.Credit(decimal.NewFromInt(100))

	require.NoError(t, acct.Withdraw(decimal.NewFromInt(60)))
	require.True(t, acct.Available.Equal(decimal.NewFromInt(40)))

	err := acct.Withdraw(decimal.NewFromInt(41))
	require.ErrorIs(t, err, ErrInsufficientAvailable)
	require.True(t, acct.Available.Equal(decimal.NewFromInt(40)))

	acct.Locked = true
	err = acct.Withdraw(decimal.NewFromInt(1))
	require.ErrorIs(t, err, ErrAccountLocked)
}

func TestAccountHoldAndRelease(t *testing.T) {
	acct := NewAccount(1)
	acct.Credit(decimal.NewFromInt(100))

	require.NoError(t, acct.Hold(decimal.NewFromInt(100)))
	require.True(t, acct.Available.IsZero())
	require.True(t, acct.Held.Equal(decimal.NewFromInt(100)))
	require.True(t, acct.Total().Equal(decimal.NewFromInt(100)))

	err := acct.Hold(decimal.NewFromInt(1))
	require.ErrorIs(t, err, ErrInsufficientAvailable)

	require.NoError(t, acct.Release(decimal.NewFromInt(100)))
	require.True(t, acct.Available.Equal(decimal.NewFromInt(100)))
	require.True(t, acct.Held.IsZero())

	err = acct.Release(decimal.NewFromInt(1))
	require.ErrorIs(t, err, ErrInsufficientHeld)
}

func TestAccountChargeback(t *testing.T) {
	acct := NewAccount(1)
	acct.Credit(decimal.NewFromInt(100))
	require.NoError(t, acct.Hold(decimal.NewFromInt(100)))

	require.NoError(t, acct.Chargeback(decimal.NewFromInt(100)))
	require.True(t, acct.Available.IsZero())
	require.True(t, acct.Held.IsZero())
	require.True(t, acct.Locked)
}

func TestParseEventType(t *testing.T) {
	for in, want := range map[string]EventType{
		"deposit":    Deposit,
		"WITHDRAWAL": Withdrawal,
		" Dispute ":  Dispute,
		"resolve":    Resolve,
		"ChargeBack": Chargeback,
	} {
		got, err := ParseEventType(in)
		require.NoError(t, err, "input %q", in)
		require.Equal(t, want, got)
	}

	_, err := ParseEventType("transfer")
	require.Error(t, err)
}
