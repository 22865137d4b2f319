package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/txproc/txproc/internal/domain"
)

func TestGetOrCreateIsIdempotent(t *testing.T) {
	ldg := New()

	first := ldg.GetOrCreate(7)
	require.Equal(t, uint16(7), first.ClientID)
	require.True(t, first.Available.IsZero())
	require.True(t, first.Held.IsZero())
	require.False(t, first.Locked)

	second := ldg.GetOrCreate(7)
	require.Same(t, first, second)
	require.Len(t, ldg.Snapshot(), 1)
}

func TestRecordDepositRejectsDuplicateTx(t *testing.T) {
	ldg := New()

	require.NoError(t, ldg.RecordDeposit(1, 1, decimal.NewFromInt(100)))
	err := ldg.RecordDeposit(1, 2, decimal.NewFromInt(55))
	require.ErrorIs(t, err, domain.ErrDuplicateTx)

	// the first record is not overwritten
	rec, ok := ldg.FindDisputable(1)
	require.True(t, ok)
	require.Equal(t, uint16(1), rec.ClientID)
	require.True(t, rec.Amount.Equal(decimal.NewFromInt(100)))
	require.Equal(t, domain.StateNormal, rec.State)
}

func TestFindDisputableDoesNotCreate(t *testing.T) {
	ldg := New()

	_, ok := ldg.FindDisputable(42)
	require.False(t, ok)
	require.Empty(t, ldg.Snapshot())
}

func TestSnapshotKeepsInsertionOrder(t *testing.T) {
	ldg := New()

	for _, id := range []uint16{9, 3, 7, 3, 9, 1} {
		ldg.GetOrCreate(id)
	}

	snaps := ldg.Snapshot()
	require.Len(t, snaps, 4)

	got := make([]uint16, 0, len(snaps))
	for _, s := range snaps {
		got = append(got, s.ClientID)
	}
	require.Equal(t, []uint16{9, 3, 7, 1}, got)
}
