package internal

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/txproc/txproc/internal/csvio"
	"github.com/txproc/txproc/internal/domain"
)

const sampleInput = "type,client,tx,amount\n" +
	"deposit,1,1,100.0\n" +
	"deposit,2,2,50.0\n" +
	"withdrawal,1,3,30.0\n" +
	"dispute,2,2,\n" +
	"chargeback,2,2,\n" +
	"deposit,2,4,10.0\n" + // rejected: account locked
	"withdrawal,1,5,500.0\n" + // rejected: insufficient funds
	"deposit,3,6,0.0001\n"

func runInput(t *testing.T, input string, shards int, sinks ...Sink) []domain.AccountSnapshot {
	t.Helper()
	reader := csvio.NewReader(strings.NewReader(input), nil)
	p := NewProcessor(reader, nil, shards, sinks...)
	snaps, err := p.Run(context.Background())
	require.NoError(t, err)
	return snaps
}

func snapshotByClient(snaps []domain.AccountSnapshot) map[uint16]domain.AccountSnapshot {
	byClient := make(map[uint16]domain.AccountSnapshot, len(snaps))
	for _, s := range snaps {
		byClient[s.ClientID] = s
	}
	return byClient
}

func TestProcessorSequentialRun(t *testing.T) {
	var outcomes []domain.Outcome
	collect := SinkFunc(func(o domain.Outcome) error {
		outcomes = append(outcomes, o)
		return nil
	})

	snaps := runInput(t, sampleInput, 1, collect)
	require.Len(t, snaps, 3)
	require.Len(t, outcomes, 8)

	byClient := snapshotByClient(snaps)

	require.Equal(t, "70", byClient[1].Available.String())
	require.False(t, byClient[1].Locked)

	require.True(t, byClient[2].Available.IsZero())
	require.True(t, byClient[2].Held.IsZero())
	require.True(t, byClient[2].Locked)

	require.Equal(t, "0.0001", byClient[3].Available.String())

	rejected := 0
	for _, o := range outcomes {
		if !o.Applied {
			rejected++
		}
	}
	require.Equal(t, 2, rejected)
}

func TestProcessorShardedMatchesSequential(t *testing.T) {
	sequential := snapshotByClient(runInput(t, sampleInput, 1))

	for _, shards := range []int{2, 3, 8} {
		sharded := runInput(t, sampleInput, shards)
		require.Len(t, sharded, len(sequential), "shards=%d", shards)
		for _, got := range sharded {
			want := sequential[got.ClientID]
			require.True(t, want.Available.Equal(got.Available), "shards=%d client=%d available", shards, got.ClientID)
			require.True(t, want.Held.Equal(got.Held), "shards=%d client=%d held", shards, got.ClientID)
			require.Equal(t, want.Locked, got.Locked, "shards=%d client=%d locked", shards, got.ClientID)
		}
	}
}

func TestProcessorShardedSinksSeeEveryOutcome(t *testing.T) {
	var count int
	collect := SinkFunc(func(o domain.Outcome) error {
		count++ // single drainer goroutine, no race
		return nil
	})

	runInput(t, sampleInput, 4, collect)
	require.Equal(t, 8, count)
}

func TestProcessorSnapshotIsInsertionOrdered(t *testing.T) {
	input := "type,client,tx,amount\n" +
		"deposit,9,1,1.0\n" +
		"deposit,3,2,1.0\n" +
		"deposit,9,3,1.0\n" +
		"deposit,1,4,1.0\n"

	snaps := runInput(t, input, 1)
	got := make([]uint16, 0, len(snaps))
	for _, s := range snaps {
		got = append(got, s.ClientID)
	}
	require.Equal(t, []uint16{9, 3, 1}, got)
}

func TestProcessorContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := csvio.NewReader(strings.NewReader(sampleInput), nil)
	p := NewProcessor(reader, nil, 1)
	_, err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
