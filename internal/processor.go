package internal

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/txproc/txproc/internal/csvio"
	"github.com/txproc/txproc/internal/domain"
	"github.com/txproc/txproc/internal/engine"
	"github.com/txproc/txproc/internal/ledger"
)

// Sink consumes per-event outcomes. Sinks own formatting and I/O; the
// processor only hands them data.
type Sink interface {
	Record(o domain.Outcome) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(o domain.Outcome) error

func (f SinkFunc) Record(o domain.Outcome) error { return f(o) }

// LogSink reports outcomes through a structured logger.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink that logs every outcome.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(o domain.Outcome) error {
	fields := []zap.Field{
		zap.String("type", string(o.Event.Type)),
		zap.Uint16("client", o.Event.ClientID),
		zap.Uint32("tx", o.Event.TxID),
		zap.String("amount", o.Event.Amount.String()),
	}
	if o.Applied {
		s.logger.Info("SUCCESS", fields...)
	} else {
		s.logger.Info("REJECTED", append(fields, zap.String("reason", string(o.Reason)))...)
	}
	return nil
}

// Processor folds an event stream into a final balance snapshot. Events
// are applied strictly in input order per client; a rejected event never
// aborts the run, only an unreadable stream or a failing sink does.
type Processor struct {
	reader *csvio.Reader
	sinks  []Sink
	logger *zap.Logger
	shards int
}

// NewProcessor creates a processor. shards < 2 selects the sequential
// fold; otherwise events are partitioned by client across that many
// shard workers, each applying its own events in input order.
func NewProcessor(reader *csvio.Reader, logger *zap.Logger, shards int, sinks ...Sink) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if shards < 1 {
		shards = 1
	}
	return &Processor{
		reader: reader,
		sinks:  sinks,
		logger: logger,
		shards: shards,
	}
}

// Run consumes the whole input and returns the final snapshot.
func (p *Processor) Run(ctx context.Context) ([]domain.AccountSnapshot, error) {
	if p.shards > 1 {
		return p.runSharded(ctx)
	}
	return p.runSequential(ctx)
}

func (p *Processor) runSequential(ctx context.Context) ([]domain.AccountSnapshot, error) {
	ldg := ledger.New()
	eng := engine.New(ldg, p.logger)

	count := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ev, err := p.reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read event")
		}

		if err := p.record(eng.Apply(ev)); err != nil {
			return nil, err
		}
		count++
	}

	p.logger.Info("input consumed", zap.Int("events", count))
	return ldg.Snapshot(), nil
}

// runSharded partitions events by client id across shard workers. Accounts
// for different clients share no state and every event of one client lands
// on the same shard, so per-client input order is preserved.
func (p *Processor) runSharded(ctx context.Context) ([]domain.AccountSnapshot, error) {
	engines := make([]*engine.Engine, p.shards)
	ledgers := make([]*ledger.Ledger, p.shards)
	feeds := make([]chan domain.Event, p.shards)
	for i := range engines {
		ledgers[i] = ledger.New()
		engines[i] = engine.New(ledgers[i], p.logger)
		feeds[i] = make(chan domain.Event, 64)
	}

	outcomes := make(chan domain.Outcome, 64)

	g, ctx := errgroup.WithContext(ctx)

	var workers sync.WaitGroup
	for i := 0; i < p.shards; i++ {
		workers.Add(1)
		shard := i
		g.Go(func() error {
			defer workers.Done()
			for ev := range feeds[shard] {
				select {
				case outcomes <- engines[shard].Apply(ev):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		workers.Wait()
		close(outcomes)
	}()

	// single drainer keeps sinks free of concurrent calls
	g.Go(func() error {
		for o := range outcomes {
			if err := p.record(o); err != nil {
				return err
			}
		}
		return nil
	})

	g.Go(func() error {
		defer func() {
			for _, feed := range feeds {
				close(feed)
			}
		}()
		for {
			ev, err := p.reader.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return errors.Wrap(err, "read event")
			}
			select {
			case feeds[int(ev.ClientID)%p.shards] <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var snaps []domain.AccountSnapshot
	for _, ldg := range ledgers {
		snaps = append(snaps, ldg.Snapshot()...)
	}
	// shard-local insertion order is meaningless globally, sort for a
	// stable merged snapshot
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].ClientID < snaps[j].ClientID })
	return snaps, nil
}

func (p *Processor) record(o domain.Outcome) error {
	for _, sink := range p.sinks {
		if err := sink.Record(o); err != nil {
			return errors.Wrap(err, "record outcome")
		}
	}
	return nil
}
