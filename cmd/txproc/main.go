// Command txproc replays a CSV log of transaction events (deposit,
// withdrawal, dispute, resolve, chargeback) against per-client accounts
// and prints the final balance snapshot.
//
// Usage:
//
//	txproc transactions.csv
//	txproc --config config.yaml
//	txproc setup (interactive configuration wizard)
package main

import (
	"context"
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/txproc/txproc/config"
	"github.com/txproc/txproc/internal"
	"github.com/txproc/txproc/internal/csvio"
	"github.com/txproc/txproc/internal/storage/outcomes"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := config.RunSetup(); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg, err := config.Get(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewNop()
	if cfg.Verbose {
		logger, err = zap.NewProduction()
		if err != nil {
			log.Fatal(err)
		}
	}
	defer logger.Sync()

	in, err := os.Open(cfg.Input)
	if err != nil {
		logger.Error("failed to open input", zap.Error(err))
		log.Fatal(err)
	}
	defer in.Close()

	var sinks []internal.Sink
	if cfg.LogOutcomes {
		outcomeLogger, err := zap.NewProduction()
		if err != nil {
			log.Fatal(err)
		}
		defer outcomeLogger.Sync()
		sinks = append(sinks, internal.NewLogSink(outcomeLogger))
	}
	if cfg.JournalDir != "" {
		journal, err := outcomes.NewWALStore(cfg.JournalDir)
		if err != nil {
			log.Fatal(err)
		}
		defer journal.Close()
		sinks = append(sinks, internal.SinkFunc(journal.Save))
	}

	reader := csvio.NewReader(in, logger)
	processor := internal.NewProcessor(reader, logger, cfg.Shards, sinks...)

	snaps, err := processor.Run(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	var out io.Writer = os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		out = f
	}

	if err := csvio.WriteSnapshot(out, snaps); err != nil {
		log.Fatal(err)
	}
}
