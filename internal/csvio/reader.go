// Package csvio is the I/O shim around the core: a streaming reader that
// turns CSV rows into events and a writer that formats the final account
// snapshot. Malformed rows are a data-validation concern handled here;
// they are logged and skipped and never reach the engine.
package csvio

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/txproc/txproc/internal/domain"
)

// Reader streams events from a CSV source in file order.
type Reader struct {
	csv    *csv.Reader
	logger *zap.Logger
	header bool
	line   int
}

// NewReader wraps an input stream. The expected format is a header row
// `type,client,tx,amount` followed by one row per event; the amount field
// may be absent or empty for dispute, resolve and chargeback rows.
func NewReader(r io.Reader, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &Reader{csv: cr, logger: logger}
}

// Next returns the next well-formed event. Malformed rows are logged and
// skipped. Returns io.EOF when the input is exhausted; any other error
// means the stream itself is unreadable and the run must stop.
func (r *Reader) Next() (domain.Event, error) {
	for {
		row, err := r.csv.Read()
		if err == io.EOF {
			return domain.Event{}, io.EOF
		}
		if err != nil {
			// csv.ParseError on a single row is recoverable, anything
			// else means the underlying stream failed
			if _, ok := err.(*csv.ParseError); ok {
				r.logger.Warn("skipping unparsable row", zap.Error(err))
				continue
			}
			return domain.Event{}, errors.Wrap(err, "read input stream")
		}

		r.line++
		if !r.header {
			r.header = true
			if isHeader(row) {
				continue
			}
		}

		ev, err := parseRow(row)
		if err != nil {
			r.logger.Warn("skipping malformed row",
				zap.Int("line", r.line),
				zap.Strings("row", row),
				zap.Error(err))
			continue
		}
		return ev, nil
	}
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "type")
}

func parseRow(row []string) (domain.Event, error) {
	if len(row) < 3 {
		return domain.Event{}, errors.Errorf("expected at least 3 fields, got %d", len(row))
	}

	typ, err := domain.ParseEventType(row[0])
	if err != nil {
		return domain.Event{}, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(row[1]), 10, 16)
	if err != nil {
		return domain.Event{}, errors.Wrap(err, "parse client id")
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(row[2]), 10, 32)
	if err != nil {
		return domain.Event{}, errors.Wrap(err, "parse transaction id")
	}

	ev := domain.Event{
		Type:     typ,
		ClientID: uint16(client),
		TxID:     uint32(tx),
	}

	switch typ {
	case domain.Deposit, domain.Withdrawal:
		if len(row) < 4 || strings.TrimSpace(row[3]) == "" {
			return domain.Event{}, errors.Errorf("%s requires an amount", typ)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(row[3]))
		if err != nil {
			return domain.Event{}, errors.Wrap(err, "parse amount")
		}
		if !amount.IsPositive() {
			return domain.Event{}, errors.Errorf("%s amount must be positive, got %s", typ, amount.String())
		}
		ev.Amount = amount
	default:
		// dispute/resolve/chargeback: the amount column, if present, is
		// ignored; the stored deposit amount is authoritative
	}

	return ev, nil
}
