// Package engine applies transaction events to the ledger one at a time.
// Every event is either fully applied or rejected with a reason; a
// rejected event is a no-op on ledger state and never aborts the stream.
package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/txproc/txproc/internal/domain"
	"github.com/txproc/txproc/internal/ledger"
)

// Engine validates each incoming event against ledger state and the
// dispute state machine, applies the effect or rejects it, and reports
// the outcome. Strictly sequential: the caller must not apply two events
// concurrently against the same ledger.
type Engine struct {
	ledger *ledger.Ledger
	logger *zap.Logger
}

// New creates an engine over the given ledger. A nil logger disables
// diagnostics.
func New(l *ledger.Ledger, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{ledger: l, logger: logger}
}

// Apply processes a single event and returns its outcome.
func (e *Engine) Apply(ev domain.Event) domain.Outcome {
	var out domain.Outcome
	switch ev.Type {
	case domain.Deposit:
		out = e.applyDeposit(ev)
	case domain.Withdrawal:
		out = e.applyWithdrawal(ev)
	case domain.Dispute:
		out = e.applyDispute(ev)
	case domain.Resolve:
		out = e.applyResolve(ev)
	case domain.Chargeback:
		out = e.applyChargeback(ev)
	default:
		// unreachable: the parse boundary rejects unknown tags
		panic(fmt.Sprintf("engine: unknown event type %q", ev.Type))
	}

	if out.Applied {
		e.assertInvariants(ev.ClientID)
		e.logger.Debug("event applied", zap.Stringer("event", ev))
	} else {
		e.logger.Debug("event rejected",
			zap.Stringer("event", ev),
			zap.String("reason", string(out.Reason)))
	}

	return out
}

func (e *Engine) applyDeposit(ev domain.Event) domain.Outcome {
	acct := e.ledger.GetOrCreate(ev.ClientID)
	if acct.Locked {
		return domain.RejectedOutcome(ev, domain.ReasonAccountLocked)
	}
	if err := e.ledger.RecordDeposit(ev.TxID, ev.ClientID, ev.Amount); err != nil {
		return domain.RejectedOutcome(ev, domain.ReasonDuplicateTransaction)
	}
	acct.Credit(ev.Amount)
	return domain.AppliedOutcome(ev)
}

func (e *Engine) applyWithdrawal(ev domain.Event) domain.Outcome {
	acct := e.ledger.GetOrCreate(ev.ClientID)
	if err := acct.Withdraw(ev.Amount); err != nil {
		return domain.RejectedOutcome(ev, domain.ReasonInsufficientFundsOrLocked)
	}
	return domain.AppliedOutcome(ev)
}

func (e *Engine) applyDispute(ev domain.Event) domain.Outcome {
	// created before any precondition check: every client that appeared
	// at least once gets a snapshot row, even if all its events fail
	acct := e.ledger.GetOrCreate(ev.ClientID)

	rec, reason := e.findRecord(ev, domain.StateNormal)
	if reason != "" {
		return domain.RejectedOutcome(ev, reason)
	}

	// The disputed amount is always the stored deposit amount; the input
	// row's amount column is never trusted for dispute events.
	if err := acct.Hold(rec.Amount); err != nil {
		return domain.RejectedOutcome(ev, domain.ReasonInsufficientFundsOrLocked)
	}
	rec.State = domain.StateDisputed
	return domain.AppliedOutcome(ev)
}

func (e *Engine) applyResolve(ev domain.Event) domain.Outcome {
	acct := e.ledger.GetOrCreate(ev.ClientID)

	rec, reason := e.findRecord(ev, domain.StateDisputed)
	if reason != "" {
		return domain.RejectedOutcome(ev, reason)
	}

	if err := acct.Release(rec.Amount); err != nil {
		return domain.RejectedOutcome(ev, domain.ReasonInsufficientFundsOrLocked)
	}
	// Back to Normal: a resolved deposit is disputable again.
	rec.State = domain.StateNormal
	return domain.AppliedOutcome(ev)
}

func (e *Engine) applyChargeback(ev domain.Event) domain.Outcome {
	acct := e.ledger.GetOrCreate(ev.ClientID)

	rec, reason := e.findRecord(ev, domain.StateDisputed)
	if reason != "" {
		return domain.RejectedOutcome(ev, reason)
	}

	if err := acct.Chargeback(rec.Amount); err != nil {
		return domain.RejectedOutcome(ev, domain.ReasonInsufficientFundsOrLocked)
	}
	rec.State = domain.StateChargedBack
	return domain.AppliedOutcome(ev)
}

// findRecord resolves the deposit record referenced by a dispute, resolve
// or chargeback and checks the shared preconditions: the record must
// exist, belong to the event's client, and be in the wanted state.
func (e *Engine) findRecord(ev domain.Event, want domain.DisputeState) (*domain.Record, domain.RejectReason) {
	rec, ok := e.ledger.FindDisputable(ev.TxID)
	if !ok {
		return nil, domain.ReasonUnknownTransaction
	}
	if rec.ClientID != ev.ClientID {
		return nil, domain.ReasonClientMismatch
	}
	if rec.State != want {
		return nil, domain.ReasonInvalidStateTransition
	}
	return rec, ""
}

// assertInvariants fails loudly on a negative balance. Unreachable given
// correct precondition checks; reaching it is a defect, not a user error.
func (e *Engine) assertInvariants(clientID uint16) {
	acct := e.ledger.GetOrCreate(clientID)
	if acct.Available.IsNegative() || acct.Held.IsNegative() {
		panic(fmt.Sprintf("engine: negative balance for client %d: available=%s held=%s",
			clientID, acct.Available.String(), acct.Held.String()))
	}
}
