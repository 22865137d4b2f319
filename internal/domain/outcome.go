package domain

// RejectReason explains why an event was a no-op on ledger state.
type RejectReason string

const (
	ReasonInsufficientFundsOrLocked RejectReason = "insufficient_funds_or_locked"
	ReasonAccountLocked             RejectReason = "account_locked"
	ReasonDuplicateTransaction      RejectReason = "duplicate_transaction"
	ReasonUnknownTransaction        RejectReason = "unknown_transaction"
	ReasonClientMismatch            RejectReason = "client_mismatch"
	ReasonInvalidStateTransition    RejectReason = "invalid_state_transition"
)

// Outcome reports the result of applying a single event. Rejections are
// data, not errors: the run always continues with the next event.
type Outcome struct {
	Event   Event
	Applied bool
	// Reason is set only for rejected events.
	Reason RejectReason
}

// AppliedOutcome builds a success outcome.
func AppliedOutcome(e Event) Outcome {
	return Outcome{Event: e, Applied: true}
}

// RejectedOutcome builds a rejection outcome with its reason.
func RejectedOutcome(e Event, reason RejectReason) Outcome {
	return Outcome{Event: e, Reason: reason}
}
