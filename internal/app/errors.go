package app

import "fmt"

// Validation reason codes surfaced verbatim to callers.
const (
	ReasonNotActive          = "not-active"
	ReasonAlreadyLockedIn    = "already-locked-in"
	ReasonCardNotInHand      = "card-not-in-hand"
	ReasonRoleCardRequired   = "role-card-required"
	ReasonGoldenUnavailable  = "golden-card-unavailable"
	ReasonMVPRoundOutOfRange = "mvp-round-out-of-range"
	ReasonMVPUnavailable     = "mvp-selection-unavailable"
	ReasonMVPCardConsumed    = "mvp-card-consumed"
)

// ValidationError is a client-fixable precondition failure. It is never
// retried automatically.
type ValidationError struct {
	Reason string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

func newValidationError(reason, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an absent session, participant or challenge card.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// PersistenceError wraps a store failure unrelated to game rules. The caller
// may retry the whole operation only after re-reading state, since the store
// re-checks the round-play key on every commit.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ConflictError reports a uniqueness violation on the round-play key raced in
// at the store boundary. Callers treat it exactly like an already-locked-in
// validation failure; it exists as a distinct type so the transport layer can
// log races separately.
type ConflictError struct {
	SessionID     string
	ParticipantID string
	Round         int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("round play for participant %q in round %d already recorded", e.ParticipantID, e.Round)
}
