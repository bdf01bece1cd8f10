package lifecycle

import (
	"fmt"

	"github.com/steveyegge/bugs/internal/types"
)

// ValidationError reports a malformed or missing payload field. Recoverable
// by the caller re-prompting; never a transition problem.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError reports an action that is not legal from the
// record's current status. Carries both so callers can render precise
// messaging.
type InvalidTransitionError struct {
	CurrentStatus types.Status
	Action        types.Action
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a record in status %q", e.Action, e.CurrentStatus)
}

// ConflictError reports an optimistic concurrency failure: the version the
// caller last observed no longer matches the record. Callers should refetch
// and retry at most once.
type ConflictError struct {
	ID              string
	ExpectedVersion int64
	ActualVersion   int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("record %s was modified concurrently (expected version %d, found %d)", e.ID, e.ExpectedVersion, e.ActualVersion)
}

// NotFoundError reports a referenced record that does not exist.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record %s not found", e.ID)
}
