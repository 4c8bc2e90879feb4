package policy

import (
	"fmt"
	"time"
)

// Status enumerates the lifecycle states of a reservation.  PENDING is the
// sole initial state.  COMPLETED, CANCELLED and NO_SHOW are terminal; no
// transition out of them exists anywhere in the system.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusSeated    Status = "SEATED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusNoShow    Status = "NO_SHOW"
)

// AllStatuses lists every state in display order.
var AllStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusSeated,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	switch s {
	case StatusPending, StatusConfirmed, StatusSeated, StatusCompleted, StatusCancelled, StatusNoShow:
		return s, nil
	}
	return "", fmt.Errorf("unknown reservation status %q", raw)
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// staffTransitions maps each state to the staff actions offered from it.
// Cancellation is offered from every non-terminal state.  NO_SHOW is
// deliberately absent: it has no staff trigger and is only reachable via
// the external sweep (see ApplyExternal).
var staffTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusSeated, StatusCancelled},
	StatusSeated:    {StatusCompleted, StatusCancelled},
	StatusCompleted: nil,
	StatusCancelled: nil,
	StatusNoShow:    nil,
}

// NextStatuses returns exactly the staff actions offered for the current
// state.  Callers render one distinct action per entry; an empty result
// means the reservation is terminal and no action is shown.
func NextStatuses(from Status) []Status {
	next := staffTransitions[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether a staff-driven change from one state to
// another is permitted.
func CanTransition(from, to Status) bool {
	for _, s := range staffTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionError reports an attempted status change that the machine does
// not permit.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move reservation from %s to %s", e.From, e.To)
}

// ApplyStaff validates a staff-driven transition and returns the resulting
// state, or a *TransitionError when the action is not offered from the
// current state.
func ApplyStaff(from, to Status) (Status, error) {
	if !CanTransition(from, to) {
		return from, &TransitionError{From: from, To: to}
	}
	return to, nil
}

// ApplyExternal handles transitions with no staff trigger.  Today that is
// only the no-show sweep: any non-terminal reservation may be marked
// NO_SHOW by the external job.  Other targets are rejected.
func ApplyExternal(from, to Status) (Status, error) {
	if to == StatusNoShow && !from.IsTerminal() {
		return StatusNoShow, nil
	}
	return from, &TransitionError{From: from, To: to}
}

// CanModify reports whether a customer may still submit modifications:
// the reservation must be PENDING or CONFIRMED and its start instant must
// be in the future.  Eligibility is computed, never stored.
func CanModify(status Status, startsAt, now time.Time) bool {
	if status != StatusPending && status != StatusConfirmed {
		return false
	}
	return startsAt.After(now)
}

// CanCancel reports whether a customer may cancel.  The condition matches
// CanModify: once the start instant has passed, cancellation is no longer
// offered even if the status is still nominally non-terminal.
func CanCancel(status Status, startsAt, now time.Time) bool {
	return CanModify(status, startsAt, now)
}

// ApplyCustomerEdit returns the status a reservation takes after a
// customer-submitted modification.  Any accepted edit forces the
// reservation back to PENDING for staff re-confirmation, regardless of
// which field changed.  Edits against reservations that are no longer
// modifiable are rejected.
func ApplyCustomerEdit(status Status, startsAt, now time.Time) (Status, error) {
	if !CanModify(status, startsAt, now) {
		return status, &TransitionError{From: status, To: StatusPending}
	}
	return StatusPending, nil
}
