// Package lifecycle implements the guarded state machine for defect records:
// the transition graph, the per-action handlers, and the engine facade that
// external collaborators call.
package lifecycle

import (
	"github.com/steveyegge/bugs/internal/types"
)

// Transition is a single allowed edge in the record state machine.
type Transition struct {
	Action types.Action
	From   types.Status
	To     types.Status
}

// transitionTable is the single source of truth for which
// (status, action) -> status edges are legal. Create is absent: it has no
// source status and always lands on "new".
//
// Close fans out per resolution: from "verified" any resolution is allowed;
// from "fixed" only the short-circuit resolutions (a fix cannot be closed as
// fixed without verification).
var transitionTable = []Transition{
	{Action: types.ActionConfirm, From: types.StatusNew, To: types.StatusConfirmed},

	{Action: types.ActionStart, From: types.StatusConfirmed, To: types.StatusInProgress},

	{Action: types.ActionMarkFixed, From: types.StatusConfirmed, To: types.StatusFixed},
	{Action: types.ActionMarkFixed, From: types.StatusInProgress, To: types.StatusFixed},

	{Action: types.ActionVerify, From: types.StatusFixed, To: types.StatusVerified},

	{Action: types.ActionClose, From: types.StatusVerified, To: types.StatusClosed},
	{Action: types.ActionClose, From: types.StatusVerified, To: types.StatusWontFix},
	{Action: types.ActionClose, From: types.StatusVerified, To: types.StatusDuplicate},
	{Action: types.ActionClose, From: types.StatusVerified, To: types.StatusCannotReproduce},
	{Action: types.ActionClose, From: types.StatusFixed, To: types.StatusWontFix},
	{Action: types.ActionClose, From: types.StatusFixed, To: types.StatusDuplicate},
	{Action: types.ActionClose, From: types.StatusFixed, To: types.StatusCannotReproduce},

	{Action: types.ActionReopen, From: types.StatusClosed, To: types.StatusConfirmed},
	{Action: types.ActionReopen, From: types.StatusWontFix, To: types.StatusConfirmed},
	{Action: types.ActionReopen, From: types.StatusDuplicate, To: types.StatusConfirmed},
	{Action: types.ActionReopen, From: types.StatusCannotReproduce, To: types.StatusConfirmed},
}

// CanTransition reports whether the action is legal from the given status
// under at least one edge.
func CanTransition(from types.Status, action types.Action) bool {
	for _, tr := range transitionTable {
		if tr.From == from && tr.Action == action {
			return true
		}
	}
	return false
}

// Targets returns the statuses an action may land on from the given status.
func Targets(from types.Status, action types.Action) []types.Status {
	var out []types.Status
	for _, tr := range transitionTable {
		if tr.From == from && tr.Action == action {
			out = append(out, tr.To)
		}
	}
	return out
}

// Apply resolves the new status for a single-target action. Close has
// resolution-dependent targets; use ApplyClose for it.
func Apply(from types.Status, action types.Action) (types.Status, error) {
	if action == types.ActionClose {
		return "", &ValidationError{Field: "action", Reason: "close requires a resolution; use ApplyClose"}
	}
	for _, tr := range transitionTable {
		if tr.From == from && tr.Action == action {
			return tr.To, nil
		}
	}
	return "", &InvalidTransitionError{CurrentStatus: from, Action: action}
}

// ApplyClose resolves the terminal status a close lands on, given the
// resolution. The resolution selects the target; the table decides whether
// that edge exists from the current status.
func ApplyClose(from types.Status, resolution types.Resolution) (types.Status, error) {
	if !resolution.IsValid() {
		return "", &ValidationError{Field: "resolution", Reason: "must be one of fixed, wont_fix, duplicate, cannot_reproduce"}
	}
	target := resolution.TargetStatus()
	for _, tr := range transitionTable {
		if tr.From == from && tr.Action == types.ActionClose && tr.To == target {
			return target, nil
		}
	}
	return "", &InvalidTransitionError{CurrentStatus: from, Action: types.ActionClose}
}
