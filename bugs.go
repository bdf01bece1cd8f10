// Package bugs provides a minimal public API for the defect lifecycle
// engine.
//
// This package exports the essential types plus the Tracker, which wraps the
// pure lifecycle engine with a store and an event bus so callers can work
// with record IDs instead of record snapshots. Programs that manage their
// own persistence should use internal packages' building blocks via these
// aliases and the lifecycle Engine directly.
package bugs

import (
	"github.com/steveyegge/bugs/internal/eventbus"
	"github.com/steveyegge/bugs/internal/lifecycle"
	"github.com/steveyegge/bugs/internal/storage"
	"github.com/steveyegge/bugs/internal/storage/memory"
	"github.com/steveyegge/bugs/internal/types"
)

// Core types for working with defect records
type (
	BugRecord  = types.BugRecord
	ReproStep  = types.ReproStep
	Status     = types.Status
	Severity   = types.Severity
	Priority   = types.Priority
	BugType    = types.BugType
	Resolution = types.Resolution
	BugStats   = types.BugStats

	LifecycleEvent = types.LifecycleEvent
	RecordFilter   = types.RecordFilter

	CreateInput   = lifecycle.CreateInput
	FixPayload    = lifecycle.FixPayload
	ClosePayload  = lifecycle.ClosePayload
	ReopenPayload = lifecycle.ReopenPayload

	ValidationError        = lifecycle.ValidationError
	InvalidTransitionError = lifecycle.InvalidTransitionError
	ConflictError          = lifecycle.ConflictError
	NotFoundError          = lifecycle.NotFoundError
)

// Status constants
const (
	StatusNew             = types.StatusNew
	StatusConfirmed       = types.StatusConfirmed
	StatusInProgress      = types.StatusInProgress
	StatusFixed           = types.StatusFixed
	StatusVerified        = types.StatusVerified
	StatusClosed          = types.StatusClosed
	StatusWontFix         = types.StatusWontFix
	StatusDuplicate       = types.StatusDuplicate
	StatusCannotReproduce = types.StatusCannotReproduce
)

// Resolution constants
const (
	ResolutionFixed           = types.ResolutionFixed
	ResolutionWontFix         = types.ResolutionWontFix
	ResolutionDuplicate       = types.ResolutionDuplicate
	ResolutionCannotReproduce = types.ResolutionCannotReproduce
)

// Store is the persistence contract the Tracker depends on.
type Store = storage.Store

// NewMemoryStore creates the in-memory reference store.
func NewMemoryStore() *memory.Store {
	return memory.New()
}

// NewBus creates an event bus for lifecycle event consumers.
func NewBus() *eventbus.Bus {
	return eventbus.New()
}
