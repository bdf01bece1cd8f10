package lifecycle

import (
	"strings"
	"time"

	"github.com/steveyegge/bugs/internal/idgen"
	"github.com/steveyegge/bugs/internal/types"
	"github.com/steveyegge/bugs/internal/validation"
)

// Engine is the facade over the transition graph and the action handlers.
// It is synchronous pure logic: records go in, updated records and lifecycle
// events come out. Fetching and persisting records, and delivering the
// events to timeline consumers, are the caller's concern. All methods are
// safe for concurrent use; optimistic version checks guard concurrent
// actors.
type Engine struct {
	now       func() time.Time
	keyPrefix string
	keyLength int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source (for tests).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithKeyPrefix sets the record key prefix (default "bug").
func WithKeyPrefix(prefix string) Option {
	return func(e *Engine) { e.keyPrefix = prefix }
}

// WithKeyLength sets the base36 hash length for record keys. Non-positive
// lengths keep the default.
func WithKeyLength(length int) Option {
	return func(e *Engine) {
		if length > 0 {
			e.keyLength = length
		}
	}
}

// NewEngine creates an engine with defaults applied.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:       time.Now,
		keyPrefix: idgen.DefaultPrefix,
		keyLength: idgen.DefaultHashLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateInput carries the fields a reporter may set on a new record.
// Omitted taxonomy fields receive defaults.
type CreateInput struct {
	Title            string
	Description      string
	Severity         types.Severity
	Priority         types.Priority
	BugType          types.BugType
	ExpectedBehavior string
	ActualBehavior   string
	Environment      string
	AffectedVersion  string
	IsRegression     bool
	StepsToReproduce []types.ReproStep

	// Key pins the record key instead of generating one. Used by callers
	// that need collision handling against their store.
	Key string

	// Nonce perturbs key generation when Key is empty.
	Nonce int
}

// FixPayload carries the optional fields recorded when a fix lands.
type FixPayload struct {
	FixedVersion    string
	RootCause       string
	ResolutionNotes string
}

// ClosePayload selects the terminal disposition for a close.
type ClosePayload struct {
	Resolution types.Resolution
	Notes      string
}

// ReopenPayload carries the mandatory justification for a reopen.
type ReopenPayload struct {
	Reason string
}

// Create validates the input, applies taxonomy defaults, and returns a new
// record in status "new" along with its creation event.
func (e *Engine) Create(input CreateInput, actor string) (*types.BugRecord, *types.LifecycleEvent, error) {
	title, err := validation.ValidateTitle(input.Title)
	if err != nil {
		return nil, nil, &ValidationError{Field: "title", Reason: err.Error()}
	}
	if input.Severity != "" && !input.Severity.IsValid() {
		return nil, nil, &ValidationError{Field: "severity", Reason: "unknown value " + string(input.Severity)}
	}
	if input.Priority != "" && !input.Priority.IsValid() {
		return nil, nil, &ValidationError{Field: "priority", Reason: "unknown value " + string(input.Priority)}
	}
	if input.BugType != "" && !input.BugType.IsValid() {
		return nil, nil, &ValidationError{Field: "bug_type", Reason: "unknown value " + string(input.BugType)}
	}

	now := e.now()
	key := input.Key
	if key == "" {
		key = idgen.GenerateKey(e.keyPrefix, title, actor, now, e.keyLength, input.Nonce)
	}

	rec := &types.BugRecord{
		ID:               key,
		Key:              key,
		Title:            title,
		Description:      input.Description,
		Severity:         input.Severity,
		Priority:         input.Priority,
		BugType:          input.BugType,
		Status:           types.StatusNew,
		ExpectedBehavior: input.ExpectedBehavior,
		ActualBehavior:   input.ActualBehavior,
		Environment:      input.Environment,
		AffectedVersion:  input.AffectedVersion,
		IsRegression:     input.IsRegression,
		StepsToReproduce: validation.NormalizeSteps(input.StepsToReproduce),
		CreatedAt:        now,
		UpdatedAt:        now,
		Version:          1,
	}
	rec.SetDefaults()

	if err := rec.Validate(); err != nil {
		return nil, nil, &ValidationError{Field: "record", Reason: err.Error()}
	}

	ev := &types.LifecycleEvent{
		RecordID:  rec.ID,
		ToStatus:  types.StatusNew,
		Action:    types.ActionCreate,
		Actor:     actor,
		Timestamp: now,
		Payload:   map[string]string{"title": title},
	}
	return rec, ev, nil
}

// Confirm moves a record from "new" to "confirmed". Re-confirming a
// confirmed record is rejected, not treated as a no-op.
func (e *Engine) Confirm(rec *types.BugRecord, expectedVersion int64, actor string) (*types.BugRecord, *types.LifecycleEvent, error) {
	return e.transition(rec, expectedVersion, types.ActionConfirm, actor, nil, nil)
}

// Start moves a confirmed record into "in_progress".
func (e *Engine) Start(rec *types.BugRecord, expectedVersion int64, actor string) (*types.BugRecord, *types.LifecycleEvent, error) {
	return e.transition(rec, expectedVersion, types.ActionStart, actor, nil, nil)
}

// MarkFixed moves a confirmed or in-progress record to "fixed", recording
// the fix metadata. Every payload field is optional.
func (e *Engine) MarkFixed(rec *types.BugRecord, expectedVersion int64, payload FixPayload, actor string) (*types.BugRecord, *types.LifecycleEvent, error) {
	mutate := func(r *types.BugRecord) {
		if payload.FixedVersion != "" {
			r.FixedVersion = payload.FixedVersion
		}
		if payload.RootCause != "" {
			r.RootCause = payload.RootCause
		}
		if payload.ResolutionNotes != "" {
			r.ResolutionNotes = payload.ResolutionNotes
		}
	}
	evPayload := map[string]string{}
	if payload.FixedVersion != "" {
		evPayload["fixed_version"] = payload.FixedVersion
	}
	if payload.RootCause != "" {
		evPayload["root_cause"] = payload.RootCause
	}
	return e.transition(rec, expectedVersion, types.ActionMarkFixed, actor, mutate, evPayload)
}

// Verify moves a fixed record to "verified".
func (e *Engine) Verify(rec *types.BugRecord, expectedVersion int64, actor string) (*types.BugRecord, *types.LifecycleEvent, error) {
	return e.transition(rec, expectedVersion, types.ActionVerify, actor, nil, nil)
}

// Close moves a record into the terminal status selected by the payload
// resolution. A missing or unknown resolution is a validation error, not a
// transition error.
func (e *Engine) Close(rec *types.BugRecord, expectedVersion int64, payload ClosePayload, actor string) (*types.BugRecord, *types.LifecycleEvent, error) {
	if rec == nil {
		return nil, nil, &NotFoundError{}
	}
	if payload.Resolution == "" {
		return nil, nil, &ValidationError{Field: "resolution", Reason: "resolution is required to close a record"}
	}
	if !payload.Resolution.IsValid() {
		return nil, nil, &ValidationError{Field: "resolution", Reason: "unknown value " + string(payload.Resolution)}
	}
	if rec.Version != expectedVersion {
		return nil, nil, &ConflictError{ID: rec.ID, ExpectedVersion: expectedVersion, ActualVersion: rec.Version}
	}

	target, err := ApplyClose(rec.Status, payload.Resolution)
	if err != nil {
		return nil, nil, err
	}

	updated := rec.Clone()
	from := updated.Status
	updated.Status = target
	res := payload.Resolution
	updated.Resolution = &res
	if payload.Notes != "" {
		updated.ResolutionNotes = payload.Notes
	}
	e.touch(updated, e.now())

	evPayload := map[string]string{"resolution": string(payload.Resolution)}
	if payload.Notes != "" {
		evPayload["notes"] = payload.Notes
	}
	ev := &types.LifecycleEvent{
		RecordID:   updated.ID,
		FromStatus: from,
		ToStatus:   target,
		Action:     types.ActionClose,
		Actor:      actor,
		Timestamp:  updated.UpdatedAt,
		Payload:    evPayload,
	}
	return updated, ev, nil
}

// Reopen moves a record out of any terminal resolved status back to
// "confirmed" (reopening never returns to "new": the defect was already
// triaged once). The reason is mandatory and lands in the audit event.
func (e *Engine) Reopen(rec *types.BugRecord, expectedVersion int64, payload ReopenPayload, actor string) (*types.BugRecord, *types.LifecycleEvent, error) {
	reason := strings.TrimSpace(payload.Reason)
	if reason == "" {
		return nil, nil, &ValidationError{Field: "reason", Reason: "a non-empty reason is required to reopen a record"}
	}
	mutate := func(r *types.BugRecord) {
		// Back to an unresolved state: the resolution invariant requires
		// clearing the disposition. Fix metadata stays as history.
		r.Resolution = nil
		r.ResolutionNotes = ""
	}
	return e.transition(rec, expectedVersion, types.ActionReopen, actor, mutate, map[string]string{"reason": reason})
}

// transition runs the shared guarded read-modify-write for single-target
// actions: version check, graph check, clone, mutate, touch.
func (e *Engine) transition(rec *types.BugRecord, expectedVersion int64, action types.Action, actor string, mutate func(*types.BugRecord), evPayload map[string]string) (*types.BugRecord, *types.LifecycleEvent, error) {
	if rec == nil {
		return nil, nil, &NotFoundError{}
	}
	if rec.Version != expectedVersion {
		return nil, nil, &ConflictError{ID: rec.ID, ExpectedVersion: expectedVersion, ActualVersion: rec.Version}
	}

	target, err := Apply(rec.Status, action)
	if err != nil {
		return nil, nil, err
	}

	updated := rec.Clone()
	from := updated.Status
	updated.Status = target
	if mutate != nil {
		mutate(updated)
	}
	e.touch(updated, e.now())

	ev := &types.LifecycleEvent{
		RecordID:   updated.ID,
		FromStatus: from,
		ToStatus:   target,
		Action:     action,
		Actor:      actor,
		Timestamp:  updated.UpdatedAt,
		Payload:    evPayload,
	}
	return updated, ev, nil
}

// touch bumps the version and advances updated_at without ever moving it
// backwards (updated_at is monotonically non-decreasing even under clock
// skew).
func (e *Engine) touch(rec *types.BugRecord, now time.Time) {
	rec.Version++
	if now.After(rec.UpdatedAt) {
		rec.UpdatedAt = now
	}
}
