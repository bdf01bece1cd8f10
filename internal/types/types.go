// Package types defines core data structures for the bugs defect tracker.
package types

import (
	"fmt"
	"strings"
	"time"
)

// BugRecord represents a tracked defect
type BugRecord struct {
	ID               string      `json:"id"`
	Key              string      `json:"key"` // Human-readable stable key (e.g., "bug-a3f8e9"); immutable once assigned
	Title            string      `json:"title"`
	Description      string      `json:"description,omitempty"`
	Severity         Severity    `json:"severity,omitempty"`
	Priority         Priority    `json:"priority,omitempty"`
	BugType          BugType     `json:"bug_type,omitempty"`
	Status           Status      `json:"status,omitempty"`
	ExpectedBehavior string      `json:"expected_behavior,omitempty"`
	ActualBehavior   string      `json:"actual_behavior,omitempty"`
	Environment      string      `json:"environment,omitempty"`
	AffectedVersion  string      `json:"affected_version,omitempty"`
	FixedVersion     string      `json:"fixed_version,omitempty"`
	IsRegression     bool        `json:"is_regression,omitempty"`
	StepsToReproduce []ReproStep `json:"steps_to_reproduce,omitempty"`
	Resolution       *Resolution `json:"resolution,omitempty"` // Set only while status is a terminal resolved state
	ResolutionNotes  string      `json:"resolution_notes,omitempty"`
	RootCause        string      `json:"root_cause,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	Version          int64       `json:"version"` // Optimistic concurrency token; increments on every mutation
}

// ReproStep is one entry in a record's ordered reproduction sequence.
// Step numbers are 1-based and contiguous; renumbered on add/remove.
type ReproStep struct {
	StepNumber  int    `json:"step_number"`
	Description string `json:"description"`
}

// Validate checks if the record has valid field values
func (r *BugRecord) Validate() error {
	if len(r.Title) == 0 {
		return fmt.Errorf("title is required")
	}
	if len(r.Title) > 500 {
		return fmt.Errorf("title must be 500 characters or less (got %d)", len(r.Title))
	}
	if !r.Severity.IsValid() {
		return fmt.Errorf("invalid severity: %s", r.Severity)
	}
	if !r.Priority.IsValid() {
		return fmt.Errorf("invalid priority: %s", r.Priority)
	}
	if !r.BugType.IsValid() {
		return fmt.Errorf("invalid bug type: %s", r.BugType)
	}
	if !r.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", r.Status)
	}
	// Enforce resolution invariant: resolution is set if and only if the
	// status is a terminal resolved state.
	if r.Status.IsResolved() && r.Resolution == nil {
		return fmt.Errorf("records in %s must have a resolution", r.Status)
	}
	if !r.Status.IsResolved() && r.Resolution != nil {
		return fmt.Errorf("records in %s cannot have a resolution", r.Status)
	}
	if r.Resolution != nil && !r.Resolution.IsValid() {
		return fmt.Errorf("invalid resolution: %s", *r.Resolution)
	}
	for i, step := range r.StepsToReproduce {
		if step.StepNumber != i+1 {
			return fmt.Errorf("reproduction steps must be numbered 1..n with no gaps (step %d has number %d)", i+1, step.StepNumber)
		}
		if step.Description == "" {
			return fmt.Errorf("reproduction step %d has an empty description", step.StepNumber)
		}
	}
	if r.UpdatedAt.Before(r.CreatedAt) {
		return fmt.Errorf("updated_at cannot precede created_at")
	}
	return nil
}

// SetDefaults applies default values for fields omitted during JSONL import.
// Call this after json.Unmarshal to ensure missing fields have proper defaults.
func (r *BugRecord) SetDefaults() {
	if r.Severity == "" {
		r.Severity = SeverityMajor
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if r.BugType == "" {
		r.BugType = TypeFunctional
	}
	if r.Status == "" {
		r.Status = StatusNew
	}
	if r.Environment == "" {
		r.Environment = DefaultEnvironment
	}
}

// Clone returns a deep copy of the record. Stores hand out clones so callers
// cannot mutate shared state behind the version token's back.
func (r *BugRecord) Clone() *BugRecord {
	cp := *r
	if r.Resolution != nil {
		res := *r.Resolution
		cp.Resolution = &res
	}
	if r.StepsToReproduce != nil {
		cp.StepsToReproduce = make([]ReproStep, len(r.StepsToReproduce))
		copy(cp.StepsToReproduce, r.StepsToReproduce)
	}
	return &cp
}

// DefaultEnvironment is applied to new records that do not name one.
const DefaultEnvironment = "production"

// Status represents the current workflow position of a defect
type Status string

// Record status constants
const (
	StatusNew             Status = "new"
	StatusConfirmed       Status = "confirmed"
	StatusInProgress      Status = "in_progress"
	StatusFixed           Status = "fixed"
	StatusVerified        Status = "verified"
	StatusClosed          Status = "closed"
	StatusWontFix         Status = "wont_fix"
	StatusDuplicate       Status = "duplicate"
	StatusCannotReproduce Status = "cannot_reproduce"
)

// AllStatuses lists every status in workflow order.
var AllStatuses = []Status{
	StatusNew, StatusConfirmed, StatusInProgress, StatusFixed, StatusVerified,
	StatusClosed, StatusWontFix, StatusDuplicate, StatusCannotReproduce,
}

// IsValid checks if the status value is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusConfirmed, StatusInProgress, StatusFixed, StatusVerified,
		StatusClosed, StatusWontFix, StatusDuplicate, StatusCannotReproduce:
		return true
	}
	return false
}

// IsResolved returns true if the status is a terminal resolved state.
// Records in a resolved state carry a non-nil Resolution.
func (s Status) IsResolved() bool {
	switch s {
	case StatusClosed, StatusWontFix, StatusDuplicate, StatusCannotReproduce:
		return true
	}
	return false
}

// Label returns the human-readable form shown in CLI output.
func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "in progress"
	case StatusWontFix:
		return "won't fix"
	case StatusCannotReproduce:
		return "cannot reproduce"
	default:
		return string(s)
	}
}

// Severity grades the impact of a defect
type Severity string

// Severity constants, most severe first
const (
	SeverityBlocker  Severity = "blocker"
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
	SeverityTrivial  Severity = "trivial"
)

// AllSeverities lists every severity, most severe first.
var AllSeverities = []Severity{
	SeverityBlocker, SeverityCritical, SeverityMajor, SeverityMinor, SeverityTrivial,
}

// IsValid checks if the severity value is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeverityBlocker, SeverityCritical, SeverityMajor, SeverityMinor, SeverityTrivial:
		return true
	}
	return false
}

// Rank returns the sort order for the severity (0 = most severe).
// Unknown severities sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityBlocker:
		return 0
	case SeverityCritical:
		return 1
	case SeverityMajor:
		return 2
	case SeverityMinor:
		return 3
	case SeverityTrivial:
		return 4
	}
	return 5
}

// Priority ranks how urgently a defect should be worked
type Priority string

// Priority constants, most urgent first
const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// IsValid checks if the priority value is valid
func (p Priority) IsValid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank returns the sort order for the priority (0 = most urgent).
// Unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// BugType categorizes the kind of defect
type BugType string

// Bug type constants
const (
	TypeFunctional  BugType = "functional"
	TypePerformance BugType = "performance"
	TypeSecurity    BugType = "security"
	TypeUI          BugType = "ui"
	TypeData        BugType = "data"
	TypeIntegration BugType = "integration"
	TypeOther       BugType = "other"
)

// IsValid checks if the bug type value is valid
func (t BugType) IsValid() bool {
	switch t {
	case TypeFunctional, TypePerformance, TypeSecurity, TypeUI, TypeData, TypeIntegration, TypeOther:
		return true
	}
	return false
}

// Resolution is the terminal disposition of a defect, distinct from Status
// (the current workflow position). The resolution value selects the terminal
// status a close lands on.
type Resolution string

// Resolution constants
const (
	ResolutionFixed           Resolution = "fixed"
	ResolutionWontFix         Resolution = "wont_fix"
	ResolutionDuplicate       Resolution = "duplicate"
	ResolutionCannotReproduce Resolution = "cannot_reproduce"
)

// AllResolutions lists the four resolution kinds.
var AllResolutions = []Resolution{
	ResolutionFixed, ResolutionWontFix, ResolutionDuplicate, ResolutionCannotReproduce,
}

// IsValid checks if the resolution value is valid
func (r Resolution) IsValid() bool {
	switch r {
	case ResolutionFixed, ResolutionWontFix, ResolutionDuplicate, ResolutionCannotReproduce:
		return true
	}
	return false
}

// TargetStatus returns the terminal status a close with this resolution
// lands on.
func (r Resolution) TargetStatus() Status {
	switch r {
	case ResolutionFixed:
		return StatusClosed
	case ResolutionWontFix:
		return StatusWontFix
	case ResolutionDuplicate:
		return StatusDuplicate
	case ResolutionCannotReproduce:
		return StatusCannotReproduce
	}
	return ""
}

// Action names a lifecycle operation that may move a record between statuses
type Action string

// Lifecycle action constants
const (
	ActionCreate    Action = "create"
	ActionConfirm   Action = "confirm"
	ActionStart     Action = "start"
	ActionMarkFixed Action = "mark_fixed"
	ActionVerify    Action = "verify"
	ActionClose     Action = "close"
	ActionReopen    Action = "reopen"
)

// LifecycleEvent is the audit trail entry emitted for every successful
// transition. The engine produces events; persisting them is the timeline
// collaborator's concern.
type LifecycleEvent struct {
	RecordID   string            `json:"record_id"`
	FromStatus Status            `json:"from_status,omitempty"` // Empty for create
	ToStatus   Status            `json:"to_status"`
	Action     Action            `json:"action"`
	Actor      string            `json:"actor,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Payload    map[string]string `json:"payload,omitempty"`
}

// BugStats provides aggregate metrics over a record population
type BugStats struct {
	Total            int              `json:"total"`
	ByStatus         map[Status]int   `json:"by_status"`
	BySeverity       map[Severity]int `json:"by_severity"`
	ByType           map[BugType]int  `json:"by_type"`
	Regressions      int              `json:"regressions"`
	Open             int              `json:"open"`     // Not in a terminal resolved state
	Resolved         int              `json:"resolved"` // In a terminal resolved state
	AverageDaysToFix float64          `json:"average_days_to_fix"`
}

// RecordFilter is used to filter record list queries
type RecordFilter struct {
	Status        *Status
	Severity      *Severity
	Priority      *Priority
	BugType       *BugType
	IsRegression  *bool
	TitleContains string
	Limit         int
}

// Matches reports whether the record passes every set filter field.
func (f *RecordFilter) Matches(r *BugRecord) bool {
	if f.Status != nil && r.Status != *f.Status {
		return false
	}
	if f.Severity != nil && r.Severity != *f.Severity {
		return false
	}
	if f.Priority != nil && r.Priority != *f.Priority {
		return false
	}
	if f.BugType != nil && r.BugType != *f.BugType {
		return false
	}
	if f.IsRegression != nil && r.IsRegression != *f.IsRegression {
		return false
	}
	if f.TitleContains != "" && !strings.Contains(strings.ToLower(r.Title), strings.ToLower(f.TitleContains)) {
		return false
	}
	return true
}
