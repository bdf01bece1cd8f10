// Package validation holds field-level rules for defect records, independent
// of lifecycle transitions.
package validation

import (
	"fmt"
	"strings"

	"github.com/steveyegge/bugs/internal/types"
)

// MaxTitleLength caps record titles.
const MaxTitleLength = 500

// ValidateTitle trims the title and checks it is non-empty and within the
// length cap. Returns the trimmed title.
func ValidateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("title is required")
	}
	if len(title) > MaxTitleLength {
		return "", fmt.Errorf("title must be %d characters or less (got %d)", MaxTitleLength, len(title))
	}
	return title, nil
}

// NormalizeSteps filters out steps with empty descriptions and renumbers the
// remainder 1..n. Input order is preserved; input step numbers are ignored.
// Empty steps are dropped at the submission boundary, never silently stored.
func NormalizeSteps(steps []types.ReproStep) []types.ReproStep {
	if len(steps) == 0 {
		return nil
	}
	out := make([]types.ReproStep, 0, len(steps))
	for _, s := range steps {
		desc := strings.TrimSpace(s.Description)
		if desc == "" {
			continue
		}
		out = append(out, types.ReproStep{
			StepNumber:  len(out) + 1,
			Description: desc,
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// InsertStep adds a step description at a 1-based position and renumbers.
// Positions past the end append; positions below 1 prepend.
func InsertStep(steps []types.ReproStep, position int, description string) ([]types.ReproStep, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("step description is required")
	}
	if position < 1 {
		position = 1
	}
	if position > len(steps)+1 {
		position = len(steps) + 1
	}
	out := make([]types.ReproStep, 0, len(steps)+1)
	out = append(out, steps[:position-1]...)
	out = append(out, types.ReproStep{Description: description})
	out = append(out, steps[position-1:]...)
	for i := range out {
		out[i].StepNumber = i + 1
	}
	return out, nil
}

// RemoveStep deletes the step at a 1-based position and renumbers.
func RemoveStep(steps []types.ReproStep, position int) ([]types.ReproStep, error) {
	if position < 1 || position > len(steps) {
		return nil, fmt.Errorf("no step %d (record has %d steps)", position, len(steps))
	}
	out := make([]types.ReproStep, 0, len(steps)-1)
	out = append(out, steps[:position-1]...)
	out = append(out, steps[position:]...)
	for i := range out {
		out[i].StepNumber = i + 1
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// ParseSeverity extracts and validates a severity from CLI/boundary input.
// Returns the validated severity or an error if invalid.
func ParseSeverity(content string) (types.Severity, error) {
	sev := types.Severity(strings.ToLower(strings.TrimSpace(content)))
	if !sev.IsValid() {
		return types.SeverityMajor, fmt.Errorf("invalid severity %q (valid: blocker, critical, major, minor, trivial)", content)
	}
	return sev, nil
}

// ParsePriority extracts and validates a priority from CLI/boundary input.
func ParsePriority(content string) (types.Priority, error) {
	pri := types.Priority(strings.ToLower(strings.TrimSpace(content)))
	if !pri.IsValid() {
		return types.PriorityMedium, fmt.Errorf("invalid priority %q (valid: critical, high, medium, low)", content)
	}
	return pri, nil
}

// ParseBugType extracts and validates a bug type from CLI/boundary input.
func ParseBugType(content string) (types.BugType, error) {
	bt := types.BugType(strings.ToLower(strings.TrimSpace(content)))
	if !bt.IsValid() {
		return types.TypeFunctional, fmt.Errorf("invalid bug type %q (valid: functional, performance, security, ui, data, integration, other)", content)
	}
	return bt, nil
}

// ParseResolution extracts and validates a resolution from CLI/boundary input.
// Accepts both underscore and hyphen forms (wont_fix / wont-fix).
func ParseResolution(content string) (types.Resolution, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(content)), "-", "_")
	res := types.Resolution(normalized)
	if !res.IsValid() {
		return "", fmt.Errorf("invalid resolution %q (valid: fixed, wont_fix, duplicate, cannot_reproduce)", content)
	}
	return res, nil
}

// ParseStatus extracts and validates a status from CLI/boundary input.
// Accepts both underscore and hyphen forms (in_progress / in-progress).
func ParseStatus(content string) (types.Status, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(content)), "-", "_")
	s := types.Status(normalized)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid status %q", content)
	}
	return s, nil
}
