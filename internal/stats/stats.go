// Package stats derives aggregate metrics from a defect record population.
// The aggregator is pure: it takes an immutable snapshot and recomputes from
// scratch on every call, so it has no ordering dependency on concurrent
// transitions.
package stats

import (
	"github.com/steveyegge/bugs/internal/types"
)

// Compute aggregates a record population into BugStats. The returned maps
// contain only statuses/severities/types with nonzero counts; callers
// iterating for display should walk types.AllStatuses etc. for stable order.
func Compute(records []*types.BugRecord) types.BugStats {
	s := types.BugStats{
		ByStatus:   make(map[types.Status]int),
		BySeverity: make(map[types.Severity]int),
		ByType:     make(map[types.BugType]int),
	}

	var fixDays float64
	var fixed int
	for _, r := range records {
		if r == nil {
			continue
		}
		s.Total++
		s.ByStatus[r.Status]++
		s.BySeverity[r.Severity]++
		s.ByType[r.BugType]++
		if r.IsRegression {
			s.Regressions++
		}
		if r.Status.IsResolved() {
			s.Resolved++
			if !r.UpdatedAt.Before(r.CreatedAt) {
				fixDays += r.UpdatedAt.Sub(r.CreatedAt).Hours() / 24
				fixed++
			}
		} else {
			s.Open++
		}
	}

	if fixed > 0 {
		s.AverageDaysToFix = fixDays / float64(fixed)
	}
	return s
}
