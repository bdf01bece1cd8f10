package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/bugs/internal/types"
)

func record(status types.Status, severity types.Severity, bugType types.BugType, regression bool) *types.BugRecord {
	r := &types.BugRecord{
		Title:        "t",
		Severity:     severity,
		Priority:     types.PriorityMedium,
		BugType:      bugType,
		Status:       status,
		IsRegression: regression,
	}
	if status.IsResolved() {
		res := types.ResolutionFixed
		r.Resolution = &res
	}
	return r
}

func TestComputeEmptyPopulation(t *testing.T) {
	s := Compute(nil)
	assert.Equal(t, 0, s.Total)
	assert.Empty(t, s.ByStatus)
	assert.Zero(t, s.AverageDaysToFix)
}

func TestComputeCounts(t *testing.T) {
	population := []*types.BugRecord{
		record(types.StatusNew, types.SeverityBlocker, types.TypeFunctional, false),
		record(types.StatusNew, types.SeverityMajor, types.TypeUI, true),
		record(types.StatusConfirmed, types.SeverityMajor, types.TypeFunctional, false),
		record(types.StatusFixed, types.SeverityCritical, types.TypeSecurity, true),
		record(types.StatusClosed, types.SeverityMinor, types.TypePerformance, false),
		record(types.StatusWontFix, types.SeverityTrivial, types.TypeOther, false),
		record(types.StatusDuplicate, types.SeverityMajor, types.TypeFunctional, true),
	}

	s := Compute(population)

	assert.Equal(t, 7, s.Total)
	assert.Equal(t, 2, s.ByStatus[types.StatusNew])
	assert.Equal(t, 1, s.ByStatus[types.StatusConfirmed])
	assert.Equal(t, 1, s.ByStatus[types.StatusClosed])
	assert.Equal(t, 3, s.BySeverity[types.SeverityMajor])
	assert.Equal(t, 3, s.ByType[types.TypeFunctional])
	assert.Equal(t, 3, s.Regressions)
	assert.Equal(t, 4, s.Open)
	assert.Equal(t, 3, s.Resolved)
}

// sum(byStatus) == total == len(population) for any population.
func TestComputeConsistency(t *testing.T) {
	populations := [][]*types.BugRecord{
		nil,
		{record(types.StatusNew, types.SeverityMajor, types.TypeFunctional, false)},
		{
			record(types.StatusVerified, types.SeverityBlocker, types.TypeData, true),
			record(types.StatusInProgress, types.SeverityMinor, types.TypeIntegration, false),
			record(types.StatusCannotReproduce, types.SeverityMajor, types.TypeOther, false),
			record(types.StatusClosed, types.SeverityCritical, types.TypeSecurity, true),
		},
	}

	for _, population := range populations {
		s := Compute(population)
		require.Equal(t, len(population), s.Total)

		statusSum := 0
		for _, n := range s.ByStatus {
			statusSum += n
		}
		assert.Equal(t, s.Total, statusSum, "sum(byStatus) must equal total")

		severitySum := 0
		for _, n := range s.BySeverity {
			severitySum += n
		}
		assert.Equal(t, s.Total, severitySum, "sum(bySeverity) must equal total")

		assert.Equal(t, s.Total, s.Open+s.Resolved, "open/resolved must partition the population")
	}
}

func TestComputeAverageDaysToFix(t *testing.T) {
	created := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	closedIn2 := record(types.StatusClosed, types.SeverityMajor, types.TypeFunctional, false)
	closedIn2.CreatedAt = created
	closedIn2.UpdatedAt = created.Add(48 * time.Hour)

	closedIn4 := record(types.StatusWontFix, types.SeverityMajor, types.TypeFunctional, false)
	closedIn4.CreatedAt = created
	closedIn4.UpdatedAt = created.Add(96 * time.Hour)

	stillOpen := record(types.StatusConfirmed, types.SeverityMajor, types.TypeFunctional, false)
	stillOpen.CreatedAt = created
	stillOpen.UpdatedAt = created.Add(240 * time.Hour) // open records don't count

	s := Compute([]*types.BugRecord{closedIn2, closedIn4, stillOpen})
	assert.InDelta(t, 3.0, s.AverageDaysToFix, 0.001)
}

func TestComputeDoesNotMutate(t *testing.T) {
	r := record(types.StatusNew, types.SeverityMajor, types.TypeFunctional, false)
	before := *r
	Compute([]*types.BugRecord{r})
	assert.Equal(t, before, *r)
}
