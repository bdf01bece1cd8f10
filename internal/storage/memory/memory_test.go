package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/bugs/internal/lifecycle"
	"github.com/steveyegge/bugs/internal/storage"
	"github.com/steveyegge/bugs/internal/types"
)

func testRecord(id string) *types.BugRecord {
	now := time.Now()
	return &types.BugRecord{
		ID:        id,
		Key:       id,
		Title:     "Test record " + id,
		Severity:  types.SeverityMajor,
		Priority:  types.PriorityMedium,
		BugType:   types.TypeFunctional,
		Status:    types.StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

func TestCreateAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec := testRecord("bug-1")
	require.NoError(t, s.CreateRecord(ctx, rec))

	got, err := s.GetRecord(ctx, "bug-1")
	require.NoError(t, err)
	assert.Equal(t, rec.Title, got.Title)

	// Store hands out copies
	got.Title = "mutated"
	again, err := s.GetRecord(ctx, "bug-1")
	require.NoError(t, err)
	assert.Equal(t, rec.Title, again.Title)
}

func TestCreateDuplicateFails(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateRecord(ctx, testRecord("bug-1")))
	err := s.CreateRecord(ctx, testRecord("bug-1"))
	assert.ErrorIs(t, err, storage.ErrExists)
}

func TestGetMissing(t *testing.T) {
	s := New()
	_, err := s.GetRecord(context.Background(), "bug-nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateVersionGuard(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec := testRecord("bug-1")
	require.NoError(t, s.CreateRecord(ctx, rec))

	updated := rec.Clone()
	updated.Status = types.StatusConfirmed
	updated.Version = 2
	require.NoError(t, s.UpdateRecord(ctx, updated, 1))

	// A second writer still holding version 1 conflicts.
	stale := rec.Clone()
	stale.Status = types.StatusConfirmed
	stale.Version = 2
	err := s.UpdateRecord(ctx, stale, 1)
	var conflict *lifecycle.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(1), conflict.ExpectedVersion)
	assert.Equal(t, int64(2), conflict.ActualVersion)

	// Nothing was overwritten by the losing writer.
	got, err := s.GetRecord(ctx, "bug-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
}

func TestUpdateRejectsKeyChange(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec := testRecord("bug-1")
	require.NoError(t, s.CreateRecord(ctx, rec))

	renamed := rec.Clone()
	renamed.Key = "bug-other"
	err := s.UpdateRecord(ctx, renamed, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "immutable")
}

func TestListRecordsFilterAndOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	blocker := testRecord("bug-a")
	blocker.Severity = types.SeverityBlocker
	trivial := testRecord("bug-b")
	trivial.Severity = types.SeverityTrivial
	major := testRecord("bug-c")

	for _, r := range []*types.BugRecord{trivial, major, blocker} {
		require.NoError(t, s.CreateRecord(ctx, r))
	}

	all, err := s.ListRecords(ctx, types.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "bug-a", all[0].ID, "most severe first")
	assert.Equal(t, "bug-b", all[2].ID)

	sev := types.SeverityBlocker
	filtered, err := s.ListRecords(ctx, types.RecordFilter{Severity: &sev})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "bug-a", filtered[0].ID)

	limited, err := s.ListRecords(ctx, types.RecordFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestEventsTimeline(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i, action := range []types.Action{types.ActionCreate, types.ActionConfirm, types.ActionMarkFixed} {
		require.NoError(t, s.AppendEvent(ctx, &types.LifecycleEvent{
			RecordID:  "bug-1",
			Action:    action,
			Timestamp: time.Now().Add(time.Duration(i) * time.Second),
		}))
	}

	evs, err := s.GetEvents(ctx, "bug-1", 0)
	require.NoError(t, err)
	require.Len(t, evs, 3)
	assert.Equal(t, types.ActionCreate, evs[0].Action)

	recent, err := s.GetEvents(ctx, "bug-1", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, types.ActionConfirm, recent[0].Action)
	assert.Equal(t, types.ActionMarkFixed, recent[1].Action)
}

func TestConcurrentUpdatesSingleWinner(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.CreateRecord(ctx, testRecord("bug-1")))

	const writers = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := s.GetRecord(ctx, "bug-1")
			if err != nil {
				return
			}
			expected := rec.Version
			rec.Status = types.StatusConfirmed
			rec.Version = expected + 1
			if err := s.UpdateRecord(ctx, rec, expected); err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for range wins {
		winners++
	}
	// At least one writer succeeds; conflicting writers fail rather than
	// silently overwriting each other's versions.
	require.GreaterOrEqual(t, winners, 1)
	got, err := s.GetRecord(ctx, "bug-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1+winners), got.Version)
}

func TestRetryDoRetriesConflictOnce(t *testing.T) {
	calls := 0
	err := storage.RetryDo(context.Background(), func() error {
		calls++
		return &lifecycle.ConflictError{ID: "bug-1", ExpectedVersion: 1, ActualVersion: 2}
	})
	var conflict *lifecycle.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 2, calls, "exactly one retry, no retry storms")
}

func TestRetryDoSucceedsAfterConflict(t *testing.T) {
	calls := 0
	err := storage.RetryDo(context.Background(), func() error {
		calls++
		if calls == 1 {
			return &lifecycle.ConflictError{ID: "bug-1", ExpectedVersion: 1, ActualVersion: 2}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryDoDoesNotRetryOtherErrors(t *testing.T) {
	calls := 0
	sentinel := errors.New("boom")
	err := storage.RetryDo(context.Background(), func() error {
		calls++
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestAllReturnsPopulationSnapshot(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.CreateRecord(ctx, testRecord("bug-1")))
	require.NoError(t, s.CreateRecord(ctx, testRecord("bug-2")))

	all := s.All()
	require.Len(t, all, 2)
	all[0].Title = "mutated"
	got, err := s.GetRecord(ctx, all[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", got.Title)
}
