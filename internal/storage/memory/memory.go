// Package memory implements the storage interface using in-memory data
// structures. This backs the CLI's JSONL mode, where the population is
// loaded at startup and written back after each command, and is the
// reference store for tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/steveyegge/bugs/internal/lifecycle"
	"github.com/steveyegge/bugs/internal/storage"
	"github.com/steveyegge/bugs/internal/types"
)

// Store implements storage.Store using maps guarded by an RWMutex.
type Store struct {
	mu sync.RWMutex

	records map[string]*types.BugRecord
	events  map[string][]*types.LifecycleEvent

	closed bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		records: make(map[string]*types.BugRecord),
		events:  make(map[string][]*types.LifecycleEvent),
	}
}

// CreateRecord stores a copy of the record. The ID must be unused.
func (s *Store) CreateRecord(_ context.Context, rec *types.BugRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("record must have an ID")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("store is closed")
	}
	if _, ok := s.records[rec.ID]; ok {
		return fmt.Errorf("%w: %s", storage.ErrExists, rec.ID)
	}
	s.records[rec.ID] = rec.Clone()
	return nil
}

// GetRecord returns a copy of the record with the given ID.
func (s *Store) GetRecord(_ context.Context, id string) (*types.BugRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return rec.Clone(), nil
}

// ListRecords returns copies of all records passing the filter, sorted by
// severity rank then creation time so the most severe, oldest defects lead.
func (s *Store) ListRecords(_ context.Context, filter types.RecordFilter) ([]*types.BugRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*types.BugRecord
	for _, rec := range s.records {
		if filter.Matches(rec) {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Severity.Rank(), out[j].Severity.Rank()
		if ri != rj {
			return ri < rj
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// UpdateRecord replaces the stored record if the stored version still equals
// expectedVersion. The check and the write are a single critical section, so
// concurrent actors cannot interleave between them.
func (s *Store) UpdateRecord(_ context.Context, rec *types.BugRecord, expectedVersion int64) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("record must have an ID")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.records[rec.ID]
	if !ok {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, rec.ID)
	}
	if current.Version != expectedVersion {
		return &lifecycle.ConflictError{
			ID:              rec.ID,
			ExpectedVersion: expectedVersion,
			ActualVersion:   current.Version,
		}
	}
	// Key and ID are immutable once assigned.
	if rec.Key != current.Key {
		return fmt.Errorf("record key is immutable (have %s, got %s)", current.Key, rec.Key)
	}
	s.records[rec.ID] = rec.Clone()
	return nil
}

// AppendEvent adds a lifecycle event to the record's timeline.
func (s *Store) AppendEvent(_ context.Context, event *types.LifecycleEvent) error {
	if event == nil || event.RecordID == "" {
		return fmt.Errorf("event must reference a record")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := *event
	s.events[event.RecordID] = append(s.events[event.RecordID], &ev)
	return nil
}

// GetEvents returns the record's timeline, oldest first. A limit of 0 means
// no limit; a positive limit keeps the most recent events.
func (s *Store) GetEvents(_ context.Context, recordID string, limit int) ([]*types.LifecycleEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	evs := s.events[recordID]
	if limit > 0 && len(evs) > limit {
		evs = evs[len(evs)-limit:]
	}
	out := make([]*types.LifecycleEvent, len(evs))
	for i, ev := range evs {
		cp := *ev
		out[i] = &cp
	}
	return out, nil
}

// Close marks the store closed. Reads keep working; creates fail.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// All returns a copy of the whole population, for stats and JSONL export.
func (s *Store) All() []*types.BugRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.BugRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
