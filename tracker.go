package bugs

import (
	"context"
	"errors"
	"fmt"

	"github.com/steveyegge/bugs/internal/eventbus"
	"github.com/steveyegge/bugs/internal/lifecycle"
	"github.com/steveyegge/bugs/internal/stats"
	"github.com/steveyegge/bugs/internal/storage"
	"github.com/steveyegge/bugs/internal/types"
)

// keyCollisionAttempts bounds nonce retries when a generated key is taken.
const keyCollisionAttempts = 3

// Tracker combines the pure lifecycle engine with a store and an event bus.
// Each mutating call is one guarded read-modify-write: fetch the record,
// run the engine handler against the caller's expected version, and persist
// the result under the store's own version guard. On success the lifecycle
// event is appended to the store's timeline and published on the bus.
type Tracker struct {
	store  storage.Store
	engine *lifecycle.Engine
	bus    *eventbus.Bus
}

// NewTracker creates a tracker. The bus may be nil if no consumers
// subscribe.
func NewTracker(store storage.Store, engine *lifecycle.Engine, bus *eventbus.Bus) *Tracker {
	if engine == nil {
		engine = lifecycle.NewEngine()
	}
	return &Tracker{store: store, engine: engine, bus: bus}
}

// Subscribe registers a lifecycle event handler.
func (t *Tracker) Subscribe(h eventbus.Handler) {
	if t.bus == nil {
		t.bus = eventbus.New()
	}
	t.bus.Register(h)
}

// Create validates the input and stores a new record in status "new".
// Generated keys that collide with existing records are retried with a
// perturbed nonce a bounded number of times.
func (t *Tracker) Create(ctx context.Context, input CreateInput, actor string) (*BugRecord, error) {
	for nonce := 0; nonce < keyCollisionAttempts; nonce++ {
		input.Nonce = nonce
		rec, ev, err := t.engine.Create(input, actor)
		if err != nil {
			return nil, err
		}
		err = t.store.CreateRecord(ctx, rec)
		if errors.Is(err, storage.ErrExists) && input.Key == "" {
			continue
		}
		if err != nil {
			return nil, err
		}
		t.emit(ctx, ev)
		return rec, nil
	}
	return nil, fmt.Errorf("could not allocate a unique record key after %d attempts", keyCollisionAttempts)
}

// Confirm moves a record from "new" to "confirmed".
func (t *Tracker) Confirm(ctx context.Context, id string, expectedVersion int64, actor string) (*BugRecord, error) {
	return t.mutate(ctx, id, func(rec *types.BugRecord) (*types.BugRecord, *types.LifecycleEvent, error) {
		return t.engine.Confirm(rec, expectedVersion, actor)
	})
}

// Start moves a confirmed record into "in_progress".
func (t *Tracker) Start(ctx context.Context, id string, expectedVersion int64, actor string) (*BugRecord, error) {
	return t.mutate(ctx, id, func(rec *types.BugRecord) (*types.BugRecord, *types.LifecycleEvent, error) {
		return t.engine.Start(rec, expectedVersion, actor)
	})
}

// MarkFixed moves a confirmed or in-progress record to "fixed".
func (t *Tracker) MarkFixed(ctx context.Context, id string, expectedVersion int64, payload FixPayload, actor string) (*BugRecord, error) {
	return t.mutate(ctx, id, func(rec *types.BugRecord) (*types.BugRecord, *types.LifecycleEvent, error) {
		return t.engine.MarkFixed(rec, expectedVersion, payload, actor)
	})
}

// Verify moves a fixed record to "verified".
func (t *Tracker) Verify(ctx context.Context, id string, expectedVersion int64, actor string) (*BugRecord, error) {
	return t.mutate(ctx, id, func(rec *types.BugRecord) (*types.BugRecord, *types.LifecycleEvent, error) {
		return t.engine.Verify(rec, expectedVersion, actor)
	})
}

// Close moves a record into the terminal status selected by the resolution.
func (t *Tracker) Close(ctx context.Context, id string, expectedVersion int64, payload ClosePayload, actor string) (*BugRecord, error) {
	return t.mutate(ctx, id, func(rec *types.BugRecord) (*types.BugRecord, *types.LifecycleEvent, error) {
		return t.engine.Close(rec, expectedVersion, payload, actor)
	})
}

// Reopen moves a resolved record back to "confirmed".
func (t *Tracker) Reopen(ctx context.Context, id string, expectedVersion int64, payload ReopenPayload, actor string) (*BugRecord, error) {
	return t.mutate(ctx, id, func(rec *types.BugRecord) (*types.BugRecord, *types.LifecycleEvent, error) {
		return t.engine.Reopen(rec, expectedVersion, payload, actor)
	})
}

// Get returns the record with the given ID.
func (t *Tracker) Get(ctx context.Context, id string) (*BugRecord, error) {
	rec, err := t.store.GetRecord(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &lifecycle.NotFoundError{ID: id}
	}
	return rec, err
}

// List returns the records passing the filter.
func (t *Tracker) List(ctx context.Context, filter RecordFilter) ([]*BugRecord, error) {
	return t.store.ListRecords(ctx, filter)
}

// Events returns a record's timeline, oldest first.
func (t *Tracker) Events(ctx context.Context, id string, limit int) ([]*LifecycleEvent, error) {
	if _, err := t.Get(ctx, id); err != nil {
		return nil, err
	}
	return t.store.GetEvents(ctx, id, limit)
}

// Stats recomputes aggregate metrics over the current population.
func (t *Tracker) Stats(ctx context.Context) (BugStats, error) {
	records, err := t.store.ListRecords(ctx, RecordFilter{})
	if err != nil {
		return BugStats{}, err
	}
	return ComputeStats(records), nil
}

// ComputeStats derives aggregate metrics from a record population snapshot.
func ComputeStats(records []*BugRecord) BugStats {
	return stats.Compute(records)
}

func (t *Tracker) mutate(ctx context.Context, id string, op func(*types.BugRecord) (*types.BugRecord, *types.LifecycleEvent, error)) (*BugRecord, error) {
	rec, err := t.store.GetRecord(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &lifecycle.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, err
	}

	updated, ev, err := op(rec)
	if err != nil {
		return nil, err
	}

	// The store's own guard catches writers that raced us between the
	// fetch above and this write.
	if err := t.store.UpdateRecord(ctx, updated, rec.Version); err != nil {
		return nil, err
	}

	t.emit(ctx, ev)
	return updated, nil
}

func (t *Tracker) emit(ctx context.Context, ev *types.LifecycleEvent) {
	if ev == nil {
		return
	}
	// Timeline append failures do not undo a committed transition; the
	// event still reaches bus subscribers.
	_ = t.store.AppendEvent(ctx, ev)
	if t.bus != nil {
		_ = t.bus.Publish(ctx, ev)
	}
}
