package eventbus

import (
	"context"
	"sync"

	"github.com/steveyegge/bugs/internal/types"
)

// Recorder is a handler that retains every event it sees, oldest first.
// It backs the CLI timeline output and is the standard test double for
// asserting emitted events.
type Recorder struct {
	mu     sync.Mutex
	events []*types.LifecycleEvent
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// ID implements Handler.
func (r *Recorder) ID() string { return "recorder" }

// Priority implements Handler. Recording runs after domain handlers.
func (r *Recorder) Priority() int { return 100 }

// Handle implements Handler.
func (r *Recorder) Handle(_ context.Context, event *types.LifecycleEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a snapshot of recorded events, oldest first.
func (r *Recorder) Events() []*types.LifecycleEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*types.LifecycleEvent, len(r.events))
	copy(out, r.events)
	return out
}

// ForRecord returns recorded events for one record, oldest first.
func (r *Recorder) ForRecord(recordID string) []*types.LifecycleEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.LifecycleEvent
	for _, ev := range r.events {
		if ev.RecordID == recordID {
			out = append(out, ev)
		}
	}
	return out
}
