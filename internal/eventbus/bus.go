// Package eventbus dispatches lifecycle events to registered handlers. The
// engine publishes one event per successful transition; timeline and audit
// consumers subscribe here.
package eventbus

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/steveyegge/bugs/internal/types"
)

// Handler consumes lifecycle events.
type Handler interface {
	// ID identifies the handler in logs.
	ID() string
	// Priority orders dispatch; lower runs first.
	Priority() int
	// Handle processes one event. Errors are logged, not propagated.
	Handle(ctx context.Context, event *types.LifecycleEvent) error
}

// Bus dispatches lifecycle events to registered handlers sequentially in
// priority order. Handler errors are logged but do not stop the chain.
type Bus struct {
	handlers []Handler
	mu       sync.RWMutex
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{}
}

// Register adds a handler to the bus. Handlers are sorted by priority on
// each Publish call, so registration order does not matter.
func (b *Bus) Register(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish sends an event to all registered handlers.
func (b *Bus) Publish(ctx context.Context, event *types.LifecycleEvent) error {
	if event == nil {
		return fmt.Errorf("eventbus: nil event")
	}

	b.mu.RLock()
	ordered := make([]Handler, len(b.handlers))
	copy(ordered, b.handlers)
	b.mu.RUnlock()

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})

	for _, h := range ordered {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("eventbus: context cancelled: %w", err)
		}
		if err := h.Handle(ctx, event); err != nil {
			log.Printf("eventbus: handler %q error for %s on %s: %v", h.ID(), event.Action, event.RecordID, err)
		}
	}

	return nil
}

// Handlers returns all registered handlers (for introspection).
func (b *Bus) Handlers() []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Handler, len(b.handlers))
	copy(out, b.handlers)
	return out
}
