package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/bugs/internal/types"
)

type fakeHandler struct {
	id       string
	priority int
	seen     []*types.LifecycleEvent
	err      error
}

func (h *fakeHandler) ID() string    { return h.id }
func (h *fakeHandler) Priority() int { return h.priority }
func (h *fakeHandler) Handle(_ context.Context, ev *types.LifecycleEvent) error {
	h.seen = append(h.seen, ev)
	return h.err
}

func event(action types.Action) *types.LifecycleEvent {
	return &types.LifecycleEvent{
		RecordID:  "bug-1",
		Action:    action,
		ToStatus:  types.StatusConfirmed,
		Timestamp: time.Now(),
	}
}

func TestPublishReachesAllHandlers(t *testing.T) {
	bus := New()
	a := &fakeHandler{id: "a"}
	b := &fakeHandler{id: "b"}
	bus.Register(a)
	bus.Register(b)

	require.NoError(t, bus.Publish(context.Background(), event(types.ActionConfirm)))
	assert.Len(t, a.seen, 1)
	assert.Len(t, b.seen, 1)
}

func TestPublishOrdersByPriority(t *testing.T) {
	var order []string
	mk := func(id string, priority int) Handler {
		return &orderedHandler{id: id, priority: priority, order: &order}
	}
	bus := New()
	bus.Register(mk("late", 50))
	bus.Register(mk("early", 1))
	bus.Register(mk("middle", 10))

	require.NoError(t, bus.Publish(context.Background(), event(types.ActionCreate)))
	assert.Equal(t, []string{"early", "middle", "late"}, order)
}

type orderedHandler struct {
	id       string
	priority int
	order    *[]string
}

func (h *orderedHandler) ID() string    { return h.id }
func (h *orderedHandler) Priority() int { return h.priority }
func (h *orderedHandler) Handle(_ context.Context, _ *types.LifecycleEvent) error {
	*h.order = append(*h.order, h.id)
	return nil
}

func TestHandlerErrorDoesNotStopChain(t *testing.T) {
	bus := New()
	failing := &fakeHandler{id: "failing", priority: 1, err: errors.New("boom")}
	after := &fakeHandler{id: "after", priority: 2}
	bus.Register(failing)
	bus.Register(after)

	require.NoError(t, bus.Publish(context.Background(), event(types.ActionVerify)))
	assert.Len(t, after.seen, 1, "handler after the failing one still runs")
}

func TestPublishNilEvent(t *testing.T) {
	bus := New()
	assert.Error(t, bus.Publish(context.Background(), nil))
}

func TestPublishCancelledContext(t *testing.T) {
	bus := New()
	h := &fakeHandler{id: "h"}
	bus.Register(h)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := bus.Publish(ctx, event(types.ActionClose))
	assert.Error(t, err)
	assert.Empty(t, h.seen)
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	bus := New()
	bus.Register(rec)

	require.NoError(t, bus.Publish(context.Background(), event(types.ActionCreate)))
	require.NoError(t, bus.Publish(context.Background(), &types.LifecycleEvent{
		RecordID: "bug-2",
		Action:   types.ActionConfirm,
	}))

	assert.Len(t, rec.Events(), 2)
	assert.Len(t, rec.ForRecord("bug-1"), 1)
	assert.Len(t, rec.ForRecord("bug-2"), 1)
	assert.Empty(t, rec.ForRecord("bug-3"))
}
