package events

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBus_RoutesByKind(t *testing.T) {
	bus := NewBus(8, zap.NewNop())

	var got []string
	bus.Subscribe(KindGraphRefreshed, func(e Event) { got = append(got, "graph") })
	bus.Subscribe(KindScreenChanged, func(e Event) { got = append(got, "screen") })

	bus.Publish(Event{Kind: KindGraphRefreshed})
	bus.Publish(Event{Kind: KindScreenChanged})
	bus.Publish(Event{Kind: KindGraphRefreshed})
	bus.Drain()

	assert.Equal(t, []string{"graph", "screen", "graph"}, got)
}

func TestBus_AllHandlersForAKindRun(t *testing.T) {
	bus := NewBus(8, zap.NewNop())

	calls := 0
	bus.Subscribe(KindNodeClicked, func(Event) { calls++ })
	bus.Subscribe(KindNodeClicked, func(Event) { calls++ })

	bus.Dispatch(Event{Kind: KindNodeClicked})

	assert.Equal(t, 2, calls)
}

func TestBus_PublishNeverBlocksWhenFull(t *testing.T) {
	bus := NewBus(1, zap.NewNop())
	bus.Publish(Event{Kind: KindAdvanceDue})

	done := make(chan struct{})
	go func() {
		bus.Publish(Event{Kind: KindAdvanceDue})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}

func TestBus_OverflowNeverDropsEvents(t *testing.T) {
	bus := NewBus(1, zap.NewNop())
	var seen atomic.Int32
	bus.Subscribe(KindAdvanceDue, func(Event) { seen.Add(1) })

	// Far more events than the queue holds; every one must still arrive.
	for i := 0; i < 20; i++ {
		bus.Publish(Event{Kind: KindAdvanceDue})
	}

	require.Eventually(t, func() bool {
		bus.Drain()
		return seen.Load() == 20
	}, time.Second, 2*time.Millisecond)
}

func TestBus_RunDispatchesUntilCancelled(t *testing.T) {
	bus := NewBus(8, zap.NewNop())
	var seen atomic.Int32
	bus.Subscribe(KindPromptsLoaded, func(Event) { seen.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	go bus.Run(ctx)

	bus.Publish(Event{Kind: KindPromptsLoaded})
	bus.Publish(Event{Kind: KindPromptsLoaded})
	require.Eventually(t, func() bool { return seen.Load() == 2 }, time.Second, 2*time.Millisecond)

	cancel()
}

func TestBus_UnhandledKindIsDropped(t *testing.T) {
	bus := NewBus(8, zap.NewNop())

	assert.NotPanics(t, func() {
		bus.Dispatch(Event{Kind: KindSubmissionSettled, Payload: struct{}{}})
	})
}
