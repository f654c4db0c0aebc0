// Package events is the typed event channel between the UI surfaces and
// the state containers. A child emits an Event{Kind, Payload}; the
// composition root runs a single dispatch loop that routes it to the
// registered handlers, so every state mutation happens on one goroutine.
package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Kind identifies the event variant.
type Kind string

const (
	// KindPromptsLoaded carries quiz.PromptsLoaded.
	KindPromptsLoaded Kind = "prompts_loaded"
	// KindSubmissionSettled carries quiz.SubmissionSettled.
	KindSubmissionSettled Kind = "submission_settled"
	// KindAdvanceDue fires when a submission flash delay has elapsed.
	KindAdvanceDue Kind = "advance_due"
	// KindNodeClicked carries a *domain.SelectedNode emitted by the view.
	KindNodeClicked Kind = "node_clicked"
	// KindGraphRefreshed fires after the graph cache settles a refresh.
	KindGraphRefreshed Kind = "graph_refreshed"
	// KindScreenChanged fires when the active screen switches.
	KindScreenChanged Kind = "screen_changed"
)

// Event is one typed message.
type Event struct {
	Kind    Kind
	Payload interface{}
}

// Handler consumes events of one kind.
type Handler func(Event)

// Bus routes events to handlers registered per kind.
type Bus struct {
	logger *zap.Logger
	ch     chan Event

	mu       sync.RWMutex
	handlers map[Kind][]Handler
}

// NewBus creates a bus with the given channel capacity.
func NewBus(capacity int, logger *zap.Logger) *Bus {
	if capacity <= 0 {
		capacity = 64
	}
	return &Bus{
		logger:   logger,
		ch:       make(chan Event, capacity),
		handlers: make(map[Kind][]Handler),
	}
}

// Subscribe registers a handler for one event kind.
func (b *Bus) Subscribe(kind Kind, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], handler)
}

// Publish enqueues an event for the dispatch loop. Publishing never
// blocks the caller and never loses the event: a full queue hands
// delivery off to a goroutine. State machines rely on this, a lost
// AdvanceDue would leave the quiz stuck in its flash state.
func (b *Bus) Publish(event Event) {
	select {
	case b.ch <- event:
	default:
		b.logger.Warn("Event queue full, deferring delivery", zap.String("kind", string(event.Kind)))
		go func() { b.ch <- event }()
	}
}

// Run drains the queue and dispatches until the context is cancelled.
// This is the single goroutine on which all state mutations happen.
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-b.ch:
			b.Dispatch(event)
		}
	}
}

// Dispatch routes one event synchronously. Exposed so tests and the
// interactive loop can drive the bus without a background goroutine.
func (b *Bus) Dispatch(event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.Kind]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("No handler registered for event", zap.String("kind", string(event.Kind)))
		return
	}
	for _, h := range handlers {
		h(event)
	}
}

// Drain dispatches all queued events and returns. Used by the
// interactive loop between input reads.
func (b *Bus) Drain() {
	for {
		select {
		case event := <-b.ch:
			b.Dispatch(event)
		default:
			return
		}
	}
}
