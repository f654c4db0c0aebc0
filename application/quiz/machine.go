// Package quiz drives the answer-collection flow: it sequences through
// the prompts of the chosen framework, submits each answer, classifies
// the consistency outcome and advances or terminates.
package quiz

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"mirror-client/application/events"
	"mirror-client/domain"
	"mirror-client/pkg/observability"
)

// State is the machine's position in the flow.
type State int

const (
	// StateLoadingPrompts waits for the prompt list. An empty or failed
	// fetch leaves the machine stalled here.
	StateLoadingPrompts State = iota
	// StatePresenting shows prompts[index] and accepts one answer or a
	// skip.
	StatePresenting
	// StateSubmitting has an add-question call in flight (or its flash
	// still on screen). New answer and skip input is ignored.
	StateSubmitting
	// StateCompleted is terminal until the framework is re-selected.
	StateCompleted
)

// Flash is the transient visual marker after a submission settles.
type Flash int

const (
	FlashNone Flash = iota
	FlashConsistent
	FlashInconsistent
)

// Gateway is the slice of the backend boundary the machine uses.
type Gateway interface {
	GetPrompts(ctx context.Context, frameworkID string) ([]string, error)
	AddQuestion(ctx context.Context, text string, answer domain.LikertAnswer, frameworkID string) (*domain.AddQuestionResponse, error)
}

// Sink receives every consistency batch a submission returns.
type Sink interface {
	Append(batch []domain.ConsistencyResult)
}

// Publisher posts machine events back to the owning dispatch loop.
type Publisher interface {
	Publish(events.Event)
}

// PromptsLoaded is the payload of events.KindPromptsLoaded.
type PromptsLoaded struct {
	FrameworkID string
	Generation  uint64
	Prompts     []string
	Err         error
}

// SubmissionSettled is the payload of events.KindSubmissionSettled.
type SubmissionSettled struct {
	Generation uint64
	Index      int
	Response   *domain.AddQuestionResponse
	Err        error
}

// AdvanceDue is the payload of events.KindAdvanceDue.
type AdvanceDue struct {
	Generation uint64
}

// Machine is the quiz flow state machine. All mutations go through its
// methods; asynchronous completions come back to it via the event bus so
// the owner applies them on the single dispatch goroutine.
type Machine struct {
	gateway Gateway
	sink    Sink
	bus     Publisher
	logger  *zap.Logger
	metrics *observability.Metrics

	// flashDelay is how long the consistent/inconsistent flash stays up
	// before advancing. Zero advances immediately.
	flashDelay time.Duration

	mu          sync.Mutex
	state       State
	frameworkID string
	generation  uint64
	prompts     []string
	index       int
	answered    int
	flash       Flash
	lastOutcome domain.Outcome
}

// NewMachine creates a machine in the loading state with no prompts.
func NewMachine(gateway Gateway, sink Sink, bus Publisher, metrics *observability.Metrics, flashDelay time.Duration, logger *zap.Logger) *Machine {
	return &Machine{
		gateway:    gateway,
		sink:       sink,
		bus:        bus,
		logger:     logger,
		metrics:    metrics,
		flashDelay: flashDelay,
	}
}

// Snapshot is a read-only view of the machine for rendering.
type Snapshot struct {
	State         State
	FrameworkID   string
	Index         int
	Total         int
	Answered      int
	CurrentPrompt string
	Flash         Flash
}

// Snapshot returns the current view state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{
		State:       m.state,
		FrameworkID: m.frameworkID,
		Index:       m.index,
		Total:       len(m.prompts),
		Answered:    m.answered,
		Flash:       m.flash,
	}
	if m.state == StatePresenting || m.state == StateSubmitting {
		s.CurrentPrompt = m.prompts[m.index]
	}
	return s
}

// Start resets the machine for a framework and fetches its prompt list.
// Re-selecting a framework always resets, including from completed. The
// generation token discards any stale fetch that resolves after a newer
// Start.
func (m *Machine) Start(ctx context.Context, frameworkID string) {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.frameworkID = frameworkID
	m.state = StateLoadingPrompts
	m.prompts = nil
	m.index = 0
	m.answered = 0
	m.flash = FlashNone
	m.mu.Unlock()

	m.logger.Info("Loading prompts", zap.String("framework_id", frameworkID))

	go func() {
		prompts, err := m.gateway.GetPrompts(ctx, frameworkID)
		m.bus.Publish(events.Event{
			Kind: events.KindPromptsLoaded,
			Payload: PromptsLoaded{
				FrameworkID: frameworkID,
				Generation:  gen,
				Prompts:     prompts,
				Err:         err,
			},
		})
	}()
}

// ApplyPromptsLoaded installs a resolved prompt list. Stale generations
// and failed or empty fetches leave the machine stalled in
// loading-prompts.
func (m *Machine) ApplyPromptsLoaded(p PromptsLoaded) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.Generation != m.generation {
		m.logger.Debug("Discarding stale prompt list", zap.String("framework_id", p.FrameworkID))
		return
	}
	if p.Err != nil {
		m.logger.Warn("Prompt fetch failed", zap.Error(p.Err))
		return
	}
	if len(p.Prompts) == 0 {
		m.logger.Warn("Framework has no prompts", zap.String("framework_id", p.FrameworkID))
		return
	}

	m.prompts = p.Prompts
	m.state = StatePresenting
}

// Answer accepts one of the five Likert answers for the current prompt
// and starts the submission. Input is ignored unless the machine is
// presenting, which also enforces the at-most-one-in-flight invariant.
func (m *Machine) Answer(ctx context.Context, answer domain.LikertAnswer) bool {
	if !answer.IsValid() {
		return false
	}

	m.mu.Lock()
	if m.state != StatePresenting {
		m.mu.Unlock()
		return false
	}
	prompt := m.prompts[m.index]
	gen := m.generation
	index := m.index
	frameworkID := m.frameworkID
	m.state = StateSubmitting
	m.mu.Unlock()

	go func() {
		resp, err := m.gateway.AddQuestion(ctx, prompt, answer, frameworkID)
		m.bus.Publish(events.Event{
			Kind: events.KindSubmissionSettled,
			Payload: SubmissionSettled{
				Generation: gen,
				Index:      index,
				Response:   resp,
				Err:        err,
			},
		})
	}()
	return true
}

// Key maps keyboard input 1-5 to the five Likert answers. Active only
// while presenting; anything else is ignored.
func (m *Machine) Key(ctx context.Context, r rune) bool {
	if r < '1' || r > '5' {
		return false
	}
	return m.Answer(ctx, domain.LikertOptions[r-'1'])
}

// Skip advances past the current prompt without submitting and without
// incrementing the answered counter.
func (m *Machine) Skip() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StatePresenting {
		return false
	}
	m.advanceLocked()
	return true
}

// ApplySubmissionSettled merges a finished submission. Success
// classifies the batch, feeds the sink and flashes before advancing;
// failure advances immediately with no counter increment and no flash.
func (m *Machine) ApplySubmissionSettled(s SubmissionSettled) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.Generation != m.generation || m.state != StateSubmitting {
		return
	}

	if s.Err != nil {
		// Silently advance; the quiz never blocks on a backend failure.
		m.logger.Warn("Submission failed, advancing", zap.Int("index", s.Index), zap.Error(s.Err))
		m.advanceLocked()
		return
	}

	outcome := domain.ClassifyBatch(s.Response.Consistency)
	m.lastOutcome = outcome
	m.sink.Append(s.Response.Consistency)
	m.answered++

	if outcome == domain.OutcomeInconsistent {
		m.flash = FlashInconsistent
	} else {
		m.flash = FlashConsistent
	}
	if m.metrics != nil {
		label := "consistent"
		if outcome == domain.OutcomeInconsistent {
			label = "inconsistent"
		}
		m.metrics.SubmissionsTotal.WithLabelValues(label).Inc()
	}

	if m.flashDelay <= 0 {
		m.advanceLocked()
		return
	}

	gen := m.generation
	time.AfterFunc(m.flashDelay, func() {
		m.bus.Publish(events.Event{
			Kind:    events.KindAdvanceDue,
			Payload: AdvanceDue{Generation: gen},
		})
	})
}

// ApplyAdvanceDue ends the flash and advances, unless the machine was
// reset in the meantime.
func (m *Machine) ApplyAdvanceDue(a AdvanceDue) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a.Generation != m.generation || m.state != StateSubmitting {
		return
	}
	m.advanceLocked()
}

// LastOutcome returns the classification of the most recent successful
// submission.
func (m *Machine) LastOutcome() domain.Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastOutcome
}

// advanceLocked moves to the next prompt or completes. Callers hold the
// mutex.
func (m *Machine) advanceLocked() {
	m.flash = FlashNone
	m.index++
	if m.index >= len(m.prompts) {
		m.state = StateCompleted
		m.index = len(m.prompts)
		m.logger.Info("Quiz completed",
			zap.String("framework_id", m.frameworkID),
			zap.Int("answered", m.answered),
		)
		return
	}
	m.state = StatePresenting
}
