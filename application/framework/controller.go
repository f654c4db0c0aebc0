// Package framework owns the active framework identity and routes
// between the three screens: select framework, quiz, graph.
package framework

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"mirror-client/application/events"
	"mirror-client/domain"
)

// Screen is the active top-level view.
type Screen int

const (
	ScreenSelect Screen = iota
	ScreenQuiz
	ScreenGraph
)

// Lister fetches the framework metadata list.
type Lister interface {
	ListFrameworks(ctx context.Context) ([]domain.Framework, error)
}

// QuizStarter resets the quiz flow for a framework.
type QuizStarter interface {
	Start(ctx context.Context, frameworkID string)
}

// Publisher posts screen-change events to the dispatch loop.
type Publisher interface {
	Publish(events.Event)
}

// Controller is the single owner of the active framework and screen.
// Both live for the whole process: the framework initializes to a
// default, is replaced on user selection and never deleted.
type Controller struct {
	lister Lister
	quiz   QuizStarter
	bus    Publisher
	logger *zap.Logger

	mu         sync.Mutex
	frameworks []domain.Framework
	activeID   string
	screen     Screen
}

// NewController starts on the selection screen with the default
// framework active.
func NewController(lister Lister, quiz QuizStarter, bus Publisher, logger *zap.Logger) *Controller {
	return &Controller{
		lister:   lister,
		quiz:     quiz,
		bus:      bus,
		logger:   logger,
		activeID: domain.DefaultFrameworkID,
		screen:   ScreenSelect,
	}
}

// LoadFrameworks fetches the framework list once. A failed fetch is
// logged and ignored; the list simply stays empty.
func (c *Controller) LoadFrameworks(ctx context.Context) {
	frameworks, err := c.lister.ListFrameworks(ctx)
	if err != nil {
		c.logger.Warn("Framework list fetch failed", zap.Error(err))
		return
	}
	c.mu.Lock()
	c.frameworks = frameworks
	c.mu.Unlock()
}

// Frameworks returns a copy of the fetched metadata list.
func (c *Controller) Frameworks() []domain.Framework {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Framework, len(c.frameworks))
	copy(out, c.frameworks)
	return out
}

// Active returns the active framework's metadata when known.
func (c *Controller) Active() (domain.Framework, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, fw := range c.frameworks {
		if fw.ID == c.activeID {
			return fw, true
		}
	}
	return domain.Framework{}, false
}

// ActiveID returns the active framework id.
func (c *Controller) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// Screen returns the active screen.
func (c *Controller) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen
}

// Choose selects a framework, resets the quiz for it and switches to
// the quiz screen. Re-choosing the same framework restarts the quiz.
func (c *Controller) Choose(ctx context.Context, id string) {
	c.mu.Lock()
	c.activeID = id
	c.screen = ScreenQuiz
	c.mu.Unlock()

	c.logger.Info("Framework selected", zap.String("framework_id", id))
	c.quiz.Start(ctx, id)
	c.publishScreen(ScreenQuiz)
}

// ShowGraph switches to the graph screen. Used both for quiz completion
// and the early "skip to graph" exit, which is allowed from any quiz
// state.
func (c *Controller) ShowGraph() {
	c.mu.Lock()
	c.screen = ScreenGraph
	c.mu.Unlock()
	c.publishScreen(ScreenGraph)
}

// BackToSelect returns to the framework selection screen.
func (c *Controller) BackToSelect() {
	c.mu.Lock()
	c.screen = ScreenSelect
	c.mu.Unlock()
	c.publishScreen(ScreenSelect)
}

func (c *Controller) publishScreen(s Screen) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(events.Event{Kind: events.KindScreenChanged, Payload: s})
}
