// Package cache holds the revalidating single-slot cache for the graph
// snapshot. The graph is the only cached resource, so this is an
// arena-style slot with an in-flight guard, not a general memoization
// map.
package cache

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"mirror-client/domain"
)

// State describes what a consumer observes when reading the cache.
type State int

const (
	// StateLoading means no data has arrived yet.
	StateLoading State = iota
	// StateReady means a snapshot is present, possibly stale relative to
	// a very recent mutation until the next refresh resolves.
	StateReady
	// StateError means the last fetch failed and no data is available.
	StateError
)

// Fetcher produces a fresh graph snapshot. Satisfied by the gateway
// client.
type Fetcher interface {
	GetGraph(ctx context.Context) (*domain.GraphData, error)
}

// GraphCache caches the current graph under a fixed resource key. It is
// only ever updated by an explicit Refresh from a mutation site; there
// is no polling. Concurrent Refresh calls collapse into a single
// in-flight fetch, and the last successful response wholesale-replaces
// the prior snapshot.
type GraphCache struct {
	fetcher Fetcher
	logger  *zap.Logger

	mu          sync.Mutex
	snapshot    *domain.GraphData
	lastErr     error
	inflight    bool
	subscribers map[int]func()
	nextSubID   int
}

// NewGraphCache creates an empty cache. Call Refresh once on startup to
// populate it.
func NewGraphCache(fetcher Fetcher, logger *zap.Logger) *GraphCache {
	return &GraphCache{
		fetcher:     fetcher,
		logger:      logger,
		subscribers: make(map[int]func()),
	}
}

// Read returns the current snapshot and state. The returned snapshot
// must be treated as immutable.
func (c *GraphCache) Read() (*domain.GraphData, State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.snapshot != nil:
		return c.snapshot, StateReady, nil
	case c.lastErr != nil:
		return nil, StateError, c.lastErr
	default:
		return nil, StateLoading, nil
	}
}

// Refresh triggers a re-fetch in the background. If a fetch is already
// in flight the call joins it instead of starting a second one.
// Subscribers are notified once the fetch settles.
func (c *GraphCache) Refresh(ctx context.Context) {
	c.mu.Lock()
	if c.inflight {
		c.mu.Unlock()
		return
	}
	c.inflight = true
	c.mu.Unlock()

	go c.fetch(ctx)
}

func (c *GraphCache) fetch(ctx context.Context) {
	data, err := c.fetcher.GetGraph(ctx)

	c.mu.Lock()
	c.inflight = false
	if err != nil {
		// Keep any previous snapshot; consumers keep seeing the stale
		// data rather than a partial merge.
		c.lastErr = err
		c.logger.Warn("Graph refresh failed", zap.Error(err))
	} else {
		c.snapshot = data
		c.lastErr = nil
		c.logger.Debug("Graph snapshot replaced",
			zap.Int("nodes", len(data.Nodes)),
			zap.Int("edges", len(data.Edges)),
		)
	}
	subs := make([]func(), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Subscribe registers a callback invoked after every settled refresh.
// The returned function removes the subscription.
func (c *GraphCache) Subscribe(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}
