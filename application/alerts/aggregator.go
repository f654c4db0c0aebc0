// Package alerts accumulates consistency-check results for the alerts
// panel.
package alerts

import (
	"sync"

	"mirror-client/domain"
)

// Aggregator keeps a running, prepend-ordered list of consistency
// results: the most recent batch comes first, and each batch keeps its
// internal order. There is no de-duplication, no size cap and no
// persistence; the list is process-local UI state that resets on a full
// restart.
type Aggregator struct {
	mu      sync.RWMutex
	results []domain.ConsistencyResult
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Append prepends a new batch to the front of the running list.
func (a *Aggregator) Append(batch []domain.ConsistencyResult) {
	if len(batch) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	merged := make([]domain.ConsistencyResult, 0, len(batch)+len(a.results))
	merged = append(merged, batch...)
	merged = append(merged, a.results...)
	a.results = merged
}

// Results returns a copy of the running list, most recent batch first.
func (a *Aggregator) Results() []domain.ConsistencyResult {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]domain.ConsistencyResult, len(a.results))
	copy(out, a.results)
	return out
}

// Len returns the number of accumulated results.
func (a *Aggregator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.results)
}
