package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mirror-client/domain"
)

// gatedFetcher blocks every fetch until released, counting calls.
type gatedFetcher struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
	result  func() (*domain.GraphData, error)
}

func newGatedFetcher(result func() (*domain.GraphData, error)) *gatedFetcher {
	return &gatedFetcher{
		entered: make(chan struct{}, 8),
		release: make(chan struct{}),
		result:  result,
	}
}

func (f *gatedFetcher) GetGraph(ctx context.Context) (*domain.GraphData, error) {
	f.calls.Add(1)
	f.entered <- struct{}{}
	<-f.release
	return f.result()
}

func snapshotOf(n int) *domain.GraphData {
	nodes := make([]domain.GraphNode, n)
	for i := range nodes {
		nodes[i] = domain.GraphNode{ID: string(rune('a' + i)), Type: domain.NodeTypeQuestion}
	}
	return &domain.GraphData{Nodes: nodes, Edges: []domain.GraphEdge{}}
}

func TestGraphCache_StartsLoading(t *testing.T) {
	c := NewGraphCache(newGatedFetcher(nil), zap.NewNop())

	data, state, err := c.Read()

	assert.Nil(t, data)
	assert.Equal(t, StateLoading, state)
	assert.NoError(t, err)
}

func TestGraphCache_ConcurrentRefreshCollapses(t *testing.T) {
	fetcher := newGatedFetcher(func() (*domain.GraphData, error) { return snapshotOf(2), nil })
	c := NewGraphCache(fetcher, zap.NewNop())

	c.Refresh(context.Background())
	<-fetcher.entered

	// Second refresh while the first is still in flight must join it.
	c.Refresh(context.Background())
	c.Refresh(context.Background())
	close(fetcher.release)

	require.Eventually(t, func() bool {
		_, state, _ := c.Read()
		return state == StateReady
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, int32(1), fetcher.calls.Load())

	data, state, err := c.Read()
	require.NoError(t, err)
	assert.Equal(t, StateReady, state)
	// The snapshot is one fetch's result in full, never a merge.
	assert.Len(t, data.Nodes, 2)
}

func TestGraphCache_LastResponseReplacesWholesale(t *testing.T) {
	var current atomic.Int32
	current.Store(3)
	fetcher := newGatedFetcher(func() (*domain.GraphData, error) {
		return snapshotOf(int(current.Load())), nil
	})
	close(fetcher.release)
	c := NewGraphCache(fetcher, zap.NewNop())

	c.Refresh(context.Background())
	require.Eventually(t, func() bool {
		data, state, _ := c.Read()
		return state == StateReady && len(data.Nodes) == 3
	}, time.Second, 5*time.Millisecond)

	current.Store(1)
	c.Refresh(context.Background())
	require.Eventually(t, func() bool {
		data, _, _ := c.Read()
		return len(data.Nodes) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestGraphCache_FailedRefreshKeepsPriorSnapshot(t *testing.T) {
	var fail atomic.Bool
	fetcher := newGatedFetcher(func() (*domain.GraphData, error) {
		if fail.Load() {
			return nil, errors.New("backend down")
		}
		return snapshotOf(2), nil
	})
	close(fetcher.release)
	c := NewGraphCache(fetcher, zap.NewNop())

	c.Refresh(context.Background())
	require.Eventually(t, func() bool {
		_, state, _ := c.Read()
		return state == StateReady
	}, time.Second, 5*time.Millisecond)

	fail.Store(true)
	c.Refresh(context.Background())
	require.Eventually(t, func() bool {
		return fetcher.calls.Load() == 2
	}, time.Second, 5*time.Millisecond)

	data, state, _ := c.Read()
	assert.Equal(t, StateReady, state, "stale data stays visible, never a partial view")
	assert.Len(t, data.Nodes, 2)
}

func TestGraphCache_ErrorStateWithoutData(t *testing.T) {
	fetcher := newGatedFetcher(func() (*domain.GraphData, error) {
		return nil, errors.New("backend down")
	})
	close(fetcher.release)
	c := NewGraphCache(fetcher, zap.NewNop())

	c.Refresh(context.Background())
	require.Eventually(t, func() bool {
		_, state, _ := c.Read()
		return state == StateError
	}, time.Second, 5*time.Millisecond)

	data, _, err := c.Read()
	assert.Nil(t, data)
	assert.Error(t, err)
}

func TestGraphCache_SubscribersNotifiedOnSettle(t *testing.T) {
	fetcher := newGatedFetcher(func() (*domain.GraphData, error) { return snapshotOf(1), nil })
	close(fetcher.release)
	c := NewGraphCache(fetcher, zap.NewNop())

	var notified atomic.Int32
	unsubscribe := c.Subscribe(func() { notified.Add(1) })

	c.Refresh(context.Background())
	require.Eventually(t, func() bool { return notified.Load() == 1 }, time.Second, 5*time.Millisecond)

	unsubscribe()
	c.Refresh(context.Background())
	require.Eventually(t, func() bool { return fetcher.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), notified.Load())
}
