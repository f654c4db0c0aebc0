// Package selection owns the "currently selected graph element" and
// mediates delete requests against it.
package selection

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"mirror-client/domain"
)

// Deleter is the slice of the backend boundary the controller uses.
type Deleter interface {
	DeleteQuestion(ctx context.Context, id string) error
}

// Refresher invalidates the graph cache after a mutation.
type Refresher interface {
	Refresh(ctx context.Context)
}

// Controller holds the selected node and the two-step delete
// confirmation. The first Delete arms confirmation; the second within
// the same selection actually deletes. Any intervening Select or Clear
// disarms.
type Controller struct {
	deleter Deleter
	cache   Refresher
	logger  *zap.Logger

	mu       sync.Mutex
	selected *domain.SelectedNode
	armed    bool
}

// NewController creates a controller with nothing selected.
func NewController(deleter Deleter, cache Refresher, logger *zap.Logger) *Controller {
	return &Controller{deleter: deleter, cache: cache, logger: logger}
}

// Select replaces the current selection and disarms confirmation.
func (c *Controller) Select(node domain.SelectedNode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := node
	c.selected = &n
	c.armed = false
}

// Clear drops the selection and disarms confirmation.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
	c.armed = false
}

// Selected returns a copy of the current selection, or nil.
func (c *Controller) Selected() *domain.SelectedNode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return nil
	}
	n := *c.selected
	return &n
}

// Armed reports whether the next Delete will actually delete.
func (c *Controller) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armed
}

// Delete runs one step of the confirmation protocol. The first call
// arms and performs no network call. The second call issues the delete,
// refreshes the cache and clears the selection. On failure the
// selection and armed state are left unchanged and the error is
// returned; there is no automatic retry.
func (c *Controller) Delete(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.selected == nil {
		c.mu.Unlock()
		return false, nil
	}
	if !c.armed {
		c.armed = true
		c.mu.Unlock()
		return false, nil
	}
	id := c.selected.ID
	c.mu.Unlock()

	if err := c.deleter.DeleteQuestion(ctx, id); err != nil {
		c.logger.Warn("Delete failed", zap.String("node_id", id), zap.Error(err))
		return false, err
	}

	c.logger.Info("Question deleted", zap.String("node_id", id))
	c.cache.Refresh(ctx)

	c.mu.Lock()
	// The selection may have moved while the call was in flight; only
	// clear if it still points at the deleted node.
	if c.selected != nil && c.selected.ID == id {
		c.selected = nil
		c.armed = false
	}
	c.mu.Unlock()
	return true, nil
}
