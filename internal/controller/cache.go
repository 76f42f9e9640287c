package controller

import (
	"sync"

	"actividades-cli/internal/model"
)

// activityCache holds the canonical list of one view. It has a single writer
// (the owning ActivityView) and is invalidated before every post-mutation refetch.
type activityCache struct {
	mu    sync.RWMutex
	list  []model.Activity
	valid bool
}

func (c *activityCache) Replace(list []model.Activity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = append([]model.Activity(nil), list...)
	c.valid = true
}

func (c *activityCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}

func (c *activityCache) Valid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.valid
}

// Snapshot returns a copy of the canonical list.
func (c *activityCache) Snapshot() []model.Activity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Activity(nil), c.list...)
}
