// Package state holds the session dataset. One successful load
// produces one Snapshot; reloads swap in a whole new Snapshot rather
// than patching the old one, so concurrent readers never observe a
// half-updated dataset.
package state

import (
	"sync"
	"time"

	"legisboard/internal/models"
)

// Snapshot is one immutable load of the dashboard data. Nothing
// mutates a Snapshot after it is stored.
type Snapshot struct {
	Raw       models.DashboardData
	Processed models.ProcessedData
	LoadedAt  time.Time
}

// Container owns the current Snapshot and the load status.
type Container struct {
	mu      sync.RWMutex
	snap    *Snapshot
	loading bool
	lastErr string
}

func NewContainer() *Container {
	return &Container{}
}

// Replace installs a new snapshot and clears any previous error.
func (c *Container) Replace(snap *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = snap
	c.loading = false
	c.lastErr = ""
}

// SetLoading flags a load in progress. The previous snapshot, if any,
// stays readable until Replace or SetError.
func (c *Container) SetLoading() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = true
}

// SetError records a failed load. The dataset is treated as absent
// from then on; views fail uniformly rather than rendering a partial
// dataset.
func (c *Container) SetError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
	c.loading = false
	c.lastErr = msg
}

// Snapshot returns the current snapshot, or nil when none is loaded.
func (c *Container) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Status reports whether a load is running and the last error message,
// empty when the last load succeeded.
func (c *Container) Status() (loading bool, lastErr string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading, c.lastErr
}

// Clear drops everything; used on teardown.
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
	c.loading = false
	c.lastErr = ""
}
