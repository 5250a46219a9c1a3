package hass

import (
	"sync"
	"time"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
)

// SnapshotCache holds the last fetched live configuration for a TTL so
// repeated scans in a monitoring loop do not re-query the instance on
// every tick.
type SnapshotCache struct {
	mu        sync.RWMutex
	value     *models.LiveConfiguration
	expiresAt time.Time
	ttl       time.Duration
}

// NewSnapshotCache creates a cache; a non-positive TTL disables
// caching entirely.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{ttl: ttl}
}

// Get returns the cached configuration if it is still fresh.
func (c *SnapshotCache) Get() (*models.LiveConfiguration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.value == nil || time.Now().After(c.expiresAt) {
		return nil, false
	}
	return c.value, true
}

// Set stores a configuration. With caching disabled it is a no-op.
func (c *SnapshotCache) Set(live models.LiveConfiguration) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = &live
	c.expiresAt = time.Now().Add(c.ttl)
}

// Invalidate drops the cached value.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = nil
}
