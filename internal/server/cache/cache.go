// Package cache holds upsert plans between the plan and execute calls of the
// HTTP API. Entries expire after a TTL using patrickmn/go-cache.
package cache

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/agentstation/apirunner/pkg/hubspot"
)

// Cache stores plans under generated ids.
type Cache struct {
	store *gocache.Cache
}

// New creates a new cache with the given TTL and cleanup interval.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// PutPlan stores plan and returns its new id.
func (c *Cache) PutPlan(plan hubspot.Plan) string {
	id := uuid.NewString()
	c.store.Set(planKey(id), plan, gocache.DefaultExpiration)
	return id
}

// Plan returns the plan stored under id.
func (c *Cache) Plan(id string) (hubspot.Plan, bool) {
	v, ok := c.store.Get(planKey(id))
	if !ok {
		return hubspot.Plan{}, false
	}
	plan, ok := v.(hubspot.Plan)
	return plan, ok
}

// TakePlan returns and removes the plan stored under id, so a plan is
// executed at most once.
func (c *Cache) TakePlan(id string) (hubspot.Plan, bool) {
	plan, ok := c.Plan(id)
	if ok {
		c.store.Delete(planKey(id))
	}
	return plan, ok
}

// Clear removes all items from the cache.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of items in the cache.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}

// Stats returns cache statistics.
type Stats struct {
	ItemCount int `json:"item_count"`
}

// GetStats returns current cache statistics.
func (c *Cache) GetStats() Stats {
	return Stats{
		ItemCount: c.store.ItemCount(),
	}
}

func planKey(id string) string {
	return "plan:" + id
}
