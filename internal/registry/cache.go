package registry

import (
	"context"
	"slices"
	"sync"
	"time"

	"kitchen-allocation-api/internal/allocation"
	"kitchen-allocation-api/internal/models"
)

// CachedCooks keeps a snapshot of another registry's cook list for a TTL.
// Failed lookups are not cached. A zero TTL disables caching.
type CachedCooks struct {
	next allocation.CookRegistry
	ttl  time.Duration

	mu        sync.RWMutex
	cooks     []models.Cook
	expiresAt time.Time // zero means nothing cached
}

var _ allocation.CookRegistry = (*CachedCooks)(nil)

// now is a small indirection to allow test stubbing if needed.
var now = time.Now

func NewCachedCooks(next allocation.CookRegistry, ttl time.Duration) *CachedCooks {
	return &CachedCooks{next: next, ttl: ttl}
}

// AllCooks implements allocation.CookRegistry.
func (c *CachedCooks) AllCooks(ctx context.Context) ([]models.Cook, error) {
	if cooks, ok := c.get(); ok {
		return cooks, nil
	}

	cooks, err := c.next.AllCooks(ctx)
	if err != nil {
		return nil, err
	}
	if c.ttl > 0 {
		c.mu.Lock()
		c.cooks = slices.Clone(cooks)
		c.expiresAt = now().Add(c.ttl)
		c.mu.Unlock()
	}
	return cooks, nil
}

func (c *CachedCooks) get() ([]models.Cook, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.expiresAt.IsZero() || !now().Before(c.expiresAt) {
		return nil, false
	}
	return slices.Clone(c.cooks), true
}
