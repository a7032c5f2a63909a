package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pantrywise/backend/internal/domain"
)

// cacheItem represents a single cached pricing result with expiration
type cacheItem struct {
	Result     *domain.RecipePricingResult
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache for public pricing results.
// Public results depend only on the candidate set, so a short TTL keeps
// anonymous recipe views from recomputing the same estimate.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache and starts its cleanup loop.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		data: make(map[string]cacheItem),
	}

	go c.cleanupExpired()

	return c
}

// Get retrieves a pricing result from the cache. Callers receive a deep
// copy; the cached value is never aliased out.
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.RecipePricingResult, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || time.Now().After(item.Expiration) {
		return nil, domain.ErrCacheMiss
	}

	return cloneResult(item.Result), nil
}

// Set stores a pricing result in the cache with TTL. The cache keeps its own
// deep copy so later mutations by the caller do not leak in.
func (c *MemoryCache) Set(ctx context.Context, key string, result *domain.RecipePricingResult, ttl time.Duration) error {
	if result == nil {
		return domain.ErrInvalidInput
	}

	stored := cloneResult(result)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		Result:     stored,
		Expiration: time.Now().Add(ttl),
	}

	return nil
}

// cloneResult deep-copies a pricing result, including the breakdown and
// per-store slices and the optional pointer fields inside candidates.
func cloneResult(r *domain.RecipePricingResult) *domain.RecipePricingResult {
	out := *r

	if r.Totals.PerStore != nil {
		out.Totals.PerStore = make([]domain.StoreTotal, len(r.Totals.PerStore))
		copy(out.Totals.PerStore, r.Totals.PerStore)
	}

	if r.Breakdown != nil {
		out.Breakdown = make([]domain.IngredientPricingBreakdown, len(r.Breakdown))
		for i, row := range r.Breakdown {
			out.Breakdown[i] = row
			out.Breakdown[i].Selected = cloneCandidate(row.Selected)
			if row.Alternatives != nil {
				alts := make([]domain.PriceCandidate, len(row.Alternatives))
				for j := range row.Alternatives {
					alts[j] = *cloneCandidate(&row.Alternatives[j])
				}
				out.Breakdown[i].Alternatives = alts
			}
		}
	}

	return &out
}

func cloneCandidate(c *domain.PriceCandidate) *domain.PriceCandidate {
	if c == nil {
		return nil
	}
	out := *c
	if c.DistanceKm != nil {
		v := *c.DistanceKm
		out.DistanceKm = &v
	}
	if c.QualityScore != nil {
		v := *c.QualityScore
		out.QualityScore = &v
	}
	if c.InStock != nil {
		v := *c.InStock
		out.InStock = &v
	}
	return &out
}

// Delete removes a pricing result from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired.
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || time.Now().After(item.Expiration) {
		return false, nil
	}

	return true, nil
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.Expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache.
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}
