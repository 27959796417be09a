package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/sweet-shop/internal/domain"
)

const (
	catalogCacheKey = "catalog:active"
	catalogCacheTTL = 5 * time.Minute
)

// CatalogCache is a read-through cache for the active catalog listing,
// backed by Redis. All methods are nil-safe so the service degrades to
// direct repository reads when Redis is not configured.
type CatalogCache struct {
	client *redis.Client
}

// NewCatalogCache builds a cache on top of the shared Redis wrapper.
func NewCatalogCache(r *Redis) *CatalogCache {
	if r == nil || r.Client == nil {
		return &CatalogCache{}
	}
	return &CatalogCache{client: r.Client}
}

// Get returns the cached listing, or ok=false on miss or any Redis error.
func (c *CatalogCache) Get(ctx context.Context) ([]domain.Sweet, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var sweets []domain.Sweet
	if err := json.Unmarshal(raw, &sweets); err != nil {
		return nil, false
	}
	return sweets, true
}

// Set stores the listing with a short TTL. Failures are ignored; the cache
// is an optimization, not a source of truth.
func (c *CatalogCache) Set(ctx context.Context, sweets []domain.Sweet) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(sweets)
	if err != nil {
		return
	}
	c.client.Set(ctx, catalogCacheKey, raw, catalogCacheTTL)
}

// Invalidate drops the cached listing after any catalog mutation.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, catalogCacheKey)
}
