package itinerary

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// PlaceCache memoizes place details by place id. Implementations must be safe
// for concurrent use. A failing backend behaves like a miss.
type PlaceCache interface {
	Get(ctx context.Context, placeID string) (*PlaceRecord, bool)
	Set(ctx context.Context, rec *PlaceRecord)
}

// MemoryCache is an in-process PlaceCache. A zero TTL keeps entries for the
// life of the process.
type MemoryCache struct {
	c *cache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		return &MemoryCache{c: cache.New(cache.NoExpiration, 0)}
	}
	return &MemoryCache{c: cache.New(ttl, ttl)}
}

func (m *MemoryCache) Get(_ context.Context, placeID string) (*PlaceRecord, bool) {
	v, ok := m.c.Get(placeID)
	if !ok {
		return nil, false
	}
	rec, ok := v.(*PlaceRecord)
	return rec, ok
}

func (m *MemoryCache) Set(_ context.Context, rec *PlaceRecord) {
	if rec == nil || rec.PlaceID == "" {
		return
	}
	m.c.Set(rec.PlaceID, rec, cache.DefaultExpiration)
}

// Len reports the number of cached entries, expired ones included until the
// next cleanup.
func (m *MemoryCache) Len() int { return m.c.ItemCount() }
