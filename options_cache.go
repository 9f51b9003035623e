package settings

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// ProgramCache stores compiled expression programs keyed by expression.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

type ttlProgramCache struct {
	cache *ttlcache.Cache[string, any]
}

// NewProgramCache returns a ProgramCache whose entries expire after ttl. A
// non-positive ttl keeps entries forever.
func NewProgramCache(ttl time.Duration) ProgramCache {
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	return &ttlProgramCache{
		cache: ttlcache.New[string, any](ttlcache.WithTTL[string, any](ttl)),
	}
}

func (c *ttlProgramCache) Get(key string) (any, bool) {
	item := c.cache.Get(key)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

func (c *ttlProgramCache) Set(key string, value any) {
	c.cache.Set(key, value, ttlcache.DefaultTTL)
}
