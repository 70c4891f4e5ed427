// Package infrastructure adapts github.com/wyfcoding/pkg/cache's RedisCache
// to the application.ResultCache interface.
package infrastructure

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	pkgcache "github.com/wyfcoding/pkg/cache"
)

// priceTTL bounds how long a computed price is reused for an identical
// request before the kernel is asked to recompute it.
const priceTTL = 10 * time.Minute

// ResultCache adapts a pkgcache.Cache to application.ResultCache.
type ResultCache struct {
	cache pkgcache.Cache
}

// NewResultCache wraps an already-constructed cache client.
func NewResultCache(cache pkgcache.Cache) *ResultCache {
	return &ResultCache{cache: cache}
}

// Get returns the cached price for key, if present and unexpired.
func (r *ResultCache) Get(ctx context.Context, key string) (decimal.Decimal, bool) {
	var stored string
	if err := r.cache.Get(ctx, key, &stored); err != nil {
		return decimal.Zero, false
	}
	price, err := decimal.NewFromString(stored)
	if err != nil {
		return decimal.Zero, false
	}
	return price, true
}

// Set caches price under key for priceTTL.
func (r *ResultCache) Set(ctx context.Context, key string, price decimal.Decimal) {
	_ = r.cache.Set(ctx, key, price.String(), priceTTL)
}
