package source

import (
	"context"
	"sync"

	"depthScope/internal/model"
)

// CoinCache memoises coin metadata lookups of the wrapped source.
type CoinCache struct {
	Source

	mu   sync.RWMutex
	data map[string]model.CoinMeta
}

// WithCoinCache wraps src with a coin metadata cache.
func WithCoinCache(src Source) *CoinCache {
	return &CoinCache{Source: src, data: make(map[string]model.CoinMeta)}
}

// Get returns cached metadata for coinType.
func (c *CoinCache) Get(coinType string) (model.CoinMeta, bool) {
	c.mu.RLock()
	meta, ok := c.data[coinType]
	c.mu.RUnlock()
	return meta, ok
}

// Set stores metadata for coinType.
func (c *CoinCache) Set(coinType string, meta model.CoinMeta) {
	c.mu.Lock()
	c.data[coinType] = meta
	c.mu.Unlock()
}

// FetchCoinMeta serves from cache and falls through to the source on a miss.
// Failed lookups are not cached.
func (c *CoinCache) FetchCoinMeta(ctx context.Context, coinType string) (model.CoinMeta, error) {
	if meta, ok := c.Get(coinType); ok {
		return meta, nil
	}
	meta, err := c.Source.FetchCoinMeta(ctx, coinType)
	if err != nil {
		return model.CoinMeta{}, err
	}
	c.Set(coinType, meta)
	return meta, nil
}
