package data

import (
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// MemoryCache implements Cache with in-memory storage. Cached slices
// are copied on both set and get, so callers can never mutate shared
// state.
type MemoryCache struct {
	cache map[string][]types.Candle
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: make(map[string][]types.Candle),
	}
}

// Get retrieves candles from cache if available.
func (c *MemoryCache) Get(key string) ([]types.Candle, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	candles, exists := c.cache[key]
	if !exists {
		return nil, false
	}

	result := make([]types.Candle, len(candles))
	copy(result, candles)
	return result, true
}

// Set stores candles in cache.
func (c *MemoryCache) Set(key string, candles []types.Candle) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	cached := make([]types.Candle, len(candles))
	copy(cached, candles)
	c.cache[key] = cached
}

// Clear removes all cached entries.
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string][]types.Candle)
}

// Size returns the number of cached entries.
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// CachedProvider wraps another Provider with caching. Repeated window
// runs over the same source hit the cache instead of the file or API.
type CachedProvider struct {
	provider Provider
	cache    Cache
}

// NewCachedProvider creates a cached provider backed by a memory cache.
func NewCachedProvider(provider Provider) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    NewMemoryCache(),
	}
}

// NewCachedProviderWithCache creates a cached provider with a custom cache.
func NewCachedProviderWithCache(provider Provider, cache Cache) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    cache,
	}
}

// Name returns the name of the underlying provider with cache indication.
func (p *CachedProvider) Name() string {
	return "Cached " + p.provider.Name()
}

// LoadCandles loads candles, serving repeat requests from cache.
func (p *CachedProvider) LoadCandles(source string) ([]types.Candle, error) {
	if cached, exists := p.cache.Get(source); exists {
		return cached, nil
	}

	log.Debug().Str("source", filepath.Base(source)).Msg("loading historical data")
	candles, err := p.provider.LoadCandles(source)
	if err != nil {
		log.Error().Str("source", filepath.Base(source)).Err(err).Msg("failed to load data")
		return nil, err
	}

	p.cache.Set(source, candles)

	log.Info().Str("source", filepath.Base(source)).Int("records", len(candles)).
		Msg("loaded and cached historical data")
	return candles, nil
}

// ValidateCandles validates candles using the underlying provider.
func (p *CachedProvider) ValidateCandles(candles []types.Candle) error {
	return p.provider.ValidateCandles(candles)
}

// ClearCache clears all cached data.
func (p *CachedProvider) ClearCache() {
	p.cache.Clear()
}

// CacheSize returns the number of cached entries.
func (p *CachedProvider) CacheSize() int {
	return p.cache.Size()
}
