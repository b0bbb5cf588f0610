package data

import (
	"path/filepath"
	"sync"

	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

// MemoryCache implements DataCache using in-memory storage
type MemoryCache struct {
	cache map[string][]types.OHLCV
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: make(map[string][]types.OHLCV),
	}
}

// Get retrieves data from cache if available
func (c *MemoryCache) Get(key string) ([]types.OHLCV, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	data, ok := c.cache[key]
	return data, ok
}

// Set stores data in cache
func (c *MemoryCache) Set(key string, data []types.OHLCV) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.cache[key] = data
}

// Clear removes all cached data
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.cache = make(map[string][]types.OHLCV)
}

// Size returns the number of cached entries
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.cache)
}

// CachedProvider wraps another provider with an in-memory cache, keyed by
// the absolute source path. Useful when many strategies replay the same
// bar series.
type CachedProvider struct {
	provider DataProvider
	cache    DataCache
}

// NewCachedProvider wraps the given provider with a fresh memory cache
func NewCachedProvider(provider DataProvider) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    NewMemoryCache(),
	}
}

// GetName returns the name of the data provider
func (p *CachedProvider) GetName() string {
	return p.provider.GetName() + " (cached)"
}

// LoadData loads from cache when possible, falling through to the
// underlying provider
func (p *CachedProvider) LoadData(source string) ([]types.OHLCV, error) {
	key := source
	if abs, err := filepath.Abs(source); err == nil {
		key = abs
	}

	if data, ok := p.cache.Get(key); ok {
		return data, nil
	}

	data, err := p.provider.LoadData(source)
	if err != nil {
		return nil, err
	}

	p.cache.Set(key, data)
	return data, nil
}

// ValidateData delegates to the underlying provider
func (p *CachedProvider) ValidateData(data []types.OHLCV) error {
	return p.provider.ValidateData(data)
}
