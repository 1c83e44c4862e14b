package fetcher

import "sync"

// PairAssets names the base and quote asset of a pair ticker.
type PairAssets struct {
	Base  string
	Quote string
}

// PairCache maps pair tickers to their assets. Entries are only ever added:
// the first mapping seen for a ticker is kept for the life of the cache.
type PairCache struct {
	mu    sync.RWMutex
	pairs map[string]PairAssets
}

// NewPairCache returns an empty cache.
func NewPairCache() *PairCache {
	return &PairCache{pairs: make(map[string]PairAssets)}
}

// Get returns the assets of ticker.
func (c *PairCache) Get(ticker string) (PairAssets, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	assets, ok := c.pairs[ticker]
	return assets, ok
}

// PutIfAbsent stores assets under ticker unless the ticker is already mapped.
// It reports whether the entry was added.
func (c *PairCache) PutIfAbsent(ticker string, assets PairAssets) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pairs[ticker]; ok {
		return false
	}
	c.pairs[ticker] = assets
	return true
}

// Len returns the number of mapped tickers.
func (c *PairCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pairs)
}
