package fetcher

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairCacheFirstWriteWins(t *testing.T) {
	cache := NewPairCache()
	assert.True(t, cache.PutIfAbsent("adausd", PairAssets{Base: "ada", Quote: "usd"}))
	assert.False(t, cache.PutIfAbsent("adausd", PairAssets{Base: "x", Quote: "y"}))

	got, ok := cache.Get("adausd")
	assert.True(t, ok)
	assert.Equal(t, PairAssets{Base: "ada", Quote: "usd"}, got)

	_, ok = cache.Get("btcusd")
	assert.False(t, ok)
}

func TestPairCacheConcurrentAccess(t *testing.T) {
	cache := NewPairCache()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ticker := fmt.Sprintf("t%d", j)
				cache.PutIfAbsent(ticker, PairAssets{Base: fmt.Sprint(worker), Quote: "usd"})
				cache.Get(ticker)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 100, cache.Len())
}
