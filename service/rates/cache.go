package rates

import (
	"sync"

	"github.com/ordanov/datasvc/model"
)

// CacheKey identifies a cache slot: a pair (by asset ids) scoped to a
// matcher. Only current (non-historical) rates are ever stored under a
// key; historical answers bypass the cache entirely.
type CacheKey struct {
	AmountAsset string
	PriceAsset  string
	Matcher     string
}

// KeyFor builds the cache key for a resolved pair at the given matcher.
func KeyFor(pair model.AssetPair, matcher string) CacheKey {
	return CacheKey{
		AmountAsset: pair.AmountAsset.ID,
		PriceAsset:  pair.PriceAsset.ID,
		Matcher:     matcher,
	}
}

// Cache interface describes the keyed store for previously computed
// rates. Implementations decide eviction; entries must stay valid at
// least across a single request.
type Cache interface {
	Has(key CacheKey) bool
	Get(key CacheKey) (model.VolumeAwareRateInfo, bool)
	Set(key CacheKey, value model.VolumeAwareRateInfo)
}

type memoryCache struct {
	lock    sync.RWMutex // rw lock guards entries
	entries map[CacheKey]model.VolumeAwareRateInfo
}

// NewCache returns an in-memory Cache keeping entries until process
// restart. All writes on the estimator path are set-if-absent, so
// concurrent duplicate writes of the same key are harmless.
func NewCache() Cache {
	return &memoryCache{
		entries: make(map[CacheKey]model.VolumeAwareRateInfo),
	}
}

// Has implements Cache.
func (c *memoryCache) Has(key CacheKey) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	_, ok := c.entries[key]
	return ok
}

// Get implements Cache.
func (c *memoryCache) Get(key CacheKey) (model.VolumeAwareRateInfo, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	v, ok := c.entries[key]
	return v, ok
}

// Set implements Cache.
func (c *memoryCache) Set(key CacheKey, value model.VolumeAwareRateInfo) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.entries[key] = value
}
