package rates

import (
	"github.com/ordanov/datasvc/model"
)

// partitionByCached splits the requested pairs into rates already
// satisfiable from the cache and pairs that still need a remote fetch.
// Historical requests (useCache false) never read the cache, so every
// pair lands in toBeRequested. Duplicate pairs are preserved: each
// occurrence keeps its own slot downstream.
func partitionByCached(
	cache Cache,
	pairs []model.AssetPair,
	matcher string,
	useCache bool,
) (preComputed []model.VolumeAwareRateInfo, toBeRequested []model.AssetPair) {
	for _, pair := range pairs {
		if useCache {
			if cached, ok := cache.Get(KeyFor(pair, matcher)); ok {
				preComputed = append(preComputed, cached)
				continue
			}
		}
		toBeRequested = append(toBeRequested, pair)
	}
	return preComputed, toBeRequested
}
