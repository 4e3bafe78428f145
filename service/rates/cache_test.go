package rates

import (
	"testing"

	"github.com/ordanov/datasvc/model"
)

func TestCacheRoundTrip(t *testing.T) {
	cache := NewCache()
	key := KeyFor(pairOf(assetA, assetB), "matcher-1")

	if cache.Has(key) {
		t.Fatal("empty cache should not report the key")
	}
	if _, ok := cache.Get(key); ok {
		t.Fatal("empty cache should not return a value")
	}

	want := rec(assetA, assetB, "3.5", "5000")
	cache.Set(key, want)

	if !cache.Has(key) {
		t.Fatal("key should be present after Set")
	}
	got, ok := cache.Get(key)
	if !ok || !got.Rate.Equal(want.Rate) {
		t.Fatalf("unexpected cached value: %+v", got)
	}
}

func TestCacheKeysScopedByMatcher(t *testing.T) {
	cache := NewCache()
	cache.Set(KeyFor(pairOf(assetA, assetB), "matcher-1"), rec(assetA, assetB, "1", "1"))

	if cache.Has(KeyFor(pairOf(assetA, assetB), "matcher-2")) {
		t.Fatal("same pair under another matcher must be a distinct slot")
	}
}

func TestCacheKeysSensitiveToOrdering(t *testing.T) {
	cache := NewCache()
	cache.Set(KeyFor(pairOf(assetA, assetB), "m"), rec(assetA, assetB, "1", "1"))

	if cache.Has(KeyFor(pairOf(assetB, assetA), "m")) {
		t.Fatal("flipped pair must be a distinct slot")
	}
}

func TestPartitionByCached(t *testing.T) {
	cache := NewCache()
	cache.Set(KeyFor(pairOf(assetA, assetB), "m"), rec(assetA, assetB, "2", "100"))

	pairs := []model.AssetPair{
		pairOf(assetA, assetB),
		pairOf(assetA, assetC),
		pairOf(assetA, assetB), // duplicate of a cached pair
	}

	pre, toRequest := partitionByCached(cache, pairs, "m", true)
	if len(pre) != 2 {
		t.Errorf("preComputed: expected 2 entries, got %d", len(pre))
	}
	if len(toRequest) != 1 {
		t.Errorf("toBeRequested: expected 1 entry, got %d", len(toRequest))
	}
	if toRequest[0].PriceAsset.ID != assetC.ID {
		t.Errorf("unexpected pair to be requested: %+v", toRequest[0])
	}
}

func TestPartitionHistoricalSkipsCache(t *testing.T) {
	cache := NewCache()
	cache.Set(KeyFor(pairOf(assetA, assetB), "m"), rec(assetA, assetB, "2", "100"))

	pre, toRequest := partitionByCached(cache, []model.AssetPair{pairOf(assetA, assetB)}, "m", false)
	if len(pre) != 0 {
		t.Errorf("historical requests must not read the cache, got %d entries", len(pre))
	}
	if len(toRequest) != 1 {
		t.Errorf("expected every pair to be requested, got %d", len(toRequest))
	}
}
