package rates

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ordanov/datasvc/model"
)

var (
	refAsset = model.Asset{ID: "WAVES", Name: "Waves", Decimals: 8}
	assetA   = model.Asset{ID: "AAA", Name: "Asset A", Decimals: 8}
	assetB   = model.Asset{ID: "BBB", Name: "Asset B", Decimals: 6}
	assetC   = model.Asset{ID: "CCC", Name: "Asset C", Decimals: 2}
)

func rec(amount, price model.Asset, rate, volume string) model.VolumeAwareRateInfo {
	return model.VolumeAwareRateInfo{
		AmountAsset: amount,
		PriceAsset:  price,
		Rate:        decimal.RequireFromString(rate),
		VolumeWaves: decimal.RequireFromString(volume),
	}
}

func pairOf(amount, price model.Asset) model.AssetPair {
	return model.AssetPair{AmountAsset: amount, PriceAsset: price}
}

func TestLookupDirectHit(t *testing.T) {
	threshold := decimal.RequireFromString("1000")
	lookup := NewInfoLookup([]model.VolumeAwareRateInfo{
		rec(assetA, assetB, "3.5", "5000"),
	}, threshold, refAsset)

	got := lookup.Get(pairOf(assetA, assetB))
	if got == nil {
		t.Fatal("expected a direct hit")
	}
	if !got.Rate.Equal(decimal.RequireFromString("3.5")) {
		t.Errorf("rate: expected 3.5, got %s", got.Rate)
	}
}

func TestLookupReferencePairBypassesThreshold(t *testing.T) {
	// volume below threshold, but the pair involves the reference asset
	threshold := decimal.RequireFromString("1000")
	lookup := NewInfoLookup([]model.VolumeAwareRateInfo{
		rec(assetA, refAsset, "2", "1"),
	}, threshold, refAsset)

	if got := lookup.Get(pairOf(assetA, refAsset)); got == nil {
		t.Fatal("reference pair should be served regardless of volume")
	}
}

func TestLookupRejectsBelowThreshold(t *testing.T) {
	threshold := decimal.RequireFromString("1000")
	lookup := NewInfoLookup([]model.VolumeAwareRateInfo{
		rec(assetA, assetB, "3.5", "999.99"),
	}, threshold, refAsset)

	if got := lookup.Get(pairOf(assetA, assetB)); got != nil {
		t.Fatalf("expected absent result, got rate %s", got.Rate)
	}
}

func TestLookupTriangulation(t *testing.T) {
	threshold := decimal.RequireFromString("1000")
	lookup := NewInfoLookup([]model.VolumeAwareRateInfo{
		rec(assetA, refAsset, "2", "3000"),
		rec(assetB, refAsset, "4", "2000"),
	}, threshold, refAsset)

	got := lookup.Get(pairOf(assetA, assetB))
	if got == nil {
		t.Fatal("expected a triangulated rate")
	}
	if !got.Rate.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("rate: expected 0.5, got %s", got.Rate)
	}
	// derived volume is the smaller leg
	if !got.VolumeWaves.Equal(decimal.RequireFromString("2000")) {
		t.Errorf("volume: expected 2000, got %s", got.VolumeWaves)
	}
	if got.AmountAsset.ID != assetA.ID || got.PriceAsset.ID != assetB.ID {
		t.Errorf("pair: expected AAA/BBB, got %s/%s", got.AmountAsset.ID, got.PriceAsset.ID)
	}
}

func TestLookupTriangulationRejectsWeakLeg(t *testing.T) {
	threshold := decimal.RequireFromString("1000")
	lookup := NewInfoLookup([]model.VolumeAwareRateInfo{
		rec(assetA, refAsset, "2", "3000"),
		rec(assetB, refAsset, "4", "10"), // below threshold
	}, threshold, refAsset)

	if got := lookup.Get(pairOf(assetA, assetB)); got != nil {
		t.Fatalf("expected absent result, got rate %s", got.Rate)
	}
}

func TestLookupFlippedRecord(t *testing.T) {
	threshold := decimal.RequireFromString("1000")
	lookup := NewInfoLookup([]model.VolumeAwareRateInfo{
		rec(refAsset, assetA, "4", "3000"),
	}, threshold, refAsset)

	got := lookup.Get(pairOf(assetA, refAsset))
	if got == nil {
		t.Fatal("expected a hit through the flipped record")
	}
	if !got.Rate.Equal(decimal.RequireFromString("0.25")) {
		t.Errorf("rate: expected 0.25, got %s", got.Rate)
	}
}

func TestLookupTriangulationThroughFlippedLegs(t *testing.T) {
	threshold := decimal.RequireFromString("1000")
	lookup := NewInfoLookup([]model.VolumeAwareRateInfo{
		rec(refAsset, assetA, "0.5", "3000"), // A/ref = 2
		rec(assetB, refAsset, "4", "2000"),
	}, threshold, refAsset)

	got := lookup.Get(pairOf(assetA, assetB))
	if got == nil {
		t.Fatal("expected a triangulated rate")
	}
	if !got.Rate.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("rate: expected 0.5, got %s", got.Rate)
	}
}

func TestLookupUnknownPair(t *testing.T) {
	threshold := decimal.RequireFromString("1000")
	lookup := NewInfoLookup(nil, threshold, refAsset)

	if got := lookup.Get(pairOf(assetA, assetC)); got != nil {
		t.Fatal("expected absent result for unknown pair")
	}
}

func TestLookupDeterministic(t *testing.T) {
	threshold := decimal.RequireFromString("1000")
	records := []model.VolumeAwareRateInfo{
		rec(assetA, refAsset, "2", "3000"),
		rec(assetB, refAsset, "4", "2000"),
		rec(assetA, assetB, "0.7", "5000"),
	}
	lookup := NewInfoLookup(records, threshold, refAsset)

	first := lookup.Get(pairOf(assetA, assetB))
	for i := 0; i < 10; i++ {
		again := lookup.Get(pairOf(assetA, assetB))
		if again == nil || !again.Rate.Equal(first.Rate) {
			t.Fatal("identical inputs must yield identical answers")
		}
	}
}

func TestLookupFirstRecordWins(t *testing.T) {
	threshold := decimal.RequireFromString("1000")
	lookup := NewInfoLookup([]model.VolumeAwareRateInfo{
		rec(assetA, assetB, "1.5", "5000"), // fresh record, listed first
		rec(assetA, assetB, "9.9", "5000"), // stale cached duplicate
	}, threshold, refAsset)

	got := lookup.Get(pairOf(assetA, assetB))
	if got == nil {
		t.Fatal("expected a hit")
	}
	if !got.Rate.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("rate: expected first record to win, got %s", got.Rate)
	}
}
